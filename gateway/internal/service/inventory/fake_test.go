package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
)

type fakeBackend struct {
	mu          sync.Mutex
	instruments []model.Instrument
	types       map[string]int
	loans       []model.Loan
	users       []model.User
	calls       []string
	failOn      map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{types: map[string]int{}, failOn: map[string]error{}}
}

func (f *fakeBackend) call(name string) error {
	f.calls = append(f.calls, name)
	return f.failOn[name]
}

func (f *fakeBackend) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		if len(c) >= 4 && c[:4] == "list" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (f *fakeBackend) ListInstruments(context.Context) ([]model.Instrument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("list instruments"); err != nil {
		return nil, err
	}
	return append([]model.Instrument(nil), f.instruments...), nil
}

func (f *fakeBackend) CreateInstrument(_ context.Context, in model.Instrument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("create instrument %s %s", in.Serial, in.Status)); err != nil {
		return err
	}
	f.instruments = append(f.instruments, in)
	return nil
}

func (f *fakeBackend) UpdateInstrument(_ context.Context, in model.Instrument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("update instrument %s %s %s", in.Serial, in.TypeID, in.Status)); err != nil {
		return err
	}
	for i := range f.instruments {
		if f.instruments[i].Serial == in.Serial {
			f.instruments[i] = in
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeBackend) DeleteInstrument(_ context.Context, serial model.Serial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("delete instrument %s", serial)); err != nil {
		return err
	}
	for i := range f.instruments {
		if f.instruments[i].Serial == serial {
			f.instruments = append(f.instruments[:i], f.instruments[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeBackend) ListInstrumentTypes(context.Context) ([]model.InstrumentType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("list types"); err != nil {
		return nil, err
	}
	out := make([]model.InstrumentType, 0, len(f.types))
	for id, q := range f.types {
		out = append(out, model.InstrumentType{ID: id, Quantity: q})
	}
	return out, nil
}

func (f *fakeBackend) CreateInstrumentType(_ context.Context, in model.InstrumentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("create type " + in.ID); err != nil {
		return err
	}
	f.types[in.ID] = in.Quantity
	return nil
}

func (f *fakeBackend) UpdateInstrumentType(_ context.Context, in model.InstrumentType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("update type %s %d", in.ID, in.Quantity)); err != nil {
		return err
	}
	f.types[in.ID] = in.Quantity
	return nil
}

func (f *fakeBackend) DeleteInstrumentType(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("delete type " + id); err != nil {
		return err
	}
	delete(f.types, id)
	return nil
}

func (f *fakeBackend) AdjustTypeQuantity(_ context.Context, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("adjust type %s %+d", id, delta)); err != nil {
		return err
	}
	f.types[id] += delta
	return nil
}

func (f *fakeBackend) ListLoans(context.Context) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("list loans"); err != nil {
		return nil, err
	}
	return append([]model.Loan(nil), f.loans...), nil
}

func (f *fakeBackend) CreateLoan(_ context.Context, in model.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("create loan %s %d %s", in.Serial, in.UserID, in.LoanDate)); err != nil {
		return err
	}
	f.loans = append(f.loans, in)
	return nil
}

func (f *fakeBackend) UpdateLoan(_ context.Context, in model.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("update loan %s %d return=%s", in.Serial, in.UserID, in.ReturnDate)); err != nil {
		return err
	}
	for i := range f.loans {
		if f.loans[i].Serial == in.Serial && f.loans[i].UserID == in.UserID && f.loans[i].Active() {
			f.loans[i] = in
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeBackend) DeleteLoan(_ context.Context, serial model.Serial, userID model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(fmt.Sprintf("delete loan %s %d", serial, userID)); err != nil {
		return err
	}
	for i := range f.loans {
		if f.loans[i].Serial == serial && f.loans[i].UserID == userID {
			f.loans = append(f.loans[:i], f.loans[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeBackend) ListUsers(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("list users"); err != nil {
		return nil, err
	}
	return append([]model.User(nil), f.users...), nil
}

type recorder struct {
	mu        sync.Mutex
	mutations []service.Mutation
}

func (r *recorder) Record(_ context.Context, m service.Mutation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, m)
}
