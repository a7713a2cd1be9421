package inventory

import (
	"context"
	"sort"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/pkg/errors"
)

const resourceLoan = "loan"

type LoanState string

const (
	LoansAll      LoanState = ""
	LoansActive   LoanState = "active"
	LoansReturned LoanState = "returned"
)

type LoanFilter struct {
	State  LoanState
	Search string
	UserID model.ID
	Page   int
	Size   int
}

type LoanRow struct {
	model.Loan
	UserName       string `json:"userName"`
	InstrumentType string `json:"instrumentType"`
}

func (s *Service) ListLoans(ctx context.Context, f LoanFilter) (model.List[LoanRow], error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return model.List[LoanRow]{}, err
	}
	users := make(map[model.ID]string, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = u.FullName()
	}
	types := make(map[string]string, len(snap.Instruments))
	for _, in := range snap.Instruments {
		types[in.Serial.String()] = in.TypeID
	}

	rows := make([]LoanRow, 0, len(snap.Loans))
	for _, l := range snap.Loans {
		switch f.State {
		case LoansActive:
			if !l.Active() {
				continue
			}
		case LoansReturned:
			if l.Active() {
				continue
			}
		}
		if f.UserID != 0 && l.UserID != f.UserID {
			continue
		}
		row := LoanRow{Loan: l, UserName: users[l.UserID], InstrumentType: types[l.Serial.String()]}
		if !model.ContainsFold(f.Search, l.Serial.String(), row.UserName, row.InstrumentType) {
			continue
		}
		rows = append(rows, row)
	}
	// Active loans first, then most recent.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Active() != rows[j].Active() {
			return rows[i].Active()
		}
		return rows[i].LoanDate > rows[j].LoanDate
	})
	return model.Paginate(rows, f.Page, f.Size), nil
}

// Lend loans an available instrument to a user.
func (s *Service) Lend(ctx context.Context, serial model.Serial, userID model.ID) error {
	if userID == 0 {
		return errs.NoUserSelected()
	}
	instruments, loans, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	inst, ok := findInstrument(instruments, serial)
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "instrument %s", serial)
	}
	if _, busy := ActiveLoan(loans, serial); busy || inst.Status != model.InstrumentAvailable {
		return errs.Validation("num_serie", "instrument is not available", "instruments.notAvailable")
	}
	if err := s.api.CreateLoan(ctx, model.Loan{Serial: serial, UserID: userID, LoanDate: s.today()}); err != nil {
		return errors.Wrap(err, "create loan")
	}
	inst.Status = model.InstrumentLoaned
	if err := s.api.UpdateInstrument(ctx, inst); err != nil {
		return s.partial(ctx, "lend", serial, errors.Wrap(err, "mark instrument loaned"))
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceLoan, Action: "create", Key: loanKey(serial, userID)})
	return nil
}

// Return closes the active loan of (serial, user) with today's date and makes
// the instrument available again.
func (s *Service) Return(ctx context.Context, serial model.Serial, userID model.ID) error {
	instruments, loans, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	var (
		loan  model.Loan
		found bool
	)
	for _, l := range loans {
		if l.Serial.String() == serial.String() && l.UserID == userID && l.Active() {
			loan, found = l, true
			break
		}
	}
	if !found {
		return errors.Wrapf(errs.ErrNoActiveLoan, "%s/%d", serial, userID)
	}
	loan.ReturnDate = s.today()
	if err := s.api.UpdateLoan(ctx, loan); err != nil {
		return errors.Wrap(err, "close loan")
	}
	if inst, ok := findInstrument(instruments, serial); ok && inst.Status == model.InstrumentLoaned {
		inst.Status = model.InstrumentAvailable
		if err := s.api.UpdateInstrument(ctx, inst); err != nil {
			return s.partial(ctx, "return", serial, errors.Wrap(err, "mark instrument available"))
		}
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceLoan, Action: "return", Key: loanKey(serial, userID)})
	return nil
}

// DeleteLoan removes a loan record. Deleting an active loan also frees the
// instrument.
func (s *Service) DeleteLoan(ctx context.Context, serial model.Serial, userID model.ID) error {
	instruments, loans, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	wasActive := false
	for _, l := range loans {
		if l.Serial.String() == serial.String() && l.UserID == userID && l.Active() {
			wasActive = true
			break
		}
	}
	if err := s.api.DeleteLoan(ctx, serial, userID); err != nil {
		return errors.Wrap(err, "delete loan")
	}
	if wasActive {
		if inst, ok := findInstrument(instruments, serial); ok && inst.Status == model.InstrumentLoaned {
			inst.Status = model.InstrumentAvailable
			if err := s.api.UpdateInstrument(ctx, inst); err != nil {
				return s.partial(ctx, "delete-loan", serial, errors.Wrap(err, "mark instrument available"))
			}
		}
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceLoan, Action: "delete", Key: loanKey(serial, userID)})
	return nil
}

func loanKey(serial model.Serial, userID model.ID) string {
	return serial.String() + "/" + userID.String()
}
