package inventory

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const today = "2024-05-10"

func newTestService(f *fakeBackend) (*Service, *recorder) {
	rec := &recorder{}
	s := NewService(zap.NewNop(), f, rec)
	s.now = func() time.Time { return time.Date(2024, 5, 10, 9, 30, 0, 0, time.Local) }
	return s, rec
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      model.InstrumentInput
		wantWrites []string
		wantErr    bool
	}{
		{
			name:  "available",
			input: model.InstrumentInput{Serial: "TR-1", TypeID: "Trompeta", Status: model.InstrumentAvailable},
			wantWrites: []string{
				"create instrument TR-1 disponible",
				"adjust type Trompeta +1",
			},
		},
		{
			name:  "loaned with user",
			input: model.InstrumentInput{Serial: "TR-1", TypeID: "Trompeta", Status: model.InstrumentLoaned, UserID: 7},
			wantWrites: []string{
				"create instrument TR-1 disponible",
				"adjust type Trompeta +1",
				"create loan TR-1 7 " + today,
				"update instrument TR-1 Trompeta prestado",
			},
		},
		{
			name:    "loaned without user is blocked",
			input:   model.InstrumentInput{Serial: "TR-1", TypeID: "Trompeta", Status: model.InstrumentLoaned},
			wantErr: true,
		},
		{
			name:  "user chosen but not loaned",
			input: model.InstrumentInput{Serial: "TR-1", TypeID: "Trompeta", Status: model.InstrumentRepair, UserID: 7},
			wantWrites: []string{
				"create instrument TR-1 reparacion",
				"adjust type Trompeta +1",
			},
		},
		{
			name:    "missing type",
			input:   model.InstrumentInput{Serial: "TR-1", Status: model.InstrumentAvailable},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeBackend()
			s, _ := newTestService(f)

			err := s.Create(context.Background(), tt.input)
			if tt.wantErr {
				require.True(t, errs.IsValidation(err))
				require.Empty(t, f.writes())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantWrites, f.writes())
		})
	}
}

func TestService_Create_NoRollback(t *testing.T) {
	f := newFakeBackend()
	boom := errors.New("boom")
	f.failOn["update instrument TR-1 Trompeta prestado"] = boom
	s, rec := newTestService(f)

	err := s.Create(context.Background(), model.InstrumentInput{Serial: "TR-1", TypeID: "Trompeta", Status: model.InstrumentLoaned, UserID: 7})
	require.ErrorIs(t, err, boom)

	// The instrument, the counter and the loan all stay behind.
	require.Len(t, f.instruments, 1)
	require.Equal(t, model.InstrumentAvailable, f.instruments[0].Status)
	require.Equal(t, 1, f.types["Trompeta"])
	require.Len(t, f.loans, 1)
	require.Len(t, rec.mutations, 1)
	require.True(t, rec.mutations[0].Partial)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Contains(t, snap.Warnings, "instrument TR-1 is disponible but has an active loan")
}

func seeded() *fakeBackend {
	f := newFakeBackend()
	f.instruments = []model.Instrument{
		{Serial: "100", TypeID: "Clarinete", Status: model.InstrumentLoaned},
		{Serial: "200", TypeID: "Clarinete", Status: model.InstrumentAvailable},
		{Serial: "1000", TypeID: "Tuba", Status: model.InstrumentRepair},
	}
	f.types = map[string]int{"Clarinete": 2, "Tuba": 1}
	f.loans = []model.Loan{
		{Serial: "100", UserID: 1, LoanDate: "2023-01-01", ReturnDate: "2023-02-01"},
		{Serial: "100", UserID: 2, LoanDate: "2024-01-01"},
		{Serial: "1000", UserID: 3, LoanDate: "2023-03-01", ReturnDate: "2023-04-01"},
	}
	f.users = []model.User{
		{ID: 1, Name: "Ana", Surname1: "Ruiz"},
		{ID: 2, Name: "Luis", Surname1: "Gil"},
		{ID: 3, Name: "Eva", Surname1: "Mora"},
	}
	return f
}

func TestService_Edit(t *testing.T) {
	tests := []struct {
		name       string
		serial     model.Serial
		input      model.InstrumentInput
		wantWrites []string
	}{
		{
			name:       "plain update",
			serial:     "200",
			input:      model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentRepair},
			wantWrites: []string{"update instrument 200 Clarinete reparacion"},
		},
		{
			name:   "type change",
			serial: "200",
			input:  model.InstrumentInput{TypeID: "Tuba", Status: model.InstrumentAvailable},
			wantWrites: []string{
				"update instrument 200 Tuba disponible",
				"adjust type Clarinete -1",
				"adjust type Tuba +1",
			},
		},
		{
			name:   "available to loaned",
			serial: "200",
			input:  model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentLoaned, UserID: 3},
			wantWrites: []string{
				"create loan 200 3 " + today,
				"update instrument 200 Clarinete prestado",
			},
		},
		{
			name:   "loaned to available closes active loan",
			serial: "100",
			input:  model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentAvailable},
			wantWrites: []string{
				"update loan 100 2 return=" + today,
				"update instrument 100 Clarinete disponible",
			},
		},
		{
			name:   "loaned to another user",
			serial: "100",
			input:  model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentLoaned, UserID: 1},
			wantWrites: []string{
				"update loan 100 2 return=" + today,
				"create loan 100 1 " + today,
				"update instrument 100 Clarinete prestado",
			},
		},
		{
			name:       "loaned to same user",
			serial:     "100",
			input:      model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentLoaned, UserID: 2},
			wantWrites: []string{"update instrument 100 Clarinete prestado"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := seeded()
			s, rec := newTestService(f)

			require.NoError(t, s.Edit(context.Background(), tt.serial, tt.input))
			require.Equal(t, tt.wantWrites, f.writes())
			require.Len(t, rec.mutations, 1)
			require.False(t, rec.mutations[0].Partial)
		})
	}
}

func TestService_Edit_Rejected(t *testing.T) {
	f := seeded()
	s, _ := newTestService(f)
	ctx := context.Background()

	err := s.Edit(ctx, "200", model.InstrumentInput{Serial: "201", TypeID: "Clarinete", Status: model.InstrumentAvailable})
	require.True(t, errs.IsValidation(err))
	require.ErrorIs(t, err, errs.ErrSerialImmutable)

	err = s.Edit(ctx, "200", model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentLoaned})
	require.True(t, errs.IsValidation(err))
	require.ErrorIs(t, err, errs.ErrNoUserSelected)
	require.Equal(t, http.StatusBadRequest, errs.HTTPStatus(err))

	err = s.Edit(ctx, "999", model.InstrumentInput{TypeID: "Clarinete", Status: model.InstrumentAvailable})
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.Empty(t, f.writes())
}

func TestService_Delete(t *testing.T) {
	f := seeded()
	// A second active loan on the same serial and a numeric-looking serial
	// that only matches as a prefix.
	f.loans = append(f.loans,
		model.Loan{Serial: "100", UserID: 3, LoanDate: "2024-02-01"},
		model.Loan{Serial: "1000", UserID: 1, LoanDate: "2024-03-01"},
	)
	s, _ := newTestService(f)

	require.NoError(t, s.Delete(context.Background(), "100"))
	require.Equal(t, []string{
		"delete loan 100 2",
		"delete loan 100 3",
		"delete instrument 100",
		"adjust type Clarinete -1",
	}, f.writes())

	for _, l := range f.loans {
		if l.Serial == "100" {
			assert.False(t, l.Active())
		}
	}
	assert.Len(t, f.loans, 3)
	assert.Equal(t, 1, f.types["Clarinete"])

	err := s.Delete(context.Background(), "100")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestActiveLoan_FirstMatch(t *testing.T) {
	loans := []model.Loan{
		{Serial: "7", UserID: 1, ReturnDate: "2024-01-01"},
		{Serial: "7", UserID: 2},
		{Serial: "7", UserID: 3},
	}
	l, ok := ActiveLoan(loans, "7")
	require.True(t, ok)
	require.Equal(t, model.ID(2), l.UserID)

	_, ok = ActiveLoan(loans, "8")
	require.False(t, ok)
}

func TestCheckConsistency(t *testing.T) {
	f := seeded()
	f.types["Clarinete"] = 5
	f.instruments[1].Status = model.InstrumentLoaned

	warnings := CheckConsistency(f.instruments, []model.InstrumentType{{ID: "Clarinete", Quantity: 5}, {ID: "Tuba", Quantity: 1}}, f.loans)
	require.Equal(t, []string{
		"instrument 200 is loaned but has no active loan",
		"type Clarinete quantity is 5 but 2 instruments exist",
	}, warnings)

	require.Empty(t, CheckConsistency(seeded().instruments, []model.InstrumentType{{ID: "Clarinete", Quantity: 2}, {ID: "Tuba", Quantity: 1}}, seeded().loans))
}

func TestService_Loans(t *testing.T) {
	f := seeded()
	s, _ := newTestService(f)
	ctx := context.Background()

	active, err := s.ListLoans(ctx, LoanFilter{State: LoansActive})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	require.Equal(t, "Luis Gil", active.Items[0].UserName)
	require.Equal(t, "Clarinete", active.Items[0].InstrumentType)

	err = s.Lend(ctx, "100", 1)
	require.True(t, errs.IsValidation(err))

	require.NoError(t, s.Lend(ctx, "200", 1))
	require.NoError(t, s.Return(ctx, "100", 2))
	require.ErrorIs(t, s.Return(ctx, "100", 2), errs.ErrNoActiveLoan)

	require.Equal(t, []string{
		"create loan 200 1 " + today,
		"update instrument 200 Clarinete prestado",
		"update loan 100 2 return=" + today,
		"update instrument 100 Clarinete disponible",
	}, f.writes())

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.Warnings)
}

func TestService_ListInstruments(t *testing.T) {
	s, _ := newTestService(seeded())

	list, warnings, err := s.ListInstruments(context.Background(), InstrumentFilter{Search: "luis"})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, list.Items, 1)
	require.Equal(t, model.Serial("100"), list.Items[0].Serial)
	require.NotNil(t, list.Items[0].Borrower)

	list, _, err = s.ListInstruments(context.Background(), InstrumentFilter{TypeID: "Clarinete", Size: 1, Page: 2})
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalElements)
	require.Equal(t, model.Serial("200"), list.Items[0].Serial)
}
