package inventory

import (
	"context"
	"sort"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const resourceInstrument = "instrument"

type InstrumentFilter struct {
	Search string
	Status model.InstrumentStatus
	TypeID string
	Page   int
	Size   int
}

// InstrumentRow is an instrument with its current borrower, if any.
type InstrumentRow struct {
	model.Instrument
	Borrower   *model.User `json:"borrower,omitempty"`
	LoanedFrom string      `json:"loanedFrom,omitempty"`
}

func (s *Service) ListInstruments(ctx context.Context, f InstrumentFilter) (model.List[InstrumentRow], []string, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return model.List[InstrumentRow]{}, nil, err
	}
	users := make(map[model.ID]model.User, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = u
	}

	rows := make([]InstrumentRow, 0, len(snap.Instruments))
	for _, in := range snap.Instruments {
		if f.Status != "" && in.Status != f.Status {
			continue
		}
		if f.TypeID != "" && in.TypeID != f.TypeID {
			continue
		}
		row := InstrumentRow{Instrument: in}
		var borrowerName string
		if l, ok := ActiveLoan(snap.Loans, in.Serial); ok {
			row.LoanedFrom = l.LoanDate
			if u, ok := users[l.UserID]; ok {
				u := u
				row.Borrower = &u
				borrowerName = u.FullName()
			}
		}
		if !model.ContainsFold(f.Search, in.Serial.String(), in.TypeID, string(in.Status), borrowerName) {
			continue
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Serial < rows[j].Serial })
	return model.Paginate(rows, f.Page, f.Size), snap.Warnings, nil
}

func (s *Service) checkInput(in model.InstrumentInput) error {
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("instrument", err.Error(), "validation.required")
	}
	if in.Status == model.InstrumentLoaned && in.UserID == 0 {
		return errs.NoUserSelected()
	}
	return nil
}

// Create registers a new instrument. A loaned instrument is first created
// available and then loaned; steps already done are kept if a later one fails.
func (s *Service) Create(ctx context.Context, in model.InstrumentInput) error {
	if err := s.checkInput(in); err != nil {
		return err
	}
	loan := in.Status == model.InstrumentLoaned && in.UserID != 0

	inst := model.Instrument{Serial: in.Serial, TypeID: in.TypeID, Status: in.Status}
	if loan {
		inst.Status = model.InstrumentAvailable
	}
	if err := s.api.CreateInstrument(ctx, inst); err != nil {
		return errors.Wrap(err, "create instrument")
	}
	if err := s.api.AdjustTypeQuantity(ctx, in.TypeID, 1); err != nil {
		return s.partial(ctx, "create", in.Serial, errors.Wrap(err, "increment type quantity"))
	}
	if loan {
		if err := s.api.CreateLoan(ctx, model.Loan{
			Serial:   in.Serial,
			UserID:   in.UserID,
			LoanDate: s.today(),
		}); err != nil {
			return s.partial(ctx, "create", in.Serial, errors.Wrap(err, "create loan"))
		}
		inst.Status = model.InstrumentLoaned
		if err := s.api.UpdateInstrument(ctx, inst); err != nil {
			return s.partial(ctx, "create", in.Serial, errors.Wrap(err, "mark instrument loaned"))
		}
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceInstrument, Action: "create", Key: in.Serial.String()})
	return nil
}

type editKind int

const (
	editPlain editKind = iota
	editToLoaned
	editFromLoaned
	editReassign
)

func classifyEdit(old model.Instrument, active *model.Loan, in model.InstrumentInput) editKind {
	wasLoaned := old.Status == model.InstrumentLoaned
	isLoaned := in.Status == model.InstrumentLoaned
	switch {
	case !wasLoaned && isLoaned:
		return editToLoaned
	case wasLoaned && !isLoaned:
		return editFromLoaned
	case wasLoaned && isLoaned && active != nil && active.UserID != in.UserID:
		return editReassign
	case wasLoaned && isLoaned && active == nil:
		return editToLoaned
	default:
		return editPlain
	}
}

// Edit applies the instrument form to serial. The serial itself never changes.
func (s *Service) Edit(ctx context.Context, serial model.Serial, in model.InstrumentInput) error {
	if in.Serial == "" {
		in.Serial = serial
	}
	if in.Serial.String() != serial.String() {
		return errs.SerialImmutable()
	}
	if err := s.checkInput(in); err != nil {
		return err
	}

	instruments, loans, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	old, ok := findInstrument(instruments, serial)
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "instrument %s", serial)
	}
	var active *model.Loan
	if l, ok := ActiveLoan(loans, serial); ok {
		active = &l
	}

	updated := model.Instrument{Serial: serial, TypeID: in.TypeID, Status: in.Status}
	today := s.today()

	switch classifyEdit(old, active, in) {
	case editPlain:
		if err := s.api.UpdateInstrument(ctx, updated); err != nil {
			return errors.Wrap(err, "update instrument")
		}
	case editToLoaned:
		if err := s.api.CreateLoan(ctx, model.Loan{Serial: serial, UserID: in.UserID, LoanDate: today}); err != nil {
			return errors.Wrap(err, "create loan")
		}
		if err := s.api.UpdateInstrument(ctx, updated); err != nil {
			return s.partial(ctx, "edit", serial, errors.Wrap(err, "mark instrument loaned"))
		}
	case editFromLoaned:
		if active != nil {
			closed := *active
			closed.ReturnDate = today
			if err := s.api.UpdateLoan(ctx, closed); err != nil {
				return errors.Wrap(err, "close loan")
			}
		} else {
			s.log.Warn("loaned instrument without active loan", zap.String("serial", serial.String()))
		}
		if err := s.api.UpdateInstrument(ctx, updated); err != nil {
			return s.partial(ctx, "edit", serial, errors.Wrap(err, "update instrument"))
		}
	case editReassign:
		closed := *active
		closed.ReturnDate = today
		if err := s.api.UpdateLoan(ctx, closed); err != nil {
			return errors.Wrap(err, "close previous loan")
		}
		if err := s.api.CreateLoan(ctx, model.Loan{Serial: serial, UserID: in.UserID, LoanDate: today}); err != nil {
			return s.partial(ctx, "edit", serial, errors.Wrap(err, "open new loan"))
		}
		if err := s.api.UpdateInstrument(ctx, updated); err != nil {
			return s.partial(ctx, "edit", serial, errors.Wrap(err, "update instrument"))
		}
	}

	if old.TypeID != in.TypeID {
		if err := s.api.AdjustTypeQuantity(ctx, old.TypeID, -1); err != nil {
			return s.partial(ctx, "edit", serial, errors.Wrap(err, "decrement old type quantity"))
		}
		if err := s.api.AdjustTypeQuantity(ctx, in.TypeID, 1); err != nil {
			return s.partial(ctx, "edit", serial, errors.Wrap(err, "increment new type quantity"))
		}
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceInstrument, Action: "edit", Key: serial.String()})
	return nil
}

// Delete removes every active loan of serial, then the instrument, then
// decrements its type counter.
func (s *Service) Delete(ctx context.Context, serial model.Serial) error {
	instruments, loans, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	inst, ok := findInstrument(instruments, serial)
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "instrument %s", serial)
	}
	for _, l := range loans {
		if l.Serial.String() != serial.String() || !l.Active() {
			continue
		}
		if err := s.api.DeleteLoan(ctx, l.Serial, l.UserID); err != nil {
			return errors.Wrapf(err, "delete loan of user %d", l.UserID)
		}
	}
	if err := s.api.DeleteInstrument(ctx, serial); err != nil {
		return errors.Wrap(err, "delete instrument")
	}
	if err := s.api.AdjustTypeQuantity(ctx, inst.TypeID, -1); err != nil {
		return s.partial(ctx, "delete", serial, errors.Wrap(err, "decrement type quantity"))
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceInstrument, Action: "delete", Key: serial.String()})
	return nil
}

// partial logs and records an orchestration that stopped after some of its
// writes succeeded. Nothing is rolled back.
func (s *Service) partial(ctx context.Context, action string, serial model.Serial, err error) error {
	s.log.Warn("orchestration stopped halfway",
		zap.String("action", action),
		zap.String("serial", serial.String()),
		zap.Error(err))
	s.rec.Record(ctx, service.Mutation{
		Resource: resourceInstrument,
		Action:   action,
		Key:      serial.String(),
		Partial:  true,
		Detail:   err.Error(),
	})
	return err
}
