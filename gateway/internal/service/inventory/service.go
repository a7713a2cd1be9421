package inventory

import (
	"context"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend is the part of the REST API the instrument and loan pages use.
type Backend interface {
	ListInstruments(ctx context.Context) ([]model.Instrument, error)
	CreateInstrument(ctx context.Context, in model.Instrument) error
	UpdateInstrument(ctx context.Context, in model.Instrument) error
	DeleteInstrument(ctx context.Context, serial model.Serial) error

	ListInstrumentTypes(ctx context.Context) ([]model.InstrumentType, error)
	CreateInstrumentType(ctx context.Context, in model.InstrumentType) error
	UpdateInstrumentType(ctx context.Context, in model.InstrumentType) error
	DeleteInstrumentType(ctx context.Context, id string) error
	AdjustTypeQuantity(ctx context.Context, id string, delta int) error

	ListLoans(ctx context.Context) ([]model.Loan, error)
	CreateLoan(ctx context.Context, in model.Loan) error
	UpdateLoan(ctx context.Context, in model.Loan) error
	DeleteLoan(ctx context.Context, serial model.Serial, userID model.ID) error

	ListUsers(ctx context.Context) ([]model.User, error)
}

var _ Backend = (*backend.Client)(nil)

type Service struct {
	log      *zap.Logger
	api      Backend
	rec      service.Recorder
	validate *validator.Validate
	now      service.Clock
}

func NewService(log *zap.Logger, api Backend, rec service.Recorder) *Service {
	if rec == nil {
		rec = service.NopRecorder{}
	}
	return &Service{
		log:      log.Named("inventory"),
		api:      api,
		rec:      rec,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Snapshot is everything the instrument and loan pages render.
type Snapshot struct {
	Instruments []model.Instrument     `json:"instruments"`
	Types       []model.InstrumentType `json:"types"`
	Users       []model.User           `json:"users"`
	Loans       []model.Loan           `json:"loans"`
	Warnings    []string               `json:"warnings,omitempty"`
}

// Load fetches the four collections concurrently and logs, without repairing,
// any drift between instruments, loans and type counters.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() (err error) {
		snap.Instruments, err = s.api.ListInstruments(gctx)
		return err
	})
	gg.Go(func() (err error) {
		snap.Types, err = s.api.ListInstrumentTypes(gctx)
		return err
	})
	gg.Go(func() (err error) {
		snap.Users, err = s.api.ListUsers(gctx)
		return err
	})
	gg.Go(func() (err error) {
		snap.Loans, err = s.api.ListLoans(gctx)
		return err
	})
	if err := gg.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.Warnings = CheckConsistency(snap.Instruments, snap.Types, snap.Loans)
	for _, w := range snap.Warnings {
		s.log.Warn("inventory drift", zap.String("detail", w))
	}
	return snap, nil
}

// loadState fetches the two collections an orchestration decides on.
func (s *Service) loadState(ctx context.Context) ([]model.Instrument, []model.Loan, error) {
	var (
		instruments []model.Instrument
		loans       []model.Loan
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() (err error) {
		instruments, err = s.api.ListInstruments(gctx)
		return err
	})
	gg.Go(func() (err error) {
		loans, err = s.api.ListLoans(gctx)
		return err
	})
	if err := gg.Wait(); err != nil {
		return nil, nil, err
	}
	return instruments, loans, nil
}

func (s *Service) today() string {
	return model.Today(s.now())
}

// ActiveLoan returns the first loan of serial without a return date.
// Additional active loans for the same serial are a data error and ignored.
func ActiveLoan(loans []model.Loan, serial model.Serial) (model.Loan, bool) {
	for _, l := range loans {
		if l.Serial.String() == serial.String() && l.Active() {
			return l, true
		}
	}
	return model.Loan{}, false
}

func findInstrument(instruments []model.Instrument, serial model.Serial) (model.Instrument, bool) {
	for _, in := range instruments {
		if in.Serial.String() == serial.String() {
			return in, true
		}
	}
	return model.Instrument{}, false
}
