package events

import (
	"context"
	"sort"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Backend interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, in model.Event) error
	UpdateEvent(ctx context.Context, in model.Event) error
	DeleteEvent(ctx context.Context, id model.ID) error
}

var _ Backend = (*backend.Client)(nil)

const resourceEvent = "event"

type Service struct {
	log         *zap.Logger
	api         Backend
	rec         service.Recorder
	validate    *validator.Validate
	sweepOnLoad bool
	now         service.Clock
}

func NewService(log *zap.Logger, api Backend, rec service.Recorder, sweepOnLoad bool) *Service {
	if rec == nil {
		rec = service.NopRecorder{}
	}
	return &Service{
		log:         log.Named("events"),
		api:         api,
		rec:         rec,
		validate:    validator.New(),
		sweepOnLoad: sweepOnLoad,
		now:         time.Now,
	}
}

// Load fetches every event and, when enabled, runs the expiry sweep on them.
func (s *Service) Load(ctx context.Context) ([]model.Event, error) {
	events, err := s.api.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if s.sweepOnLoad {
		s.Sweep(ctx, events)
	}
	return events, nil
}

// Expired reports whether ev is dated strictly before today and not finished.
func Expired(ev model.Event, now time.Time) bool {
	if ev.Status == model.EventFinished {
		return false
	}
	day, err := time.ParseInLocation(model.DateLayout, model.Day(ev.Date), now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.Before(today)
}

// Sweep finalizes expired events in place. The PUTs run concurrently and a
// failed one still leaves the event finalized locally, flagged SweepFailed.
// It returns how many events were finalized.
func (s *Service) Sweep(ctx context.Context, events []model.Event) int {
	now := s.now()
	var (
		gg    errgroup.Group
		count int
	)
	for i := range events {
		if !Expired(events[i], now) {
			continue
		}
		count++
		events[i].Status = model.EventFinished
		ev := &events[i]
		gg.Go(func() error {
			if err := s.api.UpdateEvent(ctx, *ev); err != nil {
				ev.SweepFailed = true
				s.log.Warn("finalize expired event",
					zap.Stringer("id", ev.ID),
					zap.String("date", ev.Date),
					zap.Error(err))
				return nil
			}
			s.rec.Record(ctx, service.Mutation{Resource: resourceEvent, Action: "finalize", Key: ev.ID.String()})
			return nil
		})
	}
	_ = gg.Wait()
	return count
}

type Filter struct {
	Search string
	Type   model.EventType
	Status model.EventStatus
	// Upcoming keeps events dated today or later.
	Upcoming bool
	Page     int
	Size     int
}

func (s *Service) List(ctx context.Context, f Filter) (model.List[model.Event], error) {
	events, err := s.Load(ctx)
	if err != nil {
		return model.List[model.Event]{}, err
	}
	today := model.Today(s.now())
	out := model.Filter(events, func(ev model.Event) bool {
		if f.Type != "" && ev.Type != f.Type {
			return false
		}
		if f.Status != "" && ev.Status != f.Status {
			return false
		}
		if f.Upcoming && model.Day(ev.Date) < today {
			return false
		}
		return model.ContainsFold(f.Search, ev.Name, ev.Place, string(ev.Type))
	})
	sort.SliceStable(out, func(i, j int) bool {
		if model.Day(out[i].Date) != model.Day(out[j].Date) {
			return model.Day(out[i].Date) < model.Day(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return model.Paginate(out, f.Page, f.Size), nil
}

func (s *Service) check(ev model.Event) error {
	if err := s.validate.Struct(ev); err != nil {
		return errs.Validation("event", err.Error(), "validation.required")
	}
	if _, err := time.Parse(model.DateLayout, model.Day(ev.Date)); err != nil {
		return errs.Validation("fecha", "not a date", "validation.required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, ev model.Event) error {
	if ev.Status == "" {
		ev.Status = model.EventPlanned
	}
	if err := s.check(ev); err != nil {
		return err
	}
	if err := s.api.CreateEvent(ctx, ev); err != nil {
		return errors.Wrap(err, "create event")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceEvent, Action: "create", Key: ev.Name})
	return nil
}

func (s *Service) Update(ctx context.Context, ev model.Event) error {
	if ev.ID == 0 {
		return errs.Validation("id", "required", "validation.required")
	}
	if err := s.check(ev); err != nil {
		return err
	}
	if err := s.api.UpdateEvent(ctx, ev); err != nil {
		return errors.Wrap(err, "update event")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceEvent, Action: "update", Key: ev.ID.String()})
	return nil
}

func (s *Service) Delete(ctx context.Context, id model.ID) error {
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return errors.Wrap(err, "delete event")
	}
	s.rec.Record(ctx, service.Mutation{Resource: resourceEvent, Action: "delete", Key: id.String()})
	return nil
}
