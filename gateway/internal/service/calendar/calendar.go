package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DayPageSize is how many events a calendar day shows at once.
const DayPageSize = 5

type Backend interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	DeleteEvent(ctx context.Context, id model.ID) error
}

// View is the calendar's local copy of the events, grouped by day.
type View struct {
	mu     sync.RWMutex
	events []model.Event
}

func NewView(events []model.Event) *View {
	return &View{events: append([]model.Event(nil), events...)}
}

// Day returns one page of the events whose date starts with day (YYYY-MM-DD).
func (v *View) Day(day string, page int) model.List[model.Event] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	matches := make([]model.Event, 0)
	for _, ev := range v.events {
		if model.Day(ev.Date) == day {
			matches = append(matches, ev)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Time < matches[j].Time })
	return model.Paginate(matches, page, DayPageSize)
}

type DayCount struct {
	Date   string `json:"date"`
	Events int    `json:"events"`
}

// Month lists the days of year/month that have events.
func (v *View) Month(year, month int) []DayCount {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	v.mu.RLock()
	defer v.mu.RUnlock()
	counts := make(map[string]int)
	for _, ev := range v.events {
		day := model.Day(ev.Date)
		if len(day) == 10 && day[:8] == prefix {
			counts[day]++
		}
	}
	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Date: day, Events: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (v *View) remove(id model.ID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.events {
		if v.events[i].ID == id {
			v.events = append(v.events[:i], v.events[i+1:]...)
			return
		}
	}
}

func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.events)
}

type Service struct {
	log *zap.Logger
	api Backend
	rec service.Recorder
}

func NewService(log *zap.Logger, api Backend, rec service.Recorder) *Service {
	if rec == nil {
		rec = service.NopRecorder{}
	}
	return &Service{log: log.Named("calendar"), api: api, rec: rec}
}

func (s *Service) Load(ctx context.Context) (*View, error) {
	events, err := s.api.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return NewView(events), nil
}

// Delete removes the event once confirmed and drops it from v without a
// refetch.
func (s *Service) Delete(ctx context.Context, v *View, id model.ID, confirmed bool) error {
	if !confirmed {
		return errs.Validation("confirm", "required", "events.deleteNotConfirmed")
	}
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return errors.Wrap(err, "delete event")
	}
	if v != nil {
		v.remove(id)
	}
	s.rec.Record(ctx, service.Mutation{Resource: "event", Action: "delete", Key: id.String()})
	return nil
}
