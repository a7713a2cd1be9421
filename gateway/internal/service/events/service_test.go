package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEvents struct {
	mu      sync.Mutex
	events  []model.Event
	updated []model.ID
	failIDs map[model.ID]bool
	created []model.Event
	deleted []model.ID
}

func (f *fakeEvents) ListEvents(context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Event(nil), f.events...), nil
}

func (f *fakeEvents) CreateEvent(_ context.Context, in model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return nil
}

func (f *fakeEvents) UpdateEvent(_ context.Context, in model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, in.ID)
	if f.failIDs[in.ID] {
		return errors.New("backend rejected")
	}
	for i := range f.events {
		if f.events[i].ID == in.ID {
			f.events[i] = in
		}
	}
	return nil
}

func (f *fakeEvents) DeleteEvent(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type countRecorder struct {
	mu sync.Mutex
	n  int
}

func (r *countRecorder) Record(context.Context, service.Mutation) {
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
}

func newTestService(f *fakeEvents) (*Service, *countRecorder) {
	rec := &countRecorder{}
	s := NewService(zap.NewNop(), f, rec, true)
	s.now = func() time.Time { return time.Date(2024, 5, 10, 23, 59, 0, 0, time.Local) }
	return s, rec
}

func TestService_Load_Sweep(t *testing.T) {
	f := &fakeEvents{
		events: []model.Event{
			{ID: 1, Name: "Ensayo general", Type: model.EventRehearsal, Date: "2024-05-09", Status: model.EventPlanned},
			{ID: 2, Name: "Concierto", Type: model.EventConcert, Date: "2024-05-11", Status: model.EventPlanned},
			{ID: 3, Name: "Hoy", Type: model.EventConcert, Date: "2024-05-10T20:00:00.000000Z", Status: model.EventInProgress},
			{ID: 4, Name: "Procesión", Type: model.EventProcession, Date: "2024-04-01", Status: model.EventFinished},
			{ID: 5, Name: "Pasacalles", Type: model.EventParade, Date: "2024-05-01T10:00:00Z", Status: model.EventInProgress},
		},
		failIDs: map[model.ID]bool{5: true},
	}
	s, rec := newTestService(f)

	events, err := s.Load(context.Background())
	require.NoError(t, err)

	byID := make(map[model.ID]model.Event)
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	require.Equal(t, model.EventFinished, byID[1].Status)
	require.False(t, byID[1].SweepFailed)
	require.Equal(t, model.EventPlanned, byID[2].Status)
	require.Equal(t, model.EventInProgress, byID[3].Status)
	require.Equal(t, model.EventFinished, byID[5].Status)
	require.True(t, byID[5].SweepFailed)

	require.ElementsMatch(t, []model.ID{1, 5}, f.updated)
	require.Equal(t, 1, rec.n)
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 1, 0, time.Local)
	require.True(t, Expired(model.Event{Date: "2024-05-09", Status: model.EventPlanned}, now))
	require.False(t, Expired(model.Event{Date: "2024-05-10", Status: model.EventPlanned}, now))
	require.False(t, Expired(model.Event{Date: "2024-05-09", Status: model.EventFinished}, now))
	require.False(t, Expired(model.Event{Date: "garbage", Status: model.EventPlanned}, now))
}

func TestService_List(t *testing.T) {
	f := &fakeEvents{events: []model.Event{
		{ID: 1, Name: "B", Type: model.EventConcert, Date: "2024-06-02", Time: "20:00", Status: model.EventPlanned},
		{ID: 2, Name: "A", Type: model.EventConcert, Date: "2024-06-01", Time: "18:00", Status: model.EventPlanned, Place: "Plaza Mayor"},
		{ID: 3, Name: "C", Type: model.EventRehearsal, Date: "2024-04-01", Status: model.EventFinished},
	}}
	s, _ := newTestService(f)

	list, err := s.List(context.Background(), Filter{Type: model.EventConcert})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	require.Equal(t, model.ID(2), list.Items[0].ID)

	list, err = s.List(context.Background(), Filter{Search: "plaza"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	list, err = s.List(context.Background(), Filter{Upcoming: true})
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalElements)
}

func TestService_CreateValidation(t *testing.T) {
	f := &fakeEvents{}
	s, _ := newTestService(f)
	ctx := context.Background()

	require.True(t, errs.IsValidation(s.Create(ctx, model.Event{Name: "X", Type: "fiesta", Date: "2024-06-01"})))
	require.True(t, errs.IsValidation(s.Create(ctx, model.Event{Name: "X", Type: model.EventConcert})))
	require.True(t, errs.IsValidation(s.Create(ctx, model.Event{Name: "X", Type: model.EventConcert, Date: "01/06/2024"})))
	require.Empty(t, f.created)

	require.NoError(t, s.Create(ctx, model.Event{Name: "X", Type: model.EventConcert, Date: "2024-06-01"}))
	require.Equal(t, model.EventPlanned, f.created[0].Status)

	require.True(t, errs.IsValidation(s.Update(ctx, model.Event{Name: "X", Type: model.EventConcert, Date: "2024-06-01"})))
	require.NoError(t, s.Delete(ctx, 4))
	require.Equal(t, []model.ID{4}, f.deleted)
}
