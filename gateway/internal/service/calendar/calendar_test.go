package calendar

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	events    []model.Event
	deleted   []model.ID
	deleteErr error
}

func (f *fakeBackend) ListEvents(context.Context) ([]model.Event, error) {
	return f.events, nil
}

func (f *fakeBackend) DeleteEvent(_ context.Context, id model.ID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func sample() []model.Event {
	events := make([]model.Event, 0, 8)
	for i := 1; i <= 7; i++ {
		events = append(events, model.Event{
			ID:   model.ID(i),
			Name: fmt.Sprintf("Ensayo %d", i),
			Date: "2024-05-18T00:00:00.000000Z",
			Time: fmt.Sprintf("%02d:00", 10+i),
		})
	}
	events = append(events, model.Event{ID: 8, Date: "2024-05-20"}, model.Event{ID: 9, Date: "2024-06-01"})
	return events
}

func TestView_Day(t *testing.T) {
	v := NewView(sample())

	first := v.Day("2024-05-18", 1)
	require.Len(t, first.Items, DayPageSize)
	require.Equal(t, 7, first.TotalElements)
	require.Equal(t, 2, first.TotalPages)

	second := v.Day("2024-05-18", 2)
	require.Len(t, second.Items, 2)
	require.Equal(t, model.ID(6), second.Items[0].ID)

	require.Empty(t, v.Day("2024-05-19", 1).Items)
}

func TestView_Month(t *testing.T) {
	v := NewView(sample())
	require.Equal(t, []DayCount{
		{Date: "2024-05-18", Events: 7},
		{Date: "2024-05-20", Events: 1},
	}, v.Month(2024, 5))
}

func TestService_Delete(t *testing.T) {
	f := &fakeBackend{events: sample()}
	s := NewService(zap.NewNop(), f, nil)
	ctx := context.Background()

	v, err := s.Load(ctx)
	require.NoError(t, err)

	err = s.Delete(ctx, v, 8, false)
	require.True(t, errs.IsValidation(err))
	require.Empty(t, f.deleted)

	require.NoError(t, s.Delete(ctx, v, 8, true))
	require.Equal(t, []model.ID{8}, f.deleted)
	require.Equal(t, 8, v.Len())
	require.Empty(t, v.Month(2024, 5)[1:])

	f.deleteErr = errors.New("rejected")
	require.Error(t, s.Delete(ctx, v, 9, true))
	require.Equal(t, 8, v.Len())
}
