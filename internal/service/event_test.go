package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/service"
	"github.com/pkordes/trackday/internal/taxonomy"
)

func validEvent() domain.Event {
	return domain.Event{
		TrackID:  uuid.New(),
		Name:     "Open Pitlane",
		Date:     time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC),
		Capacity: 40,
		Tags:     []string{"track_day", "helmet_required", "timing"},
	}
}

func echoEventRepo() *mockEventRepo {
	return &mockEventRepo{
		create: func(_ context.Context, e domain.Event) (domain.Event, error) { return e, nil },
		update: func(_ context.Context, e domain.Event) (domain.Event, error) { return e, nil },
	}
}

func TestEventService_Create_Valid(t *testing.T) {
	svc := service.NewEventService(&mockTrackRepo{getByID: existingTrack}, echoEventRepo(), taxonomy.Default())

	got, err := svc.Create(context.Background(), validEvent())

	require.NoError(t, err)
	assert.Equal(t, "Open Pitlane", got.Name)
}

func TestEventService_Create_TrackNotFound(t *testing.T) {
	svc := service.NewEventService(&mockTrackRepo{getByID: missingTrack}, echoEventRepo(), taxonomy.Default())

	_, err := svc.Create(context.Background(), validEvent())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_Create_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Event)
		rule   taxonomy.Rule
	}{
		{"blank name", func(e *domain.Event) { e.Name = "" }, ""},
		{"zero date", func(e *domain.Event) { e.Date = time.Time{} }, ""},
		{"negative capacity", func(e *domain.Event) { e.Capacity = -1 }, ""},
		{"no tags", func(e *domain.Event) { e.Tags = nil }, taxonomy.MissingEventType},
		{"no event type", func(e *domain.Event) { e.Tags = []string{"roll_cage"} }, taxonomy.MissingEventType},
		{"no car requirement", func(e *domain.Event) { e.Tags = []string{"race"} }, taxonomy.MissingCarRequirement},
		{"unknown tag", func(e *domain.Event) { e.Tags = []string{"race", "road_legal", "confetti"} }, taxonomy.UnknownTags},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewEventService(&mockTrackRepo{getByID: existingTrack}, echoEventRepo(), taxonomy.Default())
			ev := validEvent()
			tc.mutate(&ev)

			_, err := svc.Create(context.Background(), ev)

			require.ErrorIs(t, err, domain.ErrValidation)
			if tc.rule != "" {
				var tagErr *taxonomy.TagError
				require.ErrorAs(t, err, &tagErr)
				assert.Equal(t, tc.rule, tagErr.Rule)
			}
		})
	}
}

func TestEventService_Create_UnlimitedCapacity(t *testing.T) {
	svc := service.NewEventService(&mockTrackRepo{getByID: existingTrack}, echoEventRepo(), taxonomy.Default())

	ev := validEvent()
	ev.Capacity = 0
	_, err := svc.Create(context.Background(), ev)

	assert.NoError(t, err)
}

func TestEventService_ListByTrack(t *testing.T) {
	trackID := uuid.New()
	events := &mockEventRepo{
		listByTrackPaged: func(_ context.Context, id uuid.UUID, p domain.PaginationParams) ([]domain.Event, int64, error) {
			assert.Equal(t, trackID, id)
			assert.Equal(t, 2, p.Page)
			return nil, 0, nil
		},
	}
	svc := service.NewEventService(&mockTrackRepo{getByID: existingTrack}, events, taxonomy.Default())

	page := 2
	got, err := svc.ListByTrack(context.Background(), trackID, domain.NewPaginationParams(&page, nil))

	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestEventService_ListByTrack_UnknownTrack(t *testing.T) {
	svc := service.NewEventService(&mockTrackRepo{getByID: missingTrack}, &mockEventRepo{}, taxonomy.Default())

	_, err := svc.ListByTrack(context.Background(), uuid.New(), domain.NewPaginationParams(nil, nil))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_Update_And_Delete(t *testing.T) {
	events := echoEventRepo()
	events.delete = func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound }
	svc := service.NewEventService(&mockTrackRepo{}, events, taxonomy.Default())

	ev := validEvent()
	ev.Name = " Renamed "
	got, err := svc.Update(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), domain.ErrNotFound)
}
