package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/repo"
	"github.com/pkordes/trackday/internal/taxonomy"
)

// EventService implements business logic for Event operations.
// It holds the track repo because an event can only be created under an
// existing track.
type EventService struct {
	tracks repo.TrackRepo
	events repo.EventRepo
	tax    *taxonomy.Taxonomy
}

// NewEventService constructs an EventService backed by the provided repos.
func NewEventService(tracks repo.TrackRepo, events repo.EventRepo, tax *taxonomy.Taxonomy) *EventService {
	return &EventService{tracks: tracks, events: events, tax: tax}
}

type eventRules struct {
	Name     string    `json:"name" validate:"required,max=200"`
	Date     time.Time `json:"date" validate:"required"`
	Capacity int       `json:"capacity" validate:"gte=0"`
}

// Create validates the event, verifies the parent track exists, then persists.
// Returns domain.ErrNotFound if the track does not exist.
func (s *EventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if _, err := s.tracks.GetByID(ctx, event.TrackID); err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	event, err := s.normalize(event)
	if err != nil {
		return domain.Event{}, err
	}
	result, err := s.events.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return result, nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	result, err := s.events.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrack returns one page of a track's events ordered by date.
// Returns domain.ErrNotFound if the track does not exist, so an unknown
// track is not mistaken for one with no events.
func (s *EventService) ListByTrack(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Event], error) {
	if _, err := s.tracks.GetByID(ctx, trackID); err != nil {
		return domain.Page[domain.Event]{}, fmt.Errorf("service.EventService.ListByTrack: %w", err)
	}
	events, total, err := s.events.ListByTrackPaged(ctx, trackID, p)
	if err != nil {
		return domain.Page[domain.Event]{}, fmt.Errorf("service.EventService.ListByTrack: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return domain.Page[domain.Event]{Items: events, Total: total}, nil
}

// Update validates and persists changes to an existing event.
// The track an event belongs to cannot change.
func (s *EventService) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	event, err := s.normalize(event)
	if err != nil {
		return domain.Event{}, err
	}
	result, err := s.events.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return result, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

func (s *EventService) normalize(event domain.Event) (domain.Event, error) {
	event.Name = strings.TrimSpace(event.Name)
	if err := validateStruct(eventRules{
		Name:     event.Name,
		Date:     event.Date,
		Capacity: event.Capacity,
	}); err != nil {
		return domain.Event{}, err
	}
	if err := s.tax.ValidateEventTags(event.Tags); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}
