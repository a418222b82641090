// Package service contains the business logic for the Trackday API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
	"github.com/pkordes/trackday/internal/repo"
	"github.com/pkordes/trackday/internal/taxonomy"
)

// TrackService implements business logic for Track operations.
type TrackService struct {
	tracks repo.TrackRepo
	tax    *taxonomy.Taxonomy
}

// NewTrackService constructs a TrackService backed by the provided repo.
// Tags are checked against tax on every write.
func NewTrackService(tracks repo.TrackRepo, tax *taxonomy.Taxonomy) *TrackService {
	return &TrackService{tracks: tracks, tax: tax}
}

type trackRules struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Location  string  `json:"location" validate:"max=200"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Distance  float64 `json:"distance" validate:"gte=0"`
}

type slotRules struct {
	StartDay  domain.Weekday `json:"startDay" validate:"gte=0,lte=6"`
	EndDay    domain.Weekday `json:"endDay" validate:"gte=0,lte=6,gtefield=StartDay"`
	OpenTime  string         `json:"openTime" validate:"omitempty,datetime=15:04"`
	CloseTime string         `json:"closeTime" validate:"omitempty,datetime=15:04"`
}

// Create validates and persists a new track.
// Returns domain.ErrValidation (possibly a *taxonomy.TagError) for bad input.
func (s *TrackService) Create(ctx context.Context, track domain.Track) (domain.Track, error) {
	track, err := s.normalize(track)
	if err != nil {
		return domain.Track{}, err
	}
	result, err := s.tracks.Create(ctx, track)
	if err != nil {
		return domain.Track{}, fmt.Errorf("service.TrackService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single track with its availability.
func (s *TrackService) GetByID(ctx context.Context, id uuid.UUID) (domain.Track, error) {
	result, err := s.tracks.GetByID(ctx, id)
	if err != nil {
		return domain.Track{}, fmt.Errorf("service.TrackService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of tracks matching f.
// Items is never nil.
func (s *TrackService) List(ctx context.Context, f filter.TrackFilter, p domain.PaginationParams) (domain.Page[domain.Track], error) {
	tracks, total, err := s.tracks.ListPaged(ctx, filter.BuildTrackPredicate(f), p)
	if err != nil {
		return domain.Page[domain.Track]{}, fmt.Errorf("service.TrackService.List: %w", err)
	}
	if tracks == nil {
		tracks = []domain.Track{}
	}
	return domain.Page[domain.Track]{Items: tracks, Total: total}, nil
}

// Nearby returns one page of tracks within q.RadiusKm of a point, closest first.
func (s *TrackService) Nearby(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) (domain.Page[domain.NearbyTrack], error) {
	rules := struct {
		Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
		Longitude float64 `json:"lng" validate:"gte=-180,lte=180"`
		RadiusKm  float64 `json:"radius" validate:"gt=0,lte=20038"` // half the Earth's circumference
	}{q.Latitude, q.Longitude, q.RadiusKm}
	if err := validateStruct(rules); err != nil {
		return domain.Page[domain.NearbyTrack]{}, err
	}

	tracks, total, err := s.tracks.Nearby(ctx, q, p)
	if err != nil {
		return domain.Page[domain.NearbyTrack]{}, fmt.Errorf("service.TrackService.Nearby: %w", err)
	}
	if tracks == nil {
		tracks = []domain.NearbyTrack{}
	}
	return domain.Page[domain.NearbyTrack]{Items: tracks, Total: total}, nil
}

// Update validates and persists changes to an existing track, replacing its
// availability slots. Returns domain.ErrNotFound if the track does not exist.
func (s *TrackService) Update(ctx context.Context, track domain.Track) (domain.Track, error) {
	track, err := s.normalize(track)
	if err != nil {
		return domain.Track{}, err
	}
	result, err := s.tracks.Update(ctx, track)
	if err != nil {
		return domain.Track{}, fmt.Errorf("service.TrackService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a track along with its slots and events.
func (s *TrackService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tracks.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TrackService.Delete: %w", err)
	}
	return nil
}

// normalize trims text fields and enforces the rules shared by Create and
// Update. The returned track carries canonical "HH:MM" slot times.
func (s *TrackService) normalize(track domain.Track) (domain.Track, error) {
	track.Name = strings.TrimSpace(track.Name)
	track.Location = strings.TrimSpace(track.Location)

	if err := validateStruct(trackRules{
		Name:      track.Name,
		Location:  track.Location,
		Latitude:  track.Latitude,
		Longitude: track.Longitude,
		Distance:  track.Distance,
	}); err != nil {
		return domain.Track{}, err
	}
	if err := s.tax.ValidateTrackTags(track.Tags); err != nil {
		return domain.Track{}, err
	}

	slots := make([]domain.AvailabilitySlot, len(track.Availability))
	for i, slot := range track.Availability {
		norm, err := normalizeSlot(slot)
		if err != nil {
			return domain.Track{}, fmt.Errorf("availability[%d]: %w", i, err)
		}
		slots[i] = norm
	}
	track.Availability = slots
	return track, nil
}

// normalizeSlot checks one availability slot:
//   - both days are real weekdays and StartDay <= EndDay
//   - OpenTime and CloseTime are both set or both empty
//   - when set, both are HH:MM and OpenTime is strictly before CloseTime
func normalizeSlot(slot domain.AvailabilitySlot) (domain.AvailabilitySlot, error) {
	slot.OpenTime = strings.TrimSpace(slot.OpenTime)
	slot.CloseTime = strings.TrimSpace(slot.CloseTime)

	if err := validateStruct(slotRules{
		StartDay:  slot.StartDay,
		EndDay:    slot.EndDay,
		OpenTime:  slot.OpenTime,
		CloseTime: slot.CloseTime,
	}); err != nil {
		return domain.AvailabilitySlot{}, err
	}

	if (slot.OpenTime == "") != (slot.CloseTime == "") {
		return domain.AvailabilitySlot{}, fmt.Errorf("%w: openTime and closeTime must be set together", domain.ErrValidation)
	}
	if slot.OpenTime == "" {
		return slot, nil
	}

	open, _ := time.Parse("15:04", slot.OpenTime)
	closing, _ := time.Parse("15:04", slot.CloseTime)
	if !open.Before(closing) {
		return domain.AvailabilitySlot{}, fmt.Errorf("%w: openTime must be before closeTime", domain.ErrValidation)
	}
	slot.OpenTime = open.Format("15:04")
	slot.CloseTime = closing.Format("15:04")
	return slot, nil
}
