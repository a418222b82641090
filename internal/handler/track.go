package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/taxonomy"
)

// SlotRequest is one availability slot in a track write.
// EndDay defaults to StartDay; OpenTime and CloseTime are "HH:MM".
type SlotRequest struct {
	StartDay  *domain.Weekday `json:"startDay"`
	EndDay    *domain.Weekday `json:"endDay,omitempty"`
	OpenTime  string          `json:"openTime,omitempty"`
	CloseTime string          `json:"closeTime,omitempty"`
}

// TrackRequest is the body of POST /tracks and PUT /tracks/{trackId}.
// Tags is decoded loosely so a non-list value reaches tag validation and is
// reported as such instead of as a JSON error.
type TrackRequest struct {
	Name         string        `json:"name"`
	Location     string        `json:"location"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Distance     float64       `json:"distance"`
	Description  string        `json:"description"`
	Tags         any           `json:"tags"`
	Availability []SlotRequest `json:"availability"`
}

// SlotResponse is one availability slot as returned by the API.
type SlotResponse struct {
	StartDay  domain.Weekday `json:"startDay"`
	EndDay    domain.Weekday `json:"endDay"`
	OpenTime  string         `json:"openTime,omitempty"`
	CloseTime string         `json:"closeTime,omitempty"`
}

// TrackResponse is a track as returned by the API.
type TrackResponse struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Location     string         `json:"location"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Distance     float64        `json:"distance"`
	Description  string         `json:"description"`
	Tags         []string       `json:"tags"`
	Availability []SlotResponse `json:"availability"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// NearbyTrackResponse adds the distance from the search centre.
type NearbyTrackResponse struct {
	TrackResponse
	DistanceKm float64 `json:"distanceKm"`
}

// CreateTrack handles POST /tracks.
func (s *Server) CreateTrack(w http.ResponseWriter, r *http.Request) {
	track, err := decodeTrack(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}

	created, err := s.tracks.Create(r.Context(), track)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusCreated, trackToResponse(created))
}

// ListTracks handles GET /tracks.
// Filters: search, tags, min_length, max_length, days, from/to (see
// parseTrackFilter). Supports ?page= and ?limit=.
func (s *Server) ListTracks(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}

	page, err := s.tracks.List(r.Context(), parseTrackFilter(r.URL.Query()), params)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, params, trackToResponse))
}

// ListNearbyTracks handles GET /tracks/nearby?lat=&lng=&radius=.
// radius is in km and defaults to 50.
func (s *Server) ListNearbyTracks(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	q, err := bindGeoQuery(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}

	page, err := s.tracks.Nearby(r.Context(), q, params)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, params, func(n domain.NearbyTrack) NearbyTrackResponse {
		return NearbyTrackResponse{TrackResponse: trackToResponse(n.Track), DistanceKm: n.DistanceKm}
	}))
}

// GetTrack handles GET /tracks/{trackId}.
func (s *Server) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "trackId")
	if err != nil {
		writeError(w, r, err, "track")
		return
	}

	track, err := s.tracks.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusOK, trackToResponse(track))
}

// UpdateTrack handles PUT /tracks/{trackId}. The body replaces every
// mutable field, including the full availability list.
func (s *Server) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "trackId")
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	track, err := decodeTrack(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	track.ID = id

	updated, err := s.tracks.Update(r.Context(), track)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusOK, trackToResponse(updated))
}

// DeleteTrack handles DELETE /tracks/{trackId}.
func (s *Server) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "trackId")
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	if err := s.tracks.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "track")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bindGeoQuery(r *http.Request) (domain.GeoQuery, error) {
	q := domain.GeoQuery{RadiusKm: 50}
	values := r.URL.Query()
	if err := bindQuery(values, "lat", true, &q.Latitude); err != nil {
		return domain.GeoQuery{}, err
	}
	if err := bindQuery(values, "lng", true, &q.Longitude); err != nil {
		return domain.GeoQuery{}, err
	}
	var radius *float64
	if err := bindQuery(values, "radius", false, &radius); err != nil {
		return domain.GeoQuery{}, err
	}
	if radius != nil {
		q.RadiusKm = *radius
	}
	return q, nil
}

// decodeTrack reads a TrackRequest body and converts it to a domain.Track.
// Slot days and tag list shape are checked here; everything else is left to
// the service.
func decodeTrack(r *http.Request) (domain.Track, error) {
	var req TrackRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.Track{}, err
	}

	track := domain.Track{
		Name:        req.Name,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Distance:    req.Distance,
		Description: req.Description,
	}
	if req.Tags != nil {
		tags, err := taxonomy.AsTagList(req.Tags)
		if err != nil {
			return domain.Track{}, err
		}
		track.Tags = tags
	}

	track.Availability = make([]domain.AvailabilitySlot, len(req.Availability))
	for i, sr := range req.Availability {
		if sr.StartDay == nil {
			return domain.Track{}, fmt.Errorf("availability[%d]: %w: startDay is required", i, domain.ErrValidation)
		}
		end := *sr.StartDay
		if sr.EndDay != nil {
			end = *sr.EndDay
		}
		track.Availability[i] = domain.AvailabilitySlot{
			StartDay:  *sr.StartDay,
			EndDay:    end,
			OpenTime:  sr.OpenTime,
			CloseTime: sr.CloseTime,
		}
	}
	return track, nil
}

func trackToResponse(t domain.Track) TrackResponse {
	resp := TrackResponse{
		ID:           t.ID,
		Name:         t.Name,
		Location:     t.Location,
		Latitude:     t.Latitude,
		Longitude:    t.Longitude,
		Distance:     t.Distance,
		Description:  t.Description,
		Tags:         t.Tags,
		Availability: make([]SlotResponse, len(t.Availability)),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for i, slot := range t.Availability {
		resp.Availability[i] = SlotResponse{
			StartDay:  slot.StartDay,
			EndDay:    slot.EndDay,
			OpenTime:  slot.OpenTime,
			CloseTime: slot.CloseTime,
		}
	}
	return resp
}
