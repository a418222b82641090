package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/taxonomy"
)

// EventRequest is the body of POST /tracks/{trackId}/events and
// PUT /events/{eventId}. Capacity 0 means unlimited.
type EventRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Date        openapi_types.Date `json:"date"`
	Capacity    int                `json:"capacity"`
	Tags        any                `json:"tags"`
}

// EventResponse is an event as returned by the API.
type EventResponse struct {
	ID          uuid.UUID          `json:"id"`
	TrackID     uuid.UUID          `json:"trackId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Date        openapi_types.Date `json:"date"`
	Capacity    int                `json:"capacity"`
	Tags        []string           `json:"tags"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// CreateEvent handles POST /tracks/{trackId}/events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathUUID(r, "trackId")
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	event, err := decodeEvent(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	event.TrackID = trackID

	created, err := s.events.Create(r.Context(), event)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusCreated, eventToResponse(created))
}

// ListTrackEvents handles GET /tracks/{trackId}/events.
func (s *Server) ListTrackEvents(w http.ResponseWriter, r *http.Request) {
	trackID, err := pathUUID(r, "trackId")
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	params, err := pagination(r)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}

	page, err := s.events.ListByTrack(r.Context(), trackID, params)
	if err != nil {
		writeError(w, r, err, "track")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, params, eventToResponse))
}

// GetEvent handles GET /events/{eventId}.
func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "event")
		return
	}

	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(event))
}

// UpdateEvent handles PUT /events/{eventId}.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	event, err := decodeEvent(r)
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	event.ID = id

	updated, err := s.events.Update(r.Context(), event)
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	writeJSON(w, http.StatusOK, eventToResponse(updated))
}

// DeleteEvent handles DELETE /events/{eventId}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	if err := s.events.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeEvent(r *http.Request) (domain.Event, error) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date.Time,
		Capacity:    req.Capacity,
	}
	if req.Tags != nil {
		tags, err := taxonomy.AsTagList(req.Tags)
		if err != nil {
			return domain.Event{}, err
		}
		event.Tags = tags
	}
	return event, nil
}

func eventToResponse(e domain.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		TrackID:     e.TrackID,
		Name:        e.Name,
		Description: e.Description,
		Date:        openapi_types.Date{Time: e.Date},
		Capacity:    e.Capacity,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}
