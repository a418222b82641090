package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
)

// RegistrationRequest is the body of POST /events/{eventId}/registrations.
type RegistrationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegistrationResponse is a registration as returned by the API.
// TicketCode is what the participant shows at the gate.
type RegistrationResponse struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"eventId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	TicketCode string    `json:"ticketCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateRegistration handles POST /events/{eventId}/registrations.
// A full event or a repeated email answers 409.
func (s *Server) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	var req RegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "event")
		return
	}

	created, err := s.registrations.Register(r.Context(), domain.Registration{
		EventID: eventID,
		Name:    req.Name,
		Email:   req.Email,
	})
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	writeJSON(w, http.StatusCreated, registrationToResponse(created))
}

// ListRegistrations handles GET /events/{eventId}/registrations.
func (s *Server) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	params, err := pagination(r)
	if err != nil {
		writeError(w, r, err, "event")
		return
	}

	page, err := s.registrations.List(r.Context(), eventID, params)
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, params, registrationToResponse))
}

// DeleteRegistration handles DELETE /events/{eventId}/registrations/{registrationId}.
func (s *Server) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "registration")
		return
	}
	regID, err := pathUUID(r, "registrationId")
	if err != nil {
		writeError(w, r, err, "registration")
		return
	}
	if err := s.registrations.Cancel(r.Context(), eventID, regID); err != nil {
		writeError(w, r, err, "registration")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func registrationToResponse(reg domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:         reg.ID,
		EventID:    reg.EventID,
		Name:       reg.Name,
		Email:      reg.Email,
		TicketCode: reg.TicketCode,
		CreatedAt:  reg.CreatedAt,
	}
}
