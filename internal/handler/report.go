package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
)

// ReportRequest is the body of POST /reports.
type ReportRequest struct {
	TargetKind string    `json:"targetKind"`
	TargetID   uuid.UUID `json:"targetId"`
	Reason     string    `json:"reason"`
}

// ResolveRequest is the body of POST /reports/{reportId}/resolve.
// Status is "resolved" or "dismissed".
type ResolveRequest struct {
	Status string `json:"status"`
}

// ReportResponse is a moderation report as returned by the API.
type ReportResponse struct {
	ID         uuid.UUID  `json:"id"`
	TargetKind string     `json:"targetKind"`
	TargetID   uuid.UUID  `json:"targetId"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// CreateReport handles POST /reports.
func (s *Server) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "report target")
		return
	}

	created, err := s.reports.Create(r.Context(), domain.Report{
		TargetKind: domain.ReportTarget(req.TargetKind),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, r, err, req.TargetKind)
		return
	}
	writeJSON(w, http.StatusCreated, reportToResponse(created))
}

// ListReports handles GET /reports, optionally narrowed with ?status=.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		writeError(w, r, err, "report")
		return
	}
	var status *domain.ReportStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.ReportStatus(v)
		status = &st
	}

	page, err := s.reports.List(r.Context(), status, params)
	if err != nil {
		writeError(w, r, err, "report")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, params, reportToResponse))
}

// ResolveReport handles POST /reports/{reportId}/resolve.
// Closing a report that is no longer open answers 409.
func (s *Server) ResolveReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "reportId")
	if err != nil {
		writeError(w, r, err, "report")
		return
	}
	var req ResolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "report")
		return
	}

	resolved, err := s.reports.Resolve(r.Context(), id, domain.ReportStatus(req.Status))
	if err != nil {
		writeError(w, r, err, "report")
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(resolved))
}

func reportToResponse(rep domain.Report) ReportResponse {
	return ReportResponse{
		ID:         rep.ID,
		TargetKind: string(rep.TargetKind),
		TargetID:   rep.TargetID,
		Reason:     rep.Reason,
		Status:     string(rep.Status),
		CreatedAt:  rep.CreatedAt,
		ResolvedAt: rep.ResolvedAt,
	}
}
