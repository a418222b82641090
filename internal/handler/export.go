package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trackday/internal/domain"
)

// rosterCSVHeaders is the first row of every roster CSV.
var rosterCSVHeaders = []string{
	"event_id", "event_name", "event_date", "track_name",
	"name", "email", "ticket_code", "registered_at",
}

// RosterRow is one participant in the JSON roster export.
type RosterRow struct {
	EventID      uuid.UUID          `json:"eventId"`
	EventName    string             `json:"eventName"`
	EventDate    openapi_types.Date `json:"eventDate"`
	TrackName    string             `json:"trackName"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	TicketCode   string             `json:"ticketCode"`
	RegisteredAt time.Time          `json:"registeredAt"`
}

// ExportRoster handles GET /events/{eventId}/registrations/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "eventId")
	if err != nil {
		writeError(w, r, err, "event")
		return
	}
	var format *string
	if err := bindQuery(r.URL.Query(), "format", false, &format); err != nil {
		writeError(w, r, err, "event")
		return
	}
	wantCSV := format != nil && *format == "csv"
	if format != nil && !wantCSV && *format != "json" {
		writeError(w, r, &paramError{name: "format", err: errors.New(`must be "csv" or "json"`)}, "event")
		return
	}

	rows, err := s.registrations.Roster(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err, "event")
		return
	}

	if wantCSV {
		writeRosterCSV(w, eventID, rows)
		return
	}
	out := make([]RosterRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeRosterCSV encodes rows as CSV with a header row. An empty roster is
// a header-only file.
func writeRosterCSV(w http.ResponseWriter, eventID uuid.UUID, rows []domain.RosterRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(rosterCSVHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(rosterRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="roster-%s.csv"`, eventID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func rosterRowToResponse(row domain.RosterRow) RosterRow {
	eventID, _ := uuid.Parse(row.EventID)
	return RosterRow{
		EventID:      eventID,
		EventName:    row.EventName,
		EventDate:    mustParseDate(row.EventDate),
		TrackName:    row.TrackName,
		Name:         row.Name,
		Email:        row.Email,
		TicketCode:   row.TicketCode,
		RegisteredAt: row.Registered,
	}
}

func rosterRowToCSVRecord(row domain.RosterRow) []string {
	return []string{
		row.EventID,
		row.EventName,
		row.EventDate,
		row.TrackName,
		row.Name,
		row.Email,
		row.TicketCode,
		row.Registered.UTC().Format(time.RFC3339),
	}
}

// mustParseDate parses a "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers pass repo-formatted dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic("handler: malformed date from repo: " + s)
	}
	return openapi_types.Date{Time: t}
}
