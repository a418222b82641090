package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an organised session held at a track on a given date.
// Capacity of zero means registrations are unlimited.
type Event struct {
	ID          uuid.UUID
	TrackID     uuid.UUID
	Name        string
	Description string
	Date        time.Time
	Capacity    int
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Registration is one participant signed up for an event.
// TicketCode is a ULID issued at registration time and is what the
// participant presents at the gate.
type Registration struct {
	ID         uuid.UUID
	EventID    uuid.UUID
	Name       string
	Email      string
	TicketCode string
	CreatedAt  time.Time
}

// RosterRow is a single row in an event's participant export.
// It is a flat, denormalized view: event and track fields are repeated on
// every row so the export stands alone when opened in a spreadsheet.
type RosterRow struct {
	EventID    string
	EventName  string
	EventDate  string // "2006-01-02"
	TrackName  string
	Name       string
	Email      string
	TicketCode string
	Registered time.Time
}
