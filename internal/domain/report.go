package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportTarget names the kind of record a moderation report points at.
type ReportTarget string

const (
	ReportTargetTrack ReportTarget = "track"
	ReportTargetEvent ReportTarget = "event"
)

// ReportStatus is the moderation state of a report.
// Reports start open and move once, to resolved or dismissed.
type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is a user complaint about a track or an event.
// ResolvedAt is nil while the report is open.
type Report struct {
	ID         uuid.UUID
	TargetKind ReportTarget
	TargetID   uuid.UUID
	Reason     string
	Status     ReportStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
