package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/repo"
)

// ReportService handles moderation reports against tracks and events.
type ReportService struct {
	tracks  repo.TrackRepo
	events  repo.EventRepo
	reports repo.ReportRepo
}

// NewReportService constructs a ReportService backed by the provided repos.
func NewReportService(tracks repo.TrackRepo, events repo.EventRepo, reports repo.ReportRepo) *ReportService {
	return &ReportService{tracks: tracks, events: events, reports: reports}
}

type reportRules struct {
	TargetKind string `json:"targetKind" validate:"required,oneof=track event"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

// Create files a new open report.
// Returns domain.ErrNotFound if the reported track or event does not exist.
func (s *ReportService) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	report.Reason = strings.TrimSpace(report.Reason)
	if err := validateStruct(reportRules{
		TargetKind: string(report.TargetKind),
		Reason:     report.Reason,
	}); err != nil {
		return domain.Report{}, err
	}

	var err error
	switch report.TargetKind {
	case domain.ReportTargetTrack:
		_, err = s.tracks.GetByID(ctx, report.TargetID)
	case domain.ReportTargetEvent:
		_, err = s.events.GetByID(ctx, report.TargetID)
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Create: %w", err)
	}

	report.Status = domain.ReportOpen
	result, err := s.reports.Create(ctx, report)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Create: %w", err)
	}
	return result, nil
}

// List returns one page of reports, newest first, optionally narrowed to
// one status.
func (s *ReportService) List(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) (domain.Page[domain.Report], error) {
	if status != nil {
		if err := validateReportStatus(*status, domain.ReportOpen, domain.ReportResolved, domain.ReportDismissed); err != nil {
			return domain.Page[domain.Report]{}, err
		}
	}
	reports, total, err := s.reports.ListPaged(ctx, status, p)
	if err != nil {
		return domain.Page[domain.Report]{}, fmt.Errorf("service.ReportService.List: %w", err)
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return domain.Page[domain.Report]{Items: reports, Total: total}, nil
}

// Resolve closes an open report as resolved or dismissed.
// Returns domain.ErrNotFound for an unknown report and domain.ErrConflict if
// the report was already closed.
func (s *ReportService) Resolve(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error) {
	if err := validateReportStatus(status, domain.ReportResolved, domain.ReportDismissed); err != nil {
		return domain.Report{}, err
	}
	if _, err := s.reports.GetByID(ctx, id); err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Resolve: %w", err)
	}
	result, err := s.reports.Close(ctx, id, status)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Resolve: %w", err)
	}
	return result, nil
}

func validateReportStatus(status domain.ReportStatus, allowed ...domain.ReportStatus) error {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	err := getValidator().Var(string(status), "required,oneof="+strings.Join(names, " "))
	if err != nil {
		return fmt.Errorf("%w: status must be one of %s", domain.ErrValidation, strings.Join(names, ", "))
	}
	return nil
}
