package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
	"github.com/pkordes/trackday/internal/repo"
)

// Hand-written test doubles. Each method is a function field: set only the
// ones a test needs, and an unexpected call panics on the nil func.

type mockTrackRepo struct {
	create    func(ctx context.Context, track domain.Track) (domain.Track, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Track, error)
	listPaged func(ctx context.Context, pred filter.Predicate, p domain.PaginationParams) ([]domain.Track, int64, error)
	nearby    func(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) ([]domain.NearbyTrack, int64, error)
	update    func(ctx context.Context, track domain.Track) (domain.Track, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTrackRepo) Create(ctx context.Context, track domain.Track) (domain.Track, error) {
	return m.create(ctx, track)
}
func (m *mockTrackRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Track, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrackRepo) ListPaged(ctx context.Context, pred filter.Predicate, p domain.PaginationParams) ([]domain.Track, int64, error) {
	return m.listPaged(ctx, pred, p)
}
func (m *mockTrackRepo) Nearby(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) ([]domain.NearbyTrack, int64, error) {
	return m.nearby(ctx, q, p)
}
func (m *mockTrackRepo) Update(ctx context.Context, track domain.Track) (domain.Track, error) {
	return m.update(ctx, track)
}
func (m *mockTrackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockEventRepo struct {
	create           func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	listByTrackPaged func(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) ([]domain.Event, int64, error)
	update           func(ctx context.Context, event domain.Event) (domain.Event, error)
	delete           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.create(ctx, event)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventRepo) ListByTrackPaged(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) ([]domain.Event, int64, error) {
	return m.listByTrackPaged(ctx, trackID, p)
}
func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.update(ctx, event)
}
func (m *mockEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockRegistrationRepo struct {
	create           func(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	listByEventPaged func(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) ([]domain.Registration, int64, error)
	delete           func(ctx context.Context, eventID, regID uuid.UUID) error
	roster           func(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error)
}

func (m *mockRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	return m.create(ctx, reg)
}
func (m *mockRegistrationRepo) ListByEventPaged(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) ([]domain.Registration, int64, error) {
	return m.listByEventPaged(ctx, eventID, p)
}
func (m *mockRegistrationRepo) Delete(ctx context.Context, eventID, regID uuid.UUID) error {
	return m.delete(ctx, eventID, regID)
}
func (m *mockRegistrationRepo) Roster(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error) {
	return m.roster(ctx, eventID)
}

type mockReportRepo struct {
	create    func(ctx context.Context, report domain.Report) (domain.Report, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Report, error)
	listPaged func(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) ([]domain.Report, int64, error)
	close     func(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error)
}

func (m *mockReportRepo) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	return m.create(ctx, report)
}
func (m *mockReportRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	return m.getByID(ctx, id)
}
func (m *mockReportRepo) ListPaged(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) ([]domain.Report, int64, error) {
	return m.listPaged(ctx, status, p)
}
func (m *mockReportRepo) Close(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error) {
	return m.close(ctx, id, status)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TrackRepo        = (*mockTrackRepo)(nil)
	_ repo.EventRepo        = (*mockEventRepo)(nil)
	_ repo.RegistrationRepo = (*mockRegistrationRepo)(nil)
	_ repo.ReportRepo       = (*mockReportRepo)(nil)
)

// existingTrack is a getByID that finds every track.
func existingTrack(_ context.Context, id uuid.UUID) (domain.Track, error) {
	return domain.Track{ID: id, Name: "Spa"}, nil
}

func missingTrack(_ context.Context, _ uuid.UUID) (domain.Track, error) {
	return domain.Track{}, domain.ErrNotFound
}

func existingEvent(_ context.Context, id uuid.UUID) (domain.Event, error) {
	return domain.Event{ID: id, Name: "Open Pitlane"}, nil
}

func missingEvent(_ context.Context, _ uuid.UUID) (domain.Event, error) {
	return domain.Event{}, domain.ErrNotFound
}
