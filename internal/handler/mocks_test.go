package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
	"github.com/pkordes/trackday/internal/handler"
)

// Test doubles for the handler.*Servicer interfaces.
// Set only the method fields your test needs.

type mockTrackServicer struct {
	create  func(ctx context.Context, track domain.Track) (domain.Track, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Track, error)
	list    func(ctx context.Context, f filter.TrackFilter, p domain.PaginationParams) (domain.Page[domain.Track], error)
	nearby  func(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) (domain.Page[domain.NearbyTrack], error)
	update  func(ctx context.Context, track domain.Track) (domain.Track, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTrackServicer) Create(ctx context.Context, t domain.Track) (domain.Track, error) {
	return m.create(ctx, t)
}
func (m *mockTrackServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Track, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrackServicer) List(ctx context.Context, f filter.TrackFilter, p domain.PaginationParams) (domain.Page[domain.Track], error) {
	return m.list(ctx, f, p)
}
func (m *mockTrackServicer) Nearby(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) (domain.Page[domain.NearbyTrack], error) {
	return m.nearby(ctx, q, p)
}
func (m *mockTrackServicer) Update(ctx context.Context, t domain.Track) (domain.Track, error) {
	return m.update(ctx, t)
}
func (m *mockTrackServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockEventServicer struct {
	create      func(ctx context.Context, e domain.Event) (domain.Event, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	listByTrack func(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Event], error)
	update      func(ctx context.Context, e domain.Event) (domain.Event, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEventServicer) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	return m.create(ctx, e)
}
func (m *mockEventServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventServicer) ListByTrack(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Event], error) {
	return m.listByTrack(ctx, trackID, p)
}
func (m *mockEventServicer) Update(ctx context.Context, e domain.Event) (domain.Event, error) {
	return m.update(ctx, e)
}
func (m *mockEventServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockRegistrationServicer struct {
	register func(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	list     func(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Registration], error)
	cancel   func(ctx context.Context, eventID, regID uuid.UUID) error
	roster   func(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error)
}

func (m *mockRegistrationServicer) Register(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	return m.register(ctx, reg)
}
func (m *mockRegistrationServicer) List(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Registration], error) {
	return m.list(ctx, eventID, p)
}
func (m *mockRegistrationServicer) Cancel(ctx context.Context, eventID, regID uuid.UUID) error {
	return m.cancel(ctx, eventID, regID)
}
func (m *mockRegistrationServicer) Roster(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error) {
	return m.roster(ctx, eventID)
}

type mockReportServicer struct {
	create  func(ctx context.Context, rep domain.Report) (domain.Report, error)
	list    func(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) (domain.Page[domain.Report], error)
	resolve func(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error)
}

func (m *mockReportServicer) Create(ctx context.Context, rep domain.Report) (domain.Report, error) {
	return m.create(ctx, rep)
}
func (m *mockReportServicer) List(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) (domain.Page[domain.Report], error) {
	return m.list(ctx, status, p)
}
func (m *mockReportServicer) Resolve(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error) {
	return m.resolve(ctx, id, status)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TrackServicer        = (*mockTrackServicer)(nil)
	_ handler.EventServicer        = (*mockEventServicer)(nil)
	_ handler.RegistrationServicer = (*mockRegistrationServicer)(nil)
	_ handler.ReportServicer       = (*mockReportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given services into its router,
// the same way main.go does in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc).Routes()
}

// do sends one request through h and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}
