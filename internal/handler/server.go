// Package handler implements the HTTP handlers for the Trackday API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, track.go, event.go, ...) but share the same Server struct
// so they can reach its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
	"github.com/pkordes/trackday/internal/taxonomy"
)

// TrackServicer defines the business operations the track handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// a mock without touching the database or service layer.
type TrackServicer interface {
	Create(ctx context.Context, track domain.Track) (domain.Track, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Track, error)
	List(ctx context.Context, f filter.TrackFilter, p domain.PaginationParams) (domain.Page[domain.Track], error)
	Nearby(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) (domain.Page[domain.NearbyTrack], error)
	Update(ctx context.Context, track domain.Track) (domain.Track, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventServicer defines the business operations the event handlers depend on.
type EventServicer interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	ListByTrack(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Event], error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegistrationServicer defines the operations behind /events/{eventId}/registrations.
type RegistrationServicer interface {
	Register(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	List(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Registration], error)
	Cancel(ctx context.Context, eventID, regID uuid.UUID) error
	Roster(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error)
}

// ReportServicer defines the moderation operations behind /reports.
type ReportServicer interface {
	Create(ctx context.Context, report domain.Report) (domain.Report, error)
	List(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) (domain.Page[domain.Report], error)
	Resolve(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error)
}

// TaxonomyReader exposes the tag vocabulary read-only.
// *taxonomy.Taxonomy satisfies it.
type TaxonomyReader interface {
	Categories(kind domain.TagKind) []taxonomy.Category
}

// Services groups every dependency of Server. Tests may leave fields nil
// for routes they do not exercise.
type Services struct {
	Tracks        TrackServicer
	Events        EventServicer
	Registrations RegistrationServicer
	Reports       ReportServicer
	Taxonomy      TaxonomyReader
}

// Server holds the dependencies shared by every handler method.
type Server struct {
	tracks        TrackServicer
	events        EventServicer
	registrations RegistrationServicer
	reports       ReportServicer
	tax           TaxonomyReader
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services) *Server {
	return &Server{
		tracks:        svc.Tracks,
		events:        svc.Events,
		registrations: svc.Registrations,
		reports:       svc.Reports,
		tax:           svc.Taxonomy,
	}
}

// Routes returns a chi router with every API endpoint registered.
// Mount it at "/" behind the global middleware stack in main.go.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/taxonomy/{kind}", s.GetTaxonomy)

	r.Route("/tracks", func(r chi.Router) {
		r.Post("/", s.CreateTrack)
		r.Get("/", s.ListTracks)
		r.Get("/nearby", s.ListNearbyTracks)
		r.Route("/{trackId}", func(r chi.Router) {
			r.Get("/", s.GetTrack)
			r.Put("/", s.UpdateTrack)
			r.Delete("/", s.DeleteTrack)
			r.Post("/events", s.CreateEvent)
			r.Get("/events", s.ListTrackEvents)
		})
	})

	r.Route("/events/{eventId}", func(r chi.Router) {
		r.Get("/", s.GetEvent)
		r.Put("/", s.UpdateEvent)
		r.Delete("/", s.DeleteEvent)
		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", s.CreateRegistration)
			r.Get("/", s.ListRegistrations)
			r.Get("/export", s.ExportRoster)
			r.Delete("/{registrationId}", s.DeleteRegistration)
		})
	})

	r.Route("/reports", func(r chi.Router) {
		r.Post("/", s.CreateReport)
		r.Get("/", s.ListReports)
		r.Post("/{reportId}/resolve", s.ResolveReport)
	})

	return r
}
