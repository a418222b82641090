package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
	"github.com/pkordes/trackday/internal/repo"
	"github.com/pkordes/trackday/testutil"
)

// testRepos bundles every repo backed by one rolled-back transaction so
// tests can build full hierarchies (track → event → registration).
type testRepos struct {
	tracks        repo.TrackRepo
	events        repo.EventRepo
	registrations repo.RegistrationRepo
	reports       repo.ReportRepo
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return testRepos{
		tracks:        repo.NewTrackRepo(tx),
		events:        repo.NewEventRepo(tx),
		registrations: repo.NewRegistrationRepo(tx),
		reports:       repo.NewReportRepo(tx),
	}
}

func trackFixture(name string) domain.Track {
	return domain.Track{
		Name:      name,
		Location:  "Stavelot, Belgium",
		Latitude:  50.4372,
		Longitude: 5.9714,
		Distance:  7.004,
		Tags:      []string{"circuit", "tarmac"},
		Availability: []domain.AvailabilitySlot{
			{StartDay: domain.Monday, EndDay: domain.Friday, OpenTime: "09:00", CloseTime: "17:00"},
		},
	}
}

func mustCreateTrack(t *testing.T, r repo.TrackRepo, track domain.Track) domain.Track {
	t.Helper()
	created, err := r.Create(context.Background(), track)
	require.NoError(t, err)
	return created
}

var firstPage = domain.PaginationParams{Page: 1, Limit: 50}

// ---- Create / GetByID ------------------------------------------------------

func TestTrackRepo_CreateAndGet(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	created := mustCreateTrack(t, r.tracks, trackFixture("Spa-Francorchamps"))

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, created.Availability, 1)
	assert.Equal(t, created.ID, created.Availability[0].TrackID)

	got, err := r.tracks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spa-Francorchamps", got.Name)
	assert.Equal(t, []string{"circuit", "tarmac"}, got.Tags)
	require.Len(t, got.Availability, 1)
	assert.Equal(t, domain.Friday, got.Availability[0].EndDay)
	assert.Equal(t, "09:00", got.Availability[0].OpenTime)
}

func TestTrackRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.tracks.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListPaged -------------------------------------------------------------

func TestTrackRepo_ListPaged_Filters(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	weekdays := trackFixture("Weekday Ring " + suffix)
	weekdays.Distance = 12

	weekend := trackFixture("Weekend Kart " + suffix)
	weekend.Distance = 1.2
	weekend.Tags = []string{"karting", "tarmac", "kart"}
	weekend.Availability = []domain.AvailabilitySlot{{StartDay: domain.Saturday, EndDay: domain.Sunday}}

	unknownLength := trackFixture("Mystery Hill " + suffix)
	unknownLength.Distance = 0
	unknownLength.Tags = []string{"hill_climb"}

	for _, tr := range []domain.Track{weekdays, weekend, unknownLength} {
		mustCreateTrack(t, r.tracks, tr)
	}

	list := func(f filter.TrackFilter) []string {
		f.Search = suffix
		got, _, err := r.tracks.ListPaged(ctx, filter.BuildTrackPredicate(f), firstPage)
		require.NoError(t, err)
		var names []string
		for _, tr := range got {
			names = append(names, tr.Name)
		}
		return names
	}
	minLen := 10.0
	maxLen := 100.0
	sat := domain.Saturday
	sun := domain.Sunday

	assert.Len(t, list(filter.TrackFilter{}), 3)
	assert.Equal(t, []string{"Weekday Ring " + suffix}, list(filter.TrackFilter{MinLength: &minLen}))
	assert.Len(t, list(filter.TrackFilter{MaxLength: &maxLen}), 2, "zero-length track must be excluded")
	assert.Equal(t, []string{"Weekend Kart " + suffix}, list(filter.TrackFilter{Tags: []string{"tarmac", "kart"}}))
	assert.Equal(t, []string{"Weekend Kart " + suffix},
		list(filter.TrackFilter{Availability: filter.SingleDay{Days: []domain.Weekday{domain.Sunday}}}))
	assert.Equal(t, []string{"Weekend Kart " + suffix},
		list(filter.TrackFilter{Availability: filter.DayRange{From: &sat, To: &sun}}))
}

func TestTrackRepo_ListPaged_Total(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	for i := 0; i < 3; i++ {
		mustCreateTrack(t, r.tracks, trackFixture(string(rune('A'+i))+" "+suffix))
	}

	pred := filter.BuildTrackPredicate(filter.TrackFilter{Search: suffix})
	got, total, err := r.tracks.ListPaged(ctx, pred, domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "C "+suffix, got[0].Name)
}

// ---- Nearby ----------------------------------------------------------------

func TestTrackRepo_Nearby(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	spa := mustCreateTrack(t, r.tracks, trackFixture("Spa"))
	far := trackFixture("Suzuka")
	far.Latitude, far.Longitude = 34.8431, 136.5410
	mustCreateTrack(t, r.tracks, far)

	got, _, err := r.tracks.Nearby(ctx, domain.GeoQuery{Latitude: 50.44, Longitude: 5.97, RadiusKm: 25}, firstPage)

	require.NoError(t, err)
	var ids []uuid.UUID
	for _, n := range got {
		ids = append(ids, n.ID)
		assert.LessOrEqual(t, n.DistanceKm, 25.0)
	}
	assert.Contains(t, ids, spa.ID)
}

// ---- Update / Delete -------------------------------------------------------

func TestTrackRepo_Update_ReplacesSlots(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	created := mustCreateTrack(t, r.tracks, trackFixture("Zolder"))
	created.Name = "Circuit Zolder"
	created.Availability = []domain.AvailabilitySlot{
		{StartDay: domain.Tuesday, EndDay: domain.Tuesday},
		{StartDay: domain.Thursday, EndDay: domain.Saturday},
	}

	updated, err := r.tracks.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Circuit Zolder", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	require.Len(t, updated.Availability, 2)

	got, err := r.tracks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Availability, 2)
}

func TestTrackRepo_Update_NotFound(t *testing.T) {
	r := newTestRepos(t)

	tr := trackFixture("Ghost")
	tr.ID = uuid.New()
	_, err := r.tracks.Update(context.Background(), tr)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrackRepo_Delete(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	created := mustCreateTrack(t, r.tracks, trackFixture("Temp"))
	require.NoError(t, r.tracks.Delete(ctx, created.ID))

	_, err := r.tracks.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.tracks.Delete(ctx, created.ID), domain.ErrNotFound)
}

// ---- Events / registrations / reports --------------------------------------

func mustCreateEvent(t *testing.T, r testRepos, capacity int) domain.Event {
	t.Helper()
	track := mustCreateTrack(t, r.tracks, trackFixture("Host"))
	ev, err := r.events.Create(context.Background(), domain.Event{
		TrackID:  track.ID,
		Name:     "Open Pitlane",
		Date:     time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC),
		Capacity: capacity,
		Tags:     []string{"track_day", "helmet_required"},
	})
	require.NoError(t, err)
	return ev
}

func TestEventRepo_CRUD(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	ev := mustCreateEvent(t, r, 10)
	assert.Equal(t, 2026, ev.Date.Year())

	list, total, err := r.events.ListByTrackPaged(ctx, ev.TrackID, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	ev.Capacity = 20
	updated, err := r.events.Update(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Capacity)

	require.NoError(t, r.events.Delete(ctx, ev.ID))
	_, err = r.events.GetByID(ctx, ev.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationRepo_CapacityAndDuplicates(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	ev := mustCreateEvent(t, r, 1)
	first, err := r.registrations.Create(ctx, domain.Registration{
		EventID: ev.ID, Name: "Ayrton", Email: "ayrton@example.com", TicketCode: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)

	_, err = r.registrations.Create(ctx, domain.Registration{
		EventID: ev.ID, Name: "Alain", Email: "alain@example.com", TicketCode: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "second registration exceeds capacity 1")

	roster, err := r.registrations.Roster(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Host", roster[0].TrackName)
	assert.Equal(t, "2026-05-09", roster[0].EventDate)

	require.NoError(t, r.registrations.Delete(ctx, ev.ID, first.ID))
	assert.ErrorIs(t, r.registrations.Delete(ctx, ev.ID, first.ID), domain.ErrNotFound)

	open := mustCreateEvent(t, r, 0)
	_, err = r.registrations.Create(ctx, domain.Registration{
		EventID: open.ID, Name: "Ayrton", Email: "ayrton@example.com", TicketCode: uuid.NewString(),
	})
	require.NoError(t, err)
	_, err = r.registrations.Create(ctx, domain.Registration{
		EventID: open.ID, Name: "Someone Else", Email: "ayrton@example.com", TicketCode: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "same email twice for one event")

	_, err = r.registrations.Create(ctx, domain.Registration{
		EventID: uuid.New(), Name: "Ghost", Email: "ghost@example.com", TicketCode: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportRepo_Lifecycle(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	track := mustCreateTrack(t, r.tracks, trackFixture("Reported"))
	rep, err := r.reports.Create(ctx, domain.Report{
		TargetKind: domain.ReportTargetTrack, TargetID: track.ID, Reason: "wrong location",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportOpen, rep.Status)
	assert.Nil(t, rep.ResolvedAt)

	open := domain.ReportOpen
	list, _, err := r.reports.ListPaged(ctx, &open, firstPage)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	closed, err := r.reports.Close(ctx, rep.ID, domain.ReportResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportResolved, closed.Status)
	assert.NotNil(t, closed.ResolvedAt)

	_, err = r.reports.Close(ctx, rep.ID, domain.ReportDismissed)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
