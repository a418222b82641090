package repo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/filter"
)

// TrackRepo defines the persistence operations for Tracks.
// Availability slots are owned by their track and are written and read
// together with it.
type TrackRepo interface {
	// Create inserts a track and its slots and returns the persisted record.
	Create(ctx context.Context, track domain.Track) (domain.Track, error)

	// GetByID retrieves a single track with its slots.
	// Returns domain.ErrNotFound if no track with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Track, error)

	// ListPaged returns one page of tracks matching pred, ordered by name,
	// and the total number of matches.
	ListPaged(ctx context.Context, pred filter.Predicate, p domain.PaginationParams) ([]domain.Track, int64, error)

	// Nearby returns one page of tracks within q.RadiusKm of the query point,
	// closest first, and the total number within the radius.
	Nearby(ctx context.Context, q domain.GeoQuery, p domain.PaginationParams) ([]domain.NearbyTrack, int64, error)

	// Update overwrites the mutable fields of a track and replaces its slots.
	// Returns domain.ErrNotFound if no track with that ID exists.
	Update(ctx context.Context, track domain.Track) (domain.Track, error)

	// Delete removes a track, its slots and its events.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTrackRepo is the Postgres implementation of TrackRepo.
type pgTrackRepo struct {
	db db
}

// NewTrackRepo constructs a TrackRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTrackRepo(db db) TrackRepo {
	return &pgTrackRepo{db: db}
}

var trackColumns = []string{
	"t.id", "t.name", "t.location", "t.latitude", "t.longitude",
	"t.distance", "t.description", "t.tags", "t.created_at", "t.updated_at",
}

const trackReturning = `RETURNING id, name, location, latitude, longitude, distance, description, tags, created_at, updated_at`

// Create inserts the track row and its slots in one transaction.
func (r *pgTrackRepo) Create(ctx context.Context, track domain.Track) (domain.Track, error) {
	const q = `
		INSERT INTO tracks (name, location, latitude, longitude, distance, description, tags)
		VALUES (@name, @location, @latitude, @longitude, @distance, @description, @tags)
		` + trackReturning

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Create: begin: %w", err)
	}
	defer rollback(ctx, tx)

	result, err := scanTrack(tx.QueryRow(ctx, q, trackArgs(track)))
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Create: %w", err)
	}
	result.Availability, err = insertSlots(ctx, tx, result.ID, track.Availability)
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Create: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Create: commit: %w", err)
	}
	return result, nil
}

// GetByID retrieves a track by primary key.
func (r *pgTrackRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Track, error) {
	query, args, err := psql.Select(trackColumns...).From("tracks t").Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.GetByID: build: %w", err)
	}

	result, err := scanTrack(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.GetByID: %w", err)
	}
	slots, err := listSlots(ctx, r.db, []uuid.UUID{result.ID})
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.GetByID: %w", err)
	}
	result.Availability = slots[result.ID]
	return result, nil
}

// ListPaged translates pred into a WHERE clause and runs a count query and
// a page query with it.
func (r *pgTrackRepo) ListPaged(ctx context.Context, pred filter.Predicate, p domain.PaginationParams) ([]domain.Track, int64, error) {
	where, err := trackWhere(pred)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.ListPaged: %w", err)
	}

	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.ListPaged: %w", err)
	}

	query, args, err := psql.Select(trackColumns...).
		From("tracks t").
		Where(where).
		OrderBy("t.name", "t.id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.ListPaged: build: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.ListPaged: %w", err)
	}
	tracks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Track, error) {
		return scanTrack(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.ListPaged: scan: %w", err)
	}

	if err := r.attachSlots(ctx, tracks); err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.ListPaged: %w", err)
	}
	return tracks, total, nil
}

// Nearby orders tracks by haversine distance from the query point.
func (r *pgTrackRepo) Nearby(ctx context.Context, g domain.GeoQuery, p domain.PaginationParams) ([]domain.NearbyTrack, int64, error) {
	dist := haversineKm(g.Latitude, g.Longitude)
	where := sq.Expr("("+haversineSQL+") <= ?", g.Latitude, g.Latitude, g.Longitude, g.RadiusKm)

	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.Nearby: %w", err)
	}

	query, args, err := psql.Select(trackColumns...).
		Column(sq.Alias(dist, "distance_km")).
		From("tracks t").
		Where(where).
		OrderBy("distance_km", "t.id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.Nearby: build: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.Nearby: %w", err)
	}
	nearby, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NearbyTrack, error) {
		var n domain.NearbyTrack
		t, err := scanTrack(row, &n.DistanceKm)
		n.Track = t
		return n, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.Nearby: scan: %w", err)
	}

	tracks := make([]domain.Track, len(nearby))
	for i := range nearby {
		tracks[i] = nearby[i].Track
	}
	if err := r.attachSlots(ctx, tracks); err != nil {
		return nil, 0, fmt.Errorf("repo.TrackRepo.Nearby: %w", err)
	}
	for i := range nearby {
		nearby[i].Availability = tracks[i].Availability
	}
	return nearby, total, nil
}

// Update overwrites the track row and replaces all of its slots.
func (r *pgTrackRepo) Update(ctx context.Context, track domain.Track) (domain.Track, error) {
	const q = `
		UPDATE tracks
		SET name        = @name,
		    location    = @location,
		    latitude    = @latitude,
		    longitude   = @longitude,
		    distance    = @distance,
		    description = @description,
		    tags        = @tags,
		    updated_at  = now()
		WHERE id = @id
		` + trackReturning

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Update: begin: %w", err)
	}
	defer rollback(ctx, tx)

	args := trackArgs(track)
	args["id"] = track.ID
	result, err := scanTrack(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Update: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM track_availability WHERE track_id = @id`, pgx.NamedArgs{"id": track.ID}); err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Update: clear slots: %w", err)
	}
	result.Availability, err = insertSlots(ctx, tx, result.ID, track.Availability)
	if err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Track{}, fmt.Errorf("repo.TrackRepo.Update: commit: %w", err)
	}
	return result, nil
}

// Delete removes a track by primary key. Slots and events cascade.
func (r *pgTrackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tracks WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TrackRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrackRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTrackRepo) count(ctx context.Context, where sq.Sqlizer) (int64, error) {
	query, args, err := psql.Select("count(*)").From("tracks t").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

// attachSlots loads the slots for every track in one query.
func (r *pgTrackRepo) attachSlots(ctx context.Context, tracks []domain.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	slots, err := listSlots(ctx, r.db, ids)
	if err != nil {
		return err
	}
	for i := range tracks {
		tracks[i].Availability = slots[tracks[i].ID]
	}
	return nil
}

func trackArgs(t domain.Track) pgx.NamedArgs {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return pgx.NamedArgs{
		"name":        t.Name,
		"location":    t.Location,
		"latitude":    t.Latitude,
		"longitude":   t.Longitude,
		"distance":    t.Distance,
		"description": t.Description,
		"tags":        tags,
	}
}

// scanTrack maps a single database row into a domain.Track. Extra
// destinations receive any columns selected after the track columns.
func scanTrack(s scanner, extra ...any) (domain.Track, error) {
	var (
		t  domain.Track
		id pgtype.UUID
	)
	dest := append([]any{
		&id, &t.Name, &t.Location, &t.Latitude, &t.Longitude,
		&t.Distance, &t.Description, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	}, extra...)

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Track{}, domain.ErrNotFound
		}
		return domain.Track{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
