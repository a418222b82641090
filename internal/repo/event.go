package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trackday/internal/domain"
)

// EventRepo defines the persistence operations for Events.
type EventRepo interface {
	// Create inserts a new event and returns the persisted record.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID retrieves a single event.
	// Returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)

	// ListByTrackPaged returns one page of a track's events ordered by date,
	// and the total number of events at that track.
	ListByTrackPaged(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) ([]domain.Event, int64, error)

	// Update overwrites the mutable fields of an event.
	// Returns domain.ErrNotFound if no event with that ID exists.
	Update(ctx context.Context, event domain.Event) (domain.Event, error)

	// Delete removes an event and its registrations.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const eventColumns = `id, track_id, name, description, event_date, capacity, tags, created_at, updated_at`

func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (track_id, name, description, event_date, capacity, tags)
		VALUES (@track_id, @name, @description, @event_date, @capacity, @tags)
		RETURNING ` + eventColumns

	result, err := scanEvent(r.db.QueryRow(ctx, q, eventArgs(event)))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = @id`

	result, err := scanEvent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) ListByTrackPaged(ctx context.Context, trackID uuid.UUID, p domain.PaginationParams) ([]domain.Event, int64, error) {
	const countQ = `SELECT count(*) FROM events WHERE track_id = @track_id`
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE track_id = @track_id
		ORDER BY event_date, name
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"track_id": trackID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListByTrackPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"track_id": trackID,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListByTrackPaged: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.EventRepo.ListByTrackPaged: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.EventRepo.ListByTrackPaged: rows: %w", err)
	}
	return events, total, nil
}

func (r *pgEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		UPDATE events
		SET name        = @name,
		    description = @description,
		    event_date  = @event_date,
		    capacity    = @capacity,
		    tags        = @tags,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + eventColumns

	args := eventArgs(event)
	args["id"] = event.ID
	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func eventArgs(e domain.Event) pgx.NamedArgs {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return pgx.NamedArgs{
		"track_id":    e.TrackID,
		"name":        e.Name,
		"description": e.Description,
		"event_date":  pgtype.Date{Time: e.Date, Valid: true},
		"capacity":    e.Capacity,
		"tags":        tags,
	}
}

// scanEvent maps a single database row into a domain.Event.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e       domain.Event
		id, tid pgtype.UUID
		date    pgtype.Date
	)
	err := s.Scan(&id, &tid, &e.Name, &e.Description, &date, &e.Capacity, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.TrackID = uuid.UUID(tid.Bytes)
	e.Date = date.Time
	return e, nil
}
