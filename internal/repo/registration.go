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

// RegistrationRepo defines the persistence operations for event registrations.
type RegistrationRepo interface {
	// Create registers a participant if the event still has room.
	// Returns domain.ErrConflict when the event is full or the email is
	// already registered for it.
	Create(ctx context.Context, reg domain.Registration) (domain.Registration, error)

	// ListByEventPaged returns one page of an event's registrations in signup
	// order, and the total number of registrations.
	ListByEventPaged(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) ([]domain.Registration, int64, error)

	// Delete cancels a registration, scoped to the given event.
	// Returns domain.ErrNotFound if no such registration exists under that event.
	Delete(ctx context.Context, eventID, regID uuid.UUID) error

	// Roster returns every registration of an event joined with event and
	// track details, in signup order.
	Roster(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error)
}

// pgRegistrationRepo is the Postgres implementation of RegistrationRepo.
type pgRegistrationRepo struct {
	db db
}

// NewRegistrationRepo constructs a RegistrationRepo backed by the provided db connection.
func NewRegistrationRepo(db db) RegistrationRepo {
	return &pgRegistrationRepo{db: db}
}

// Create locks the event row, then counts and inserts in the same
// transaction. The count runs after the lock is held, so concurrent signups
// for one event are serialised and cannot overbook it.
func (r *pgRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	const lockQ = `SELECT capacity FROM events WHERE id = @event_id FOR UPDATE`
	const countQ = `SELECT count(*) FROM registrations WHERE event_id = @event_id`
	const q = `
		INSERT INTO registrations (event_id, name, email, ticket_code)
		VALUES (@event_id, @name, @email, @ticket_code)
		RETURNING id, event_id, name, email, ticket_code, created_at`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: begin: %w", err)
	}
	defer rollback(ctx, tx)

	eventArg := pgx.NamedArgs{"event_id": reg.EventID}
	var capacity int
	if err := tx.QueryRow(ctx, lockQ, eventArg).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", domain.ErrNotFound)
		}
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: lock event: %w", err)
	}
	if capacity > 0 {
		var taken int
		if err := tx.QueryRow(ctx, countQ, eventArg).Scan(&taken); err != nil {
			return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: count: %w", err)
		}
		if taken >= capacity {
			return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w: event is full", domain.ErrConflict)
		}
	}

	result, err := scanRegistration(tx.QueryRow(ctx, q, pgx.NamedArgs{
		"event_id":    reg.EventID,
		"name":        reg.Name,
		"email":       reg.Email,
		"ticket_code": reg.TicketCode,
	}))
	if isUniqueViolation(err) {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w: email already registered", domain.ErrConflict)
	}
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: commit: %w", err)
	}
	return result, nil
}

func (r *pgRegistrationRepo) ListByEventPaged(ctx context.Context, eventID uuid.UUID, p domain.PaginationParams) ([]domain.Registration, int64, error) {
	const countQ = `SELECT count(*) FROM registrations WHERE event_id = @event_id`
	const q = `
		SELECT id, event_id, name, email, ticket_code, created_at
		FROM registrations
		WHERE event_id = @event_id
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"event_id": eventID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RegistrationRepo.ListByEventPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"event_id": eventID, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RegistrationRepo.ListByEventPaged: %w", err)
	}
	regs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Registration, error) {
		return scanRegistration(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RegistrationRepo.ListByEventPaged: scan: %w", err)
	}
	return regs, total, nil
}

func (r *pgRegistrationRepo) Delete(ctx context.Context, eventID, regID uuid.UUID) error {
	const q = `DELETE FROM registrations WHERE id = @id AND event_id = @event_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": regID, "event_id": eventID})
	if err != nil {
		return fmt.Errorf("repo.RegistrationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RegistrationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgRegistrationRepo) Roster(ctx context.Context, eventID uuid.UUID) ([]domain.RosterRow, error) {
	const q = `
		SELECT e.id, e.name, e.event_date, t.name, r.name, r.email, r.ticket_code, r.created_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		JOIN tracks t ON t.id = e.track_id
		WHERE r.event_id = @event_id
		ORDER BY r.created_at, r.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"event_id": eventID})
	if err != nil {
		return nil, fmt.Errorf("repo.RegistrationRepo.Roster: %w", err)
	}
	defer rows.Close()

	out := []domain.RosterRow{}
	for rows.Next() {
		var (
			row  domain.RosterRow
			id   pgtype.UUID
			date pgtype.Date
		)
		err := rows.Scan(&id, &row.EventName, &date, &row.TrackName, &row.Name, &row.Email, &row.TicketCode, &row.Registered)
		if err != nil {
			return nil, fmt.Errorf("repo.RegistrationRepo.Roster: scan: %w", err)
		}
		row.EventID = uuid.UUID(id.Bytes).String()
		row.EventDate = date.Time.Format("2006-01-02")
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RegistrationRepo.Roster: rows: %w", err)
	}
	return out, nil
}

func scanRegistration(s scanner) (domain.Registration, error) {
	var (
		reg     domain.Registration
		id, eid pgtype.UUID
	)
	err := s.Scan(&id, &eid, &reg.Name, &reg.Email, &reg.TicketCode, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Registration{}, domain.ErrNotFound
		}
		return domain.Registration{}, err
	}
	reg.ID = uuid.UUID(id.Bytes)
	reg.EventID = uuid.UUID(eid.Bytes)
	return reg, nil
}
