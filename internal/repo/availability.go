package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trackday/internal/domain"
)

// Slots have no repo interface of their own: they are only ever written and
// read as part of a track.

// insertSlots writes slots for trackID and returns them with IDs populated.
// Always returns a non-nil slice.
func insertSlots(ctx context.Context, tx pgx.Tx, trackID uuid.UUID, slots []domain.AvailabilitySlot) ([]domain.AvailabilitySlot, error) {
	const q = `
		INSERT INTO track_availability (track_id, start_day, end_day, open_time, close_time)
		VALUES (@track_id, @start_day, @end_day, @open_time, @close_time)
		RETURNING id, track_id, start_day, end_day, open_time, close_time`

	out := make([]domain.AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		args := pgx.NamedArgs{
			"track_id":   trackID,
			"start_day":  int16(s.StartDay),
			"end_day":    int16(s.EndDay),
			"open_time":  s.OpenTime,
			"close_time": s.CloseTime,
		}
		saved, err := scanSlot(tx.QueryRow(ctx, q, args))
		if err != nil {
			return nil, fmt.Errorf("insert slot: %w", err)
		}
		out = append(out, saved)
	}
	return out, nil
}

// listSlots loads the slots of every given track, keyed by track ID and
// ordered by start day.
func listSlots(ctx context.Context, db db, trackIDs []uuid.UUID) (map[uuid.UUID][]domain.AvailabilitySlot, error) {
	const q = `
		SELECT id, track_id, start_day, end_day, open_time, close_time
		FROM track_availability
		WHERE track_id = ANY(@ids)
		ORDER BY start_day, end_day, open_time`

	rows, err := db.Query(ctx, q, pgx.NamedArgs{"ids": trackIDs})
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.AvailabilitySlot, len(trackIDs))
	for _, id := range trackIDs {
		out[id] = []domain.AvailabilitySlot{}
	}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("list slots: scan: %w", err)
		}
		out[s.TrackID] = append(out[s.TrackID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: rows: %w", err)
	}
	return out, nil
}

func scanSlot(s scanner) (domain.AvailabilitySlot, error) {
	var (
		slot        domain.AvailabilitySlot
		id, trackID pgtype.UUID
		start, end  int16
	)
	if err := s.Scan(&id, &trackID, &start, &end, &slot.OpenTime, &slot.CloseTime); err != nil {
		return domain.AvailabilitySlot{}, err
	}
	slot.ID = uuid.UUID(id.Bytes)
	slot.TrackID = uuid.UUID(trackID.Bytes)
	slot.StartDay = domain.Weekday(start)
	slot.EndDay = domain.Weekday(end)
	return slot, nil
}
