package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trackday/internal/domain"
)

// ReportRepo defines the persistence operations for moderation reports.
type ReportRepo interface {
	// Create inserts an open report.
	Create(ctx context.Context, report domain.Report) (domain.Report, error)

	// GetByID retrieves a report. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error)

	// ListPaged returns one page of reports, newest first, optionally limited
	// to one status, and the total number of matches.
	ListPaged(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) ([]domain.Report, int64, error)

	// Close moves an open report to status and stamps resolved_at.
	// Returns domain.ErrConflict if the report is no longer open.
	Close(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error)
}

// pgReportRepo is the Postgres implementation of ReportRepo.
type pgReportRepo struct {
	db db
}

// NewReportRepo constructs a ReportRepo backed by the provided db connection.
func NewReportRepo(db db) ReportRepo {
	return &pgReportRepo{db: db}
}

var reportColumns = []string{"id", "target_kind", "target_id", "reason", "status", "created_at", "resolved_at"}

func (r *pgReportRepo) Create(ctx context.Context, report domain.Report) (domain.Report, error) {
	query, args, err := psql.Insert("reports").
		Columns("target_kind", "target_id", "reason").
		Values(string(report.TargetKind), report.TargetID, report.Reason).
		Suffix("RETURNING id, target_kind, target_id, reason, status, created_at, resolved_at").
		ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.Create: build: %w", err)
	}

	result, err := scanReport(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgReportRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	query, args, err := psql.Select(reportColumns...).From("reports").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.GetByID: build: %w", err)
	}

	result, err := scanReport(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgReportRepo) ListPaged(ctx context.Context, status *domain.ReportStatus, p domain.PaginationParams) ([]domain.Report, int64, error) {
	where := sq.And{}
	if status != nil {
		where = append(where, sq.Eq{"status": string(*status)})
	}

	countQ, countArgs, err := psql.Select("count(*)").From("reports").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: build count: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQ, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: count: %w", err)
	}

	query, args, err := psql.Select(reportColumns...).
		From("reports").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: build: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: %w", err)
	}
	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Report, error) {
		return scanReport(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ReportRepo.ListPaged: scan: %w", err)
	}
	return reports, total, nil
}

func (r *pgReportRepo) Close(ctx context.Context, id uuid.UUID, status domain.ReportStatus) (domain.Report, error) {
	query, args, err := psql.Update("reports").
		Set("status", string(status)).
		Set("resolved_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "status": string(domain.ReportOpen)}).
		Suffix("RETURNING id, target_kind, target_id, reason, status, created_at, resolved_at").
		ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.Close: build: %w", err)
	}

	result, err := scanReport(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.Close: %w: report is not open", domain.ErrConflict)
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("repo.ReportRepo.Close: %w", err)
	}
	return result, nil
}

func scanReport(s scanner) (domain.Report, error) {
	var (
		rep          domain.Report
		id, target   pgtype.UUID
		kind, status string
		resolvedAt   pgtype.Timestamptz
	)
	err := s.Scan(&id, &kind, &target, &rep.Reason, &status, &rep.CreatedAt, &resolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, domain.ErrNotFound
		}
		return domain.Report{}, err
	}
	rep.ID = uuid.UUID(id.Bytes)
	rep.TargetID = uuid.UUID(target.Bytes)
	rep.TargetKind = domain.ReportTarget(kind)
	rep.Status = domain.ReportStatus(status)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		rep.ResolvedAt = &t
	}
	return rep, nil
}
