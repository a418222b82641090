package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/service"
)

func echoReportRepo() *mockReportRepo {
	return &mockReportRepo{
		create: func(_ context.Context, r domain.Report) (domain.Report, error) { return r, nil },
	}
}

func TestReportService_Create_Track(t *testing.T) {
	svc := service.NewReportService(&mockTrackRepo{getByID: existingTrack}, &mockEventRepo{}, echoReportRepo())

	got, err := svc.Create(context.Background(), domain.Report{
		TargetKind: domain.ReportTargetTrack,
		TargetID:   uuid.New(),
		Reason:     "  closed permanently ",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportOpen, got.Status)
	assert.Equal(t, "closed permanently", got.Reason)
}

func TestReportService_Create_MissingTarget(t *testing.T) {
	svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{getByID: missingEvent}, echoReportRepo())

	_, err := svc.Create(context.Background(), domain.Report{
		TargetKind: domain.ReportTargetEvent,
		TargetID:   uuid.New(),
		Reason:     "cancelled",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportService_Create_Validation(t *testing.T) {
	svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, echoReportRepo())

	for _, rep := range []domain.Report{
		{TargetKind: "driver", Reason: "rude"},
		{TargetKind: domain.ReportTargetTrack, Reason: "   "},
	} {
		_, err := svc.Create(context.Background(), rep)
		assert.ErrorIs(t, err, domain.ErrValidation, "report %+v", rep)
	}
}

func TestReportService_List_RejectsUnknownStatus(t *testing.T) {
	svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, &mockReportRepo{})

	bogus := domain.ReportStatus("pending")
	_, err := svc.List(context.Background(), &bogus, domain.NewPaginationParams(nil, nil))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReportService_List_All(t *testing.T) {
	reports := &mockReportRepo{
		listPaged: func(_ context.Context, status *domain.ReportStatus, _ domain.PaginationParams) ([]domain.Report, int64, error) {
			assert.Nil(t, status)
			return nil, 0, nil
		},
	}
	svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, reports)

	page, err := svc.List(context.Background(), nil, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
}

func TestReportService_Resolve(t *testing.T) {
	id := uuid.New()
	reports := &mockReportRepo{
		getByID: func(_ context.Context, got uuid.UUID) (domain.Report, error) {
			return domain.Report{ID: got, Status: domain.ReportOpen}, nil
		},
		close: func(_ context.Context, got uuid.UUID, status domain.ReportStatus) (domain.Report, error) {
			return domain.Report{ID: got, Status: status}, nil
		},
	}
	svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, reports)

	got, err := svc.Resolve(context.Background(), id, domain.ReportDismissed)

	require.NoError(t, err)
	assert.Equal(t, domain.ReportDismissed, got.Status)
}

func TestReportService_Resolve_Errors(t *testing.T) {
	t.Run("reopen is not a resolution", func(t *testing.T) {
		svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, &mockReportRepo{})
		_, err := svc.Resolve(context.Background(), uuid.New(), domain.ReportOpen)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown report", func(t *testing.T) {
		reports := &mockReportRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Report, error) { return domain.Report{}, domain.ErrNotFound },
		}
		svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, reports)
		_, err := svc.Resolve(context.Background(), uuid.New(), domain.ReportResolved)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("already closed", func(t *testing.T) {
		reports := &mockReportRepo{
			getByID: func(_ context.Context, id uuid.UUID) (domain.Report, error) {
				return domain.Report{ID: id, Status: domain.ReportResolved}, nil
			},
			close: func(_ context.Context, _ uuid.UUID, _ domain.ReportStatus) (domain.Report, error) {
				return domain.Report{}, domain.ErrConflict
			},
		}
		svc := service.NewReportService(&mockTrackRepo{}, &mockEventRepo{}, reports)
		_, err := svc.Resolve(context.Background(), uuid.New(), domain.ReportResolved)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
