package stores

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/civicgrid/models"
	"p9e.in/civicgrid/pkg/routing"
	"p9e.in/civicgrid/pkg/workflow"
)

func TestApplyTransition_ConflictOnStaleStatus(t *testing.T) {
	db, mock, gdb := setupMockDB(t)
	defer db.Close()

	reportID := uuid.New()
	newStatus := models.StatusResolved

	mock.ExpectBegin()
	// status guard fails: another transition already moved the report
	mock.ExpectExec(`UPDATE "reports" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	store := NewReportStore(gdb)
	_, err := store.ApplyTransition(context.Background(), reportID, models.StatusAssigned,
		workflow.ReportPatch{Status: &newStatus}, &models.StatusUpdate{
			OldStatus: models.StatusAssigned,
			NewStatus: newStatus,
		})

	assert.ErrorIs(t, err, workflow.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransition_NotFound(t *testing.T) {
	db, mock, gdb := setupMockDB(t)
	defer db.Close()

	newStatus := models.StatusAcknowledged

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reports" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	store := NewReportStore(gdb)
	_, err := store.ApplyTransition(context.Background(), uuid.New(), models.StatusSubmitted,
		workflow.ReportPatch{Status: &newStatus}, nil)

	assert.ErrorIs(t, err, workflow.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCategoryInBound_BuildsBoundedQuery(t *testing.T) {
	db, mock, gdb := setupMockDB(t)
	defer db.Close()

	bound := routing.BoundAround(40.0, -74.0, 100)

	mock.ExpectQuery(`SELECT \* FROM "reports" WHERE category = .+ ORDER BY created_at DESC`).
		WithArgs("POTHOLE", bound.Min[1], bound.Max[1], bound.Min[0], bound.Max[0], "CLOSED").
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "status", "latitude", "longitude"}))

	store := NewReportStore(gdb)
	reports, err := store.FindByCategoryInBound(context.Background(), models.CategoryPothole, bound,
		[]models.Status{models.StatusClosed})

	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.NoError(t, mock.ExpectationsWereMet())
}
