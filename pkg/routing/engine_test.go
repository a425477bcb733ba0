package routing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/civicgrid/models"
)

// fakeDirectory serves a fixed set of active departments.
type fakeDirectory struct {
	byCode map[string]*models.Department
	err    error
}

func (f *fakeDirectory) FindActiveByCode(_ context.Context, code string) (*models.Department, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCode[code], nil
}

func newFakeDirectory(codes ...string) *fakeDirectory {
	byCode := make(map[string]*models.Department, len(codes))
	for _, code := range codes {
		byCode[code] = &models.Department{ID: uuid.New(), Code: code, IsActive: true}
	}
	return &fakeDirectory{byCode: byCode}
}

func TestRoute_WaterLeakFlooding(t *testing.T) {
	dir := newFakeDirectory("WAT")
	engine := NewEngine(dir)

	decision, err := engine.Route(context.Background(), models.CategoryWaterLeak,
		"flooding in the basement from a leak", Location{Latitude: 40.71, Longitude: -74.0})
	require.NoError(t, err)

	assert.Equal(t, "WAT", decision.DepartmentCode)
	assert.Equal(t, models.PriorityUrgent, decision.Priority)
	assert.Equal(t, 1, decision.EstimatedResolutionDays)
	require.NotNil(t, decision.DepartmentID)
	assert.Equal(t, dir.byCode["WAT"].ID, *decision.DepartmentID)
}

func TestRoute_ParkMaintenanceCosmetic(t *testing.T) {
	engine := NewEngine(newFakeDirectory("PAR"))

	decision, err := engine.Route(context.Background(), models.CategoryParkMaintenance,
		"cosmetic minor graffiti on bench", Location{Latitude: 40.71, Longitude: -74.0})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityLow, decision.Priority)
	assert.Equal(t, 20, decision.EstimatedResolutionDays)
}

func TestRoute_FailOpenWithoutDepartment(t *testing.T) {
	// directory has no active department for any code
	engine := NewEngine(newFakeDirectory())

	decision, err := engine.Route(context.Background(), models.CategoryPothole,
		"there is a pothole", Location{Latitude: 40.71, Longitude: -74.0})
	require.NoError(t, err, "missing department must not fail routing")

	assert.Equal(t, "PWD", decision.DepartmentCode)
	assert.Nil(t, decision.DepartmentID, "unrouted decision carries no department ID")
	assert.Equal(t, models.PriorityMedium, decision.Priority)
	assert.Equal(t, 7, decision.EstimatedResolutionDays)
}

func TestRoute_UnknownCategory(t *testing.T) {
	engine := NewEngine(newFakeDirectory("GEN"))

	_, err := engine.Route(context.Background(), models.Category("SPACESHIP"),
		"unidentified issue", Location{})
	assert.Error(t, err)
}

func TestRoute_DirectoryError(t *testing.T) {
	engine := NewEngine(&fakeDirectory{err: assert.AnError})

	_, err := engine.Route(context.Background(), models.CategoryTrash,
		"overflowing bins", Location{})
	assert.ErrorIs(t, err, assert.AnError)
}
