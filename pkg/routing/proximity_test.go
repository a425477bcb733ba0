package routing

import (
	"context"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/civicgrid/models"
)

// fakeFinder records the query it receives and returns canned reports.
type fakeFinder struct {
	gotCategory models.Category
	gotBound    orb.Bound
	gotExcluded []models.Status
	reports     []models.Report
}

func (f *fakeFinder) FindByCategoryInBound(_ context.Context, category models.Category, bound orb.Bound, excludeStatuses []models.Status) ([]models.Report, error) {
	f.gotCategory = category
	f.gotBound = bound
	f.gotExcluded = excludeStatuses
	return f.reports, nil
}

func TestBoundAround(t *testing.T) {
	const lat, lon, radius = 40.0, -74.0, 100.0

	bound := BoundAround(lat, lon, radius)

	latDelta := radius / 111320.0
	lonDelta := radius / (111320.0 * math.Cos(lat*math.Pi/180))

	assert.InDelta(t, lat-latDelta, bound.Min[1], 1e-12)
	assert.InDelta(t, lat+latDelta, bound.Max[1], 1e-12)
	assert.InDelta(t, lon-lonDelta, bound.Min[0], 1e-12)
	assert.InDelta(t, lon+lonDelta, bound.Max[0], 1e-12)

	// longitude shrinks faster than latitude away from the equator, so
	// the box is wider in degrees east-west than north-south
	assert.Greater(t, lonDelta, latDelta)
}

func TestFindNearby_DefaultRadiusAndClosedExclusion(t *testing.T) {
	finder := &fakeFinder{}
	detector := NewProximityDetector(finder)

	_, err := detector.FindNearby(context.Background(), models.CategoryPothole, 40.0, -74.0, 0)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryPothole, finder.gotCategory)
	assert.Equal(t, []models.Status{models.StatusClosed}, finder.gotExcluded)

	// default 100 m radius
	expected := BoundAround(40.0, -74.0, DefaultNearbyRadiusMeters)
	assert.Equal(t, expected, finder.gotBound)
}

func TestFindNearby_CustomRadius(t *testing.T) {
	finder := &fakeFinder{}
	detector := NewProximityDetector(finder)

	_, err := detector.FindNearby(context.Background(), models.CategoryStreetlight, 51.5, -0.12, 250)
	require.NoError(t, err)

	assert.Equal(t, BoundAround(51.5, -0.12, 250), finder.gotBound)
}

func TestFindNearby_UnknownCategory(t *testing.T) {
	detector := NewProximityDetector(&fakeFinder{})

	_, err := detector.FindNearby(context.Background(), models.Category("BAD"), 0, 0, 0)
	assert.Error(t, err)
}
