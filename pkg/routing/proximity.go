package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"p9e.in/civicgrid/models"
)

// DefaultNearbyRadiusMeters is the search radius used when the caller
// does not supply one.
const DefaultNearbyRadiusMeters = 100.0

// metersPerDegreeLat is the approximate length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// NearbyReportFinder is the store lookup the proximity detector needs.
type NearbyReportFinder interface {
	// FindByCategoryInBound returns reports of the category whose
	// coordinates fall inside the bound, excluding the given statuses.
	FindByCategoryInBound(ctx context.Context, category models.Category, bound orb.Bound, excludeStatuses []models.Status) ([]models.Report, error)
}

// ProximityDetector surfaces possible duplicates of a new report: open
// reports of the same category within a radius. It is advisory only and
// never blocks report creation.
type ProximityDetector struct {
	reports NearbyReportFinder
}

// NewProximityDetector creates a detector backed by the given lookup.
func NewProximityDetector(reports NearbyReportFinder) *ProximityDetector {
	return &ProximityDetector{reports: reports}
}

// BoundAround builds the equirectangular bounding box for a radius around
// a point: latitude delta r/111320, longitude delta r/(111320*cos(lat)).
// This is a city-scale approximation, not a true great-circle radius.
func BoundAround(lat, lon, radiusMeters float64) orb.Bound {
	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := radiusMeters / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	return orb.Bound{
		Min: orb.Point{lon - lonDelta, lat - latDelta},
		Max: orb.Point{lon + lonDelta, lat + latDelta},
	}
}

// FindNearby returns same-category, non-closed reports within radiusMeters
// of the point. Pass radiusMeters <= 0 for the default radius.
func (pd *ProximityDetector) FindNearby(ctx context.Context, category models.Category, lat, lon, radiusMeters float64) ([]models.Report, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("find nearby: unknown category %q", category)
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadiusMeters
	}

	bound := BoundAround(lat, lon, radiusMeters)
	return pd.reports.FindByCategoryInBound(ctx, category, bound, []models.Status{models.StatusClosed})
}
