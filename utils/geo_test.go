package utils

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"valid city coordinate", Coordinate{Lat: 40.71, Lng: -74.0}, false},
		{"equator prime meridian", Coordinate{Lat: 0, Lng: 0}, false},
		{"lat too high", Coordinate{Lat: 90.1, Lng: 0}, true},
		{"lat too low", Coordinate{Lat: -90.1, Lng: 0}, true},
		{"lng too high", Coordinate{Lat: 0, Lng: 180.1}, true},
		{"lng too low", Coordinate{Lat: 0, Lng: -180.1}, true},
		{"boundary values", Coordinate{Lat: 90, Lng: -180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.coord)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%+v) error = %v, wantErr %v", tt.coord, err, tt.wantErr)
			}
		})
	}
}

func TestCoordinateInBound(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{-74.1, 40.6}, Max: orb.Point{-73.9, 40.8}}

	inside := Coordinate{Lat: 40.7, Lng: -74.0}
	if !inside.InBound(bound) {
		t.Errorf("%+v should be inside %v", inside, bound)
	}

	outside := Coordinate{Lat: 41.0, Lng: -74.0}
	if outside.InBound(bound) {
		t.Errorf("%+v should be outside %v", outside, bound)
	}
}
