package maritime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Shanghai to Kaohsiung, roughly 1000 km.
	shanghai := GeoPoint{Lat: 31.2304, Lon: 121.4737}
	kaohsiung := GeoPoint{Lat: 22.6273, Lon: 120.3014}

	d := Haversine(shanghai, kaohsiung)
	assert.InDelta(t, 963, d, 15)
}

func TestHaversine_ZeroForIdenticalPoints(t *testing.T) {
	p := GeoPoint{Lat: 18.2895, Lon: 109.3695}
	assert.InDelta(t, 0, Haversine(p, p), 1e-9)
}

func TestHaversine_Symmetry(t *testing.T) {
	cases := []struct {
		a, b GeoPoint
	}{
		{GeoPoint{31.2, 121.5}, GeoPoint{22.6, 120.3}},
		{GeoPoint{-33.9, 151.2}, GeoPoint{51.5, -0.1}},
		{GeoPoint{0.5, 0.5}, GeoPoint{-0.5, -0.5}},
		{GeoPoint{89.9, 10}, GeoPoint{-89.9, -170}},
	}
	for _, tc := range cases {
		assert.InDelta(t, Haversine(tc.a, tc.b), Haversine(tc.b, tc.a), 1e-9,
			"haversine must be symmetric for %v and %v", tc.a, tc.b)
	}
}

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.19 km on the R=6371 sphere.
	a := GeoPoint{Lat: 20, Lon: 110}
	b := GeoPoint{Lat: 21, Lon: 110}
	assert.InDelta(t, 111.19, Haversine(a, b), 0.1)
}

func TestBearing_CardinalDirections(t *testing.T) {
	origin := GeoPoint{Lat: 20, Lon: 110}

	assert.InDelta(t, 0, Bearing(origin, GeoPoint{Lat: 21, Lon: 110}), 0.01, "due north")
	assert.InDelta(t, 180, Bearing(origin, GeoPoint{Lat: 19, Lon: 110}), 0.01, "due south")
	assert.InDelta(t, 90, Bearing(origin, GeoPoint{Lat: 20, Lon: 111}), 0.5, "due east")
	assert.InDelta(t, 270, Bearing(origin, GeoPoint{Lat: 20, Lon: 109}), 0.5, "due west")
}

func TestBearing_AlwaysInRange(t *testing.T) {
	points := []GeoPoint{
		{31.2, 121.5}, {22.6, 120.3}, {-33.9, 151.2}, {51.5, -0.1}, {0, 100},
	}
	for _, a := range points {
		for _, b := range points {
			if a == b {
				continue
			}
			br := Bearing(a, b)
			assert.GreaterOrEqual(t, br, 0.0)
			assert.Less(t, br, 360.0)
		}
	}
}

func TestAngularDiff_FoldsAcrossNorth(t *testing.T) {
	assert.InDelta(t, 2, AngularDiff(359, 1), 1e-9)
	assert.InDelta(t, 180, AngularDiff(0, 180), 1e-9)
	assert.InDelta(t, 0, AngularDiff(45, 45), 1e-9)
	assert.InDelta(t, 90, AngularDiff(315, 45), 1e-9)
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 18.2895, Round4(18.28951))
	assert.Equal(t, 109.3695, Round4(109.36949))
	assert.Equal(t, -5.5, Round4(-5.5))
}

func TestEarthRadiusConstant(t *testing.T) {
	assert.Equal(t, 6371.0, EarthRadiusKm)
	// Sanity: half circumference between antipodal points.
	d := Haversine(GeoPoint{0, 0}, GeoPoint{0, 180})
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 0.5)
}
