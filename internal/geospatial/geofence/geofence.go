// Package geofence evaluates a vessel position against a hazard zone and
// grades the exposure.  Point hazards use great-circle distance against a
// buffer-scaled threat ladder; polygon hazards use ray-casting containment
// with a flat-earth distance-to-boundary fallback, which is accurate at
// warning-zone scales.
//
// The engine never returns an error.  Geometry that cannot be repaired
// produces a Safe assessment with certainty 0.0, which callers must read as
// "unknown", not "confirmed safe".
package geofence

import (
	"math"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// KmPerDegree converts angular separation to kilometers in the flat-earth
// approximation used for polygon boundary distances.
const KmPerDegree = 111.0

// DegSqToKmSq scales a polygon area from square degrees to km² at low
// latitudes (111² ≈ 12100).
const DegSqToKmSq = 12100.0

// ZoneThreat grades the vessel position against one hazard zone.  The zone's
// BufferKm is the ladder unit; zero or negative buffers collapse the ladder
// so everything outside the zone itself reads Safe.
func ZoneThreat(vesselPos maritime.GeoPoint, zone maritime.HazardZone) maritime.ThreatAssessment {
	// A polygon without enough vertices degrades to a point hazard on its
	// first vertex.
	if zone.Kind == maritime.ZonePolygon && len(zone.Vertices) >= 3 {
		return polygonThreat(vesselPos, zone)
	}
	return pointThreat(vesselPos, zone)
}

// ─────────────────────────────────────────────────────────────────────────────
// Point hazards
// ─────────────────────────────────────────────────────────────────────────────

func pointThreat(vesselPos maritime.GeoPoint, zone maritime.HazardZone) maritime.ThreatAssessment {
	if len(zone.Vertices) == 0 {
		return unknownAssessment(zone.ID)
	}
	hazard := zone.Vertices[0]
	distance := maritime.Haversine(vesselPos, hazard)
	bearing := maritime.Bearing(vesselPos, hazard)

	level, certainty := pointLadder(distance, zone.BufferKm)
	return maritime.ThreatAssessment{
		HazardID:   zone.ID,
		Level:      level,
		DistanceKm: distance,
		IsInZone:   distance < 0.5*zone.BufferKm,
		Certainty:  certainty,
		BearingDeg: &bearing,
	}
}

// pointLadder maps a distance to the threat level and certainty for point
// hazards.  Thresholds are multiples of the buffer distance.
func pointLadder(distanceKm, bufferKm float64) (maritime.ThreatLevel, float64) {
	switch {
	case distanceKm < 0.25*bufferKm:
		return maritime.ThreatCritical, 0.95
	case distanceKm < 0.5*bufferKm:
		return maritime.ThreatHigh, 0.9
	case distanceKm < 1*bufferKm:
		return maritime.ThreatMedium, 0.85
	case distanceKm < 2*bufferKm:
		return maritime.ThreatLow, 0.7
	case distanceKm < 5*bufferKm:
		return maritime.ThreatLow, 0.5
	default:
		return maritime.ThreatSafe, 0
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Polygon hazards
// ─────────────────────────────────────────────────────────────────────────────

func polygonThreat(vesselPos maritime.GeoPoint, zone maritime.HazardZone) maritime.ThreatAssessment {
	ring, ok := repairRing(zone.Vertices)
	if !ok {
		return unknownAssessment(zone.ID)
	}

	center := zone.Center()
	bearing := maritime.Bearing(vesselPos, center)

	if containsPoint(ring, vesselPos) {
		return maritime.ThreatAssessment{
			HazardID:   zone.ID,
			Level:      maritime.ThreatCritical,
			DistanceKm: 0,
			IsInZone:   true,
			Certainty:  1.0,
			BearingDeg: &bearing,
		}
	}

	distance := boundaryDistanceKm(ring, vesselPos)
	level, certainty := polygonLadder(distance, zone.BufferKm)
	return maritime.ThreatAssessment{
		HazardID:   zone.ID,
		Level:      level,
		DistanceKm: distance,
		IsInZone:   false,
		Certainty:  certainty,
		BearingDeg: &bearing,
	}
}

// polygonLadder grades distance to the polygon boundary.  Containment is
// handled separately; outside the ring the worst possible level is High.
func polygonLadder(distanceKm, bufferKm float64) (maritime.ThreatLevel, float64) {
	switch {
	case distanceKm < 0.5*bufferKm:
		return maritime.ThreatHigh, 0.95
	case distanceKm < 1*bufferKm:
		return maritime.ThreatMedium, 0.9
	case distanceKm < 2*bufferKm:
		return maritime.ThreatLow, 0.7
	default:
		return maritime.ThreatSafe, 0.5
	}
}

// unknownAssessment is the degraded result for unrepairable geometry.
// Certainty 0.0 distinguishes it from a confirmed Safe.
func unknownAssessment(hazardID string) maritime.ThreatAssessment {
	return maritime.ThreatAssessment{
		HazardID:  hazardID,
		Level:     maritime.ThreatSafe,
		Certainty: 0.0,
	}
}

// repairRing is the zero-width-buffer equivalent for degenerate rings: it
// drops consecutive duplicate vertices and collinear runs, then checks that
// a ring with measurable area remains.
func repairRing(vertices []maritime.GeoPoint) ([]maritime.GeoPoint, bool) {
	deduped := make([]maritime.GeoPoint, 0, len(vertices))
	for _, v := range vertices {
		if len(deduped) > 0 && samePoint(deduped[len(deduped)-1], v) {
			continue
		}
		deduped = append(deduped, v)
	}
	// Closing vertex equal to the first is a formatting convention, not a
	// distinct corner.
	if len(deduped) > 1 && samePoint(deduped[0], deduped[len(deduped)-1]) {
		deduped = deduped[:len(deduped)-1]
	}

	ring := make([]maritime.GeoPoint, 0, len(deduped))
	for i, v := range deduped {
		prev := deduped[(i-1+len(deduped))%len(deduped)]
		next := deduped[(i+1)%len(deduped)]
		if len(deduped) >= 3 && collinear(prev, v, next) {
			continue
		}
		ring = append(ring, v)
	}

	if len(ring) < 3 || math.Abs(shoelaceArea(ring)) < 1e-12 {
		return nil, false
	}
	return ring, true
}

func samePoint(a, b maritime.GeoPoint) bool {
	return math.Abs(a.Lat-b.Lat) < 1e-9 && math.Abs(a.Lon-b.Lon) < 1e-9
}

func collinear(a, b, c maritime.GeoPoint) bool {
	cross := (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
	return math.Abs(cross) < 1e-12
}

// containsPoint runs the standard ray-casting test in lat/lon space.
func containsPoint(ring []maritime.GeoPoint, p maritime.GeoPoint) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			crossLon := (vj.Lon-vi.Lon)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if p.Lon < crossLon {
				inside = !inside
			}
		}
	}
	return inside
}

// boundaryDistanceKm returns the distance from p to the nearest ring edge,
// computed in degree space and converted with the latitude-corrected
// flat-earth factor.
func boundaryDistanceKm(ring []maritime.GeoPoint, p maritime.GeoPoint) float64 {
	minDeg := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		d := pointSegmentDistanceDeg(p, ring[i], ring[(i+1)%n])
		if d < minDeg {
			minDeg = d
		}
	}
	return minDeg * KmPerDegree * math.Cos(p.Lat*math.Pi/180)
}

// pointSegmentDistanceDeg returns the planar distance in degrees from p to
// segment ab.
func pointSegmentDistanceDeg(p, a, b maritime.GeoPoint) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.Lon-a.Lon, p.Lat-a.Lat)
	}
	t := ((p.Lon-a.Lon)*dx + (p.Lat-a.Lat)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.Lon-(a.Lon+t*dx), p.Lat-(a.Lat+t*dy))
}

// shoelaceArea returns the signed ring area in square degrees.
func shoelaceArea(ring []maritime.GeoPoint) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].Lon*ring[j].Lat - ring[j].Lon*ring[i].Lat
	}
	return sum / 2
}

// ZoneAreaKm2 is an advisory estimate of a polygon zone's area.  It is not
// used in scoring.  Point zones and unrepairable rings report zero.
func ZoneAreaKm2(zone maritime.HazardZone) float64 {
	if zone.Kind != maritime.ZonePolygon || len(zone.Vertices) < 3 {
		return 0
	}
	ring, ok := repairRing(zone.Vertices)
	if !ok {
		return 0
	}
	return math.Abs(shoelaceArea(ring)) * DegSqToKmSq
}
