// Package maritime defines the shared value types of the SeaGuard-Intelligence
// platform: geographic points extracted from navigational warnings, hazard
// zones built from them, vessel state, and the threat/risk structures produced
// by the assessment pipeline.
//
// All types in this package are plain immutable values with no behavior beyond
// validation, serialization, and spherical geometry.  They are safe to share
// across goroutines.
package maritime

import (
	"encoding/json"
	"fmt"
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// GeoPoint
// ─────────────────────────────────────────────────────────────────────────────

// NullIslandEpsilon bounds the rejection region around (0°, 0°).  Coordinates
// inside this box are overwhelmingly scrape artifacts (empty fields parsed as
// zero), not real positions in the Gulf of Guinea.
const NullIslandEpsilon = 0.01

// GeoPoint is a position in decimal degrees, WGS-84 datum assumed.
// Latitude is positive north, longitude positive east.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// InRange reports whether the point lies within the valid geographic range
// (lat in [-90, 90], lon in [-180, 180]).
func (p GeoPoint) InRange() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// IsNullIsland reports whether the point falls inside the artifact-rejection
// box around the (0, 0) origin.
func (p GeoPoint) IsNullIsland() bool {
	return math.Abs(p.Lat) < NullIslandEpsilon && math.Abs(p.Lon) < NullIslandEpsilon
}

// Rounded returns a copy of the point with both coordinates rounded to four
// decimal places (~11 m), the precision used for storage and display.
func (p GeoPoint) Rounded() GeoPoint {
	return GeoPoint{Lat: Round4(p.Lat), Lon: Round4(p.Lon)}
}

// String formats the point as "lat, lon" with four decimal places.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
}

// MarshalJSON serializes the point as a compact [lat, lon] pair rounded to
// four decimal places, the interchange form used in the warnings store and
// notification payloads.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{Round4(p.Lat), Round4(p.Lon)})
}

// UnmarshalJSON accepts both the [lat, lon] pair form and the verbose
// {"lat": ..., "lon": ...} object form.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err == nil {
		p.Lat, p.Lon = pair[0], pair[1]
		return nil
	}
	var obj struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.Lat, p.Lon = obj.Lat, obj.Lon
	return nil
}

// Round4 rounds v to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ─────────────────────────────────────────────────────────────────────────────
// CoordinateMatch
// ─────────────────────────────────────────────────────────────────────────────

// GrammarID identifies which coordinate grammar produced a match.  The
// numbering reflects extraction priority: lower IDs are more specific formats
// and run first.
type GrammarID int

const (
	GrammarDegMinDecimal GrammarID = iota + 1 // 35-23.50N 109-22.17E
	GrammarDegMinSec                          // 25°30'15"N 121°20'45"E
	GrammarDegMin                             // 25°30'N 121°20'E
	GrammarDecimalDeg                         // 25.5N 121.5E
	GrammarChineseDegMin                      // 北緯25度30分 東經121度20分
)

// String returns the grammar's short name for logs and metrics labels.
func (g GrammarID) String() string {
	switch g {
	case GrammarDegMinDecimal:
		return "deg_min_decimal"
	case GrammarDegMinSec:
		return "deg_min_sec"
	case GrammarDegMin:
		return "deg_min"
	case GrammarDecimalDeg:
		return "decimal_deg"
	case GrammarChineseDegMin:
		return "chinese_deg_min"
	default:
		return "unknown"
	}
}

// CoordinateMatch is a provisional coordinate extracted from bulletin text,
// before validation and deduplication.
type CoordinateMatch struct {
	Point   GeoPoint  `json:"point"`
	Grammar GrammarID `json:"grammar"`
	// Span is the [start, end) byte offset of the match in the normalized text.
	Span [2]int `json:"span"`
}

// ─────────────────────────────────────────────────────────────────────────────
// HazardZone
// ─────────────────────────────────────────────────────────────────────────────

// ZoneKind discriminates point hazards from polygon hazards.
type ZoneKind string

const (
	ZonePoint   ZoneKind = "point"
	ZonePolygon ZoneKind = "polygon"
)

// ZoneMetadata carries the descriptive fields of a hazard zone used by the
// risk scorer's hazard-type classification and by notifications.
type ZoneMetadata struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// HazardZone is a geographic danger area derived from one navigational
// warning.  A polygon zone requires at least three vertices; callers building
// zones from fewer points should use ZonePoint with the first vertex.
type HazardZone struct {
	ID       string       `json:"id"`
	Kind     ZoneKind     `json:"kind"`
	Vertices []GeoPoint   `json:"vertices"`
	BufferKm float64      `json:"buffer_km"`
	Metadata ZoneMetadata `json:"metadata"`
}

// Center returns the zone's representative point: the single vertex for point
// zones, the arithmetic-mean centroid for polygons.  Centroids of rings that
// straddle the antimeridian are averaged naively and will be wrong; warnings
// in that region are rare enough that this has not been worth fixing.
func (z HazardZone) Center() GeoPoint {
	if len(z.Vertices) == 0 {
		return GeoPoint{}
	}
	if z.Kind == ZonePoint {
		return z.Vertices[0]
	}
	var lat, lon float64
	for _, v := range z.Vertices {
		lat += v.Lat
		lon += v.Lon
	}
	n := float64(len(z.Vertices))
	return GeoPoint{Lat: lat / n, Lon: lon / n}
}

// ─────────────────────────────────────────────────────────────────────────────
// VesselState
// ─────────────────────────────────────────────────────────────────────────────

// VesselClass categorizes a vessel for risk weighting.
type VesselClass string

const (
	VesselTanker    VesselClass = "tanker"
	VesselContainer VesselClass = "container"
	VesselGeneral   VesselClass = "general"
	VesselBulk      VesselClass = "bulk"
	VesselPassenger VesselClass = "passenger"
	VesselFishing   VesselClass = "fishing"
)

// VesselState is a snapshot of one vessel at assessment time.
type VesselState struct {
	Name       string      `json:"name"`
	Position   GeoPoint    `json:"position"`
	HeadingDeg float64     `json:"heading_deg"`
	SpeedKnots float64     `json:"speed_knots"`
	DraftM     float64     `json:"draft_m"`
	Class      VesselClass `json:"class"`
}

// Validate checks the structural invariants of the vessel state.
func (v VesselState) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("vessel name must not be empty")
	}
	if !v.Position.InRange() {
		return fmt.Errorf("vessel position out of range: %s", v.Position)
	}
	if v.HeadingDeg < 0 || v.HeadingDeg >= 360 {
		return fmt.Errorf("heading must be in [0, 360): %v", v.HeadingDeg)
	}
	if v.SpeedKnots < 0 {
		return fmt.Errorf("speed must not be negative: %v", v.SpeedKnots)
	}
	if v.DraftM < 0 {
		return fmt.Errorf("draft must not be negative: %v", v.DraftM)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Threat and risk results
// ─────────────────────────────────────────────────────────────────────────────

// ThreatLevel is the ordinal severity of a vessel's exposure to one hazard.
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "CRITICAL"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatLow      ThreatLevel = "LOW"
	ThreatSafe     ThreatLevel = "SAFE"
)

// Rank returns the level's position in the severity order, higher is worse.
func (l ThreatLevel) Rank() int {
	switch l {
	case ThreatCritical:
		return 4
	case ThreatHigh:
		return 3
	case ThreatMedium:
		return 2
	case ThreatLow:
		return 1
	default:
		return 0
	}
}

// ThreatAssessment is the outcome of evaluating one vessel against one hazard
// zone.  Certainty 0.0 marks an assessment over unrepairable geometry; such
// results mean "unknown", not "safe".
type ThreatAssessment struct {
	HazardID   string      `json:"hazard_id"`
	Level      ThreatLevel `json:"level"`
	DistanceKm float64     `json:"distance_km"`
	IsInZone   bool        `json:"is_in_zone"`
	Certainty  float64     `json:"certainty"`
	// BearingDeg is the bearing from the vessel to the hazard center, nil when
	// the hazard center is undefined.
	BearingDeg *float64 `json:"bearing_deg,omitempty"`
}

// RiskProfile is the aggregated risk picture for one vessel across all
// hazards in force.
type RiskProfile struct {
	VesselName      string             `json:"vessel_name"`
	OverallScore    float64            `json:"overall_score"`
	Level           ThreatLevel        `json:"level"`
	Assessments     []ScoredAssessment `json:"assessments"`
	Recommendations []string           `json:"recommendations"`
	ActionRequired  bool               `json:"action_required"`
}

// ScoredAssessment pairs a threat assessment with its numeric risk score.
type ScoredAssessment struct {
	ThreatAssessment
	Score float64 `json:"score"`
}

// FleetSummary aggregates risk profiles across a fleet.
type FleetSummary struct {
	Profiles       []RiskProfile       `json:"profiles"`
	CountsByLevel  map[ThreatLevel]int `json:"counts_by_level"`
	CriticalAlerts []RiskProfile       `json:"critical_alerts"`
}
