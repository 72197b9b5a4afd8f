// Package risk turns geofence assessments and vessel kinematics into graded
// risk scores, recommendations, and fleet-level summaries.
//
// Scoring is a weighted multi-factor formula over each (vessel, hazard) pair:
//
//	score = base(level) × vesselTypeFactor × draftFactor × hazardTypeMultiplier
//	        × distancePenalty + approachBonus
//
// clipped to [0,100] and scaled by the assessment's certainty.  The per-vessel
// overall score is the mean over hazards graded above Safe.  All computation
// is pure and deterministic.
package risk

import (
	"sort"
	"strings"

	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/geofence"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// ─────────────────────────────────────────────────────────────────────────────
// Factor tables
// ─────────────────────────────────────────────────────────────────────────────

// baseScore is the starting score per threat level.
var baseScore = map[maritime.ThreatLevel]float64{
	maritime.ThreatCritical: 100,
	maritime.ThreatHigh:     75,
	maritime.ThreatMedium:   50,
	maritime.ThreatLow:      25,
	maritime.ThreatSafe:     0,
}

// vesselTypeFactor reflects differential consequence severity per vessel
// class, not collision probability.
var vesselTypeFactor = map[maritime.VesselClass]float64{
	maritime.VesselTanker:    1.3,
	maritime.VesselPassenger: 1.4,
	maritime.VesselContainer: 1.2,
	maritime.VesselGeneral:   1.0,
	maritime.VesselBulk:      0.9,
	maritime.VesselFishing:   0.7,
}

// hazardKind classifies a hazard by the keywords in its title and tags.
type hazardKind int

const (
	hazardOther hazardKind = iota
	hazardStorm
	hazardObstruction
	hazardGunnery
)

// hazardKeywords pairs bilingual keyword sets with their kind, checked from
// most to least severe so a bulletin naming both gunnery and weather takes
// the gunnery multiplier.
var hazardKeywords = []struct {
	kind       hazardKind
	multiplier float64
	words      []string
}{
	{hazardGunnery, 1.5, []string{"gunnery", "firing", "live fire", "射击", "射擊", "实弹", "實彈", "演习", "演習"}},
	{hazardObstruction, 1.3, []string{"obstruction", "wreck", "derelict", "碍航", "礙航", "沉船", "障碍", "障礙"}},
	{hazardStorm, 1.2, []string{"storm", "typhoon", "gale", "风暴", "風暴", "台风", "颱風", "大风", "大風"}},
}

const (
	// distancePenaltyRangeKm is the range over which proximity stops
	// amplifying the score.
	distancePenaltyRangeKm = 20.0

	// approachBonusMax caps the heading bonus contribution
	// (0.3 × 50 at a dead-on heading).
	approachBonusWeight = 0.3
	approachBonusScale  = 50.0

	draftFactorDivisor = 15.0
)

// classifyHazard returns the hazard's kind and score multiplier from its
// title and tags.
func classifyHazard(meta maritime.ZoneMetadata) (hazardKind, float64) {
	haystack := strings.ToLower(meta.Title)
	for _, tag := range meta.Tags {
		haystack += " " + strings.ToLower(tag)
	}
	for _, entry := range hazardKeywords {
		for _, w := range entry.words {
			if strings.Contains(haystack, w) {
				return entry.kind, entry.multiplier
			}
		}
	}
	return hazardOther, 1.0
}

// ─────────────────────────────────────────────────────────────────────────────
// Scorer
// ─────────────────────────────────────────────────────────────────────────────

// Scorer assesses vessels against hazard zones.  The zero value is ready to
// use; it exists as a type so callers can treat assessment as an injectable
// dependency.
type Scorer struct{}

// NewScorer returns a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// ScoreAssessment computes the weighted risk score for one geofence
// assessment of the given vessel.
func (s *Scorer) ScoreAssessment(vessel maritime.VesselState, zone maritime.HazardZone, a maritime.ThreatAssessment) float64 {
	typeFactor, ok := vesselTypeFactor[vessel.Class]
	if !ok {
		typeFactor = vesselTypeFactor[maritime.VesselGeneral]
	}
	draftFactor := 1 + vessel.DraftM/draftFactorDivisor
	_, hazardMultiplier := classifyHazard(zone.Metadata)
	distancePenalty := max0(1 - a.DistanceKm/distancePenaltyRangeKm)

	score := baseScore[a.Level] * typeFactor * draftFactor * hazardMultiplier * distancePenalty

	if a.BearingDeg != nil {
		headingDiff := maritime.AngularDiff(vessel.HeadingDeg, *a.BearingDeg)
		score += approachBonusWeight * max0(1-headingDiff/180) * approachBonusScale
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score * a.Certainty
}

// Assess evaluates one vessel against every hazard in force and returns its
// risk profile.  Assessments are ranked highest score first.
func (s *Scorer) Assess(vessel maritime.VesselState, hazards []maritime.HazardZone) maritime.RiskProfile {
	scored := make([]maritime.ScoredAssessment, 0, len(hazards))
	for _, zone := range hazards {
		a := geofence.ZoneThreat(vessel.Position, zone)
		scored = append(scored, maritime.ScoredAssessment{
			ThreatAssessment: a,
			Score:            s.ScoreAssessment(vessel, zone, a),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	// Overall score: mean over hazards graded above Safe; zero when nothing
	// threatens the vessel.
	var sum float64
	var active int
	for _, sa := range scored {
		if sa.Level != maritime.ThreatSafe {
			sum += sa.Score
			active++
		}
	}
	overall := 0.0
	if active > 0 {
		overall = sum / float64(active)
	}

	level := overallLevel(overall)
	return maritime.RiskProfile{
		VesselName:      vessel.Name,
		OverallScore:    overall,
		Level:           level,
		Assessments:     scored,
		Recommendations: recommendations(level, topHazardKind(scored, hazards), vessel.Class),
		ActionRequired:  level == maritime.ThreatCritical || level == maritime.ThreatHigh,
	}
}

// AssessFleet evaluates every vessel and aggregates the results.  Critical
// alerts carry the Critical-level profiles ordered by descending score.
func (s *Scorer) AssessFleet(vessels []maritime.VesselState, hazards []maritime.HazardZone) maritime.FleetSummary {
	summary := maritime.FleetSummary{
		Profiles:      make([]maritime.RiskProfile, 0, len(vessels)),
		CountsByLevel: make(map[maritime.ThreatLevel]int),
	}
	for _, v := range vessels {
		profile := s.Assess(v, hazards)
		summary.Profiles = append(summary.Profiles, profile)
		summary.CountsByLevel[profile.Level]++
		if profile.Level == maritime.ThreatCritical {
			summary.CriticalAlerts = append(summary.CriticalAlerts, profile)
		}
	}
	sort.SliceStable(summary.CriticalAlerts, func(i, j int) bool {
		return summary.CriticalAlerts[i].OverallScore > summary.CriticalAlerts[j].OverallScore
	})
	return summary
}

// overallLevel bands the aggregate score.
func overallLevel(score float64) maritime.ThreatLevel {
	switch {
	case score >= 85:
		return maritime.ThreatCritical
	case score >= 65:
		return maritime.ThreatHigh
	case score >= 45:
		return maritime.ThreatMedium
	case score >= 25:
		return maritime.ThreatLow
	default:
		return maritime.ThreatSafe
	}
}

// topHazardKind classifies the hazard behind the highest-scored active
// assessment, used to pick hazard-specific recommendations.
func topHazardKind(scored []maritime.ScoredAssessment, hazards []maritime.HazardZone) hazardKind {
	byID := make(map[string]maritime.HazardZone, len(hazards))
	for _, h := range hazards {
		byID[h.ID] = h
	}
	for _, sa := range scored {
		if sa.Level == maritime.ThreatSafe {
			continue
		}
		if zone, ok := byID[sa.HazardID]; ok {
			kind, _ := classifyHazard(zone.Metadata)
			return kind
		}
	}
	return hazardOther
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
