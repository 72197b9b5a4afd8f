package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

func tankerAt(pos maritime.GeoPoint, heading float64) maritime.VesselState {
	return maritime.VesselState{
		Name:       "OCEAN PIONEER",
		Position:   pos,
		HeadingDeg: heading,
		SpeedKnots: 12,
		DraftM:     11.5,
		Class:      maritime.VesselTanker,
	}
}

func firingZoneAt(p maritime.GeoPoint, bufferKm float64) maritime.HazardZone {
	return maritime.HazardZone{
		ID:       "w-101",
		Kind:     maritime.ZonePoint,
		Vertices: []maritime.GeoPoint{p},
		BufferKm: bufferKm,
		Metadata: maritime.ZoneMetadata{
			Title: "LIVE FIRING EXERCISE 实弹射击",
			Tags:  []string{"firing"},
		},
	}
}

func TestAssess_TankerHeadingIntoFiringArea(t *testing.T) {
	scorer := NewScorer()

	hazard := maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}
	// 2 km due south of the hazard, heading due north straight at it.
	vessel := tankerAt(maritime.GeoPoint{Lat: hazard.Lat - 2.0/111.19, Lon: hazard.Lon}, 0)

	profile := scorer.Assess(vessel, []maritime.HazardZone{firingZoneAt(hazard, 5)})

	assert.GreaterOrEqual(t, profile.OverallScore, 85.0)
	assert.Equal(t, maritime.ThreatCritical, profile.Level)
	assert.True(t, profile.ActionRequired)
	require.Len(t, profile.Assessments, 1)
	assert.True(t, profile.Assessments[0].IsInZone)
	assert.NotEmpty(t, profile.Recommendations)
}

func TestAssess_NoHazardsMeansSafe(t *testing.T) {
	scorer := NewScorer()
	profile := scorer.Assess(tankerAt(maritime.GeoPoint{Lat: 18.3, Lon: 109.4}, 90), nil)

	assert.Zero(t, profile.OverallScore)
	assert.Equal(t, maritime.ThreatSafe, profile.Level)
	assert.False(t, profile.ActionRequired)
	assert.Equal(t, []string{"No action required"}, profile.Recommendations)
}

func TestAssess_SafeHazardsExcludedFromMean(t *testing.T) {
	scorer := NewScorer()

	near := firingZoneAt(maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}, 5)
	far := firingZoneAt(maritime.GeoPoint{Lat: 35.0, Lon: 139.7}, 5)
	far.ID = "w-102"

	vessel := tankerAt(maritime.GeoPoint{Lat: 18.2895 - 2.0/111.19, Lon: 109.3695}, 0)
	profile := scorer.Assess(vessel, []maritime.HazardZone{near, far})

	require.Len(t, profile.Assessments, 2)
	// The distant hazard is Safe and must not dilute the overall score.
	assert.GreaterOrEqual(t, profile.OverallScore, 85.0)
}

func TestAssess_AssessmentsRankedByDescendingScore(t *testing.T) {
	scorer := NewScorer()

	center := maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}
	nearZone := firingZoneAt(center, 5)
	midZone := firingZoneAt(maritime.GeoPoint{Lat: center.Lat + 6.0/111.19, Lon: center.Lon}, 5)
	midZone.ID = "w-103"

	vessel := tankerAt(maritime.GeoPoint{Lat: center.Lat - 1.0/111.19, Lon: center.Lon}, 0)
	profile := scorer.Assess(vessel, []maritime.HazardZone{midZone, nearZone})

	require.Len(t, profile.Assessments, 2)
	assert.GreaterOrEqual(t, profile.Assessments[0].Score, profile.Assessments[1].Score)
	assert.Equal(t, "w-101", profile.Assessments[0].HazardID)
}

func TestAssess_ZeroCertaintyGeometryScoresZero(t *testing.T) {
	scorer := NewScorer()

	degenerate := maritime.HazardZone{
		ID:   "w-bad",
		Kind: maritime.ZonePolygon,
		Vertices: []maritime.GeoPoint{
			{Lat: 10, Lon: 100}, {Lat: 10, Lon: 100}, {Lat: 10, Lon: 100},
		},
		BufferKm: 5,
		Metadata: maritime.ZoneMetadata{Title: "MALFORMED AREA"},
	}

	profile := scorer.Assess(tankerAt(maritime.GeoPoint{Lat: 10, Lon: 100.01}, 0), []maritime.HazardZone{degenerate})

	require.Len(t, profile.Assessments, 1)
	assert.Zero(t, profile.Assessments[0].Score)
	assert.Zero(t, profile.OverallScore)
	assert.Equal(t, maritime.ThreatSafe, profile.Level)
}

func TestScoreAssessment_VesselClassOrdering(t *testing.T) {
	scorer := NewScorer()

	hazard := maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}
	zone := firingZoneAt(hazard, 5)
	pos := maritime.GeoPoint{Lat: hazard.Lat - 8.0/111.19, Lon: hazard.Lon}

	// Same geometry, different classes: the consequence factor must order
	// passenger > tanker > container > general > bulk > fishing.
	classes := []maritime.VesselClass{
		maritime.VesselPassenger, maritime.VesselTanker, maritime.VesselContainer,
		maritime.VesselGeneral, maritime.VesselBulk, maritime.VesselFishing,
	}
	var prev float64 = 101
	for _, class := range classes {
		v := maritime.VesselState{
			Name: "V", Position: pos, HeadingDeg: 90, DraftM: 5, Class: class,
		}
		profile := scorer.Assess(v, []maritime.HazardZone{zone})
		assert.Less(t, profile.OverallScore, prev, "class %s must score below its predecessor", class)
		prev = profile.OverallScore
	}
}

func TestScoreAssessment_ApproachBonusRewardsHeadingAtHazard(t *testing.T) {
	scorer := NewScorer()

	hazard := maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}
	zone := firingZoneAt(hazard, 5)
	pos := maritime.GeoPoint{Lat: hazard.Lat - 8.0/111.19, Lon: hazard.Lon} // hazard due north

	toward := scorer.Assess(tankerAt(pos, 0), []maritime.HazardZone{zone})
	away := scorer.Assess(tankerAt(pos, 180), []maritime.HazardZone{zone})

	assert.Greater(t, toward.OverallScore, away.OverallScore)
}

func TestScoreAssessment_HazardTypeMultiplier(t *testing.T) {
	cases := []struct {
		title string
		want  float64
	}{
		{"LIVE FIRING EXERCISE", 1.5},
		{"实弹射击", 1.5},
		{"SUNKEN WRECK OBSTRUCTION", 1.3},
		{"TYPHOON WARNING 颱風", 1.2},
		{"CABLE LAYING OPERATIONS", 1.0},
	}
	for _, tc := range cases {
		_, mult := classifyHazard(maritime.ZoneMetadata{Title: tc.title})
		assert.Equal(t, tc.want, mult, "title %q", tc.title)
	}
}

func TestOverallLevel_Bands(t *testing.T) {
	assert.Equal(t, maritime.ThreatCritical, overallLevel(85))
	assert.Equal(t, maritime.ThreatHigh, overallLevel(84.99))
	assert.Equal(t, maritime.ThreatHigh, overallLevel(65))
	assert.Equal(t, maritime.ThreatMedium, overallLevel(64.99))
	assert.Equal(t, maritime.ThreatMedium, overallLevel(45))
	assert.Equal(t, maritime.ThreatLow, overallLevel(44.99))
	assert.Equal(t, maritime.ThreatLow, overallLevel(25))
	assert.Equal(t, maritime.ThreatSafe, overallLevel(24.99))
	assert.Equal(t, maritime.ThreatSafe, overallLevel(0))
}

func TestAssessFleet_CountsAndCriticalAlerts(t *testing.T) {
	scorer := NewScorer()

	hazard := maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}
	zone := firingZoneAt(hazard, 5)

	inDanger := tankerAt(maritime.GeoPoint{Lat: hazard.Lat - 1.0/111.19, Lon: hazard.Lon}, 0)
	inDanger.Name = "ALPHA"
	closer := tankerAt(maritime.GeoPoint{Lat: hazard.Lat - 0.5/111.19, Lon: hazard.Lon}, 0)
	closer.Name = "BRAVO"
	faraway := tankerAt(maritime.GeoPoint{Lat: 35.0, Lon: 139.7}, 0)
	faraway.Name = "CHARLIE"

	summary := scorer.AssessFleet(
		[]maritime.VesselState{inDanger, closer, faraway},
		[]maritime.HazardZone{zone},
	)

	require.Len(t, summary.Profiles, 3)
	assert.Equal(t, 1, summary.CountsByLevel[maritime.ThreatSafe])
	assert.Equal(t, 2, summary.CountsByLevel[maritime.ThreatCritical])

	require.Len(t, summary.CriticalAlerts, 2)
	assert.GreaterOrEqual(t,
		summary.CriticalAlerts[0].OverallScore,
		summary.CriticalAlerts[1].OverallScore,
		"critical alerts must be ordered by descending score")
}

func TestRecommendations_Deterministic(t *testing.T) {
	a := recommendations(maritime.ThreatCritical, hazardGunnery, maritime.VesselTanker)
	b := recommendations(maritime.ThreatCritical, hazardGunnery, maritime.VesselTanker)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "Vacate the firing exercise area and do not transit until the exercise window closes")
	assert.Contains(t, a, "Verify cargo containment and inert-gas systems before transiting the area")
}

func TestRecommendations_LowLevelOmitsVesselAdvisory(t *testing.T) {
	recs := recommendations(maritime.ThreatLow, hazardGunnery, maritime.VesselTanker)
	assert.Equal(t, []string{"Note the active warning in the passage plan"}, recs)
}
