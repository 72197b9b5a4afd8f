package risk

import (
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// Recommendation lookup tables.  Output order is fixed: the level advisory
// first, then the hazard-specific advisory, then the vessel-class advisory.
// Determinism matters because downstream notifications diff repeated
// assessments to suppress duplicates.

var levelRecommendations = map[maritime.ThreatLevel][]string{
	maritime.ThreatCritical: {
		"Change course at least 30 degrees away from the hazard immediately",
		"Alert VTS and broadcast position on VHF channel 16",
	},
	maritime.ThreatHigh: {
		"Prepare an avoidance route and reduce speed",
		"Notify the bridge team and increase lookout",
	},
	maritime.ThreatMedium: {
		"Monitor the hazard zone and maintain a listening watch on VHF channel 16",
	},
	maritime.ThreatLow: {
		"Note the active warning in the passage plan",
	},
	maritime.ThreatSafe: {
		"No action required",
	},
}

var hazardRecommendations = map[hazardKind]string{
	hazardGunnery:     "Vacate the firing exercise area and do not transit until the exercise window closes",
	hazardObstruction: "Give the reported obstruction a wide berth and update charts",
	hazardStorm:       "Review the heavy-weather checklist and secure deck cargo",
}

var vesselRecommendations = map[maritime.VesselClass]string{
	maritime.VesselTanker:    "Verify cargo containment and inert-gas systems before transiting the area",
	maritime.VesselPassenger: "Brief the crew on muster readiness while the elevated threat persists",
	maritime.VesselFishing:   "Recover gear before approaching the hazard zone",
}

// recommendations builds the ordered advisory list for a profile.  Hazard and
// vessel advisories are only added when the situation demands action or
// monitoring (Medium and above).
func recommendations(level maritime.ThreatLevel, kind hazardKind, class maritime.VesselClass) []string {
	out := append([]string{}, levelRecommendations[level]...)

	if level.Rank() >= maritime.ThreatMedium.Rank() {
		if rec, ok := hazardRecommendations[kind]; ok {
			out = append(out, rec)
		}
		if level.Rank() >= maritime.ThreatHigh.Rank() {
			if rec, ok := vesselRecommendations[class]; ok {
				out = append(out, rec)
			}
		}
	}
	return out
}
