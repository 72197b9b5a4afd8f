// Package testutil holds shared fixtures for tests across the module:
// canonical South China Sea warnings and vessels so individual test
// files do not each invent slightly different data.
package testutil

import (
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// HainanExercisePosition is the coordinate from the canonical bulletin
// "18-17.37N 109-22.17E" after parsing.
var HainanExercisePosition = maritime.GeoPoint{Lat: 18.2895, Lon: 109.3695}

// StoredWarning builds a persisted military-exercise warning carrying the
// given coordinates. Zero coordinates model a bulletin whose text yielded
// no extractable position.
func StoredWarning(coords ...maritime.GeoPoint) *warning.Warning {
	w := warning.New(warning.SourceCNMSA, "海南海事局", "南海军事训练", "", "2026-08-20")
	w.MatchedKeywords = []string{"军事训练"}
	w.Coordinates = coords
	return w
}

// Vessel builds a vessel state at the given position with sane defaults
// for the remaining fields.
func Vessel(name string, class maritime.VesselClass, pos maritime.GeoPoint) maritime.VesselState {
	return maritime.VesselState{
		Name:       name,
		Position:   pos,
		HeadingDeg: 90,
		SpeedKnots: 12,
		DraftM:     8,
		Class:      class,
	}
}
