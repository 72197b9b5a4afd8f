// Package validator filters provisional coordinate parses down to plausible
// positions.  Validation never returns an error: a failing point is simply
// dropped, matching the pipeline's absence-is-not-an-error contract.
package validator

import (
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// BoundingBox restricts validation to a rectangular region.  Callers that
// monitor a known ocean area use it to suppress spurious matches from body
// text (phone numbers, bulletin IDs) that happen to look like coordinates.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `json:"max_lat" mapstructure:"max_lat"`
	MinLon float64 `json:"min_lon" mapstructure:"min_lon"`
	MaxLon float64 `json:"max_lon" mapstructure:"max_lon"`
}

// Contains reports whether p lies inside the box, boundaries inclusive.
func (b BoundingBox) Contains(p maritime.GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Validator applies the ordered validation rules: global range check,
// null-island sentinel rejection, then the optional regional bounding box.
// The zero value validates against the full globe.
type Validator struct {
	// Region is the optional bounding box; nil disables the regional rule.
	Region *BoundingBox
}

// New returns a Validator without a regional restriction.
func New() Validator {
	return Validator{}
}

// NewRegional returns a Validator that additionally rejects points outside
// the given bounding box.
func NewRegional(box BoundingBox) Validator {
	return Validator{Region: &box}
}

// Validate applies the rules in order and reports whether the point survives.
// The returned point is unchanged from the input; the boolean carries the
// verdict.
func (v Validator) Validate(p maritime.GeoPoint) (maritime.GeoPoint, bool) {
	if !p.InRange() {
		return maritime.GeoPoint{}, false
	}
	if p.IsNullIsland() {
		return maritime.GeoPoint{}, false
	}
	if v.Region != nil && !v.Region.Contains(p) {
		return maritime.GeoPoint{}, false
	}
	return p, true
}

// Filter validates a batch, preserving input order of the survivors.
func (v Validator) Filter(points []maritime.GeoPoint) []maritime.GeoPoint {
	out := make([]maritime.GeoPoint, 0, len(points))
	for _, p := range points {
		if valid, ok := v.Validate(p); ok {
			out = append(out, valid)
		}
	}
	return out
}
