// Package parser extracts geographic coordinates from free-form navigational
// warning text.  Bulletins arrive in a mix of Chinese and English with several
// coordinate notations in circulation across maritime bureaus; extraction runs
// a fixed, ordered set of grammars over normalized text and converts every
// match to decimal degrees.
//
// The package is pure: no I/O, no mutable state beyond compiled patterns.
// Unparseable text yields an empty slice, never an error.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// ─────────────────────────────────────────────────────────────────────────────
// Grammar table
// ─────────────────────────────────────────────────────────────────────────────

// grammar is one coordinate notation: its identifying tag, the compiled
// pattern, and the converter from capture groups to a decimal-degree point.
// Grammars are tried in table order; more specific patterns run first so that
// looser ones cannot shadow them.
type grammar struct {
	id      maritime.GrammarID
	re      *regexp.Regexp
	convert func(groups []string) (maritime.GeoPoint, bool)
}

var grammars = []grammar{
	{
		// 18-17.37N 109-22.17E — degree-minute with decimal fraction.
		id: maritime.GrammarDegMinDecimal,
		re: regexp.MustCompile(
			`(?i)(\d{1,3})-(\d{1,2}(?:\.\d+)?)\s*([NS])\s+(\d{1,3})-(\d{1,2}(?:\.\d+)?)\s*([EW])`),
		convert: degMinPair,
	},
	{
		// 25°30'15"N 121°20'45"E — degree-minute-second.
		id: maritime.GrammarDegMinSec,
		re: regexp.MustCompile(
			`(?i)(\d{1,3})[°度]\s*(\d{1,2})['′分]\s*(\d{1,2}(?:\.\d+)?)["″秒]\s*([NS北南])\s*[, ]?\s*` +
				`(\d{1,3})[°度]\s*(\d{1,2})['′分]\s*(\d{1,2}(?:\.\d+)?)["″秒]\s*([EW東西])`),
		convert: degMinSecPair,
	},
	{
		// 25°30'N 121°20'E — degree-minute, seconds omitted.
		id: maritime.GrammarDegMin,
		re: regexp.MustCompile(
			`(?i)(\d{1,3})[°度]\s*(\d{1,2}(?:\.\d+)?)['′分]?\s*([NS北南])\s*[, ]?\s*` +
				`(\d{1,3})[°度]\s*(\d{1,2}(?:\.\d+)?)['′分]?\s*([EW東西])`),
		convert: degMinPair,
	},
	{
		// 25.5N 121.5E — pure decimal degrees.
		id: maritime.GrammarDecimalDeg,
		re: regexp.MustCompile(
			`(?i)(\d{1,3}(?:\.\d+)?)\s*([NS])\s*[, ]?\s*(\d{1,3}(?:\.\d+)?)\s*([EW])`),
		convert: decimalPair,
	},
	{
		// 北緯25度30分 東經121度20分 — localized Chinese phrasing used by the
		// Taiwan Maritime and Port Bureau.
		id: maritime.GrammarChineseDegMin,
		re: regexp.MustCompile(
			`([北南])緯\s*(\d{1,3})\s*度\s*(\d{1,2}(?:\.\d+)?)\s*分?[^東西]*?([東西])經\s*(\d{1,3})\s*度\s*(\d{1,2}(?:\.\d+)?)\s*分?`),
		convert: chinesePair,
	},
}

// whitespaceRun collapses any whitespace run to a single space during
// normalization.
var whitespaceRun = regexp.MustCompile(`\s+`)

// cjkSeparators maps the full-width punctuation that bureaus use between
// coordinate pairs to plain spaces so the grammars see uniform separators.
var cjkSeparators = strings.NewReplacer("、", " ", "，", " ", "。", " ")

// ─────────────────────────────────────────────────────────────────────────────
// Public API
// ─────────────────────────────────────────────────────────────────────────────

// Normalize prepares raw bulletin text for grammar matching: full-width CJK
// separators become spaces and whitespace runs collapse to single spaces.
func Normalize(text string) string {
	return whitespaceRun.ReplaceAllString(cjkSeparators.Replace(text), " ")
}

// Parse extracts every coordinate the grammar table can find in text and
// returns the points in decimal degrees.  Output order follows grammar
// priority, then left-to-right position in the text.  Duplicate detections
// across grammars are expected; the deduplicator resolves them downstream.
//
// Malformed numeric captures are skipped silently.  Unparseable text returns
// an empty slice.
func Parse(text string) []maritime.GeoPoint {
	matches := ParseMatches(text)
	points := make([]maritime.GeoPoint, 0, len(matches))
	for _, m := range matches {
		points = append(points, m.Point)
	}
	return points
}

// ParseMatches is Parse with provenance: each extracted point carries the
// grammar that produced it and its span in the normalized text.
func ParseMatches(text string) []maritime.CoordinateMatch {
	if text == "" {
		return nil
	}
	clean := Normalize(text)

	var out []maritime.CoordinateMatch
	for _, g := range grammars {
		for _, loc := range g.re.FindAllStringSubmatchIndex(clean, -1) {
			groups := submatches(clean, loc)
			point, ok := g.convert(groups)
			if !ok {
				continue
			}
			out = append(out, maritime.CoordinateMatch{
				Point:   point,
				Grammar: g.id,
				Span:    [2]int{loc[0], loc[1]},
			})
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Converters
// ─────────────────────────────────────────────────────────────────────────────

// submatches extracts the capture-group strings from a FindAllStringSubmatchIndex
// location slice.  Group 0 (the full match) is skipped.
func submatches(s string, loc []int) []string {
	groups := make([]string, 0, len(loc)/2-1)
	for i := 2; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, s[loc[i]:loc[i+1]])
	}
	return groups
}

// degMinPair converts captures (latDeg, latMin, latHemi, lonDeg, lonMin,
// lonHemi) to a point.
func degMinPair(groups []string) (maritime.GeoPoint, bool) {
	if len(groups) < 6 {
		return maritime.GeoPoint{}, false
	}
	lat, ok := toDecimal(groups[0], groups[1], "", groups[2])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	lon, ok := toDecimal(groups[3], groups[4], "", groups[5])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	return maritime.GeoPoint{Lat: lat, Lon: lon}, true
}

// degMinSecPair converts captures (latDeg, latMin, latSec, latHemi, lonDeg,
// lonMin, lonSec, lonHemi) to a point.
func degMinSecPair(groups []string) (maritime.GeoPoint, bool) {
	if len(groups) < 8 {
		return maritime.GeoPoint{}, false
	}
	lat, ok := toDecimal(groups[0], groups[1], groups[2], groups[3])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	lon, ok := toDecimal(groups[4], groups[5], groups[6], groups[7])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	return maritime.GeoPoint{Lat: lat, Lon: lon}, true
}

// decimalPair converts captures (latDeg, latHemi, lonDeg, lonHemi) where the
// degree captures already carry the full decimal value.
func decimalPair(groups []string) (maritime.GeoPoint, bool) {
	if len(groups) < 4 {
		return maritime.GeoPoint{}, false
	}
	lat, ok := toDecimal(groups[0], "", "", groups[1])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	lon, ok := toDecimal(groups[2], "", "", groups[3])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	return maritime.GeoPoint{Lat: lat, Lon: lon}, true
}

// chinesePair converts captures (latHemi, latDeg, latMin, lonHemi, lonDeg,
// lonMin) from the Chinese phrasing, where the hemisphere precedes the value.
func chinesePair(groups []string) (maritime.GeoPoint, bool) {
	if len(groups) < 6 {
		return maritime.GeoPoint{}, false
	}
	lat, ok := toDecimal(groups[1], groups[2], "", groups[0])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	lon, ok := toDecimal(groups[4], groups[5], "", groups[3])
	if !ok {
		return maritime.GeoPoint{}, false
	}
	return maritime.GeoPoint{Lat: lat, Lon: lon}, true
}

// toDecimal folds degree/minute/second captures into decimal degrees and
// applies the hemisphere sign.  Empty minute/second captures contribute zero.
// Any capture that fails to parse as a number aborts the match.
func toDecimal(deg, min, sec, hemi string) (float64, bool) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, false
	}
	var m, s float64
	if min != "" {
		if m, err = strconv.ParseFloat(min, 64); err != nil {
			return 0, false
		}
	}
	if sec != "" {
		if s, err = strconv.ParseFloat(sec, 64); err != nil {
			return 0, false
		}
	}
	v := d + m/60 + s/3600
	if isSouthOrWest(hemi) {
		v = -v
	}
	return v, true
}

// isSouthOrWest reports whether the hemisphere marker negates the coordinate.
func isSouthOrWest(hemi string) bool {
	switch strings.ToUpper(hemi) {
	case "S", "W", "南", "西":
		return true
	}
	return false
}
