// Package warning holds the navigation-warning aggregate for the
// SeaGuard-Intelligence platform. A Warning is one bulletin scraped from a
// maritime authority, keyed by bureau, title, publish time and source so the
// same bulletin seen on consecutive scrapes collapses into a single record.
package warning

import (
	"strings"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// ─────────────────────────────────────────────────────────────────────────────
// Source
// ─────────────────────────────────────────────────────────────────────────────

// Source identifies the maritime authority a bulletin was scraped from.
type Source string

const (
	// SourceCNMSA is the China Maritime Safety Administration.
	SourceCNMSA Source = "CN_MSA"
	// SourceTWMPB is the Taiwan Maritime and Port Bureau.
	SourceTWMPB Source = "TW_MPB"
)

// validSources gates Source values accepted by Validate.
var validSources = map[Source]bool{
	SourceCNMSA: true,
	SourceTWMPB: true,
}

// sourceCountries maps each source to its ISO country code.
var sourceCountries = map[Source]string{
	SourceCNMSA: "CN",
	SourceTWMPB: "TW",
}

// IsValid reports whether s is a known source.
func (s Source) IsValid() bool {
	return validSources[s]
}

// Country returns the ISO country code for the source, or "" when unknown.
func (s Source) Country() string {
	return sourceCountries[s]
}

// ─────────────────────────────────────────────────────────────────────────────
// Warning aggregate
// ─────────────────────────────────────────────────────────────────────────────

// Warning is a scraped navigation bulletin together with its extraction
// results and notification state.
type Warning struct {
	ID common.ID `json:"id"`

	// Bulletin identity. Bureau, Title, PublishTime and Source together
	// form the natural key used for deduplication on save.
	Bureau      string `json:"bureau"`
	Title       string `json:"title"`
	Link        string `json:"link,omitempty"`
	PublishTime string `json:"publish_time"`
	Source      Source `json:"source"`

	// Extraction results.
	MatchedKeywords []string            `json:"matched_keywords,omitempty"`
	Coordinates     []maritime.GeoPoint `json:"coordinates,omitempty"`

	// Notification state.
	Notified   bool       `json:"notified"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`

	ScrapeTime time.Time `json:"scrape_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New builds a Warning with a fresh ID and scrape/created timestamps set to
// now. The caller fills extraction results afterwards.
func New(source Source, bureau, title, link, publishTime string) *Warning {
	now := time.Now().UTC()
	return &Warning{
		ID:          common.NewID(),
		Bureau:      bureau,
		Title:       title,
		Link:        link,
		PublishTime: publishTime,
		Source:      source,
		ScrapeTime:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks the invariants every persisted Warning must hold.
func (w *Warning) Validate() error {
	if strings.TrimSpace(w.Bureau) == "" {
		return errors.New(errors.CodeBulletinInvalid, "bureau is required")
	}
	if strings.TrimSpace(w.Title) == "" {
		return errors.New(errors.CodeBulletinInvalid, "title is required")
	}
	if !w.Source.IsValid() {
		return errors.New(errors.CodeSourceUnsupported, "unsupported source: "+string(w.Source))
	}
	for _, p := range w.Coordinates {
		if !p.InRange() {
			return errors.New(errors.CodeBulletinInvalid, "coordinate out of range: "+p.String())
		}
	}
	return nil
}

// NaturalKey returns the deduplication key for the bulletin.
func (w *Warning) NaturalKey() string {
	return string(w.Source) + "|" + w.Bureau + "|" + w.Title + "|" + w.PublishTime
}

// HasCoordinates reports whether extraction produced at least one position.
func (w *Warning) HasCoordinates() bool {
	return len(w.Coordinates) > 0
}

// SetCoordinates replaces the extraction results and bumps UpdatedAt.
func (w *Warning) SetCoordinates(points []maritime.GeoPoint) {
	w.Coordinates = points
	w.UpdatedAt = time.Now().UTC()
}

// MarkNotified records a successful notification. Calling it again is a
// no-op so repeated delivery attempts keep the first timestamp.
func (w *Warning) MarkNotified(at time.Time) {
	if w.Notified {
		return
	}
	t := at.UTC()
	w.Notified = true
	w.NotifiedAt = &t
	w.UpdatedAt = t
}

// MatchKeywords records which watch keywords the bulletin title hit.
func (w *Warning) MatchKeywords(matched []string) {
	w.MatchedKeywords = matched
	w.UpdatedAt = time.Now().UTC()
}
