package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// AssessClient covers the extraction and risk-assessment endpoints.
type AssessClient struct {
	client *Client
}

// Vessel is the request body for vessel assessment.
type Vessel struct {
	Name       string            `json:"name"`
	Position   maritime.GeoPoint `json:"position"`
	HeadingDeg float64           `json:"heading_deg"`
	SpeedKnots float64           `json:"speed_knots"`
	DraftM     float64           `json:"draft_m"`
	Class      string            `json:"class"`
}

// ExtractResult mirrors POST /coordinates/extract.
type ExtractResult struct {
	Points     []maritime.GeoPoint `json:"points"`
	RawMatches int                 `json:"raw_matches"`
	Rejected   int                 `json:"rejected"`
	Merged     int                 `json:"merged"`
}

// Extract runs coordinate extraction over free text on the server.
func (ac *AssessClient) Extract(ctx context.Context, text string, thresholdKm float64) (*ExtractResult, error) {
	body := map[string]interface{}{"text": text}
	if thresholdKm > 0 {
		body["threshold_km"] = thresholdKm
	}
	var result ExtractResult
	if err := ac.client.post(ctx, "/api/v1/coordinates/extract", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Vessel assesses one vessel against the hazard zones in force.
func (ac *AssessClient) Vessel(ctx context.Context, vessel Vessel) (*maritime.RiskProfile, error) {
	var profile maritime.RiskProfile
	if err := ac.client.post(ctx, "/api/v1/assess/vessel", vessel, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Fleet assesses a fleet and returns the summary.
func (ac *AssessClient) Fleet(ctx context.Context, vessels []Vessel) (*maritime.FleetSummary, error) {
	var summary maritime.FleetSummary
	body := map[string]interface{}{"vessels": vessels}
	if err := ac.client.post(ctx, "/api/v1/assess/fleet", body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// HazardZones lists the hazard zones currently in force, optionally
// narrowed to one source.
func (ac *AssessClient) HazardZones(ctx context.Context, source string) ([]maritime.HazardZone, error) {
	path := "/api/v1/hazard-zones"
	if source != "" {
		path = fmt.Sprintf("%s?source=%s", path, url.QueryEscape(source))
	}
	var zones []maritime.HazardZone
	if _, err := ac.client.get(ctx, path, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}
