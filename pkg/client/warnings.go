package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// WarningsClient covers the /api/v1/warnings endpoints.
type WarningsClient struct {
	client *Client
}

// Warning mirrors the server's warning resource.
type Warning struct {
	ID              string              `json:"id"`
	Bureau          string              `json:"bureau"`
	Title           string              `json:"title"`
	Link            string              `json:"link,omitempty"`
	PublishTime     string              `json:"publish_time"`
	Source          string              `json:"source"`
	MatchedKeywords []string            `json:"matched_keywords,omitempty"`
	Coordinates     []maritime.GeoPoint `json:"coordinates,omitempty"`
	Notified        bool                `json:"notified"`
	NotifiedAt      *time.Time          `json:"notified_at,omitempty"`
	ScrapeTime      time.Time           `json:"scrape_time"`
}

// Statistics mirrors GET /warnings/stats.
type Statistics struct {
	Total            int64            `json:"total"`
	Notified         int64            `json:"notified"`
	Unnotified       int64            `json:"unnotified"`
	WithCoordinates  int64            `json:"with_coordinates"`
	CoordinatePoints int64            `json:"coordinate_points"`
	BySource         map[string]int64 `json:"by_source"`
	ByBureau         map[string]int64 `json:"by_bureau"`
	ByKeyword        map[string]int64 `json:"by_keyword"`
}

// ListOptions narrow a warning listing. Zero values mean "no filter".
type ListOptions struct {
	Source          string
	Bureau          string
	Notified        *bool
	WithCoordinates bool
	Since           time.Time
	Page            int
	PageSize        int
}

// DispatchResult mirrors POST /notifications/dispatch.
type DispatchResult struct {
	Pending    int `json:"pending"`
	Delivered  int `json:"delivered"`
	Suppressed int `json:"suppressed"`
}

// List returns stored warnings with pagination metadata.
func (wc *WarningsClient) List(ctx context.Context, opts ListOptions) ([]Warning, *Pagination, error) {
	q := url.Values{}
	if opts.Source != "" {
		q.Set("source", opts.Source)
	}
	if opts.Bureau != "" {
		q.Set("bureau", opts.Bureau)
	}
	if opts.Notified != nil {
		q.Set("notified", strconv.FormatBool(*opts.Notified))
	}
	if opts.WithCoordinates {
		q.Set("with_coordinates", "true")
	}
	if !opts.Since.IsZero() {
		q.Set("since", opts.Since.Format(time.RFC3339))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}

	path := "/api/v1/warnings"
	if encoded := q.Encode(); encoded != "" {
		path = path + "?" + encoded
	}

	var warnings []Warning
	pagination, err := wc.client.get(ctx, path, &warnings)
	if err != nil {
		return nil, nil, err
	}
	return warnings, pagination, nil
}

// Get returns one warning by ID.
func (wc *WarningsClient) Get(ctx context.Context, id string) (*Warning, error) {
	var w Warning
	if _, err := wc.client.get(ctx, "/api/v1/warnings/"+url.PathEscape(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Stats returns aggregate counts over the stored warnings.
func (wc *WarningsClient) Stats(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if _, err := wc.client.get(ctx, "/api/v1/warnings/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Dispatch pushes pending warnings to the notification channel. source
// narrows dispatch to one authority when non-empty.
func (wc *WarningsClient) Dispatch(ctx context.Context, source string) (*DispatchResult, error) {
	path := "/api/v1/notifications/dispatch"
	if source != "" {
		path = fmt.Sprintf("%s?source=%s", path, url.QueryEscape(source))
	}
	var result DispatchResult
	if err := wc.client.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
