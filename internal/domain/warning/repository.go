package warning

import (
	"context"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

// ListFilter narrows Repository.List results. Zero values mean "no filter".
type ListFilter struct {
	Source       Source
	Bureau       string
	OnlyWithGeo  bool
	OnlyNotified *bool
	Since        time.Time
	Pagination   common.Pagination
}

// Statistics summarizes the stored warnings.
type Statistics struct {
	Total            int64            `json:"total"`
	Notified         int64            `json:"notified"`
	Unnotified       int64            `json:"unnotified"`
	WithCoordinates  int64            `json:"with_coordinates"`
	CoordinatePoints int64            `json:"coordinate_points"`
	BySource         map[Source]int64 `json:"by_source"`
	ByBureau         map[string]int64 `json:"by_bureau"`
	ByKeyword        map[string]int64 `json:"by_keyword"`
}

// SaveResult reports what Save actually did with a bulletin.
type SaveResult struct {
	ID    common.ID
	IsNew bool
	// CoordinatesBackfilled is set when an existing record without
	// coordinates gained them from this scrape.
	CoordinatesBackfilled bool
}

// Repository defines the persistence contract for navigation warnings.
//
// Save is an upsert on the bulletin's natural key: a new record is inserted,
// an existing one is left untouched except that coordinates are backfilled
// when the stored record has none and the incoming one does.
type Repository interface {
	Save(ctx context.Context, w *Warning) (*SaveResult, error)
	GetByID(ctx context.Context, id common.ID) (*Warning, error)
	List(ctx context.Context, filter ListFilter) ([]*Warning, int64, error)
	FindUnnotified(ctx context.Context, source Source) ([]*Warning, error)
	FindWithCoordinates(ctx context.Context, source Source) ([]*Warning, error)
	MarkNotified(ctx context.Context, id common.ID, at time.Time) error
	Statistics(ctx context.Context) (*Statistics, error)
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
