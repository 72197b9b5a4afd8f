package warning

import (
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

// WarningDetectedEvent is published when a scraped bulletin matches the
// keyword watch list and is stored for the first time.
type WarningDetectedEvent struct {
	common.BaseEvent
	Source          Source   `json:"source"`
	Bureau          string   `json:"bureau"`
	Title           string   `json:"title"`
	Link            string   `json:"link,omitempty"`
	PublishTime     string   `json:"publish_time"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	CoordinateCount int      `json:"coordinate_count"`
}

func NewWarningDetectedEvent(w *Warning) *WarningDetectedEvent {
	return &WarningDetectedEvent{
		BaseEvent:       common.NewBaseEvent(w.ID.String()),
		Source:          w.Source,
		Bureau:          w.Bureau,
		Title:           w.Title,
		Link:            w.Link,
		PublishTime:     w.PublishTime,
		MatchedKeywords: w.MatchedKeywords,
		CoordinateCount: len(w.Coordinates),
	}
}

// WarningNotifiedEvent is published after the bulletin has been delivered to
// the notification channel.
type WarningNotifiedEvent struct {
	common.BaseEvent
	Source     Source    `json:"source"`
	Title      string    `json:"title"`
	NotifiedAt time.Time `json:"notified_at"`
}

func NewWarningNotifiedEvent(w *Warning, at time.Time) *WarningNotifiedEvent {
	return &WarningNotifiedEvent{
		BaseEvent:  common.NewBaseEvent(w.ID.String()),
		Source:     w.Source,
		Title:      w.Title,
		NotifiedAt: at.UTC(),
	}
}
