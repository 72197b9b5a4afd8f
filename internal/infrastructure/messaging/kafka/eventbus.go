package kafka

import (
	"context"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// MessagePublisher is the slice of Producer the event bus needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// EventBus maps domain events onto broker topics. Each publish wraps the
// event payload in an EventEnvelope and keys the message by aggregate ID
// so all events of one warning land on the same partition.
type EventBus struct {
	producer MessagePublisher
	source   string
	logger   logging.Logger
}

// NewEventBus creates an EventBus over the given producer. source names
// the publishing service and is stamped into every envelope.
func NewEventBus(producer MessagePublisher, source string, logger logging.Logger) (*EventBus, error) {
	if producer == nil {
		return nil, errors.New(errors.CodeValidation, "producer required")
	}
	if source == "" {
		source = "seaguard"
	}
	return &EventBus{
		producer: producer,
		source:   source,
		logger:   logger,
	}, nil
}

// PublishWarningDetected announces a newly stored warning on
// TopicWarningDetected.
func (b *EventBus) PublishWarningDetected(ctx context.Context, evt *warning.WarningDetectedEvent) error {
	if evt == nil {
		return errors.New(errors.CodeValidation, "event required")
	}
	payload := WarningDetectedPayload{
		WarningID:       evt.AggID,
		Source:          string(evt.Source),
		Bureau:          evt.Bureau,
		Title:           evt.Title,
		Link:            evt.Link,
		PublishTime:     evt.PublishTime,
		MatchedKeywords: evt.MatchedKeywords,
		CoordinateCount: evt.CoordinateCount,
		DetectedAt:      evt.Timestamp,
	}
	return b.publish(ctx, TopicWarningDetected, "warning.detected", evt.AggID, payload)
}

// PublishWarningNotified records a delivered notification on
// TopicWarningNotified.
func (b *EventBus) PublishWarningNotified(ctx context.Context, evt *warning.WarningNotifiedEvent) error {
	if evt == nil {
		return errors.New(errors.CodeValidation, "event required")
	}
	payload := WarningNotifiedPayload{
		WarningID:  evt.AggID,
		Source:     string(evt.Source),
		Title:      evt.Title,
		Channel:    "webhook",
		NotifiedAt: evt.NotifiedAt,
	}
	return b.publish(ctx, TopicWarningNotified, "warning.notified", evt.AggID, payload)
}

// PublishRiskAlert announces a vessel assessment that crossed the alert
// threshold on TopicRiskAlert. Messages are keyed by vessel name so a
// vessel's alerts stay ordered.
func (b *EventBus) PublishRiskAlert(ctx context.Context, profile maritime.RiskProfile) error {
	payload := RiskAlertPayload{
		VesselName:     profile.VesselName,
		ThreatLevel:    string(profile.Level),
		RiskScore:      profile.OverallScore,
		HazardCount:    len(profile.Assessments),
		WarningID:      dominantHazardID(profile),
		ActionRequired: profile.ActionRequired,
		AssessedAt:     time.Now().UTC(),
	}
	return b.publish(ctx, TopicRiskAlert, "risk.alert", profile.VesselName, payload)
}

// PublishBulletinReceived hands a raw scraped bulletin to the ingestion
// worker via TopicBulletinReceived.
func (b *EventBus) PublishBulletinReceived(ctx context.Context, payload BulletinReceivedPayload) error {
	if payload.Source == "" || payload.Title == "" {
		return errors.New(errors.CodeValidation, "bulletin source and title required")
	}
	if payload.ScrapedAt.IsZero() {
		payload.ScrapedAt = time.Now().UTC()
	}
	key := payload.Source + "/" + payload.Bureau
	return b.publish(ctx, TopicBulletinReceived, "bulletin.received", key, payload)
}

func (b *EventBus) publish(ctx context.Context, topic, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, b.source, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(topic)
	if err != nil {
		return err
	}
	msg.Key = []byte(key)

	if err := b.producer.Publish(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueueError, "failed to publish "+eventType)
	}
	b.logger.Debug("Event published",
		logging.String("topic", topic),
		logging.String("event_type", eventType),
		logging.String("key", key))
	return nil
}

// dominantHazardID returns the hazard ID of the highest-scoring
// assessment, empty when none scored.
func dominantHazardID(profile maritime.RiskProfile) string {
	var best string
	var bestScore float64 = -1
	for _, a := range profile.Assessments {
		if a.Score > bestScore {
			bestScore = a.Score
			best = a.HazardID
		}
	}
	return best
}
