// Package monitoring evaluates fleet exposure against stored navigation
// warnings and dispatches pending notifications.
package monitoring

import (
	"context"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/risk"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// Notifier delivers warning and risk cards to the configured channel.
type Notifier interface {
	NotifyWarning(ctx context.Context, w *warning.Warning) error
	NotifyBatch(ctx context.Context, warnings []*warning.Warning) error
	NotifyRiskAlert(ctx context.Context, profile maritime.RiskProfile) error
}

// Suppressor rate-limits repeat deliveries for the same subject.
type Suppressor interface {
	TryAcquire(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// EventPublisher publishes monitoring events to the message bus.
type EventPublisher interface {
	PublishRiskAlert(ctx context.Context, profile maritime.RiskProfile) error
	PublishWarningNotified(ctx context.Context, evt *warning.WarningNotifiedEvent) error
}

// DispatchResult reports one notification dispatch cycle.
type DispatchResult struct {
	Pending    int `json:"pending"`
	Delivered  int `json:"delivered"`
	Suppressed int `json:"suppressed"`
}

// Service is the fleet monitoring application service.
type Service interface {
	// BuildHazardZones converts stored warnings with coordinates into
	// hazard zones. Three or more points form a polygon, fewer a point
	// zone. A zero source includes all sources.
	BuildHazardZones(ctx context.Context, source warning.Source) ([]maritime.HazardZone, error)

	AssessVessel(ctx context.Context, vessel maritime.VesselState) (*maritime.RiskProfile, error)
	AssessFleet(ctx context.Context, vessels []maritime.VesselState) (*maritime.FleetSummary, error)

	// DispatchPending delivers unnotified warnings to the notification
	// channel, honoring the suppression window, and marks them notified.
	DispatchPending(ctx context.Context, source warning.Source) (*DispatchResult, error)
}

// Options tune zone construction.
type Options struct {
	// DefaultBufferKm is the hazard buffer for zones whose bulletin does
	// not state one. Zero keeps 5 km.
	DefaultBufferKm float64
}

type serviceImpl struct {
	repo       warning.Repository
	scorer     *risk.Scorer
	notifier   Notifier
	suppressor Suppressor
	publisher  EventPublisher
	metrics    *prometheus.AppMetrics
	bufferKm   float64
	logger     logging.Logger
}

// NewService builds the monitoring service. notifier, suppressor, publisher,
// and metrics may each be nil; the corresponding step is skipped.
func NewService(repo warning.Repository, notifier Notifier, suppressor Suppressor, publisher EventPublisher, metrics *prometheus.AppMetrics, opts Options, logger logging.Logger) Service {
	buffer := opts.DefaultBufferKm
	if buffer <= 0 {
		buffer = 5.0
	}
	return &serviceImpl{
		repo:       repo,
		scorer:     risk.NewScorer(),
		notifier:   notifier,
		suppressor: suppressor,
		publisher:  publisher,
		metrics:    metrics,
		bufferKm:   buffer,
		logger:     logger,
	}
}

func (s *serviceImpl) BuildHazardZones(ctx context.Context, source warning.Source) ([]maritime.HazardZone, error) {
	warnings, err := s.repo.FindWithCoordinates(ctx, source)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeHazardBuildFailed, "failed to load warnings with coordinates")
	}

	zones := make([]maritime.HazardZone, 0, len(warnings))
	var points, polygons int
	for _, w := range warnings {
		if len(w.Coordinates) == 0 {
			continue
		}
		zone := maritime.HazardZone{
			ID:       w.ID.String(),
			Kind:     maritime.ZonePoint,
			Vertices: w.Coordinates,
			BufferKm: s.bufferKm,
			Metadata: maritime.ZoneMetadata{
				Title: w.Title,
				Tags:  w.MatchedKeywords,
			},
		}
		if len(w.Coordinates) >= 3 {
			zone.Kind = maritime.ZonePolygon
			polygons++
		} else {
			zone.Vertices = w.Coordinates[:1]
			points++
		}
		zones = append(zones, zone)
	}

	if s.metrics != nil {
		s.metrics.ActiveHazardZones.WithLabelValues(string(maritime.ZonePoint)).Set(float64(points))
		s.metrics.ActiveHazardZones.WithLabelValues(string(maritime.ZonePolygon)).Set(float64(polygons))
	}
	return zones, nil
}

func (s *serviceImpl) AssessVessel(ctx context.Context, vessel maritime.VesselState) (*maritime.RiskProfile, error) {
	started := time.Now()
	if err := vessel.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeVesselStateInvalid, "invalid vessel state")
	}

	zones, err := s.BuildHazardZones(ctx, "")
	if err != nil {
		return nil, err
	}

	profile := s.scorer.Assess(vessel, zones)
	s.recordAssessment("vessel", []maritime.RiskProfile{profile}, started)
	s.alertIfRequired(ctx, profile)
	return &profile, nil
}

func (s *serviceImpl) AssessFleet(ctx context.Context, vessels []maritime.VesselState) (*maritime.FleetSummary, error) {
	started := time.Now()
	if len(vessels) == 0 {
		return nil, errors.New(errors.CodeFleetEmpty, "fleet must contain at least one vessel")
	}
	for _, v := range vessels {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CodeVesselStateInvalid, "invalid vessel state: "+v.Name)
		}
	}

	zones, err := s.BuildHazardZones(ctx, "")
	if err != nil {
		return nil, err
	}

	summary := s.scorer.AssessFleet(vessels, zones)
	s.recordAssessment("fleet", summary.Profiles, started)
	for _, profile := range summary.Profiles {
		s.alertIfRequired(ctx, profile)
	}
	return &summary, nil
}

func (s *serviceImpl) DispatchPending(ctx context.Context, source warning.Source) (*DispatchResult, error) {
	pending, err := s.repo.FindUnnotified(ctx, source)
	if err != nil {
		return nil, err
	}
	result := &DispatchResult{Pending: len(pending)}
	if len(pending) == 0 {
		return result, nil
	}

	deliverable := pending
	if s.suppressor != nil {
		deliverable = deliverable[:0:0]
		for _, w := range pending {
			ok, err := s.suppressor.TryAcquire(ctx, w.ID.String())
			if err != nil {
				return result, err
			}
			if !ok {
				result.Suppressed++
				if s.metrics != nil {
					s.metrics.NotificationSuppressed.WithLabelValues("webhook").Inc()
				}
				continue
			}
			deliverable = append(deliverable, w)
		}
	}
	if len(deliverable) == 0 {
		return result, nil
	}

	started := time.Now()
	err = s.deliver(ctx, deliverable)
	if s.metrics != nil {
		prometheus.RecordNotification(s.metrics, err == nil, time.Since(started))
	}
	if err != nil {
		// Failed deliveries stay pending; clear their suppression marks so
		// the next cycle retries immediately.
		if s.suppressor != nil {
			for _, w := range deliverable {
				if relErr := s.suppressor.Release(ctx, w.ID.String()); relErr != nil {
					s.logger.Warn("Failed to release suppression mark",
						logging.String("warning_id", w.ID.String()), logging.Err(relErr))
				}
			}
		}
		return result, err
	}

	now := time.Now().UTC()
	for _, w := range deliverable {
		if err := s.repo.MarkNotified(ctx, w.ID, now); err != nil {
			s.logger.Error("Failed to mark warning notified",
				logging.String("warning_id", w.ID.String()), logging.Err(err))
			continue
		}
		result.Delivered++
		if s.publisher != nil {
			if err := s.publisher.PublishWarningNotified(ctx, warning.NewWarningNotifiedEvent(w, now)); err != nil {
				s.logger.Warn("Failed to publish warning notified event",
					logging.String("warning_id", w.ID.String()), logging.Err(err))
			}
		}
	}

	s.logger.Info("Notification dispatch complete",
		logging.Int("pending", result.Pending),
		logging.Int("delivered", result.Delivered),
		logging.Int("suppressed", result.Suppressed),
	)
	return result, nil
}

// deliver sends one card for a single warning and a batch card otherwise.
func (s *serviceImpl) deliver(ctx context.Context, warnings []*warning.Warning) error {
	if s.notifier == nil {
		return nil
	}
	if len(warnings) == 1 {
		return s.notifier.NotifyWarning(ctx, warnings[0])
	}
	return s.notifier.NotifyBatch(ctx, warnings)
}

// alertIfRequired publishes and notifies action-required profiles. Alert
// fan-out is best effort; assessment results are returned regardless.
func (s *serviceImpl) alertIfRequired(ctx context.Context, profile maritime.RiskProfile) {
	if !profile.ActionRequired {
		return
	}
	if s.suppressor != nil {
		ok, err := s.suppressor.TryAcquire(ctx, "risk:"+profile.VesselName)
		if err != nil {
			s.logger.Warn("Risk alert suppression check failed",
				logging.String("vessel", profile.VesselName), logging.Err(err))
		} else if !ok {
			if s.metrics != nil {
				s.metrics.NotificationSuppressed.WithLabelValues("risk").Inc()
			}
			return
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRiskAlert(ctx, profile); err != nil {
			s.logger.Warn("Failed to publish risk alert",
				logging.String("vessel", profile.VesselName), logging.Err(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyRiskAlert(ctx, profile); err != nil {
			s.logger.Warn("Failed to deliver risk alert",
				logging.String("vessel", profile.VesselName), logging.Err(err))
		}
	}
}

func (s *serviceImpl) recordAssessment(kind string, profiles []maritime.RiskProfile, started time.Time) {
	if s.metrics == nil {
		return
	}
	levels := make([]string, len(profiles))
	for i, p := range profiles {
		levels[i] = string(p.Level)
	}
	prometheus.RecordAssessment(s.metrics, kind, levels, time.Since(started))
}
