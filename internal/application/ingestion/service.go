// Package ingestion turns scraped bulletins into stored navigation warnings:
// keyword matching, coordinate extraction, persistence, and event publication.
package ingestion

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/keyword"
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/dedup"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/parser"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/validator"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// Bulletin is a scraped announcement before ingestion.
type Bulletin struct {
	Source      warning.Source
	Bureau      string
	Title       string
	Link        string
	PublishTime string
	// BodyText is the bulletin body; coordinates are extracted from the
	// title and body together.
	BodyText  string
	ScrapedAt time.Time
}

// Result reports what ingestion did with a bulletin.
type Result struct {
	// Matched is false when the title hit no watch-list keyword; nothing
	// is stored in that case.
	Matched         bool             `json:"matched"`
	MatchedKeywords []string         `json:"matched_keywords,omitempty"`
	Warning         *warning.Warning `json:"warning,omitempty"`
	IsNew           bool             `json:"is_new"`
	// CoordinatesBackfilled is set when a re-scraped bulletin supplied
	// coordinates that the stored record lacked.
	CoordinatesBackfilled bool                `json:"coordinates_backfilled"`
	Coordinates           []maritime.GeoPoint `json:"coordinates,omitempty"`
}

// ExtractInput is a standalone extraction request.
type ExtractInput struct {
	Text string
	// ThresholdKm overrides the configured clustering distance when > 0.
	ThresholdKm float64
}

// ExtractResult carries the extraction pipeline's output and its loss
// accounting.
type ExtractResult struct {
	Points     []maritime.GeoPoint `json:"points"`
	RawMatches int                 `json:"raw_matches"`
	Rejected   int                 `json:"rejected"`
	Merged     int                 `json:"merged"`
}

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishWarningDetected(ctx context.Context, evt *warning.WarningDetectedEvent) error
}

// Service is the bulletin ingestion application service.
type Service interface {
	Ingest(ctx context.Context, b Bulletin) (*Result, error)
	Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error)
}

// Options tune the extraction pipeline.
type Options struct {
	// DedupThresholdKm is the coordinate clustering distance. Zero keeps
	// the 1 km default.
	DedupThresholdKm float64
	// Validator defaults to the global-range validator.
	Validator *validator.Validator
}

type serviceImpl struct {
	repo      warning.Repository
	matcher   *keyword.Matcher
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	validator validator.Validator
	threshold float64
	logger    logging.Logger
}

// NewService builds the ingestion service. publisher and metrics may be nil;
// ingestion then persists without event publication or instrumentation.
func NewService(repo warning.Repository, matcher *keyword.Matcher, publisher EventPublisher, metrics *prometheus.AppMetrics, opts Options, logger logging.Logger) Service {
	v := validator.New()
	if opts.Validator != nil {
		v = *opts.Validator
	}
	threshold := opts.DedupThresholdKm
	if threshold <= 0 {
		threshold = 1.0
	}
	return &serviceImpl{
		repo:      repo,
		matcher:   matcher,
		publisher: publisher,
		metrics:   metrics,
		validator: v,
		threshold: threshold,
		logger:    logger,
	}
}

func (s *serviceImpl) Ingest(ctx context.Context, b Bulletin) (*Result, error) {
	started := time.Now()

	if err := validateBulletin(b); err != nil {
		s.record(b.Source, false, 0, started, err)
		return nil, err
	}

	matched := s.matcher.Match(b.Title)
	if len(matched) == 0 {
		s.record(b.Source, false, 0, started, nil)
		return &Result{Matched: false}, nil
	}

	points, rejected := s.extract(b.Title+"\n"+b.BodyText, s.threshold)
	if s.metrics != nil {
		s.metrics.CoordinatesParsedTotal.WithLabelValues(string(b.Source)).Add(float64(len(points) + rejected))
		if rejected > 0 {
			s.metrics.CoordinatesRejectedTotal.WithLabelValues(string(b.Source), "validation").Add(float64(rejected))
		}
	}

	w := warning.New(b.Source, b.Bureau, b.Title, b.Link, b.PublishTime)
	w.MatchedKeywords = matched
	w.Coordinates = points
	if !b.ScrapedAt.IsZero() {
		w.ScrapeTime = b.ScrapedAt.UTC()
	}

	saved, err := s.repo.Save(ctx, w)
	if err != nil {
		s.record(b.Source, true, len(points), started, err)
		return nil, err
	}
	w.ID = saved.ID

	if saved.IsNew && s.publisher != nil {
		if err := s.publisher.PublishWarningDetected(ctx, warning.NewWarningDetectedEvent(w)); err != nil {
			// The warning is already stored; a publish failure must not
			// undo ingestion.
			s.logger.Warn("Failed to publish warning detected event",
				logging.String("warning_id", w.ID.String()),
				logging.Err(err),
			)
		}
	}

	s.record(b.Source, true, len(points), started, nil)
	s.logger.Info("Bulletin ingested",
		logging.String("source", string(b.Source)),
		logging.String("bureau", b.Bureau),
		logging.Bool("is_new", saved.IsNew),
		logging.Bool("backfilled", saved.CoordinatesBackfilled),
		logging.Int("coordinates", len(points)),
		logging.Strings("keywords", matched),
	)

	return &Result{
		Matched:               true,
		MatchedKeywords:       matched,
		Warning:               w,
		IsNew:                 saved.IsNew,
		CoordinatesBackfilled: saved.CoordinatesBackfilled,
		Coordinates:           points,
	}, nil
}

func (s *serviceImpl) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New(errors.CodeInvalidParam, "text is required")
	}
	threshold := input.ThresholdKm
	if threshold <= 0 {
		threshold = s.threshold
	}

	raw := parser.Parse(input.Text)
	valid := s.validator.Filter(raw)
	clustered := dedup.Cluster(valid, threshold)

	return &ExtractResult{
		Points:     clustered,
		RawMatches: len(raw),
		Rejected:   len(raw) - len(valid),
		Merged:     len(valid) - len(clustered),
	}, nil
}

// extract runs the parse → validate → dedup pipeline and reports how many
// parsed points validation dropped.
func (s *serviceImpl) extract(text string, threshold float64) ([]maritime.GeoPoint, int) {
	raw := parser.Parse(text)
	valid := s.validator.Filter(raw)
	return dedup.Cluster(valid, threshold), len(raw) - len(valid)
}

func (s *serviceImpl) record(source warning.Source, matched bool, points int, started time.Time, err error) {
	if s.metrics == nil {
		return
	}
	prometheus.RecordIngestion(s.metrics, string(source), matched, points, time.Since(started), err)
}

func validateBulletin(b Bulletin) error {
	if !b.Source.IsValid() {
		return errors.New(errors.CodeSourceUnsupported, "unknown bulletin source: "+string(b.Source))
	}
	if b.Bureau == "" {
		return errors.New(errors.CodeBulletinInvalid, "bureau is required")
	}
	if b.Title == "" {
		return errors.New(errors.CodeBulletinInvalid, "title is required")
	}
	return nil
}
