package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics for the platform.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Ingestion pipeline
	BulletinsIngestedTotal   CounterVec
	BulletinsMatchedTotal    CounterVec
	CoordinatesParsedTotal   CounterVec
	CoordinatesRejectedTotal CounterVec
	IngestDuration           HistogramVec
	ExtractionPointCount     HistogramVec

	// Risk assessment
	AssessmentsTotal   CounterVec
	AssessmentDuration HistogramVec
	ThreatLevelsTotal  CounterVec
	ActiveHazardZones  GaugeVec

	// Notification
	NotificationsTotal     CounterVec
	NotificationDuration   HistogramVec
	NotificationSuppressed CounterVec

	// Infrastructure
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessagePublishTotal    CounterVec
	MessageProcessDuration HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultIngestDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultPointCountBuckets     = []float64{0, 1, 2, 4, 8, 16, 32, 64}
)

// NewAppMetrics registers all platform metrics and returns the AppMetrics set.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Ingestion
	m.BulletinsIngestedTotal = collector.RegisterCounter("bulletins_ingested_total", "Bulletins processed by the ingestion pipeline", "source", "status")
	m.BulletinsMatchedTotal = collector.RegisterCounter("bulletins_matched_total", "Bulletins that matched the keyword watch list", "source")
	m.CoordinatesParsedTotal = collector.RegisterCounter("coordinates_parsed_total", "Coordinates extracted from bulletin text", "source")
	m.CoordinatesRejectedTotal = collector.RegisterCounter("coordinates_rejected_total", "Coordinates dropped by validation", "source", "reason")
	m.IngestDuration = collector.RegisterHistogram("ingest_duration_seconds", "Bulletin ingestion duration", DefaultIngestDurationBuckets, "source")
	m.ExtractionPointCount = collector.RegisterHistogram("extraction_point_count", "Deduplicated coordinate count per bulletin", DefaultPointCountBuckets, "source")

	// Risk assessment
	m.AssessmentsTotal = collector.RegisterCounter("assessments_total", "Vessel risk assessments performed", "kind")
	m.AssessmentDuration = collector.RegisterHistogram("assessment_duration_seconds", "Risk assessment duration", DefaultHTTPDurationBuckets, "kind")
	m.ThreatLevelsTotal = collector.RegisterCounter("threat_levels_total", "Threat levels produced by assessments", "level")
	m.ActiveHazardZones = collector.RegisterGauge("active_hazard_zones", "Hazard zones currently monitored", "kind")

	// Notification
	m.NotificationsTotal = collector.RegisterCounter("notifications_total", "Webhook notification attempts", "status")
	m.NotificationDuration = collector.RegisterHistogram("notification_duration_seconds", "Webhook delivery duration", DefaultHTTPDurationBuckets, "channel")
	m.NotificationSuppressed = collector.RegisterCounter("notifications_suppressed_total", "Notifications skipped by the suppression window", "channel")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessagePublishTotal = collector.RegisterCounter("mq_publish_total", "Messages published to Kafka", "topic", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// ── Recording helpers ─────────────────────────────────────────────────────────

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordIngestion(metrics *AppMetrics, source string, matched bool, pointCount int, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.BulletinsIngestedTotal.WithLabelValues(source, status).Inc()
	metrics.IngestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if matched {
		metrics.BulletinsMatchedTotal.WithLabelValues(source).Inc()
		metrics.ExtractionPointCount.WithLabelValues(source).Observe(float64(pointCount))
	}
}

func RecordAssessment(metrics *AppMetrics, kind string, levels []string, duration time.Duration) {
	metrics.AssessmentsTotal.WithLabelValues(kind).Inc()
	metrics.AssessmentDuration.WithLabelValues(kind).Observe(duration.Seconds())
	for _, level := range levels {
		metrics.ThreatLevelsTotal.WithLabelValues(level).Inc()
	}
}

func RecordNotification(metrics *AppMetrics, success bool, duration time.Duration) {
	status := "ok"
	if !success {
		status = "error"
	}
	metrics.NotificationsTotal.WithLabelValues(status).Inc()
	metrics.NotificationDuration.WithLabelValues("webhook").Observe(duration.Seconds())
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordPublish(metrics *AppMetrics, topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.MessagePublishTotal.WithLabelValues(topic, status).Inc()
}
