// Background worker entry point for SeaGuard-Intelligence: consumes raw
// bulletins from Kafka, runs them through the ingestion pipeline, and
// periodically dispatches pending notifications and cleans up retired
// warnings.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/application/ingestion"
	"github.com/turtacn/SeaGuard-Intelligence/internal/application/monitoring"
	"github.com/turtacn/SeaGuard-Intelligence/internal/config"
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/keyword"
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/validator"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/notification/webhook"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty loads SEAGUARD_* env vars)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	output := cfg.Output
	if output == "" {
		output = "stdout"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting SeaGuard worker",
		logging.String("version", version),
		logging.Duration("poll_interval", cfg.Worker.PollInterval))

	// PostgreSQL
	pg, err := postgres.NewClient(ctx, postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pg.Close()

	repo := repositories.NewWarningRepository(pg.Pool(), newRepoLogger(logger))

	// Redis
	rdb, err := redis.NewClient(&redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	suppressor := redis.NewSuppressor(rdb, cfg.Notification.SuppressWindow, logger)

	// Kafka producer + event bus for the events this worker emits.
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.ProducerRetries,
		BatchSize:    cfg.Kafka.BatchSize,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	bus, err := kafka.NewEventBus(producer, "worker", logger)
	if err != nil {
		return fmt.Errorf("event bus: %w", err)
	}

	// Notification channel
	var notifier monitoring.Notifier
	if cfg.Notification.WebhookURL != "" {
		notifier, err = webhook.NewNotifier(webhook.Config{
			WebhookURL:   cfg.Notification.WebhookURL,
			Timeout:      cfg.Notification.Timeout,
			MaxRetries:   cfg.Notification.MaxRetries,
			RetryBackoff: cfg.Notification.RetryBackoff,
			BatchSize:    cfg.Notification.BatchSize,
		}, logger)
		if err != nil {
			return fmt.Errorf("webhook notifier: %w", err)
		}
	} else {
		logger.Warn("no webhook url configured, notifications are logged only")
		notifier = &logNotifier{logger: logger}
	}

	// Metrics
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "seaguard",
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// Application services
	matcher := keyword.NewMatcher(cfg.Keyword.Keywords)

	ingestOpts := ingestion.Options{DedupThresholdKm: cfg.Geospatial.DedupThresholdKm}
	if cfg.Geospatial.RegionEnabled {
		v := validator.NewRegional(cfg.Geospatial.Region)
		ingestOpts.Validator = &v
	}
	ingestSvc := ingestion.NewService(repo, matcher, bus, appMetrics, ingestOpts, logger)
	monitorSvc := monitoring.NewService(repo, notifier, suppressor, bus, appMetrics,
		monitoring.Options{DefaultBufferKm: cfg.Geospatial.DefaultBufferKm}, logger)

	// Topic bootstrap; a broker that forbids topic creation only logs.
	if tm, tmErr := kafka.NewTopicManager(cfg.Kafka.Brokers, logger); tmErr == nil {
		if ensureErr := tm.EnsureDefaultTopics(ctx); ensureErr != nil {
			logger.Warn("topic bootstrap failed", logging.Err(ensureErr))
		}
		tm.Close()
	} else {
		logger.Warn("topic manager unavailable", logging.Err(tmErr))
	}

	// Bulletin consumer
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{kafka.TopicBulletinReceived},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Worker.MaxRetries,
			RetryBackoff:    cfg.Worker.RetryBackoff,
			DeadLetterTopic: kafka.TopicDeadLetter,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}

	if err := consumer.Subscribe(kafka.TopicBulletinReceived, bulletinHandler(ingestSvc, logger)); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("consumer start: %w", err)
	}
	defer consumer.Close()

	runMaintenanceLoop(ctx, cfg.Worker, repo, monitorSvc, logger)
	logger.Info("worker stopped")
	return nil
}

// bulletinHandler decodes a bulletin envelope and runs it through the
// ingestion pipeline. Decode failures are terminal (no retry will fix
// them), so they are logged and swallowed.
func bulletinHandler(svc ingestion.Service, logger logging.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.Message) error {
		var envelope kafka.EventEnvelope
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			logger.Error("undecodable bulletin message dropped",
				logging.Int64("offset", msg.Offset), logging.Err(err))
			return nil
		}

		var payload kafka.BulletinReceivedPayload
		if err := envelope.DecodePayload(&payload); err != nil {
			logger.Error("undecodable bulletin payload dropped",
				logging.String("event_id", envelope.EventID), logging.Err(err))
			return nil
		}

		result, err := svc.Ingest(ctx, ingestion.Bulletin{
			Source:      warning.Source(payload.Source),
			Bureau:      payload.Bureau,
			Title:       payload.Title,
			Link:        payload.Link,
			PublishTime: payload.PublishTime,
			BodyText:    payload.Body,
			ScrapedAt:   payload.ScrapedAt,
		})
		if err != nil {
			return err
		}

		if result.Matched {
			logger.Info("bulletin ingested",
				logging.String("title", payload.Title),
				logging.Bool("is_new", result.IsNew),
				logging.Int("coordinates", len(result.Coordinates)))
		} else {
			logger.Debug("bulletin skipped, no keyword match",
				logging.String("title", payload.Title))
		}
		return nil
	}
}

// runMaintenanceLoop blocks until ctx is cancelled, running a dispatch and
// cleanup cycle every poll interval.
func runMaintenanceLoop(ctx context.Context, cfg config.WorkerConfig, repo warning.Repository, svc monitoring.Service, logger logging.Logger) {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			maintenanceCycle(ctx, cfg, repo, svc, logger)
		}
	}
}

func maintenanceCycle(ctx context.Context, cfg config.WorkerConfig, repo warning.Repository, svc monitoring.Service, logger logging.Logger) {
	// Refresh hazard zones so the gauges track stored warnings even when
	// no assessment request has come in.
	if _, err := svc.BuildHazardZones(ctx, ""); err != nil {
		logger.Error("hazard zone refresh failed", logging.Err(err))
	}

	result, err := svc.DispatchPending(ctx, "")
	if err != nil {
		logger.Error("notification dispatch failed", logging.Err(err))
	} else if result.Pending > 0 {
		logger.Info("notification dispatch cycle",
			logging.Int("pending", result.Pending),
			logging.Int("delivered", result.Delivered),
			logging.Int("suppressed", result.Suppressed))
	}

	if cfg.RetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.RetentionDays)
		deleted, err := repo.CleanupOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("warning cleanup failed", logging.Err(err))
		} else if deleted > 0 {
			logger.Info("retired warnings cleaned up",
				logging.Int64("deleted", deleted),
				logging.Time("cutoff", cutoff))
		}
	}
}
