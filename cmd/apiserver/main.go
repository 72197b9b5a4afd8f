// API server entry point for SeaGuard-Intelligence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/SeaGuard-Intelligence/internal/application/ingestion"
	"github.com/turtacn/SeaGuard-Intelligence/internal/application/monitoring"
	"github.com/turtacn/SeaGuard-Intelligence/internal/config"
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/keyword"
	"github.com/turtacn/SeaGuard-Intelligence/internal/geospatial/validator"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/notification/webhook"
	httpapi "github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/http"
	"github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/http/handlers"
)

// version is stamped at build time via -ldflags.
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
		logger.Error("server exited with error", logging.Err(err))
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
	logger.Info("starting SeaGuard API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	// PostgreSQL
	pgCfg := postgres.Config{
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
	}
	pg, err := postgres.NewClient(ctx, pgCfg, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(postgres.BuildDSN(pgCfg), cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

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

	// Kafka
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

	bus, err := kafka.NewEventBus(producer, "apiserver", logger)
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

	// HTTP
	checks := map[string]handlers.CheckFunc{
		"postgres": pg.HealthCheck,
		"redis":    rdb.Ping,
	}
	router := httpapi.NewRouter(httpapi.RouterConfig{
		ExtractHandler: handlers.NewExtractHandler(ingestSvc, logger),
		AssessHandler:  handlers.NewAssessHandler(monitorSvc, logger),
		WarningHandler: handlers.NewWarningHandler(repo, monitorSvc, logger),
		HealthHandler:  handlers.NewHealthHandler(version, checks, logger),
		Logger:         logger,
		Metrics:        appMetrics,
		Collector:      collector,
		Mode:           cfg.Server.Mode,
	})

	srv := httpapi.NewServer(cfg.Server, router, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return srv.Shutdown(context.Background())
}
