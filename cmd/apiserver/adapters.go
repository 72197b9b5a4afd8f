package main

import (
	"context"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// repoLogger adapts the platform logger to the repository package's
// key/value logging contract.
type repoLogger struct {
	logger logging.Logger
}

func newRepoLogger(logger logging.Logger) repositories.Logger {
	return &repoLogger{logger: logger}
}

func (l *repoLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, kvFields(keysAndValues)...)
}

func (l *repoLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, kvFields(keysAndValues)...)
}

func (l *repoLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, kvFields(keysAndValues)...)
}

func (l *repoLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, kvFields(keysAndValues)...)
}

func kvFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, logging.Any(key, keysAndValues[i+1]))
	}
	return fields
}

// logNotifier stands in for the webhook channel when no webhook URL is
// configured. Deliveries are logged and reported as successful so the
// dispatch cycle still marks warnings notified.
type logNotifier struct {
	logger logging.Logger
}

func (n *logNotifier) NotifyWarning(ctx context.Context, w *warning.Warning) error {
	n.logger.Info("notification (log only)",
		logging.String("warning_id", w.ID.String()),
		logging.String("title", w.Title))
	return nil
}

func (n *logNotifier) NotifyBatch(ctx context.Context, warnings []*warning.Warning) error {
	n.logger.Info("batch notification (log only)", logging.Int("count", len(warnings)))
	return nil
}

func (n *logNotifier) NotifyRiskAlert(ctx context.Context, profile maritime.RiskProfile) error {
	n.logger.Info("risk alert (log only)",
		logging.String("vessel", profile.VesselName),
		logging.String("level", string(profile.Level)),
		logging.Float64("score", profile.OverallScore))
	return nil
}
