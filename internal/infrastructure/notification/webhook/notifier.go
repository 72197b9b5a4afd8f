package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// Config holds webhook delivery parameters.
type Config struct {
	WebhookURL   string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// BatchSize caps how many warnings one batch card details.
	BatchSize int
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 2 * time.Second
	}
	if c.BatchSize == 0 {
		c.BatchSize = 8
	}
}

// Notifier posts adaptive cards to an incoming webhook. Delivery is
// at-least-once: transient failures are retried with doubling backoff, and
// the caller decides whether a terminal failure re-queues the warning.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger logging.Logger
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) { n.client = client }
}

// NewNotifier builds a Notifier. The webhook URL is required.
func NewNotifier(cfg Config, log logging.Logger, opts ...Option) (*Notifier, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New(errors.CodeNotifyConfigMissing, "webhook url is required")
	}
	cfg.applyDefaults()

	n := &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NotifyWarning delivers a single warning card.
func (n *Notifier) NotifyWarning(ctx context.Context, w *warning.Warning) error {
	if err := n.send(ctx, buildWarningCard(w)); err != nil {
		return err
	}
	n.logger.Info("Warning notification delivered",
		logging.String("warning_id", string(w.ID)),
		logging.String("bureau", w.Bureau),
	)
	return nil
}

// NotifyBatch delivers one card summarizing the given warnings. Warnings
// beyond the configured batch size are counted but not detailed. An empty
// slice is a no-op.
func (n *Notifier) NotifyBatch(ctx context.Context, warnings []*warning.Warning) error {
	if len(warnings) == 0 {
		return nil
	}
	if err := n.send(ctx, buildBatchCard(warnings, n.cfg.BatchSize)); err != nil {
		return err
	}
	n.logger.Info("Batch notification delivered", logging.Int("warnings", len(warnings)))
	return nil
}

// NotifyRiskAlert delivers a vessel risk card.
func (n *Notifier) NotifyRiskAlert(ctx context.Context, profile maritime.RiskProfile) error {
	if err := n.send(ctx, buildRiskAlertCard(profile)); err != nil {
		return err
	}
	n.logger.Info("Risk alert delivered",
		logging.String("vessel", profile.VesselName),
		logging.String("level", string(profile.Level)),
	)
	return nil
}

// NotifySummary delivers a statistics card after a scrape cycle.
func (n *Notifier) NotifySummary(ctx context.Context, stats warning.Statistics) error {
	return n.send(ctx, buildSummaryCard(stats, time.Now()))
}

// TestConnection posts a minimal card to verify the webhook end to end.
func (n *Notifier) TestConnection(ctx context.Context) error {
	return n.send(ctx, buildTestCard(time.Now()))
}

// send posts the card, retrying network errors and 429/5xx responses. The
// webhook acknowledges with 200 or 202 depending on the connector flavor.
func (n *Notifier) send(ctx context.Context, card Card) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode card")
	}

	backoff := n.cfg.RetryBackoff
	var lastErr error
	for attempt := 0; attempt <= n.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		retryable, err := n.post(ctx, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
		n.logger.Warn("Webhook delivery failed, retrying",
			logging.Int("attempt", attempt+1),
			logging.Err(err),
		)
	}
	return errors.Wrap(lastErr, errors.CodeNotifyFailed, "webhook delivery exhausted retries")
}

func (n *Notifier) post(ctx context.Context, payload []byte) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return false, errors.Wrap(err, errors.CodeNotifyFailed, "failed to build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return true, errors.Wrap(err, errors.CodeNotifyFailed, "webhook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = errors.New(errors.CodeNotifyFailed,
		fmt.Sprintf("webhook returned status %d", resp.StatusCode)).WithDetail(string(body))
	retryable = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return retryable, err
}
