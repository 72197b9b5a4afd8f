package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

// Suppressor rate-limits outbound notifications. Once a warning has been
// delivered, repeat deliveries for the same warning are suppressed for the
// configured window, so a bulletin that is re-scraped every cycle does not
// page the same channel every cycle.
type Suppressor struct {
	client *Client
	logger logging.Logger
	window time.Duration
	prefix string
}

// NewSuppressor builds a Suppressor. window is how long a delivered warning
// stays quiet; zero falls back to six hours.
func NewSuppressor(client *Client, window time.Duration, log logging.Logger) *Suppressor {
	if window <= 0 {
		window = 6 * time.Hour
	}
	return &Suppressor{
		client: client,
		logger: log,
		window: window,
		prefix: "seaguard:notify:suppress:",
	}
}

// TryAcquire marks id as notified and reports whether the caller should
// deliver. It returns false when a delivery for id is still inside the
// suppression window. The mark is atomic, so two workers racing on the same
// warning produce exactly one delivery.
func (s *Suppressor) TryAcquire(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+id, time.Now().UTC().Format(time.RFC3339), s.window).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "suppression check failed")
	}
	if !ok {
		s.logger.Debug("Notification suppressed", logging.String("warning_id", id))
	}
	return ok, nil
}

// Release clears the suppression mark, letting the next delivery through
// immediately. Used when a delivery attempt ultimately fails.
func (s *Suppressor) Release(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "suppression release failed")
	}
	return nil
}

// Remaining reports how long id stays suppressed. Zero means not suppressed.
func (s *Suppressor) Remaining(ctx context.Context, id string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.prefix+id).Result()
	if err != nil && err != redis.Nil {
		return 0, errors.Wrap(err, errors.CodeCacheError, "suppression ttl failed")
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
