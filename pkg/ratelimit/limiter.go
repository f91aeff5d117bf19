package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimiterUnavailable is returned when the backing Redis instance cannot be
// reached.
var ErrLimiterUnavailable = errors.New("ratelimit: limiter unavailable")

// Config holds limiter settings.
type Config struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"30"` // Requests allowed per window.
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`   // Window duration.
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	client *redis.Client
	prefix string
	cfg    Config
}

// New creates a limiter on the given Redis client. The prefix namespaces this
// limiter's keys (e.g. "checkin", "minibar").
func New(client *redis.Client, prefix string, cfg Config) *Limiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 30
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Limiter{client: client, prefix: prefix, cfg: cfg}
}

// Allow records one request for key and reports whether it is within the
// limit. The first hit in a window sets the window's expiry; subsequent hits
// only increment, so the window is fixed rather than sliding.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + l.prefix + ":" + hashKey(key)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Join(ErrLimiterUnavailable, err)
	}

	return count.Val() <= int64(l.cfg.Requests), nil
}

// hashKey hashes identity material (client IPs, names) so it never appears
// verbatim in Redis.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
