package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a fixed one-second window limiter shared by every replica.
// It falls back to allowing the call when Redis is unreachable, but never
// when the caller's context is done.
type Redis struct {
	rdb       *redis.Client
	limits    map[string]Limit
	keyPrefix string
	logger    *zap.Logger
	now       func() time.Time
}

// NewRedis creates a Redis-backed limiter
func NewRedis(rdb *redis.Client, limits map[string]Limit, logger *zap.Logger) *Redis {
	return &Redis{
		rdb:       rdb,
		limits:    limits,
		keyPrefix: "meeting-automations:ratelimit:",
		logger:    logger,
		now:       time.Now,
	}
}

// Wait blocks until the provider's window has capacity
func (r *Redis) Wait(ctx context.Context, provider string) error {
	cfg, ok := r.limits[provider]
	if !ok || cfg.RPS <= 0 {
		return nil
	}
	perWindow := int64(math.Max(1, math.Floor(cfg.RPS)))

	for {
		now := r.now()
		window := now.Unix()
		key := fmt.Sprintf("%s%s:%d", r.keyPrefix, provider, window)

		pipe := r.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, 2*time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.logger != nil {
				r.logger.Warn("⚠️ Rate limit check failed, allowing call",
					zap.String("provider", provider),
					zap.Error(err),
				)
			}
			return nil
		}
		if incr.Val() <= perWindow {
			return nil
		}

		wait := time.Unix(window+1, 0).Sub(now)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
