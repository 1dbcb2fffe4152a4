package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisFailsOpenWhenUnreachable(t *testing.T) {
	l := NewRedis(unreachableRedis(t), Limits(map[string]float64{"slack": 1}, nil), zap.NewNop())

	assert.NoError(t, l.Wait(context.Background(), "slack"))
}

func TestRedisHonorsCancelledContext(t *testing.T) {
	l := NewRedis(unreachableRedis(t), Limits(map[string]float64{"slack": 1}, nil), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx, "slack"), context.Canceled)

	short, cancelShort := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancelShort()
	time.Sleep(time.Millisecond)
	assert.ErrorIs(t, l.Wait(short, "slack"), context.DeadlineExceeded)
}

func TestRedisSkipsUnlimitedProviders(t *testing.T) {
	l := NewRedis(unreachableRedis(t), Limits(map[string]float64{"slack": 1}, nil), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, l.Wait(ctx, "notion"))
}
