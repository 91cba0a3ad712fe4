package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps windows in Redis so several bot replicas share limits.
// Keys expire on their own, so Sweep has nothing to do.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store from a redis:// URL
func NewRedisStore(url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		prefix: "ratelimit",
	}, nil
}

// Ping checks connectivity
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(userID int64, part string) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, userID, part)
}

// Allow implements Store. The read and the write are separate round trips, so
// two simultaneous attempts by one user may both pass.
func (r *RedisStore) Allow(ctx context.Context, userID int64, now time.Time, limits Limits) (Decision, error) {
	timesKey := r.key(userID, "times")
	lastKey := r.key(userID, "last")
	firstKey := r.key(userID, "first")

	var (
		timesCmd *redis.ZSliceCmd
		lastCmd  *redis.StringCmd
		firstCmd *redis.IntCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, timesKey, "-inf", strconv.FormatInt(now.Add(-Window).UnixMilli(), 10))
		timesCmd = pipe.ZRangeWithScores(ctx, timesKey, 0, -1)
		lastCmd = pipe.Get(ctx, lastKey)
		firstCmd = pipe.Exists(ctx, firstKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Decision{}, fmt.Errorf("failed to read rate limit window: %w", err)
	}

	entries, err := timesCmd.Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read rate limit window: %w", err)
	}
	times := make([]time.Time, 0, len(entries))
	for _, z := range entries {
		times = append(times, time.UnixMilli(int64(z.Score)))
	}

	var last time.Time
	if ms, err := lastCmd.Int64(); err == nil {
		last = time.UnixMilli(ms)
	} else if !errors.Is(err, redis.Nil) {
		return Decision{}, fmt.Errorf("failed to read last question time: %w", err)
	}

	d := evaluate(firstCmd.Val() > 0, last, times, now, limits)
	if !d.Allowed {
		return d, nil
	}

	ms := now.UnixMilli()
	ttl := Window
	if limits.Cooldown > ttl {
		ttl = limits.Cooldown
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, timesKey, redis.Z{Score: float64(ms), Member: strconv.FormatInt(now.UnixNano(), 10)})
		pipe.Expire(ctx, timesKey, Window)
		pipe.Set(ctx, lastKey, ms, ttl)
		pipe.Set(ctx, firstKey, 1, ttl)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to record question: %w", err)
	}
	return d, nil
}

// Sweep implements Store
func (r *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
