package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	ratelimiter "sliderapp/internal/core/domain/rate_limiter"
	"time"

	"github.com/go-redis/redis/v9"
)

// Redis is a fixed window rate limiter. Windows are aligned to the clock,
// a counter key lives until its window ends.
type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, log: log, now: now}
}

func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	size := windowSize(limit.Interval)
	now := r.now()
	window := now.Truncate(size)
	counterKey := fmt.Sprintf("rate-limit::%s::%d", key, window.Unix())

	var hits *redis.IntCmd
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		hits = pipe.Incr(ctx, counterKey)
		pipe.Expire(ctx, counterKey, window.Add(size).Sub(now))
		return nil
	})
	switch {
	case errors.Is(err, context.Canceled):
		return ratelimiter.NotAllowed()
	case err != nil:
		r.log.Error(
			ctx,
			"Could not check rate limit due to Redis client error.",
			logging.Entry("err", err),
			logging.Entry("key", key),
		)
		return ratelimiter.Allowed()
	case hits.Val() > int64(limit.Value):
		r.log.Info(ctx, "Rate limit exceeded.", logging.Entry("key", key), logging.Entry("hits", hits.Val()))
		return ratelimiter.NotAllowed()
	default:
		return ratelimiter.Allowed()
	}
}

func windowSize(interval ratelimiter.Interval) time.Duration {
	switch interval {
	case ratelimiter.Hour:
		return time.Hour
	case ratelimiter.Minute:
		return time.Minute
	default:
		panic(e.NewInvalidStateError("invalid rate limiting interval"))
	}
}
