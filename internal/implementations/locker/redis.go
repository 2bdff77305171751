package locker

import (
	"context"
	"errors"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/lock"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/google/uuid"
)

const DEFAULT_RETRY_INTERVAL = 100 * time.Millisecond

var ErrLockExpired = errors.New("lock expired before release")

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is a single instance distributed lock. A lock is a key holding a
// random token, only the owner of the token deletes the key.
type Redis struct {
	redisClient   *redis.Client
	retryInterval time.Duration
}

func NewRedis(redisClient *redis.Client, retryInterval time.Duration) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if retryInterval <= 0 {
		retryInterval = DEFAULT_RETRY_INTERVAL
	}
	return &Redis{redisClient: redisClient, retryInterval: retryInterval}
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (lock.Release, error) {
	token := uuid.NewString()

	// The first attempt is made even if ctx is already done.
	ok, err := r.redisClient.SetNX(context.WithoutCancel(ctx), key, token, ttl).Result()
	for {
		if err != nil {
			return nil, err
		}
		if ok {
			return r.release(key, token), nil
		}

		timer := time.NewTimer(r.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lock.ErrLockNotAcquired
		case <-timer.C:
		}
		ok, err = r.redisClient.SetNX(ctx, key, token, ttl).Result()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, lock.ErrLockNotAcquired
		}
	}
}

func (r *Redis) release(key string, token string) lock.Release {
	return func(ctx context.Context) error {
		deleted, err := releaseScript.Run(ctx, r.redisClient, []string{key}, token).Int()
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrLockExpired
		}
		return nil
	}
}
