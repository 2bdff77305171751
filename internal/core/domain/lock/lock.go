package lock

import (
	"context"
	"errors"
	"time"
)

var ErrLockNotAcquired = errors.New("lock is held by another process")

type Release func(ctx context.Context) error

type Locker interface {
	// Acquire blocks until the lock is taken or ctx is done, in the latter
	// case ErrLockNotAcquired is returned. The lock expires after ttl
	// unless released earlier.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}
