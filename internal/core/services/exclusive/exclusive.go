package exclusive

import (
	"context"
	"errors"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/services"
	"time"
)

type serviceWithExclusiveRun[T any, S any] struct {
	log    logging.Logger
	locker lock.Locker
	key    string
	ttl    time.Duration
	wait   time.Duration
	inner  services.Service[T, S]
}

// WithExclusiveRun makes at most one inner Run hold the lock at a time.
// A caller that cannot take the lock within wait gets lock.ErrLockNotAcquired.
func WithExclusiveRun[T any, S any](
	log logging.Logger,
	locker lock.Locker,
	key string,
	ttl time.Duration,
	wait time.Duration,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if locker == nil {
		panic(e.NewNilArgumentError("locker"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if key == "" {
		panic(e.NewInvalidStateError("lock key must not be empty"))
	}
	if ttl <= 0 {
		panic(e.NewInvalidStateError("lock TTL must be positive"))
	}
	return &serviceWithExclusiveRun[T, S]{
		log:    log,
		locker: locker,
		key:    key,
		ttl:    ttl,
		wait:   wait,
		inner:  inner,
	}
}

func (s *serviceWithExclusiveRun[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	acquireCtx := ctx
	if s.wait >= 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.wait)
		defer cancel()
	}

	release, err := s.locker.Acquire(acquireCtx, s.key, s.ttl)
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			s.log.Warning(ctx, "Lock is held by another run.", logging.Entry("key", s.key))
			return result, err
		}
		logging.Error(ctx, s.log, err, logging.Entry("key", s.key))
		return result, err
	}
	defer func() {
		// The inner run may have been cancelled, release regardless.
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warning(ctx, "Could not release lock.", logging.Entry("key", s.key), logging.Entry("err", err))
		}
	}()

	return s.inner.Run(ctx, input)
}
