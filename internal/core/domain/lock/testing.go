package lock

import (
	"context"
	"sync"
	"time"
)

type FakeLocker struct {
	Error    error
	Acquired []string
	Released []string
	lock     sync.Mutex
}

func NewFakeLocker() *FakeLocker {
	return &FakeLocker{}
}

func (l *FakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.Error != nil {
		return nil, l.Error
	}
	l.Acquired = append(l.Acquired, key)
	return func(ctx context.Context) error {
		l.lock.Lock()
		defer l.lock.Unlock()
		l.Released = append(l.Released, key)
		return nil
	}, nil
}
