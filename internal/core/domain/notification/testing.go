package notification

import (
	"context"
	"sliderapp/internal/core/domain/subscription"
	"sync"
	"time"
)

type FakeSentRecord struct {
	Endpoint subscription.Endpoint
	Payload  Payload
}

type FakeSender struct {
	Errors map[subscription.Endpoint]error
	// Delays makes Send block for the endpoint until the delay passes or
	// the context is done.
	Delays map[subscription.Endpoint]time.Duration
	Sent   []FakeSentRecord

	lock sync.Mutex
}

func NewFakeSender() *FakeSender {
	return &FakeSender{
		Errors: make(map[subscription.Endpoint]error),
		Delays: make(map[subscription.Endpoint]time.Duration),
	}
}

func (s *FakeSender) Send(ctx context.Context, sub subscription.Subscription, payload Payload) error {
	s.lock.Lock()
	delay := s.Delays[sub.Endpoint]
	err := s.Errors[sub.Endpoint]
	s.lock.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, FakeSentRecord{Endpoint: sub.Endpoint, Payload: payload})
	return nil
}

func (s *FakeSender) SentTo() []subscription.Endpoint {
	s.lock.Lock()
	defer s.lock.Unlock()
	endpoints := make([]subscription.Endpoint, 0, len(s.Sent))
	for _, record := range s.Sent {
		endpoints = append(endpoints, record.Endpoint)
	}
	return endpoints
}
