package subscription

import (
	"context"
	"sort"
	"sync"
)

type FakeRepository struct {
	UpsertError  error
	GetError     error
	ListError    error
	DeleteError  error
	DeleteErrors map[Endpoint]error

	UpsertWith []UpsertInput
	DeleteWith []Endpoint

	subscriptions map[Endpoint]Subscription
	lock          sync.Mutex
}

func NewFakeRepository(subscriptions ...Subscription) *FakeRepository {
	r := &FakeRepository{
		DeleteErrors:  make(map[Endpoint]error),
		subscriptions: make(map[Endpoint]Subscription),
	}
	for _, s := range subscriptions {
		r.subscriptions[s.Endpoint] = s
	}
	return r
}

func (r *FakeRepository) Upsert(ctx context.Context, input UpsertInput) (s Subscription, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.UpsertWith = append(r.UpsertWith, input)
	if r.UpsertError != nil {
		return s, r.UpsertError
	}
	s, ok := r.subscriptions[input.Endpoint]
	if !ok {
		s = Subscription{Endpoint: input.Endpoint, CreatedAt: input.Now}
	}
	s.Settings = input.Settings
	s.UpdatedAt = input.Now
	r.subscriptions[s.Endpoint] = s
	return s, nil
}

func (r *FakeRepository) GetByEndpoint(ctx context.Context, endpoint Endpoint) (s Subscription, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.GetError != nil {
		return s, r.GetError
	}
	s, ok := r.subscriptions[endpoint]
	if !ok {
		return s, ErrSubscriptionDoesNotExist
	}
	return s, nil
}

func (r *FakeRepository) List(ctx context.Context) ([]Subscription, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.ListError != nil {
		return nil, r.ListError
	}
	subscriptions := make([]Subscription, 0, len(r.subscriptions))
	for _, s := range r.subscriptions {
		subscriptions = append(subscriptions, s)
	}
	sort.Slice(subscriptions, func(i, j int) bool {
		return subscriptions[i].Endpoint < subscriptions[j].Endpoint
	})
	return subscriptions, nil
}

func (r *FakeRepository) Delete(ctx context.Context, endpoint Endpoint) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.DeleteWith = append(r.DeleteWith, endpoint)
	if r.DeleteError != nil {
		return r.DeleteError
	}
	if err := r.DeleteErrors[endpoint]; err != nil {
		return err
	}
	if _, ok := r.subscriptions[endpoint]; !ok {
		return ErrSubscriptionDoesNotExist
	}
	delete(r.subscriptions, endpoint)
	return nil
}
