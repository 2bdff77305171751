package subscription

import (
	"context"
	"time"
)

type UpsertInput struct {
	Endpoint Endpoint
	Settings Settings
	Now      time.Time
}

type Repository interface {
	// Upsert creates the subscription or replaces settings of the existing
	// one with the same endpoint, CreatedAt of an existing one is kept.
	Upsert(ctx context.Context, input UpsertInput) (Subscription, error)
	GetByEndpoint(ctx context.Context, endpoint Endpoint) (Subscription, error)
	List(ctx context.Context) ([]Subscription, error)
	Delete(ctx context.Context, endpoint Endpoint) error
}
