package uow

import (
	"context"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/subscription"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Reminders() reminder.Repository
	Subscriptions() subscription.Repository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
