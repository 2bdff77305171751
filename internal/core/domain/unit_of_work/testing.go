package uow

import (
	"context"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/subscription"
	"sync"
)

type FakeUnitOfWorkContext struct {
	ReminderRepository     *reminder.FakeRepository
	SubscriptionRepository *subscription.FakeRepository
	CommitError            error
	WasRollbackCalled      bool
	WasCommitCalled        bool
	CommitCount            int
	lock                   sync.Mutex
}

func NewFakeUnitOfWorkContext(
	reminderRepository *reminder.FakeRepository,
	subscriptionRepository *subscription.FakeRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		ReminderRepository:     reminderRepository,
		SubscriptionRepository: subscriptionRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.CommitError != nil {
		return c.CommitError
	}
	c.WasCommitCalled = true
	c.CommitCount++
	return nil
}

func (c *FakeUnitOfWorkContext) Reminders() reminder.Repository {
	return c.ReminderRepository
}

func (c *FakeUnitOfWorkContext) Subscriptions() subscription.Repository {
	return c.SubscriptionRepository
}

// FakeUnitOfWork shares its repositories with the code under test, changes
// are visible immediately and Rollback does not revert them.
type FakeUnitOfWork struct {
	Context    *FakeUnitOfWorkContext
	BeginError error
	BeginCount int
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return NewFakeUnitOfWorkWith(reminder.NewFakeRepository(), subscription.NewFakeRepository())
}

func NewFakeUnitOfWorkWith(
	reminders *reminder.FakeRepository,
	subscriptions *subscription.FakeRepository,
) *FakeUnitOfWork {
	return &FakeUnitOfWork{Context: NewFakeUnitOfWorkContext(reminders, subscriptions)}
}

func (u *FakeUnitOfWork) Reminders() *reminder.FakeRepository {
	return u.Context.ReminderRepository
}

func (u *FakeUnitOfWork) Subscriptions() *subscription.FakeRepository {
	return u.Context.SubscriptionRepository
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.BeginError != nil {
		return nil, u.BeginError
	}
	u.BeginCount++
	return u.Context, nil
}
