package mongodb

import (
	"context"
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/subscription"
	uow "sliderapp/internal/core/domain/unit_of_work"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	REMINDERS_COLLECTION     = "reminders"
	SUBSCRIPTIONS_COLLECTION = "subscriptions"
)

type Storage struct {
	client        *mongo.Client
	reminders     *ReminderRepository
	subscriptions *SubscriptionRepository
}

func Connect(ctx context.Context, uri string, database string, log logging.Logger) (*Storage, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	storage := &Storage{
		client:        client,
		reminders:     NewReminderRepository(db.Collection(REMINDERS_COLLECTION), log),
		subscriptions: NewSubscriptionRepository(db.Collection(SUBSCRIPTIONS_COLLECTION), log),
	}
	if err := storage.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return storage, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.reminders.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "scheduled_at", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reminder index: %w", err)
	}
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Reminders() *ReminderRepository {
	return s.reminders
}

func (s *Storage) Subscriptions() *SubscriptionRepository {
	return s.subscriptions
}

type unitOfWorkContext struct {
	storage   *Storage
	reminders *claimingReminderRepository
	released  bool
}

// Commit and Rollback only release the claims, writes are applied as they
// happen.
func (c *unitOfWorkContext) Commit(ctx context.Context) error {
	c.release(ctx)
	return nil
}

func (c *unitOfWorkContext) Rollback(ctx context.Context) error {
	c.release(ctx)
	return nil
}

func (c *unitOfWorkContext) release(ctx context.Context) {
	if c.released {
		return
	}
	c.released = true
	if err := c.reminders.release(ctx, c.reminders.token); err != nil {
		c.storage.reminders.log.Warning(
			ctx,
			"Could not release reminder claims, they will expire.",
			logging.Entry("err", err),
		)
	}
}

func (c *unitOfWorkContext) Reminders() reminder.Repository {
	return c.reminders
}

func (c *unitOfWorkContext) Subscriptions() subscription.Repository {
	return c.storage.subscriptions
}

// UnitOfWork runs every write immediately. Reminder Lock claims the document
// for the unit of work until it ends, so concurrent passes never dispatch the
// same occurrence, and ReminderRepository.Update still checks the version.
type UnitOfWork struct {
	storage *Storage
}

func NewUnitOfWork(storage *Storage) *UnitOfWork {
	if storage == nil {
		panic(e.NewNilArgumentError("storage"))
	}
	return &UnitOfWork{storage: storage}
}

func (u *UnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	return &unitOfWorkContext{
		storage: u.storage,
		reminders: &claimingReminderRepository{
			ReminderRepository: u.storage.reminders,
			token:              uuid.NewString(),
		},
	}, nil
}
