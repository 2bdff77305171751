package uow

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/subscription"
	uow "sliderapp/internal/core/domain/unit_of_work"
	dbreminder "sliderapp/internal/db/reminder"
	dbsubscription "sliderapp/internal/db/subscription"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxUnitOfWorkContext struct {
	tx  pgx.Tx
	log logging.Logger
}

func newPgxUnitOfWorkContext(tx pgx.Tx, log logging.Logger) *pgxUnitOfWorkContext {
	return &pgxUnitOfWorkContext{
		tx:  tx,
		log: log,
	}
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Reminders() reminder.Repository {
	return dbreminder.NewPgxReminderRepository(c.tx, c.log)
}

func (c *pgxUnitOfWorkContext) Subscriptions() subscription.Repository {
	return dbsubscription.NewPgxSubscriptionRepository(c.tx, c.log)
}

type PgxUnitOfWork struct {
	db  *pgxpool.Pool
	log logging.Logger
}

func NewPgxUnitOfWork(db *pgxpool.Pool, log logging.Logger) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &PgxUnitOfWork{db: db, log: log}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newPgxUnitOfWorkContext(tx, u.log), nil
}
