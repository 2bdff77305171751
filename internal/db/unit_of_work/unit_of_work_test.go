package uow

import (
	"context"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/db"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	REMINDER_ID_1 = reminder.ID("rem-100")
	REMINDER_ID_2 = reminder.ID("rem-200")
)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.uow = NewPgxUnitOfWork(suite.pool, logging.NewFakeLogger())
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	if !db.IsTestDatabaseConfigured() {
		t.Skip(db.TEST_POSTGRESQL_URL + " is not set.")
	}
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestReminderLockOneReminder() {
	s.createReminders()

	var wg sync.WaitGroup
	wg.Add(10)
	count := 0

	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			ctx := context.Background()
			uow, err := s.uow.Begin(ctx)
			if err != nil {
				s.Fail("could not begin unit of work")
				return
			}
			defer uow.Rollback(ctx)

			err = uow.Reminders().Lock(ctx, REMINDER_ID_1)
			c := count
			if err != nil {
				s.Fail("could not get lock by reminder ID, error is %v", err)
				return
			}

			_, err = uow.Reminders().GetByID(ctx, REMINDER_ID_1)
			if err != nil {
				s.Fail("could not get reminder by ID, error is %v", err)
				return
			}

			count = c + 1
		}()
	}

	wg.Wait()
	s.Equal(10, count)
}

func (s *testSuite) TestReminderLockTwoReminders() {
	s.createReminders()

	var wg sync.WaitGroup
	wg.Add(10)
	count_reminder_1 := 0
	count_reminder_2 := 0

	lockReminder := func(reminderID reminder.ID, count *int) {
		defer wg.Done()
		ctx := context.Background()
		uow, err := s.uow.Begin(ctx)
		if err != nil {
			s.Fail("could not begin unit of work")
			return
		}
		defer uow.Rollback(ctx)

		err = uow.Reminders().Lock(ctx, reminderID)
		c := *count
		if err != nil {
			s.Fail("could not get lock by reminder ID, error is %v", err)
			return
		}

		_, err = uow.Reminders().GetByID(ctx, reminderID)
		if err != nil {
			s.Fail("could not get reminder by ID, error is %v", err)
			return
		}

		*count = c + 1
	}

	for i := 0; i < 5; i++ {
		go func() {
			lockReminder(REMINDER_ID_1, &count_reminder_1)
			lockReminder(REMINDER_ID_2, &count_reminder_2)
		}()
	}

	wg.Wait()
	s.Equal(5, count_reminder_1)
	s.Equal(5, count_reminder_2)
}

func (s *testSuite) TestRollbackDiscardsChanges() {
	// Setup ---
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)

	// Exercise ---
	_, err = uow.Reminders().Create(ctx, reminder.CreateInput{
		ID:          "rem-rollback",
		Message:     "test",
		ScheduledAt: time.Now().UTC(),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	})
	s.Require().Nil(err)
	s.Require().Nil(uow.Rollback(ctx))

	// Verify ---
	check, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer check.Rollback(ctx)
	_, err = check.Reminders().GetByID(ctx, "rem-rollback")
	s.ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) createReminders() {
	s.T().Helper()

	_, err := s.uow.db.Exec(
		context.Background(),
		`
		INSERT INTO reminder (id, message, scheduled_at, created_at, updated_at)
		VALUES ('rem-100', 'first', now(), now(), now()), ('rem-200', 'second', now(), now(), now());
		`,
	)
	if err != nil {
		s.FailNowf("could not create reminders", "%v", err)
	}
}
