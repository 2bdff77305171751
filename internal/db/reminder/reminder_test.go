package reminder

import (
	"context"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/db"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var Now = time.Now().UTC().Truncate(time.Second)

type testSuite struct {
	suite.Suite
	pool   *pgxpool.Pool
	logger *logging.FakeLogger
	repo   *PgxReminderRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.repo = NewPgxReminderRepository(suite.pool, suite.logger)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxReminderRepository(t *testing.T) {
	if !db.IsTestDatabaseConfigured() {
		t.Skip(db.TEST_POSTGRESQL_URL + " is not set.")
	}
	suite.Run(t, new(testSuite))
}

func (s *testSuite) create(id reminder.ID, scheduledAt time.Time, isActive bool) reminder.Reminder {
	s.T().Helper()
	rem, err := s.repo.Create(context.Background(), reminder.CreateInput{
		ID:             id,
		Message:        "message " + string(id),
		ScheduledAt:    scheduledAt,
		IsActive:       isActive,
		RepeatInterval: 15,
		CreatedAt:      Now,
	})
	s.Require().Nil(err)
	return rem
}

func (s *testSuite) TestCreateAndGet() {
	// Exercise ---
	created := s.create("rem-1", Now.Add(time.Hour), true)
	got, err := s.repo.GetByID(context.Background(), "rem-1")

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(created, got)
	assert.Equal(int64(1), got.Version)
	assert.Equal(time.UTC, got.ScheduledAt.Location())
	assert.Equal(reminder.Interval(15), got.RepeatInterval)
	assert.Equal(Now, got.UpdatedAt)
}

func (s *testSuite) TestCreateRejectsIntervalOutOfRange() {
	// Exercise ---
	_, err := s.repo.Create(context.Background(), reminder.CreateInput{
		ID:             "1",
		Message:        "Stretch",
		ScheduledAt:    Now,
		IsActive:       true,
		RepeatInterval: 1 << 32,
		CreatedAt:      Now,
	})

	// Verify ---
	s.ErrorIs(err, reminder.ErrReminderIntervalInvalid)
	_, err = s.repo.GetByID(context.Background(), "1")
	s.ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestGetMissing() {
	_, err := s.repo.GetByID(context.Background(), "missing")
	s.ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestReadOrder() {
	// Setup ---
	s.create("late", Now.Add(2*time.Hour), true)
	s.create("early", Now.Add(time.Hour), true)
	s.create("inactive", Now, false)
	s.create("tie", Now, true)

	// Exercise ---
	reminders, err := s.repo.Read(context.Background(), reminder.ReadOptions{})
	_, unknownErr := s.repo.Read(context.Background(), reminder.ReadOptions{OrderBy: reminder.OrderBy(42)})

	// Verify ---
	s.Require().Nil(err)
	ids := make([]reminder.ID, 0, len(reminders))
	for _, rem := range reminders {
		ids = append(ids, rem.ID)
	}
	s.Equal([]reminder.ID{"inactive", "tie", "early", "late"}, ids)
	s.Error(unknownErr)
}

func (s *testSuite) TestReadSkipsMalformedRecords() {
	// Setup ---
	s.create("good", Now, true)
	_, err := s.pool.Exec(
		context.Background(),
		`INSERT INTO reminder (id, message, scheduled_at, created_at, updated_at)
		VALUES ('bad', '', $1, $1, $1)`,
		Now,
	)
	s.Require().Nil(err)

	// Exercise ---
	reminders, err := s.repo.Read(context.Background(), reminder.ReadOptions{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Len(reminders, 1)
	assert.Equal(reminder.ID("good"), reminders[0].ID)
	assert.Len(s.logger.Messages(logging.WARNING), 1)

	_, err = s.repo.GetByID(context.Background(), "bad")
	assert.ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestUpdate() {
	// Setup ---
	rem := s.create("rem-1", Now, true)
	update := rem.Fired(Now.Add(time.Minute))

	// Exercise ---
	updated, err := s.repo.Update(context.Background(), update)

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(update.Apply(rem), updated)
	assert.Equal(int64(2), updated.Version)
	assert.Equal(Now.Add(15*time.Minute), updated.ScheduledAt)
}

func (s *testSuite) TestUpdateVersionConflict() {
	// Setup ---
	rem := s.create("rem-1", Now, true)
	_, err := s.repo.Update(context.Background(), rem.Deactivated(Now))
	s.Require().Nil(err)

	// Exercise ---
	_, err = s.repo.Update(context.Background(), rem.Fired(Now))

	// Verify ---
	s.ErrorIs(err, reminder.ErrReminderVersionConflict)
	stored, getErr := s.repo.GetByID(context.Background(), "rem-1")
	s.Require().Nil(getErr)
	s.False(stored.IsActive)
	s.Equal(int64(2), stored.Version)
}

func (s *testSuite) TestUpdateMissing() {
	_, err := s.repo.Update(context.Background(), reminder.UpdateInput{ID: "missing", ExpectedVersion: 1, UpdatedAt: Now})
	s.ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestDelete() {
	// Setup ---
	s.create("rem-1", Now, true)

	// Exercise ---
	err := s.repo.Delete(context.Background(), "rem-1")
	secondErr := s.repo.Delete(context.Background(), "rem-1")

	// Verify ---
	s.Nil(err)
	s.ErrorIs(secondErr, reminder.ErrReminderDoesNotExist)
}
