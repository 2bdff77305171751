package exclusive

import (
	"context"
	"errors"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type input struct{}

type result struct {
	Value int
}

type stubService struct {
	WasCalled bool
	Error     error
	// Inspect is called with the locker state while Run holds the lock.
	Inspect func()
}

func (s *stubService) Run(ctx context.Context, input input) (result, error) {
	s.WasCalled = true
	if s.Inspect != nil {
		s.Inspect()
	}
	return result{Value: 42}, s.Error
}

type testExclusiveSuite struct {
	suite.Suite
	Logger  *logging.FakeLogger
	Locker  *lock.FakeLocker
	Inner   *stubService
	Service services.Service[input, result]
}

func (suite *testExclusiveSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Locker = lock.NewFakeLocker()
	suite.Inner = &stubService{}
	suite.Service = WithExclusiveRun[input, result](
		suite.Logger,
		suite.Locker,
		"scheduler",
		time.Minute,
		time.Second,
		suite.Inner,
	)
}

func TestExclusiveService(t *testing.T) {
	suite.Run(t, new(testExclusiveSuite))
}

func (suite *testExclusiveSuite) TestInnerRunsUnderLock() {
	// Setup ---
	var releasedDuringRun []string
	suite.Inner.Inspect = func() {
		releasedDuringRun = append(releasedDuringRun, suite.Locker.Released...)
	}

	// Exercise ---
	res, err := suite.Service.Run(context.Background(), input{})

	// Verify ---
	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(42, res.Value)
	assert.True(suite.Inner.WasCalled)
	assert.Empty(releasedDuringRun)
	assert.Equal([]string{"scheduler"}, suite.Locker.Acquired)
	assert.Equal([]string{"scheduler"}, suite.Locker.Released)
}

func (suite *testExclusiveSuite) TestLockIsReleasedOnInnerError() {
	// Setup ---
	suite.Inner.Error = errors.New("boom")

	// Exercise ---
	_, err := suite.Service.Run(context.Background(), input{})

	// Verify ---
	assert := suite.Require()
	assert.ErrorIs(err, suite.Inner.Error)
	assert.Equal([]string{"scheduler"}, suite.Locker.Released)
}

func (suite *testExclusiveSuite) TestLockNotAcquired() {
	// Setup ---
	suite.Locker.Error = lock.ErrLockNotAcquired

	// Exercise ---
	_, err := suite.Service.Run(context.Background(), input{})

	// Verify ---
	assert := suite.Require()
	assert.ErrorIs(err, lock.ErrLockNotAcquired)
	assert.False(suite.Inner.WasCalled)
	assert.Contains(suite.Logger.Messages(logging.WARNING), "Lock is held by another run.")
}

func (suite *testExclusiveSuite) TestLockerFailure() {
	// Setup ---
	suite.Locker.Error = errors.New("redis is down")

	// Exercise ---
	_, err := suite.Service.Run(context.Background(), input{})

	// Verify ---
	assert := suite.Require()
	assert.ErrorIs(err, suite.Locker.Error)
	assert.False(suite.Inner.WasCalled)
	assert.Len(suite.Logger.Messages(logging.ERROR), 1)
}

func (suite *testExclusiveSuite) TestInvalidArguments() {
	suite.Panics(func() {
		WithExclusiveRun[input, result](nil, suite.Locker, "key", time.Minute, 0, suite.Inner)
	})
	suite.Panics(func() {
		WithExclusiveRun[input, result](suite.Logger, nil, "key", time.Minute, 0, suite.Inner)
	})
	suite.Panics(func() {
		WithExclusiveRun[input, result](suite.Logger, suite.Locker, "", time.Minute, 0, suite.Inner)
	})
	suite.Panics(func() {
		WithExclusiveRun[input, result](suite.Logger, suite.Locker, "key", 0, 0, suite.Inner)
	})
}
