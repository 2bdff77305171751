package runscheduler

import (
	"context"
	"errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/core/domain/subscription"
	uow "sliderapp/internal/core/domain/unit_of_work"
	"sliderapp/internal/core/services"
	dispatch "sliderapp/internal/core/services/dispatch_notification"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var Now = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func newReminder(id string, scheduledAt time.Time, interval reminder.Interval) reminder.Reminder {
	return reminder.Reminder{
		ID:             reminder.ID(id),
		Message:        "Message " + id,
		ScheduledAt:    scheduledAt,
		IsActive:       true,
		RepeatInterval: interval,
		CreatedAt:      Now.Add(-24 * time.Hour),
		UpdatedAt:      Now.Add(-24 * time.Hour),
		Version:        1,
	}
}


type testSuite struct {
	suite.Suite
	unitOfWork *uow.FakeUnitOfWork
	sender     *notification.FakeSender
	reporter   *report.FakeReporter
	logger     *logging.FakeLogger
}

func (s *testSuite) SetupTest() {
	s.unitOfWork = uow.NewFakeUnitOfWork()
	s.sender = notification.NewFakeSender()
	s.reporter = report.NewFakeReporter()
	s.logger = logging.NewFakeLogger()
}

func (s *testSuite) givenReminders(reminders ...reminder.Reminder) {
	for _, r := range reminders {
		s.unitOfWork.Reminders().Put(r)
	}
}

func (s *testSuite) givenSubscriptions(endpoints ...string) {
	for _, endpoint := range endpoints {
		_, err := s.unitOfWork.Subscriptions().Upsert(
			context.Background(),
			subscription.UpsertInput{
				Endpoint: subscription.Endpoint(endpoint),
				Settings: subscription.NewWebPushSettings("key", "auth"),
				Now:      Now,
			},
		)
		s.Require().Nil(err)
	}
}

func (s *testSuite) newService() services.Service[Input, Result] {
	return New(
		s.logger,
		s.unitOfWork,
		s.unitOfWork.Reminders(),
		s.unitOfWork.Subscriptions(),
		dispatch.New(s.logger, s.sender, s.unitOfWork.Subscriptions(), 4, time.Second),
		s.reporter,
		func() time.Time { return Now },
	)
}

func (s *testSuite) stored(id string) reminder.Reminder {
	r, ok := s.unitOfWork.Reminders().Get(reminder.ID(id))
	s.Require().True(ok)
	return r
}

func TestRunSchedulerService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestOneShotDeliveredToAllSubscriptions() {
	// Setup ---
	s.givenReminders(newReminder("a", Now.Add(-5*time.Minute), reminder.OneShot))
	s.givenSubscriptions("https://push/1", "https://push/2")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{Trigger: report.TriggerTick})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	stored := s.stored("a")
	assert.True(stored.Sent)
	assert.True(stored.IsActive)
	assert.Equal(Now.Add(-5*time.Minute), stored.ScheduledAt)
	assert.Equal(Now, stored.UpdatedAt)
	assert.Equal(int64(2), stored.Version)

	rep := result.Report
	assert.Equal(report.TriggerTick, rep.Trigger)
	assert.Equal(1, rep.Processed)
	assert.Equal(1, rep.Fired)
	assert.Equal(2, rep.Delivered)
	assert.Equal(2, rep.DeliveryAttempts)
	assert.Empty(rep.Pruned)
	assert.Equal(0, rep.Failed)
	assert.ElementsMatch([]subscription.Endpoint{"https://push/1", "https://push/2"}, s.sender.SentTo())
	assert.Equal(notification.ForReminder(newReminder("a", Now, 0)).Body, s.sender.Sent[0].Payload.Body)
	assert.True(s.unitOfWork.Context.WasCommitCalled)
}

func (s *testSuite) TestRecurringSkipsMissedWindows() {
	// Setup ---
	s.givenReminders(newReminder("b", Now.Add(-185*time.Minute), 60))

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	stored := s.stored("b")
	assert.False(stored.Sent)
	assert.Equal(Now.Add(55*time.Minute), stored.ScheduledAt)
	assert.Equal(1, result.Report.Fired)
	assert.Equal(report.TriggerTick, result.Report.Trigger)
	assert.Equal(
		[]report.Decision{{
			ReminderID: "b",
			Message:    "Message b",
			Status:     report.StatusDue,
			Detail:     "delivered to 0 of 0 subscriptions, next at " + Now.Add(55*time.Minute).Format(time.RFC3339),
		}},
		result.Report.Decisions,
	)
}

func (s *testSuite) TestTerminalFailurePrunesSubscription() {
	// Setup ---
	s.givenReminders(newReminder("c", Now.Add(-time.Minute), reminder.OneShot))
	s.givenSubscriptions("https://push/dead", "https://push/alive")
	s.sender.Errors["https://push/dead"] = notification.NewEndpointGoneError("410 Gone")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(s.stored("c").Sent)
	assert.Equal(1, result.Report.Delivered)
	assert.Equal([]subscription.Endpoint{"https://push/dead"}, result.Report.Pruned)

	left, err := s.unitOfWork.Subscriptions().List(context.Background())
	assert.Nil(err)
	assert.Equal([]subscription.Endpoint{"https://push/alive"}, subscription.Endpoints(left))
}

func (s *testSuite) TestPrunedSubscriptionIsNotRetriedWithinPass() {
	// Setup ---
	s.givenReminders(
		newReminder("first", Now.Add(-2*time.Minute), reminder.OneShot),
		newReminder("second", Now.Add(-time.Minute), reminder.OneShot),
	)
	s.givenSubscriptions("https://push/dead", "https://push/alive")
	s.sender.Errors["https://push/dead"] = notification.ErrEndpointGone

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(2, result.Report.Fired)
	assert.Equal(3, result.Report.DeliveryAttempts)
	assert.Equal(2, result.Report.Delivered)
	assert.Equal([]subscription.Endpoint{"https://push/dead"}, result.Report.Pruned)
	assert.Equal([]subscription.Endpoint{"https://push/dead"}, s.unitOfWork.Subscriptions().DeleteWith)
}

func (s *testSuite) TestSkippedRemindersAreNotWritten() {
	// Setup ---
	inactive := newReminder("inactive", Now.AddDate(-1, 0, 0), reminder.OneShot)
	inactive.IsActive = false
	sent := newReminder("sent", Now.Add(-time.Hour), reminder.OneShot)
	sent.Sent = true
	pending := newReminder("pending", Now.Add(time.Hour), 30)
	s.givenReminders(inactive, sent, pending)
	s.givenSubscriptions("https://push/1")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	for _, id := range []reminder.ID{"inactive", "sent", "pending"} {
		assert.Equal(0, s.unitOfWork.Reminders().Writes(id))
	}
	assert.Equal(inactive, s.stored("inactive"))
	assert.Equal(0, s.unitOfWork.BeginCount)
	assert.Empty(s.unitOfWork.Reminders().UpdateWith)
	assert.Empty(s.sender.Sent)
	assert.Equal(3, result.Report.Processed)
	assert.Equal(0, result.Report.Fired)

	statuses := make(map[reminder.ID]report.Status)
	for _, decision := range result.Report.Decisions {
		statuses[decision.ReminderID] = decision.Status
	}
	assert.Equal(
		map[reminder.ID]report.Status{
			"inactive": report.StatusInactive,
			"sent":     report.StatusAlreadySent,
			"pending":  report.StatusPending,
		},
		statuses,
	)
}

func (s *testSuite) TestZeroSubscriptionsStillTransitions() {
	// Setup ---
	s.givenReminders(
		newReminder("once", Now.Add(-time.Minute), reminder.OneShot),
		newReminder("repeat", Now, 15),
	)

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(s.stored("once").Sent)
	assert.False(s.stored("repeat").Sent)
	assert.Equal(Now.Add(15*time.Minute), s.stored("repeat").ScheduledAt)
	assert.Equal(2, result.Report.Fired)
	assert.Equal(0, result.Report.DeliveryAttempts)
}

func (s *testSuite) TestAllDeliveriesFailedStillMarksSent() {
	// Setup ---
	s.givenReminders(newReminder("a", Now.Add(-time.Minute), reminder.OneShot))
	s.givenSubscriptions("https://push/1")
	s.sender.Errors["https://push/1"] = errors.New("service unavailable")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	s.Nil(err)
	s.True(s.stored("a").Sent)
	s.Equal(0, result.Report.Delivered)
	s.Equal(1, result.Report.DeliveryAttempts)
	s.Len(s.unitOfWork.Subscriptions().DeleteWith, 0)
}

func (s *testSuite) TestPersistenceErrorSkipsOnlyAffectedReminder() {
	// Setup ---
	s.givenReminders(
		newReminder("broken", Now.Add(-2*time.Minute), reminder.OneShot),
		newReminder("fine", Now.Add(-time.Minute), reminder.OneShot),
	)
	s.unitOfWork.Reminders().UpdateErrors["broken"] = errors.New("connection refused")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.False(s.stored("broken").Sent)
	assert.True(s.stored("fine").Sent)
	assert.Equal(2, result.Report.Processed)
	assert.Equal(1, result.Report.Fired)
	assert.Equal(1, result.Report.Failed)
	assert.Equal([]string{"reminder broken: connection refused"}, result.Report.Errors)
	assert.Equal(report.StatusFailed, result.Report.Decisions[0].Status)
	assert.Equal(report.StatusDue, result.Report.Decisions[1].Status)
}

func (s *testSuite) TestLockErrorIsReported() {
	// Setup ---
	s.givenReminders(newReminder("a", Now.Add(-time.Minute), reminder.OneShot))
	s.givenSubscriptions("https://push/1")
	s.unitOfWork.Reminders().LockError = errors.New("lock timeout")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	s.Nil(err)
	s.Equal(1, result.Report.Failed)
	s.Empty(s.sender.Sent)
	s.False(s.unitOfWork.Context.WasCommitCalled)
	s.True(s.unitOfWork.Context.WasRollbackCalled)
}

func (s *testSuite) TestReminderHeldByConcurrentPassIsSkipped() {
	// Setup ---
	s.givenReminders(
		newReminder("a", Now.Add(-time.Minute), reminder.OneShot),
		newReminder("b", Now.Add(-2*time.Minute), reminder.OneShot),
	)
	s.givenSubscriptions("https://push/1")
	s.unitOfWork.Reminders().LockErrors["b"] = reminder.ErrReminderLocked

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Len(s.sender.Sent, 1)
	assert.Equal(0, s.unitOfWork.Reminders().Writes("b"))
	assert.False(s.stored("b").Sent)
	assert.True(s.stored("a").Sent)
	assert.Equal(1, result.Report.Fired)
	assert.Equal(0, result.Report.Failed)
	assert.Equal(
		report.Decision{
			ReminderID: "b",
			Message:    "Message b",
			Status:     report.StatusDue,
			Detail:     "held by a concurrent pass",
		},
		result.Report.Decisions[0],
	)
}

func (s *testSuite) TestConcurrentlyProcessedReminderIsNotDeliveredTwice() {
	// Setup ---
	due := newReminder("a", Now.Add(-time.Minute), reminder.OneShot)
	s.givenReminders(due)
	s.givenSubscriptions("https://push/1")
	s.unitOfWork.Reminders().OnLock = func(id reminder.ID) {
		processed := due
		processed.Sent = true
		processed.Version = 2
		s.unitOfWork.Reminders().Put(processed)
	}

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Empty(s.sender.Sent)
	assert.Equal(0, s.unitOfWork.Reminders().Writes("a"))
	assert.Equal(0, result.Report.Fired)
	assert.Equal(
		[]report.Decision{{
			ReminderID: "a",
			Message:    "Message a",
			Status:     report.StatusAlreadySent,
			Detail:     "changed by a concurrent pass",
		}},
		result.Report.Decisions,
	)
}

func (s *testSuite) TestVersionConflictIsReported() {
	// Setup ---
	s.givenReminders(newReminder("a", Now.Add(-time.Minute), reminder.OneShot))
	s.unitOfWork.Reminders().UpdateErrors["a"] = reminder.ErrReminderVersionConflict

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	s.Nil(err)
	s.Equal(1, result.Report.Failed)
	s.Contains(result.Report.Errors[0], reminder.ErrReminderVersionConflict.Error())
}

func (s *testSuite) TestReadErrorFailsPass() {
	// Setup ---
	s.unitOfWork.Reminders().ReadError = errors.New("store unreachable")

	// Exercise ---
	_, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	s.ErrorIs(err, s.unitOfWork.Reminders().ReadError)
	s.Empty(s.reporter.Reported)
}

func (s *testSuite) TestSubscriptionListErrorFailsPass() {
	// Setup ---
	s.givenReminders(newReminder("a", Now.Add(-time.Minute), reminder.OneShot))
	s.unitOfWork.Subscriptions().ListError = errors.New("store unreachable")

	// Exercise ---
	_, err := s.newService().Run(context.Background(), Input{})

	// Verify ---
	s.ErrorIs(err, s.unitOfWork.Subscriptions().ListError)
	s.False(s.stored("a").Sent)
}

func (s *testSuite) TestReportIsDelivered() {
	// Setup ---
	s.givenReminders(newReminder("a", Now.Add(-time.Minute), reminder.OneShot))
	s.reporter.Error = errors.New("broker is down")

	// Exercise ---
	result, err := s.newService().Run(context.Background(), Input{Trigger: report.TriggerManual})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Len(s.reporter.Reported, 1)
	assert.Equal(result.Report, s.reporter.Reported[0])
	assert.Equal(report.TriggerManual, s.reporter.Reported[0].Trigger)
	assert.Equal(Now, result.Report.StartedAt)
	assert.Equal(Now, result.Report.FinishedAt)
	assert.Contains(s.logger.Messages(logging.WARNING), "Could not report scheduler pass.")
}

func (s *testSuite) TestSecondPassIsNoop() {
	// Setup ---
	s.givenReminders(
		newReminder("once", Now.Add(-time.Minute), reminder.OneShot),
		newReminder("repeat", Now.Add(-time.Minute), 60),
	)
	s.givenSubscriptions("https://push/1")
	service := s.newService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{})
	s.Require().Nil(err)
	second, err := service.Run(context.Background(), Input{})

	// Verify ---
	s.Nil(err)
	s.Equal(0, second.Report.Fired)
	s.Len(s.sender.Sent, 2)
	s.Equal(1, s.unitOfWork.Reminders().Writes("once"))
	s.Equal(1, s.unitOfWork.Reminders().Writes("repeat"))
}
