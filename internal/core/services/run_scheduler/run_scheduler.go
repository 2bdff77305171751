package runscheduler

import (
	"context"
	"errors"
	"fmt"
	c "sliderapp/internal/core/domain/common"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/core/domain/subscription"
	uow "sliderapp/internal/core/domain/unit_of_work"
	"sliderapp/internal/core/services"
	dispatch "sliderapp/internal/core/services/dispatch_notification"
	"time"

	"github.com/golang-module/carbon/v2"
)

type Input struct {
	Trigger report.Trigger
}

type Result struct {
	Report report.RunReport
}

type service struct {
	log           logging.Logger
	unitOfWork    uow.UnitOfWork
	reminders     reminder.Repository
	subscriptions subscription.Repository
	dispatcher    services.Service[dispatch.Input, dispatch.Result]
	reporter      report.Reporter
	now           func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	reminders reminder.Repository,
	subscriptions subscription.Repository,
	dispatcher services.Service[dispatch.Input, dispatch.Result],
	reporter report.Reporter,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if reminders == nil {
		panic(e.NewNilArgumentError("reminders"))
	}
	if subscriptions == nil {
		panic(e.NewNilArgumentError("subscriptions"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	if reporter == nil {
		panic(e.NewNilArgumentError("reporter"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		unitOfWork:    unitOfWork,
		reminders:     reminders,
		subscriptions: subscriptions,
		dispatcher:    dispatcher,
		reporter:      reporter,
		now:           now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	trigger := input.Trigger
	if trigger == "" {
		trigger = report.TriggerTick
	}
	now := s.now()
	rep := report.New(trigger, now)

	reminders, err := s.reminders.Read(ctx, reminder.ReadOptions{OrderBy: reminder.OrderByScheduledAtAsc})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	subscriptions, err := s.subscriptions.List(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	rep.SubscriptionsTotal = len(subscriptions)

	s.log.Debug(
		ctx,
		"Got reminders for evaluation.",
		logging.Entry("trigger", trigger),
		logging.Entry("reminders", len(reminders)),
		logging.Entry("subscriptions", len(subscriptions)),
	)

	for _, rem := range reminders {
		rep.Processed++
		verdict := reminder.Evaluate(rem, now)
		if !verdict.ShouldFire() {
			rep.Decide(skipped(rem, verdict, now))
			continue
		}

		fired, err := s.fire(ctx, rem.ID, subscriptions, now)
		if fired.dispatched.IsPresent {
			dispatched := fired.dispatched.Value
			rep.Delivered += dispatched.Delivered
			rep.DeliveryAttempts += dispatched.Total
			rep.Pruned = append(rep.Pruned, dispatched.Pruned...)
			subscriptions = withoutPruned(subscriptions, dispatched.Pruned)
		}
		if errors.Is(err, reminder.ErrReminderLocked) {
			s.log.Info(ctx, "Reminder is held by a concurrent pass.", logging.Entry("reminderID", rem.ID))
			decision := skipped(rem, verdict, now)
			decision.Detail = "held by a concurrent pass"
			rep.Decide(decision)
			continue
		}
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
			rep.Fail(rem.ID, rem.Message, err)
			continue
		}
		if !fired.verdict.ShouldFire() {
			decision := skipped(fired.reminder, fired.verdict, now)
			decision.Detail = "changed by a concurrent pass"
			rep.Decide(decision)
			continue
		}

		rep.Fired++
		rep.Decide(report.Decision{
			ReminderID: rem.ID,
			Message:    rem.Message,
			Status:     report.StatusDue,
			Detail:     firedDetail(fired.reminder, fired.dispatched.Value),
		})
	}

	rep.FinishedAt = s.now()
	if err := s.reporter.Report(ctx, rep); err != nil {
		s.log.Warning(ctx, "Could not report scheduler pass.", logging.Entry("err", err))
	}

	s.log.Info(
		ctx,
		"Scheduler pass finished.",
		logging.Entry("trigger", trigger),
		logging.Entry("summary", rep.Summary()),
		logging.Entry("failed", rep.Failed),
	)
	return Result{Report: rep}, nil
}

type fireResult struct {
	reminder   reminder.Reminder
	verdict    reminder.Verdict
	dispatched c.Optional[dispatch.Result]
}

// fire re-reads the reminder under lock, so a reminder handled by a
// concurrent pass in the meantime is not delivered twice.
func (s *service) fire(
	ctx context.Context,
	id reminder.ID,
	subscriptions []subscription.Subscription,
	now time.Time,
) (result fireResult, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer uow.Rollback(ctx)

	if err := uow.Reminders().Lock(ctx, id); err != nil {
		return result, err
	}
	rem, err := uow.Reminders().GetByID(ctx, id)
	if err != nil {
		return result, err
	}
	result.reminder = rem
	result.verdict = reminder.Evaluate(rem, now)
	if !result.verdict.ShouldFire() {
		return result, nil
	}

	dispatched, err := s.dispatcher.Run(
		ctx,
		dispatch.Input{Payload: notification.ForReminder(rem), Subscriptions: subscriptions},
	)
	if err != nil {
		return result, err
	}
	result.dispatched = c.NewOptional(dispatched, true)

	updated, err := uow.Reminders().Update(ctx, rem.Fired(now))
	if err != nil {
		return result, err
	}
	if err := uow.Commit(ctx); err != nil {
		return result, err
	}
	result.reminder = updated
	return result, nil
}

func skipped(rem reminder.Reminder, verdict reminder.Verdict, now time.Time) report.Decision {
	decision := report.Decision{
		ReminderID: rem.ID,
		Message:    rem.Message,
		Status:     report.Status(verdict.Reason),
	}
	if verdict.Reason == reminder.ReasonPending {
		decision.Detail = carbon.Time2Carbon(rem.ScheduledAt).DiffForHumans(carbon.Time2Carbon(now))
	}
	return decision
}

func firedDetail(rem reminder.Reminder, dispatched dispatch.Result) string {
	detail := fmt.Sprintf("delivered to %d of %d subscriptions", dispatched.Delivered, dispatched.Total)
	if rem.RepeatInterval.IsRecurring() {
		return fmt.Sprintf("%s, next at %s", detail, rem.ScheduledAt.Format(time.RFC3339))
	}
	return detail + ", marked as sent"
}

func withoutPruned(
	subscriptions []subscription.Subscription,
	pruned []subscription.Endpoint,
) []subscription.Subscription {
	if len(pruned) == 0 {
		return subscriptions
	}
	gone := make(map[subscription.Endpoint]struct{}, len(pruned))
	for _, endpoint := range pruned {
		gone[endpoint] = struct{}{}
	}
	left := make([]subscription.Subscription, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if _, ok := gone[sub.Endpoint]; !ok {
			left = append(left, sub)
		}
	}
	return left
}
