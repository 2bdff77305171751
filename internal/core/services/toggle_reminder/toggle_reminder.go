package togglereminder

import (
	"context"
	"errors"
	c "sliderapp/internal/core/domain/common"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/report"
	uow "sliderapp/internal/core/domain/unit_of_work"
	"sliderapp/internal/core/services"
	runscheduler "sliderapp/internal/core/services/run_scheduler"
	"time"
)

type Input struct {
	ReminderID reminder.ID
	IsActive   bool
}

type Result struct {
	Reminder reminder.Reminder
	// Report is present when reactivation triggered a scheduler pass.
	Report c.Optional[report.RunReport]
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	reminders  reminder.Repository
	scheduler  services.Service[runscheduler.Input, runscheduler.Result]
	now        func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	reminders reminder.Repository,
	scheduler services.Service[runscheduler.Input, runscheduler.Result],
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
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		reminders:  reminders,
		scheduler:  scheduler,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	updated, err := s.toggle(ctx, input)
	if err != nil {
		return result, err
	}
	result.Reminder = updated

	s.log.Info(
		ctx,
		"Reminder has been toggled.",
		logging.Entry("reminderID", updated.ID),
		logging.Entry("isActive", updated.IsActive),
		logging.Entry("scheduledAt", updated.ScheduledAt),
	)
	if !input.IsActive {
		return result, nil
	}

	passed, err := s.scheduler.Run(ctx, runscheduler.Input{Trigger: report.TriggerReactivation})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			s.log.Info(ctx, "Scheduler is busy, reactivated reminder is left for the next pass.", logging.Entry("reminderID", updated.ID))
		} else {
			s.log.Warning(ctx, "Scheduler pass after reactivation failed.", logging.Entry("reminderID", updated.ID), logging.Entry("err", err))
		}
		return result, nil
	}
	result.Report = c.Some(passed.Report)

	reread, err := s.reminders.GetByID(ctx, updated.ID)
	switch {
	case err == nil:
		result.Reminder = reread
	case errors.Is(err, reminder.ErrReminderDoesNotExist):
		s.log.Info(ctx, "Reminder was deleted during scheduler pass.", logging.Entry("reminderID", updated.ID))
	default:
		s.log.Warning(ctx, "Could not re-read reminder after scheduler pass.", logging.Entry("reminderID", updated.ID), logging.Entry("err", err))
	}
	return result, nil
}

func (s *service) toggle(ctx context.Context, input Input) (updated reminder.Reminder, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return updated, err
	}
	defer uow.Rollback(ctx)

	if err := uow.Reminders().Lock(ctx, input.ReminderID); err != nil {
		return updated, s.handleError(ctx, input, err)
	}
	rem, err := uow.Reminders().GetByID(ctx, input.ReminderID)
	if err != nil {
		return updated, s.handleError(ctx, input, err)
	}

	now := s.now()
	update := rem.Deactivated(now)
	if input.IsActive {
		update = rem.Reactivated(now)
	}
	updated, err = uow.Reminders().Update(ctx, update)
	if err != nil {
		return updated, s.handleError(ctx, input, err)
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return updated, err
	}
	return updated, nil
}

func (s *service) handleError(ctx context.Context, input Input, err error) error {
	switch {
	case errors.Is(err, reminder.ErrReminderDoesNotExist):
		s.log.Info(ctx, "Reminder not found.", logging.Entry("input", input))
	case errors.Is(err, reminder.ErrReminderVersionConflict):
		s.log.Info(ctx, "Reminder was modified concurrently.", logging.Entry("input", input))
	case errors.Is(err, reminder.ErrReminderLocked):
		s.log.Info(ctx, "Reminder is held by a concurrent operation.", logging.Entry("input", input))
	default:
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
	}
	return err
}
