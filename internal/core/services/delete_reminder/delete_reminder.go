package deletereminder

import (
	"context"
	"errors"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	uow "sliderapp/internal/core/domain/unit_of_work"
	"sliderapp/internal/core/services"
)

type Input struct {
	ReminderID reminder.ID
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	reminderRepository := uow.Reminders()
	if err := reminderRepository.Lock(ctx, input.ReminderID); err != nil {
		return result, s.handleError(ctx, input, err)
	}
	rem, err := reminderRepository.GetByID(ctx, input.ReminderID)
	if err != nil {
		return result, s.handleError(ctx, input, err)
	}

	if err := reminderRepository.Delete(ctx, rem.ID); err != nil {
		return result, s.handleError(ctx, input, err)
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminder has been successfully deleted.",
		logging.Entry("reminderID", rem.ID),
	)
	result.Reminder = rem
	return result, nil
}

func (s *service) handleError(ctx context.Context, input Input, err error) error {
	switch {
	case errors.Is(err, reminder.ErrReminderDoesNotExist):
		s.log.Info(ctx, "Reminder not found.", logging.Entry("input", input))
	case errors.Is(err, reminder.ErrReminderLocked):
		s.log.Info(ctx, "Reminder is held by a concurrent operation.", logging.Entry("input", input))
	default:
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
	}
	return err
}
