package createreminder

import (
	"context"
	"strings"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	uow "sliderapp/internal/core/domain/unit_of_work"
	"sliderapp/internal/core/services"
	"time"
)

type Input struct {
	Message        string
	ScheduledAt    time.Time
	RepeatInterval reminder.Interval
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log         logging.Logger
	unitOfWork  uow.UnitOfWork
	idGenerator reminder.IDGenerator
	now         func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	idGenerator reminder.IDGenerator,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if idGenerator == nil {
		panic(e.NewNilArgumentError("idGenerator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:         log,
		unitOfWork:  unitOfWork,
		idGenerator: idGenerator,
		now:         now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	now := s.now()
	draft := reminder.Reminder{
		ID:             s.idGenerator.NewReminderID(),
		Message:        strings.TrimSpace(input.Message),
		ScheduledAt:    input.ScheduledAt,
		IsActive:       true,
		RepeatInterval: input.RepeatInterval,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := draft.Validate(); err != nil {
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	created, err := uow.Reminders().Create(ctx, reminder.CreateInput{
		ID:             draft.ID,
		Message:        draft.Message,
		ScheduledAt:    draft.ScheduledAt,
		IsActive:       draft.IsActive,
		Sent:           draft.Sent,
		RepeatInterval: draft.RepeatInterval,
		CreatedAt:      draft.CreatedAt,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input), logging.Entry("reminderID", created.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminder successfully created.",
		logging.Entry("reminderID", created.ID),
		logging.Entry("scheduledAt", created.ScheduledAt),
		logging.Entry("repeatInterval", created.RepeatInterval),
	)
	result.Reminder = created
	return result, nil
}
