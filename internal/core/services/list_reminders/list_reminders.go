package listreminders

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/services"
)

type Input struct{}

type Result struct {
	Reminders []reminder.Reminder
}

type service struct {
	log       logging.Logger
	reminders reminder.Repository
}

func New(log logging.Logger, reminders reminder.Repository) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminders == nil {
		panic(e.NewNilArgumentError("reminders"))
	}
	return &service{log: log, reminders: reminders}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	reminders, err := s.reminders.Read(ctx, reminder.ReadOptions{OrderBy: reminder.OrderByScheduledAtAsc})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	result.Reminders = reminders
	return result, nil
}
