package sendtestnotification

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
	dispatch "sliderapp/internal/core/services/dispatch_notification"
)

type Input struct {
	ClientKey string
}

func (i Input) GetRateLimitKey() string {
	return "test-notification::" + i.ClientKey
}

type Result struct {
	Sent   int
	Failed int
	Pruned []subscription.Endpoint
}

type service struct {
	log           logging.Logger
	subscriptions subscription.Repository
	dispatcher    services.Service[dispatch.Input, dispatch.Result]
}

func New(
	log logging.Logger,
	subscriptions subscription.Repository,
	dispatcher services.Service[dispatch.Input, dispatch.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if subscriptions == nil {
		panic(e.NewNilArgumentError("subscriptions"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	return &service{
		log:           log,
		subscriptions: subscriptions,
		dispatcher:    dispatcher,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	subscriptions, err := s.subscriptions.List(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	if len(subscriptions) == 0 {
		return result, subscription.ErrNoSubscriptions
	}

	dispatched, err := s.dispatcher.Run(ctx, dispatch.Input{
		Payload:       notification.Test(),
		Subscriptions: subscriptions,
	})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	s.log.Info(
		ctx,
		"Test notification sent.",
		logging.Entry("delivered", dispatched.Delivered),
		logging.Entry("total", dispatched.Total),
	)
	return Result{
		Sent:   dispatched.Delivered,
		Failed: dispatched.Total - dispatched.Delivered,
		Pruned: dispatched.Pruned,
	}, nil
}
