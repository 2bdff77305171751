package unsubscribe

import (
	"context"
	"errors"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
)

type Input struct {
	Endpoint subscription.Endpoint
}

type Result struct{}

type service struct {
	log           logging.Logger
	subscriptions subscription.Repository
}

func New(log logging.Logger, subscriptions subscription.Repository) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if subscriptions == nil {
		panic(e.NewNilArgumentError("subscriptions"))
	}
	return &service{log: log, subscriptions: subscriptions}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	err = s.subscriptions.Delete(ctx, input.Endpoint)
	switch {
	case err == nil:
		s.log.Info(ctx, "Subscription deleted.", logging.Entry("endpoint", input.Endpoint))
		return result, nil
	case errors.Is(err, subscription.ErrSubscriptionDoesNotExist):
		s.log.Info(ctx, "Subscription not found.", logging.Entry("endpoint", input.Endpoint))
		return result, err
	default:
		logging.Error(ctx, s.log, err, logging.Entry("endpoint", input.Endpoint))
		return result, err
	}
}
