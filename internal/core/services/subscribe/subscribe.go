package subscribe

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
	"time"
)

type Input struct {
	Endpoint  subscription.Endpoint
	Settings  subscription.Settings
	ClientKey string
}

func (i Input) GetRateLimitKey() string {
	return "subscribe::" + i.ClientKey
}

type Result struct {
	Subscription subscription.Subscription
}

type service struct {
	log           logging.Logger
	subscriptions subscription.Repository
	now           func() time.Time
}

func New(
	log logging.Logger,
	subscriptions subscription.Repository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if subscriptions == nil {
		panic(e.NewNilArgumentError("subscriptions"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:           log,
		subscriptions: subscriptions,
		now:           now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	draft := subscription.Subscription{Endpoint: input.Endpoint, Settings: input.Settings}
	if err := draft.Validate(); err != nil {
		return result, err
	}

	sub, err := s.subscriptions.Upsert(ctx, subscription.UpsertInput{
		Endpoint: input.Endpoint,
		Settings: input.Settings,
		Now:      s.now(),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("endpoint", input.Endpoint))
		return result, err
	}

	s.log.Info(
		ctx,
		"Subscription saved.",
		logging.Entry("endpoint", sub.Endpoint),
		logging.Entry("type", sub.Type()),
	)
	result.Subscription = sub
	return result, nil
}
