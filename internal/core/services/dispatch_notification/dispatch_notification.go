package dispatchnotification

import (
	"context"
	"errors"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_CONCURRENCY = 10
	DEFAULT_TIMEOUT     = 10 * time.Second
)

type Input struct {
	Payload       notification.Payload
	Subscriptions []subscription.Subscription
}

type Result struct {
	Total     int
	Delivered int
	Failed    int
	Pruned    []subscription.Endpoint
}

type service struct {
	log           logging.Logger
	sender        notification.Sender
	subscriptions subscription.Repository
	concurrency   int
	timeout       time.Duration
}

func New(
	log logging.Logger,
	sender notification.Sender,
	subscriptions subscription.Repository,
	concurrency int,
	timeout time.Duration,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if subscriptions == nil {
		panic(e.NewNilArgumentError("subscriptions"))
	}
	if concurrency <= 0 {
		concurrency = DEFAULT_CONCURRENCY
	}
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	return &service{
		log:           log,
		sender:        sender,
		subscriptions: subscriptions,
		concurrency:   concurrency,
		timeout:       timeout,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	result.Total = len(input.Subscriptions)
	result.Pruned = make([]subscription.Endpoint, 0)

	var lock sync.Mutex
	var group errgroup.Group
	group.SetLimit(s.concurrency)

	for _, sub := range input.Subscriptions {
		sub := sub
		group.Go(func() error {
			outcome := s.deliver(ctx, sub, input.Payload)

			lock.Lock()
			defer lock.Unlock()
			switch outcome {
			case delivered:
				result.Delivered++
			case pruned:
				result.Pruned = append(result.Pruned, sub.Endpoint)
			default:
				result.Failed++
			}
			return nil
		})
	}
	_ = group.Wait()

	sort.Slice(result.Pruned, func(i, j int) bool { return result.Pruned[i] < result.Pruned[j] })

	s.log.Info(
		ctx,
		"Notification dispatched.",
		logging.Entry("reminderID", input.Payload.ReminderID),
		logging.Entry("total", result.Total),
		logging.Entry("delivered", result.Delivered),
		logging.Entry("failed", result.Failed),
		logging.Entry("pruned", result.Pruned),
	)
	return result, nil
}

type deliveryOutcome int

const (
	delivered deliveryOutcome = iota
	pruned
	failed
)

func (s *service) deliver(
	ctx context.Context,
	sub subscription.Subscription,
	payload notification.Payload,
) deliveryOutcome {
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.sender.Send(sendCtx, sub, payload)
	switch notification.Classify(err) {
	case notification.Delivered:
		return delivered
	case notification.TerminalFailure:
		s.log.Info(
			ctx,
			"Delivery endpoint is gone, deleting subscription.",
			logging.Entry("endpoint", sub.Endpoint),
			logging.Entry("reason", err),
		)
		return s.prune(ctx, sub.Endpoint)
	default:
		s.log.Warning(
			ctx,
			"Could not deliver notification.",
			logging.Entry("endpoint", sub.Endpoint),
			logging.Entry("type", sub.Type()),
			logging.Entry("err", err),
		)
		return failed
	}
}

func (s *service) prune(ctx context.Context, endpoint subscription.Endpoint) deliveryOutcome {
	err := s.subscriptions.Delete(ctx, endpoint)
	if err == nil || errors.Is(err, subscription.ErrSubscriptionDoesNotExist) {
		return pruned
	}
	logging.Error(ctx, s.log, err, logging.Entry("endpoint", endpoint))
	return failed
}
