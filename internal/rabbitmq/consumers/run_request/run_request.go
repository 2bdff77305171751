package runrequest

import (
	"context"
	"errors"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/core/services"
	runscheduler "sliderapp/internal/core/services/run_scheduler"
	"sliderapp/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type deliverySource interface {
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp091.Table,
	) (<-chan amqp091.Delivery, error)
}

// Consumer runs a scheduler pass for every run request message.
type Consumer struct {
	log     logging.Logger
	channel deliverySource
	queue   string
	service services.Service[runscheduler.Input, runscheduler.Result]
}

func New(
	log logging.Logger,
	channel deliverySource,
	queue string,
	service services.Service[runscheduler.Input, runscheduler.Result],
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, service: service}
}

// Consume starts handling deliveries in the background until the deliveries
// channel is closed or ctx is done.
func (c *Consumer) Consume(ctx context.Context) (done <-chan struct{}, err error) {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(ctx, "Could not start consuming.", logging.Entry("err", err), logging.Entry("queue", c.queue))
		return nil, err
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				c.handle(ctx, delivery)
			}
		}
	}()
	return finished, nil
}

func (c *Consumer) handle(ctx context.Context, delivery amqp091.Delivery) {
	request := &schema.RunRequest{}
	if err := request.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal run request.",
			logging.Entry("err", err),
			logging.Entry("body", string(delivery.Body)),
		)
		c.Ack(delivery)
		return
	}

	c.log.Info(ctx, "Got scheduler run request.", logging.Entry("request", request))
	result, err := c.service.Run(ctx, runscheduler.Input{Trigger: report.TriggerQueue})
	switch {
	case err == nil:
		c.log.Info(ctx, "Requested scheduler pass finished.", logging.Entry("summary", result.Report.Summary()))
	case errors.Is(err, lock.ErrLockNotAcquired):
		c.log.Info(ctx, "Scheduler pass is already running, run request skipped.", logging.Entry("request", request))
	default:
		c.log.Error(
			ctx,
			"Could not run scheduler, service returned an error.",
			logging.Entry("request", request),
			logging.Entry("err", err),
		)
	}
	c.Ack(delivery)
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
