package runreport

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// RabbitMQ publishes scheduler pass reports.
type RabbitMQ struct {
	log        logging.Logger
	channel    publisher
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel publisher, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (s *RabbitMQ) Report(ctx context.Context, r report.RunReport) error {
	message := schema.NewRunReport(r)
	body, err := message.Marshal()
	if err != nil {
		return err
	}

	err = s.channel.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    r.FinishedAt,
		Type:         "scheduler.run_report",
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}
	s.log.Debug(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
		logging.Entry("trigger", r.Trigger),
	)
	return nil
}
