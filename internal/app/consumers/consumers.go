package consumers

import (
	"context"
	"sliderapp/internal/app/deps"
	"sliderapp/internal/app/services"
	dl "sliderapp/internal/core/domain/logging"
	runrequest "sliderapp/internal/rabbitmq/consumers/run_request"
)

func initRunRequestConsumer(ctx context.Context, deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(ctx, "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqRunRequestQueue
	if err := rabbitmqChannel.Declare(deps.Config.RabbitmqExchange, queue, queue); err != nil {
		deps.Logger.Error(ctx, "Could not declare RabbitMQ topology.", dl.Entry("err", err), dl.Entry("queue", queue))
		panic(err)
	}

	consumer := runrequest.New(deps.Logger, rabbitmqChannel, queue, services.RunScheduler)
	done, err := consumer.Consume(ctx)
	if err != nil {
		deps.Logger.Error(
			ctx,
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(ctx, "Consumer has started.", dl.Entry("queue", queue))
	return func() {
		rabbitmqChannel.Close()
		<-done
		deps.Logger.Info(context.Background(), "Consumer has stopped.", dl.Entry("queue", queue))
	}
}

func InitConsumers(ctx context.Context, deps *deps.Deps, services *services.Services) func() {
	shutdownRunRequestConsumer := initRunRequestConsumer(ctx, deps, services)

	return func() {
		shutdownRunRequestConsumer()
	}
}
