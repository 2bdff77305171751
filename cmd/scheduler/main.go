package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sliderapp/internal/app/consumers"
	"sliderapp/internal/app/deps"
	"sliderapp/internal/app/services"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/report"
	runscheduler "sliderapp/internal/core/services/run_scheduler"
	"syscall"
	"time"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	ctx, cancel := context.WithCancel(context.Background())
	shutdownConsumers := consumers.InitConsumers(ctx, deps, services)

	ticker := time.NewTicker(deps.Config.SchedulerPeriod)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		ctx,
		"Starting periodic reminder scheduler.",
		logging.Entry("period", deps.Config.SchedulerPeriod.String()),
	)
	run(ctx, services, log)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(ctx, "Stopping periodic reminder scheduler.")
			break loop
		case <-ticker.C:
			run(ctx, services, log)
		}
	}

	cancel()
	shutdownConsumers()
}

func run(ctx context.Context, services *services.Services, log logging.Logger) {
	log.Info(ctx, "Launching scheduler pass.")
	_, err := services.RunScheduler.Run(ctx, runscheduler.Input{Trigger: report.TriggerTick})
	switch {
	case err == nil:
	case errors.Is(err, lock.ErrLockNotAcquired):
		log.Info(ctx, "Previous scheduler pass is still running, tick is skipped.")
	default:
		log.Error(ctx, "Scheduler pass returned an error.", logging.Entry("err", err))
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
