package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sliderapp/internal/app"
	"sliderapp/internal/app/deps"
	"sliderapp/internal/app/services"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/report"
	runscheduler "sliderapp/internal/core/services/run_scheduler"
	"syscall"
	"time"

	dl "sliderapp/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	services := services.InitServices(deps)

	httpServer := app.InitHttpServer(deps, services)
	go start(httpServer, deps)

	ctx, cancel := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})
	go schedule(ctx, deps, services, schedulerDone)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	cancel()
	<-schedulerDone
	shutdown(context.Background(), httpServer, deps, shutdownDeps)
}

func schedule(ctx context.Context, deps *deps.Deps, services *services.Services, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(deps.Config.SchedulerPeriod)
	defer ticker.Stop()

	deps.Logger.Info(ctx, "Starting embedded reminder scheduler.", dl.Entry("period", deps.Config.SchedulerPeriod.String()))
	for {
		select {
		case <-ctx.Done():
			deps.Logger.Info(context.Background(), "Embedded reminder scheduler stopped.")
			return
		case <-ticker.C:
			_, err := services.RunScheduler.Run(ctx, runscheduler.Input{Trigger: report.TriggerTick})
			switch {
			case err == nil:
			case errors.Is(err, lock.ErrLockNotAcquired):
				deps.Logger.Info(ctx, "Scheduler pass is running elsewhere, tick is skipped.")
			default:
				deps.Logger.Error(ctx, "Scheduler pass returned an error.", dl.Entry("err", err))
			}
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("storage", deps.Config.Storage),
		dl.Entry("allowedOrigins", deps.Config.AllowedOrigins),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func shutdown(ctx context.Context, server *http.Server, deps *deps.Deps, shutDownDeps func()) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	// SSE subscribers hold their requests open until the server closes them.
	deps.SseServer.Close()
	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}

	shutDownDeps()
	deps.Logger.Info(ctx, "HTTP server has shutdowned.")
}
