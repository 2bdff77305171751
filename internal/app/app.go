package app

import (
	"fmt"
	"net/http"
	"sliderapp/internal/app/deps"
	"sliderapp/internal/app/services"
	sendtestnotification "sliderapp/internal/http/handlers/notifications/send_test_notification"
	createreminder "sliderapp/internal/http/handlers/reminders/create_reminder"
	deletereminder "sliderapp/internal/http/handlers/reminders/delete_reminder"
	listreminders "sliderapp/internal/http/handlers/reminders/list_reminders"
	togglereminder "sliderapp/internal/http/handlers/reminders/toggle_reminder"
	runevents "sliderapp/internal/http/handlers/scheduler/run_events"
	runscheduler "sliderapp/internal/http/handlers/scheduler/run_scheduler"
	"sliderapp/internal/http/handlers/subscriptions/subscribe"
	"sliderapp/internal/http/handlers/subscriptions/unsubscribe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(deps *deps.Deps, s *services.Services) http.Handler {
	subscriptionRouter := chi.NewRouter()
	subscriptionRouter.Method(http.MethodPost, "/", subscribe.New(s.Subscribe))
	subscriptionRouter.Method(http.MethodDelete, "/", unsubscribe.New(s.Unsubscribe))

	reminderRouter := chi.NewRouter()
	reminderRouter.Method(http.MethodPost, "/", createreminder.New(s.CreateReminder))
	reminderRouter.Method(http.MethodGet, "/", listreminders.New(s.ListReminders))
	reminderRouter.Method(http.MethodDelete, "/{reminderID}", deletereminder.New(s.DeleteReminder))
	reminderRouter.Method(http.MethodPatch, "/{reminderID}/toggle", togglereminder.New(s.ToggleReminder))

	schedulerRouter := chi.NewRouter()
	schedulerRouter.Method(http.MethodPost, "/runs", runscheduler.New(s.RunScheduler))
	schedulerRouter.Method(http.MethodGet, "/events", runevents.New(deps.Logger, deps.SseServer))

	notificationRouter := chi.NewRouter()
	notificationRouter.Method(http.MethodPost, "/test", sendtestnotification.New(s.SendTestNotification))

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/subscriptions", subscriptionRouter)
	router.Mount("/reminders", reminderRouter)
	router.Mount("/scheduler", schedulerRouter)
	router.Mount("/notifications", notificationRouter)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: NewRouter(deps, s),
		Addr:    address,
	}
}
