package services

import (
	"sliderapp/internal/app/deps"
	drl "sliderapp/internal/core/domain/rate_limiter"
	"sliderapp/internal/core/services"
	createreminder "sliderapp/internal/core/services/create_reminder"
	deletereminder "sliderapp/internal/core/services/delete_reminder"
	dispatch "sliderapp/internal/core/services/dispatch_notification"
	"sliderapp/internal/core/services/exclusive"
	listreminders "sliderapp/internal/core/services/list_reminders"
	ratelimiting "sliderapp/internal/core/services/rate_limiting"
	runscheduler "sliderapp/internal/core/services/run_scheduler"
	sendtestnotification "sliderapp/internal/core/services/send_test_notification"
	"sliderapp/internal/core/services/subscribe"
	togglereminder "sliderapp/internal/core/services/toggle_reminder"
	"sliderapp/internal/core/services/unsubscribe"
)

type Services struct {
	DispatchNotification services.Service[dispatch.Input, dispatch.Result]
	RunScheduler         services.Service[runscheduler.Input, runscheduler.Result]

	CreateReminder services.Service[createreminder.Input, createreminder.Result]
	ListReminders  services.Service[listreminders.Input, listreminders.Result]
	DeleteReminder services.Service[deletereminder.Input, deletereminder.Result]
	ToggleReminder services.Service[togglereminder.Input, togglereminder.Result]

	Subscribe            services.Service[subscribe.Input, subscribe.Result]
	Unsubscribe          services.Service[unsubscribe.Input, unsubscribe.Result]
	SendTestNotification services.Service[sendtestnotification.Input, sendtestnotification.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.DispatchNotification = dispatch.New(
		deps.Logger,
		deps.NotificationSender,
		deps.SubscriptionRepository,
		deps.Config.DispatchConcurrency,
		deps.Config.DispatchTimeout,
	)
	s.RunScheduler = exclusive.WithExclusiveRun(
		deps.Logger,
		deps.Locker,
		deps.Config.SchedulerLockKey,
		deps.Config.SchedulerLockTTL,
		deps.Config.SchedulerLockWait,
		runscheduler.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.ReminderRepository,
			deps.SubscriptionRepository,
			s.DispatchNotification,
			deps.Reporter,
			deps.Now,
		),
	)

	s.CreateReminder = createreminder.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderIDGenerator,
		deps.Now,
	)
	s.ListReminders = listreminders.New(
		deps.Logger,
		deps.ReminderRepository,
	)
	s.DeleteReminder = deletereminder.New(
		deps.Logger,
		deps.UnitOfWork,
	)
	s.ToggleReminder = togglereminder.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderRepository,
		s.RunScheduler,
		deps.Now,
	)

	s.Subscribe = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerMinute(deps.Config.RateLimitPerMinute),
		subscribe.New(
			deps.Logger,
			deps.SubscriptionRepository,
			deps.Now,
		),
	)
	s.Unsubscribe = unsubscribe.New(
		deps.Logger,
		deps.SubscriptionRepository,
	)
	s.SendTestNotification = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerMinute(deps.Config.RateLimitPerMinute),
		sendtestnotification.New(
			deps.Logger,
			deps.SubscriptionRepository,
			s.DispatchNotification,
		),
	)

	return s
}
