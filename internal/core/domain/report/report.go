package report

import (
	"context"
	"errors"
	"fmt"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/subscription"
	"time"
)

type Trigger string

const (
	TriggerTick         = Trigger("tick")
	TriggerReactivation = Trigger("reactivation")
	TriggerManual       = Trigger("manual")
	TriggerQueue        = Trigger("queue")
)

type Status string

const (
	StatusInactive    = Status(reminder.ReasonInactive)
	StatusAlreadySent = Status(reminder.ReasonAlreadySent)
	StatusDue         = Status(reminder.ReasonDue)
	StatusPending     = Status(reminder.ReasonPending)
	StatusFailed      = Status("FAILED")
)

// Decision is a log record of what a scheduler pass did with one reminder.
type Decision struct {
	ReminderID reminder.ID
	Message    string
	Status     Status
	Detail     string
}

type RunReport struct {
	Trigger            Trigger
	StartedAt          time.Time
	FinishedAt         time.Time
	Processed          int
	Fired              int
	Failed             int
	SubscriptionsTotal int
	Delivered          int
	DeliveryAttempts   int
	Pruned             []subscription.Endpoint
	Errors             []string
	Decisions          []Decision
}

func New(trigger Trigger, startedAt time.Time) RunReport {
	return RunReport{
		Trigger:   trigger,
		StartedAt: startedAt,
		Pruned:    make([]subscription.Endpoint, 0),
		Errors:    make([]string, 0),
		Decisions: make([]Decision, 0),
	}
}

func (r *RunReport) Decide(d Decision) {
	r.Decisions = append(r.Decisions, d)
}

func (r *RunReport) Fail(id reminder.ID, message string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("reminder %s: %v", id, err))
	r.Decide(Decision{ReminderID: id, Message: message, Status: StatusFailed, Detail: err.Error()})
}

func (r *RunReport) Summary() string {
	return fmt.Sprintf(
		"%d %s evaluated, %d fired, %d of %d %s delivered, %d %s pruned",
		r.Processed, plural(r.Processed, "reminder", "reminders"),
		r.Fired,
		r.Delivered, r.DeliveryAttempts, plural(r.DeliveryAttempts, "subscription", "subscriptions"),
		len(r.Pruned), plural(len(r.Pruned), "subscription", "subscriptions"),
	)
}

func plural(n int, one string, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type Reporter interface {
	Report(ctx context.Context, r RunReport) error
}

type reporters []Reporter

// Reporters fans a report out to every reporter and joins their errors.
func Reporters(rs ...Reporter) Reporter {
	return reporters(rs)
}

func (rs reporters) Report(ctx context.Context, r RunReport) error {
	var errs []error
	for _, reporter := range rs {
		if err := reporter.Report(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
