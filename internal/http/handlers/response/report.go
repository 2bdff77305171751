package response

import (
	"sliderapp/internal/core/domain/report"
	"time"
)

type Decision struct {
	ReminderID string `json:"reminder_id"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

type RunReport struct {
	Trigger            string     `json:"trigger"`
	StartedAt          time.Time  `json:"started_at"`
	FinishedAt         time.Time  `json:"finished_at"`
	Summary            string     `json:"summary"`
	Processed          int        `json:"processed"`
	Fired              int        `json:"fired"`
	Failed             int        `json:"failed"`
	SubscriptionsTotal int        `json:"subscriptions_total"`
	Delivered          int        `json:"delivered"`
	DeliveryAttempts   int        `json:"delivery_attempts"`
	Pruned             []string   `json:"pruned"`
	Errors             []string   `json:"errors"`
	Decisions          []Decision `json:"decisions"`
}

func (r *RunReport) FromDomainType(dr report.RunReport) {
	r.Trigger = string(dr.Trigger)
	r.StartedAt = dr.StartedAt
	r.FinishedAt = dr.FinishedAt
	r.Summary = dr.Summary()
	r.Processed = dr.Processed
	r.Fired = dr.Fired
	r.Failed = dr.Failed
	r.SubscriptionsTotal = dr.SubscriptionsTotal
	r.Delivered = dr.Delivered
	r.DeliveryAttempts = dr.DeliveryAttempts
	r.Pruned = Endpoints(dr.Pruned)
	r.Errors = make([]string, 0, len(dr.Errors))
	r.Errors = append(r.Errors, dr.Errors...)
	r.Decisions = make([]Decision, 0, len(dr.Decisions))
	for _, d := range dr.Decisions {
		r.Decisions = append(r.Decisions, Decision{
			ReminderID: string(d.ReminderID),
			Message:    d.Message,
			Status:     string(d.Status),
			Detail:     d.Detail,
		})
	}
}
