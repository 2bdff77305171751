package schema

import (
	"encoding/json"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/core/domain/subscription"
	"time"
)

type Decision struct {
	ReminderID string `json:"reminderId"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

type RunReport struct {
	Trigger            string     `json:"trigger"`
	StartedAt          time.Time  `json:"startedAt"`
	FinishedAt         time.Time  `json:"finishedAt"`
	Summary            string     `json:"summary"`
	Processed          int        `json:"processed"`
	Fired              int        `json:"fired"`
	Failed             int        `json:"failed"`
	SubscriptionsTotal int        `json:"subscriptionsTotal"`
	Delivered          int        `json:"delivered"`
	DeliveryAttempts   int        `json:"deliveryAttempts"`
	Pruned             []string   `json:"pruned"`
	Errors             []string   `json:"errors"`
	Decisions          []Decision `json:"decisions"`
}

func NewRunReport(r report.RunReport) RunReport {
	decisions := make([]Decision, 0, len(r.Decisions))
	for _, d := range r.Decisions {
		decisions = append(decisions, Decision{
			ReminderID: string(d.ReminderID),
			Message:    d.Message,
			Status:     string(d.Status),
			Detail:     d.Detail,
		})
	}
	pruned := make([]string, 0, len(r.Pruned))
	for _, endpoint := range r.Pruned {
		pruned = append(pruned, string(endpoint))
	}
	errs := r.Errors
	if errs == nil {
		errs = make([]string, 0)
	}
	return RunReport{
		Trigger:            string(r.Trigger),
		StartedAt:          r.StartedAt,
		FinishedAt:         r.FinishedAt,
		Summary:            r.Summary(),
		Processed:          r.Processed,
		Fired:              r.Fired,
		Failed:             r.Failed,
		SubscriptionsTotal: r.SubscriptionsTotal,
		Delivered:          r.Delivered,
		DeliveryAttempts:   r.DeliveryAttempts,
		Pruned:             pruned,
		Errors:             errs,
		Decisions:          decisions,
	}
}

// PrunedEndpoints returns pruned endpoints as domain values.
func (r *RunReport) PrunedEndpoints() []subscription.Endpoint {
	endpoints := make([]subscription.Endpoint, 0, len(r.Pruned))
	for _, endpoint := range r.Pruned {
		endpoints = append(endpoints, subscription.Endpoint(endpoint))
	}
	return endpoints
}

func (r *RunReport) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *RunReport) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}

// RunRequest asks a scheduler process for an out-of-band pass.
type RunRequest struct {
	RequestedBy string    `json:"requestedBy,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

func (r *RunRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *RunRequest) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}
