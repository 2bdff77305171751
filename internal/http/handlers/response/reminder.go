package response

import (
	"sliderapp/internal/core/domain/reminder"
	"time"
)

type Reminder struct {
	ID             string    `json:"id"`
	Message        string    `json:"message"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	IsActive       bool      `json:"is_active"`
	Sent           bool      `json:"sent"`
	RepeatInterval int       `json:"repeat_interval"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *Reminder) FromDomainType(dr reminder.Reminder) {
	r.ID = string(dr.ID)
	r.Message = dr.Message
	r.ScheduledAt = dr.ScheduledAt
	r.IsActive = dr.IsActive
	r.Sent = dr.Sent
	r.RepeatInterval = int(dr.RepeatInterval)
	r.CreatedAt = dr.CreatedAt
	r.UpdatedAt = dr.UpdatedAt
}
