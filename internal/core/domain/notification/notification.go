package notification

import (
	"context"
	"encoding/json"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/domain/subscription"
)

const (
	REMINDER_TITLE = "SliderApp Reminder"
	REMINDER_ICON  = "/icon-192x192.png"
	TEST_TITLE     = "Test Notification"
	TEST_BODY      = "If you see this, push works!"
	TEST_ICON      = "/icon-192x192.png"
)

type Payload struct {
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Icon       string      `json:"icon,omitempty"`
	ReminderID reminder.ID `json:"reminderId,omitempty"`
}

func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

func ForReminder(r reminder.Reminder) Payload {
	return Payload{
		Title:      REMINDER_TITLE,
		Body:       r.Message,
		Icon:       REMINDER_ICON,
		ReminderID: r.ID,
	}
}

func Test() Payload {
	return Payload{Title: TEST_TITLE, Body: TEST_BODY, Icon: TEST_ICON}
}

type Sender interface {
	Send(ctx context.Context, s subscription.Subscription, payload Payload) error
}
