package reminder

import (
	e "sliderapp/internal/core/domain/errors"
	"time"
	"unicode/utf8"
)

const MAX_MESSAGE_LENGTH = 1024

type ID string

type IDGenerator interface {
	NewReminderID() ID
}

// Interval is a repeat interval in whole minutes, zero means one-shot.
type Interval int

const (
	OneShot = Interval(0)
	// MAX_REPEAT_INTERVAL is one hundred years in minutes.
	MAX_REPEAT_INTERVAL = Interval(100 * 366 * 24 * 60)
)

func (i Interval) IsRecurring() bool {
	return i > 0
}

func (i Interval) IsValid() bool {
	return i >= 0 && i <= MAX_REPEAT_INTERVAL
}

type Reminder struct {
	ID             ID
	Message        string
	ScheduledAt    time.Time
	IsActive       bool
	Sent           bool
	RepeatInterval Interval
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
}

func (r *Reminder) Validate() error {
	if r.ID == "" {
		return e.NewInvalidStateError("reminder ID must not be empty")
	}
	if r.Message == "" {
		return ErrReminderMessageEmpty
	}
	if utf8.RuneCountInString(r.Message) > MAX_MESSAGE_LENGTH {
		return ErrReminderMessageTooLong
	}
	if !r.RepeatInterval.IsValid() {
		return ErrReminderIntervalInvalid
	}
	if r.ScheduledAt.IsZero() {
		return e.NewInvalidStateError("reminder scheduled time must be set")
	}
	if r.ScheduledAt.Location() != time.UTC {
		return ErrReminderTimeIsNotUTC
	}
	return nil
}

// Fired returns the update which moves a fired reminder out of its due state.
func (r *Reminder) Fired(now time.Time) UpdateInput {
	update := UpdateInput{
		ID:              r.ID,
		ExpectedVersion: r.Version,
		UpdatedAt:       now,
	}
	if r.RepeatInterval.IsRecurring() {
		update.DoScheduledAtUpdate = true
		update.ScheduledAt = NextOccurrence(r.ScheduledAt, r.RepeatInterval, now)
		update.DoSentUpdate = true
		update.Sent = false
		return update
	}
	update.DoSentUpdate = true
	update.Sent = true
	return update
}

// Reactivated returns the update which re-arms a reminder toggled back on.
// An overdue recurring reminder is moved to the next occurrence after now so
// that missed occurrences are not delivered as a backlog.
func (r *Reminder) Reactivated(now time.Time) UpdateInput {
	update := UpdateInput{
		ID:               r.ID,
		ExpectedVersion:  r.Version,
		UpdatedAt:        now,
		DoIsActiveUpdate: true,
		IsActive:         true,
		DoSentUpdate:     true,
		Sent:             false,
	}
	if r.RepeatInterval.IsRecurring() && !r.ScheduledAt.After(now) {
		update.DoScheduledAtUpdate = true
		update.ScheduledAt = NextOccurrence(now, r.RepeatInterval, now)
	}
	return update
}

func (r *Reminder) Deactivated(now time.Time) UpdateInput {
	return UpdateInput{
		ID:               r.ID,
		ExpectedVersion:  r.Version,
		UpdatedAt:        now,
		DoIsActiveUpdate: true,
		IsActive:         false,
	}
}
