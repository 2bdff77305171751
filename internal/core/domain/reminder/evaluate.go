package reminder

import "time"

type Action int

const (
	Skip Action = iota
	Fire
)

func (a Action) String() string {
	if a == Fire {
		return "fire"
	}
	return "skip"
}

type Reason string

const (
	ReasonInactive    = Reason("INACTIVE")
	ReasonAlreadySent = Reason("ALREADY SENT")
	ReasonDue         = Reason("DUE NOW")
	ReasonPending     = Reason("PENDING")
)

type Verdict struct {
	Action Action
	Reason Reason
}

func (v Verdict) ShouldFire() bool {
	return v.Action == Fire
}

// Evaluate decides whether the reminder must fire at the given instant.
// A reminder scheduled exactly at now is due.
func Evaluate(r Reminder, now time.Time) Verdict {
	switch {
	case !r.IsActive:
		return Verdict{Action: Skip, Reason: ReasonInactive}
	case r.Sent:
		return Verdict{Action: Skip, Reason: ReasonAlreadySent}
	case !r.ScheduledAt.After(now):
		return Verdict{Action: Fire, Reason: ReasonDue}
	default:
		return Verdict{Action: Skip, Reason: ReasonPending}
	}
}
