package reminder

import (
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"time"
)

// NextOccurrence returns the first instant of the form last + k*interval
// (k >= 1) that is strictly after now. It never returns last itself, so a
// call with a future last still advances by exactly one interval.
//
// The arithmetic is done in whole seconds, which keeps it exact for any
// valid interval and for a last arbitrarily far in the past.
func NextOccurrence(last time.Time, interval Interval, now time.Time) time.Time {
	if !interval.IsRecurring() || !interval.IsValid() {
		panic(e.NewInvalidStateError(fmt.Sprintf("repeat interval is out of range, got %d", interval)))
	}
	step := int64(interval) * 60
	k := int64(1)
	if !now.Before(last) {
		k = secondsBetween(last, now)/step + 1
	}
	return time.Unix(last.Unix()+k*step, int64(last.Nanosecond())).In(last.Location())
}

// secondsBetween returns the whole seconds elapsed from last to now, rounded
// down. now must not be before last.
func secondsBetween(last time.Time, now time.Time) int64 {
	seconds := now.Unix() - last.Unix()
	if now.Nanosecond() < last.Nanosecond() {
		seconds--
	}
	return seconds
}
