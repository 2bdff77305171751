package reporter

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/report"
)

// Log writes one entry per reminder decision.
type Log struct {
	log logging.Logger
}

func NewLog(log logging.Logger) *Log {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Log{log: log}
}

func (r *Log) Report(ctx context.Context, rep report.RunReport) error {
	for _, decision := range rep.Decisions {
		entries := []logging.LogEntry{
			logging.Entry("trigger", rep.Trigger),
			logging.Entry("reminderID", decision.ReminderID),
			logging.Entry("status", decision.Status),
			logging.Entry("detail", decision.Detail),
		}
		switch decision.Status {
		case report.StatusFailed:
			r.log.Warning(ctx, "Reminder could not be processed.", entries...)
		case report.StatusDue:
			r.log.Info(ctx, "Reminder fired.", entries...)
		default:
			r.log.Debug(ctx, "Reminder skipped.", entries...)
		}
	}
	return nil
}
