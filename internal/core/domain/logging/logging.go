package logging

import "context"

type LogEntry struct {
	Key   string
	Value interface{}
}

func Entry(k string, v interface{}) LogEntry {
	return LogEntry{Key: k, Value: v}
}

type Logger interface {
	Debug(ctx context.Context, msg string, entries ...LogEntry)
	Info(ctx context.Context, msg string, entries ...LogEntry)
	Warning(ctx context.Context, msg string, entries ...LogEntry)
	Error(ctx context.Context, msg string, entries ...LogEntry)
}

// Error logs err on the error level together with the given entries.
func Error(ctx context.Context, log Logger, err error, entries ...LogEntry) {
	all := make([]LogEntry, 0, len(entries)+1)
	all = append(all, Entry("err", err))
	all = append(all, entries...)
	log.Error(ctx, "Unexpected error occurred.", all...)
}
