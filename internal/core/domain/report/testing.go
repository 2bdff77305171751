package report

import (
	"context"
	"sync"
)

type FakeReporter struct {
	Error    error
	Reported []RunReport
	lock     sync.Mutex
}

func NewFakeReporter() *FakeReporter {
	return &FakeReporter{}
}

func (r *FakeReporter) Report(ctx context.Context, rep RunReport) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Reported = append(r.Reported, rep)
	return r.Error
}
