package reporter

import (
	"context"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/rabbitmq/schema"

	"github.com/r3labs/sse/v2"
)

const (
	RUNS_STREAM = "runs"
	RUN_EVENT   = "run"
)

// SSE broadcasts reports to clients of the runs stream.
type SSE struct {
	server *sse.Server
}

func NewSSE(server *sse.Server) *SSE {
	if server == nil {
		panic(e.NewNilArgumentError("server"))
	}
	if !server.StreamExists(RUNS_STREAM) {
		server.CreateStream(RUNS_STREAM)
	}
	return &SSE{server: server}
}

func (r *SSE) Report(ctx context.Context, rep report.RunReport) error {
	message := schema.NewRunReport(rep)
	data, err := message.Marshal()
	if err != nil {
		return err
	}
	r.server.Publish(RUNS_STREAM, &sse.Event{Event: []byte(RUN_EVENT), Data: data})
	return nil
}
