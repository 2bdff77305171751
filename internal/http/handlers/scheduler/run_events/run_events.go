package runevents

import (
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/implementations/reporter"

	"github.com/r3labs/sse/v2"
)

// Handler streams scheduler run reports to the browser.
type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
}

func New(log logging.Logger, sseServer *sse.Server) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &Handler{log: log, sseServer: sseServer}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	query.Set("stream", reporter.RUNS_STREAM)
	r.URL.RawQuery = query.Encode()

	go func() {
		<-r.Context().Done()
		h.log.Debug(r.Context(), "Unsubscribed from scheduler run events.")
	}()

	h.log.Debug(r.Context(), "Subscribed to scheduler run events.")
	h.sseServer.ServeHTTP(rw, r)
}
