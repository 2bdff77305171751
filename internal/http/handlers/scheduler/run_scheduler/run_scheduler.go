package runscheduler

import (
	"errors"
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/lock"
	"sliderapp/internal/core/domain/report"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/run_scheduler"
	"sliderapp/internal/http/handlers/response"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	Report response.RunReport `json:"report"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{Trigger: report.TriggerManual})
	if err != nil {
		switch {
		case errors.Is(err, lock.ErrLockNotAcquired):
			response.RenderError(rw, "scheduler pass is already running", http.StatusConflict)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	res := Result{}
	res.Report.FromDomainType(result.Report)
	response.Render(rw, res, http.StatusOK)
}
