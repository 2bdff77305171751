package listreminders

import (
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/list_reminders"
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
	Reminders []response.Reminder `json:"reminders"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	respReminders := make([]response.Reminder, 0, len(result.Reminders))
	for _, reminder := range result.Reminders {
		respReminder := response.Reminder{}
		respReminder.FromDomainType(reminder)
		respReminders = append(respReminders, respReminder)
	}
	response.Render(rw, Result{Reminders: respReminders}, http.StatusOK)
}
