package deletereminder

import (
	"errors"
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/delete_reminder"
	"sliderapp/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
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

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	reminderID := chi.URLParam(r, "reminderID")
	if reminderID == "" {
		response.RenderError(rw, "invalid reminder ID", http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(r.Context(), service.Input{ReminderID: reminder.ID(reminderID)})
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrReminderLocked):
			response.RenderError(rw, err.Error(), http.StatusConflict)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}
