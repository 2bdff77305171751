package togglereminder

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/toggle_reminder"
	"sliderapp/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
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

type Input struct {
	IsActive *bool `json:"is_active"`
}

type Result struct {
	Reminder response.Reminder   `json:"reminder"`
	Report   *response.RunReport `json:"report,omitempty"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.IsActive, validation.NotNil),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	reminderID := chi.URLParam(r, "reminderID")
	if reminderID == "" {
		response.RenderError(rw, "invalid reminder ID", http.StatusBadRequest)
		return
	}
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{ReminderID: reminder.ID(reminderID), IsActive: *input.IsActive},
	)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrReminderVersionConflict),
			errors.Is(err, reminder.ErrReminderLocked):
			response.RenderError(rw, err.Error(), http.StatusConflict)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	res := Result{}
	res.Reminder.FromDomainType(result.Reminder)
	if result.Report.IsPresent {
		res.Report = &response.RunReport{}
		res.Report.FromDomainType(result.Report.Value)
	}
	response.Render(rw, res, http.StatusOK)
}
