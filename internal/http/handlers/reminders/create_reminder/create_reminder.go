package createreminder

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/create_reminder"
	"sliderapp/internal/http/handlers/response"
	"time"

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
	Message        string    `json:"message"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	RepeatInterval int       `json:"repeat_interval"`
}

type Result struct {
	Reminder response.Reminder `json:"reminder"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Message, validation.Required, validation.RuneLength(1, reminder.MAX_MESSAGE_LENGTH)),
		validation.Field(&i.ScheduledAt, validation.Required),
		validation.Field(&i.RepeatInterval, validation.Min(0), validation.Max(int(reminder.MAX_REPEAT_INTERVAL))),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
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
		service.Input{
			Message:        input.Message,
			ScheduledAt:    input.ScheduledAt.UTC(),
			RepeatInterval: reminder.Interval(input.RepeatInterval),
		},
	)
	if err != nil {
		switch {
		case isExpectedError(err):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	reminder := response.Reminder{}
	reminder.FromDomainType(result.Reminder)
	response.Render(rw, Result{Reminder: reminder}, http.StatusCreated)
}

func isExpectedError(err error) bool {
	return (errors.Is(err, reminder.ErrReminderMessageEmpty) ||
		errors.Is(err, reminder.ErrReminderMessageTooLong) ||
		errors.Is(err, reminder.ErrReminderIntervalInvalid) ||
		errors.Is(err, reminder.ErrReminderTimeIsNotUTC))
}
