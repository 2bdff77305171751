package unsubscribe

import (
	"errors"
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/unsubscribe"
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

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint == "" {
		response.RenderError(rw, "endpoint query parameter is required", http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(r.Context(), service.Input{Endpoint: subscription.Endpoint(endpoint)})
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrSubscriptionDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}
