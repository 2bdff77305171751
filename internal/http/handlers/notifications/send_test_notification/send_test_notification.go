package sendtestnotification

import (
	"errors"
	"net/http"
	e "sliderapp/internal/core/domain/errors"
	ratelimiter "sliderapp/internal/core/domain/rate_limiter"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/send_test_notification"
	"sliderapp/internal/http/handlers/client"
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
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Pruned []string `json:"pruned"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{ClientKey: client.Key(r)})
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, subscription.ErrNoSubscriptions):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(
		rw,
		Result{Sent: result.Sent, Failed: result.Failed, Pruned: response.Endpoints(result.Pruned)},
		http.StatusOK,
	)
}
