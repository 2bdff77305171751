package subscribe

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "sliderapp/internal/core/domain/common"
	e "sliderapp/internal/core/domain/errors"
	ratelimiter "sliderapp/internal/core/domain/rate_limiter"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/core/services"
	service "sliderapp/internal/core/services/subscribe"
	"sliderapp/internal/http/handlers/client"
	"sliderapp/internal/http/handlers/response"

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

type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Input accepts the browser PushSubscription JSON as is, other channel
// types are selected by the optional type field.
type Input struct {
	Type      string `json:"type"`
	Endpoint  string `json:"endpoint"`
	Keys      *Keys  `json:"keys"`
	Email     string `json:"email"`
	ChatID    int64  `json:"chat_id"`
	TargetARN string `json:"target_arn"`
}

type Result struct {
	Subscription response.Subscription `json:"subscription"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	settingsType := i.settingsType()
	return validation.ValidateStruct(&i,
		validation.Field(&i.Endpoint, validation.Required, validation.Length(1, 2048)),
		validation.Field(
			&i.Type,
			validation.In(
				subscription.WebPush.String(),
				subscription.Email.String(),
				subscription.Telegram.String(),
				subscription.SNS.String(),
			),
		),
		validation.Field(&i.Keys, when(settingsType == subscription.WebPush, validation.NotNil)...),
		validation.Field(&i.Email, when(settingsType == subscription.Email, validation.Required)...),
		validation.Field(&i.ChatID, when(settingsType == subscription.Telegram, validation.Required)...),
		validation.Field(&i.TargetARN, when(settingsType == subscription.SNS, validation.Required)...),
	)
}

func when(condition bool, rules ...validation.Rule) []validation.Rule {
	if !condition {
		return nil
	}
	return rules
}

func (i Input) settingsType() subscription.Type {
	if i.Type == "" {
		return subscription.WebPush
	}
	return subscription.Type(i.Type)
}

func (i Input) settings() subscription.Settings {
	switch i.settingsType() {
	case subscription.Email:
		return subscription.NewEmailSettings(c.NewEmail(i.Email))
	case subscription.Telegram:
		return subscription.NewTelegramSettings(subscription.TelegramChatID(i.ChatID))
	case subscription.SNS:
		return subscription.NewSNSSettings(i.TargetARN)
	default:
		return subscription.NewWebPushSettings(i.Keys.P256dh, i.Keys.Auth)
	}
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
			Endpoint:  subscription.Endpoint(input.Endpoint),
			Settings:  input.settings(),
			ClientKey: client.Key(r),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, subscription.ErrSubscriptionInvalidSettings):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	s := response.Subscription{}
	s.FromDomainType(result.Subscription)
	response.Render(rw, Result{Subscription: s}, http.StatusCreated)
}
