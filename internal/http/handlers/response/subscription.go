package response

import (
	"sliderapp/internal/core/domain/subscription"
	"time"
)

type subscriptionSettingsJSONEncoder struct {
	subscription *Subscription
}

func (e *subscriptionSettingsJSONEncoder) VisitWebPush(s *subscription.WebPushSettings) error {
	e.subscription.WebPushSettings = &WebPushSettings{P256dh: s.P256dh, Auth: s.Auth}
	return nil
}

func (e *subscriptionSettingsJSONEncoder) VisitEmail(s *subscription.EmailSettings) error {
	e.subscription.EmailSettings = &EmailSettings{Email: string(s.Email)}
	return nil
}

func (e *subscriptionSettingsJSONEncoder) VisitTelegram(s *subscription.TelegramSettings) error {
	e.subscription.TelegramSettings = &TelegramSettings{ChatID: int64(s.ChatID)}
	return nil
}

func (e *subscriptionSettingsJSONEncoder) VisitSNS(s *subscription.SNSSettings) error {
	e.subscription.SNSSettings = &SNSSettings{TargetARN: s.TargetARN}
	return nil
}

type WebPushSettings struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type EmailSettings struct {
	Email string `json:"email"`
}

type TelegramSettings struct {
	ChatID int64 `json:"chat_id"`
}

type SNSSettings struct {
	TargetARN string `json:"target_arn"`
}

type Subscription struct {
	Endpoint         string            `json:"endpoint"`
	Type             string            `json:"type"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	WebPushSettings  *WebPushSettings  `json:"keys,omitempty"`
	EmailSettings    *EmailSettings    `json:"email,omitempty"`
	TelegramSettings *TelegramSettings `json:"telegram,omitempty"`
	SNSSettings      *SNSSettings      `json:"sns,omitempty"`
}

func (s *Subscription) FromDomainType(ds subscription.Subscription) {
	s.Endpoint = string(ds.Endpoint)
	s.Type = ds.Type().String()
	s.CreatedAt = ds.CreatedAt
	s.UpdatedAt = ds.UpdatedAt
	if ds.Settings != nil {
		ds.Settings.Accept(&subscriptionSettingsJSONEncoder{subscription: s})
	}
}

func Endpoints(endpoints []subscription.Endpoint) []string {
	result := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		result = append(result, string(endpoint))
	}
	return result
}
