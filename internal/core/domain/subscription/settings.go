package subscription

import (
	"fmt"
	c "sliderapp/internal/core/domain/common"
	"strings"
)

type Settings interface {
	Accept(visitor SettingsVisitor) error
	Validate() error
}

type SettingsVisitor interface {
	VisitWebPush(s *WebPushSettings) error
	VisitEmail(s *EmailSettings) error
	VisitTelegram(s *TelegramSettings) error
	VisitSNS(s *SNSSettings) error
}

// WebPushSettings holds the browser keys of a push subscription, the
// endpoint itself is the push service URL.
type WebPushSettings struct {
	P256dh string
	Auth   string
}

func NewWebPushSettings(p256dh string, auth string) *WebPushSettings {
	return &WebPushSettings{P256dh: p256dh, Auth: auth}
}

func (s *WebPushSettings) Accept(v SettingsVisitor) error {
	return v.VisitWebPush(s)
}

func (s *WebPushSettings) Validate() error {
	if s.P256dh == "" || s.Auth == "" {
		return fmt.Errorf("%w: web push keys must not be empty", ErrSubscriptionInvalidSettings)
	}
	return nil
}

type EmailSettings struct {
	Email c.Email
}

func NewEmailSettings(email c.Email) *EmailSettings {
	return &EmailSettings{Email: email}
}

func (s *EmailSettings) Accept(v SettingsVisitor) error {
	return v.VisitEmail(s)
}

func (s *EmailSettings) Validate() error {
	if !strings.Contains(string(s.Email), "@") {
		return fmt.Errorf("%w: invalid email", ErrSubscriptionInvalidSettings)
	}
	return nil
}

type TelegramChatID int64

type TelegramSettings struct {
	ChatID TelegramChatID
}

func NewTelegramSettings(chatID TelegramChatID) *TelegramSettings {
	return &TelegramSettings{ChatID: chatID}
}

func (s *TelegramSettings) Accept(v SettingsVisitor) error {
	return v.VisitTelegram(s)
}

func (s *TelegramSettings) Validate() error {
	if s.ChatID == 0 {
		return fmt.Errorf("%w: telegram chat ID must be set", ErrSubscriptionInvalidSettings)
	}
	return nil
}

// SNSSettings addresses an Amazon SNS mobile push platform endpoint.
type SNSSettings struct {
	TargetARN string
}

func NewSNSSettings(targetARN string) *SNSSettings {
	return &SNSSettings{TargetARN: targetARN}
}

func (s *SNSSettings) Accept(v SettingsVisitor) error {
	return v.VisitSNS(s)
}

func (s *SNSSettings) Validate() error {
	if !strings.HasPrefix(s.TargetARN, "arn:") {
		return fmt.Errorf("%w: invalid SNS target ARN", ErrSubscriptionInvalidSettings)
	}
	return nil
}
