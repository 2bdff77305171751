package notification

import (
	"context"
	"errors"
	"fmt"
	"sliderapp/internal/core/domain/subscription"
)

var ErrChannelNotConfigured = errors.New("delivery channel is not configured")

type WebPushSender interface {
	SendWebPush(ctx context.Context, endpoint subscription.Endpoint, settings *subscription.WebPushSettings, payload Payload) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, settings *subscription.EmailSettings, payload Payload) error
}

type TelegramSender interface {
	SendTelegram(ctx context.Context, settings *subscription.TelegramSettings, payload Payload) error
}

type SNSSender interface {
	SendSNS(ctx context.Context, settings *subscription.SNSSettings, payload Payload) error
}

// Router is a Sender which picks the channel by subscription settings. A nil
// channel sender makes deliveries to that channel fail with
// ErrChannelNotConfigured.
type Router struct {
	webPush  WebPushSender
	email    EmailSender
	telegram TelegramSender
	sns      SNSSender
}

func NewRouter(webPush WebPushSender, email EmailSender, telegram TelegramSender, sns SNSSender) *Router {
	return &Router{webPush: webPush, email: email, telegram: telegram, sns: sns}
}

func (r *Router) Send(ctx context.Context, s subscription.Subscription, payload Payload) error {
	if s.Settings == nil {
		return fmt.Errorf("%w: subscription has no settings", subscription.ErrSubscriptionInvalidSettings)
	}
	return s.Settings.Accept(&channelSend{ctx: ctx, router: r, endpoint: s.Endpoint, payload: payload})
}

type channelSend struct {
	ctx      context.Context
	router   *Router
	endpoint subscription.Endpoint
	payload  Payload
}

func (c *channelSend) VisitWebPush(settings *subscription.WebPushSettings) error {
	if c.router.webPush == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotConfigured, subscription.WebPush)
	}
	return c.router.webPush.SendWebPush(c.ctx, c.endpoint, settings, c.payload)
}

func (c *channelSend) VisitEmail(settings *subscription.EmailSettings) error {
	if c.router.email == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotConfigured, subscription.Email)
	}
	return c.router.email.SendEmail(c.ctx, settings, c.payload)
}

func (c *channelSend) VisitTelegram(settings *subscription.TelegramSettings) error {
	if c.router.telegram == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotConfigured, subscription.Telegram)
	}
	return c.router.telegram.SendTelegram(c.ctx, settings, c.payload)
}

func (c *channelSend) VisitSNS(settings *subscription.SNSSettings) error {
	if c.router.sns == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotConfigured, subscription.SNS)
	}
	return c.router.sns.SendSNS(c.ctx, settings, c.payload)
}
