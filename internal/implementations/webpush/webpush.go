package webpush

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"
	"time"

	"github.com/SherClockHolmes/webpush-go"
)

const MAX_ERROR_BODY_SIZE = 512

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subscriber is a contact URL or email address of the push sender.
	Subscriber string
	TTL        time.Duration
}

type Sender struct {
	config     Config
	httpClient *http.Client
}

func New(config Config, timeout time.Duration) *Sender {
	return &Sender{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *Sender) SendWebPush(
	ctx context.Context,
	endpoint subscription.Endpoint,
	settings *subscription.WebPushSettings,
	payload notification.Payload,
) error {
	message, err := payload.Marshal()
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(
		ctx,
		message,
		&webpush.Subscription{
			Endpoint: string(endpoint),
			Keys:     webpush.Keys{P256dh: settings.P256dh, Auth: settings.Auth},
		},
		&webpush.Options{
			HTTPClient:      s.httpClient,
			Subscriber:      s.config.Subscriber,
			VAPIDPublicKey:  s.config.VAPIDPublicKey,
			VAPIDPrivateKey: s.config.VAPIDPrivateKey,
			TTL:             int(s.config.TTL.Seconds()),
			Urgency:         webpush.UrgencyHigh,
		},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return notification.NewEndpointGoneError(resp.Status)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MAX_ERROR_BODY_SIZE))
		return fmt.Errorf("push service responded with %s: %s", resp.Status, string(body))
	}
}
