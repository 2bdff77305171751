package subscription

import (
	"fmt"
	c "sliderapp/internal/core/domain/common"
	"sliderapp/internal/core/domain/subscription"
	"strconv"
)

const (
	SETTINGS_TYPE_FIELD       = "type"
	SETTINGS_WEBPUSH_P256DH   = "p256dh"
	SETTINGS_WEBPUSH_AUTH     = "auth"
	SETTINGS_EMAIL_EMAIL      = "email"
	SETTINGS_TELEGRAM_CHAT_ID = "chat_id"
	SETTINGS_SNS_TARGET_ARN   = "target_arn"
)

type settingsEncoder struct {
	result map[string]interface{}
}

func (c *settingsEncoder) VisitWebPush(s *subscription.WebPushSettings) error {
	c.result[SETTINGS_TYPE_FIELD] = subscription.WebPush.String()
	c.result[SETTINGS_WEBPUSH_P256DH] = s.P256dh
	c.result[SETTINGS_WEBPUSH_AUTH] = s.Auth
	return nil
}

func (c *settingsEncoder) VisitEmail(s *subscription.EmailSettings) error {
	c.result[SETTINGS_TYPE_FIELD] = subscription.Email.String()
	c.result[SETTINGS_EMAIL_EMAIL] = string(s.Email)
	return nil
}

func (c *settingsEncoder) VisitTelegram(s *subscription.TelegramSettings) error {
	c.result[SETTINGS_TYPE_FIELD] = subscription.Telegram.String()
	c.result[SETTINGS_TELEGRAM_CHAT_ID] = fmt.Sprintf("%d", s.ChatID)
	return nil
}

func (c *settingsEncoder) VisitSNS(s *subscription.SNSSettings) error {
	c.result[SETTINGS_TYPE_FIELD] = subscription.SNS.String()
	c.result[SETTINGS_SNS_TARGET_ARN] = s.TargetARN
	return nil
}

// EncodeSettings flattens settings into a document tagged with its type.
// Telegram chat IDs are kept as strings so that JSON numbers never truncate them.
func EncodeSettings(settings subscription.Settings) (map[string]interface{}, error) {
	if settings == nil {
		return nil, fmt.Errorf("could not encode empty subscription settings")
	}
	encoder := &settingsEncoder{result: make(map[string]interface{})}
	if err := settings.Accept(encoder); err != nil {
		return nil, fmt.Errorf("could not encode subscription settings due to error: %w", err)
	}
	return encoder.result, nil
}

type settingsDecoder struct {
	encoded map[string]interface{}
}

func (d *settingsDecoder) getString(field string) (string, error) {
	raw, ok := d.encoded[field]
	if !ok {
		return "", fmt.Errorf("could not get %s from subscription settings: %v", field, d.encoded)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s is not a string: %v", field, d.encoded)
	}
	return value, nil
}

func (d *settingsDecoder) VisitWebPush(s *subscription.WebPushSettings) (err error) {
	if s.P256dh, err = d.getString(SETTINGS_WEBPUSH_P256DH); err != nil {
		return err
	}
	s.Auth, err = d.getString(SETTINGS_WEBPUSH_AUTH)
	return err
}

func (d *settingsDecoder) VisitEmail(s *subscription.EmailSettings) error {
	email, err := d.getString(SETTINGS_EMAIL_EMAIL)
	if err != nil {
		return err
	}
	s.Email = c.NewEmail(email)
	return nil
}

func (d *settingsDecoder) VisitTelegram(s *subscription.TelegramSettings) error {
	rawChatID, err := d.getString(SETTINGS_TELEGRAM_CHAT_ID)
	if err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat ID: %w, %v", err, d.encoded)
	}
	s.ChatID = subscription.TelegramChatID(chatID)
	return nil
}

func (d *settingsDecoder) VisitSNS(s *subscription.SNSSettings) (err error) {
	s.TargetARN, err = d.getString(SETTINGS_SNS_TARGET_ARN)
	return err
}

func DecodeSettings(encoded map[string]interface{}) (settings subscription.Settings, err error) {
	rawType, ok := encoded[SETTINGS_TYPE_FIELD].(string)
	if !ok {
		return nil, fmt.Errorf("could not define subscription settings type: %v", encoded)
	}
	settingsType, err := subscription.ParseType(rawType)
	if err != nil {
		return nil, err
	}
	switch settingsType {
	case subscription.WebPush:
		settings = &subscription.WebPushSettings{}
	case subscription.Email:
		settings = &subscription.EmailSettings{}
	case subscription.Telegram:
		settings = &subscription.TelegramSettings{}
	case subscription.SNS:
		settings = &subscription.SNSSettings{}
	}

	if err := settings.Accept(&settingsDecoder{encoded: encoded}); err != nil {
		return nil, err
	}
	return settings, settings.Validate()
}
