package subscription

import "fmt"

type Type string

const (
	Unknown  = Type("")
	WebPush  = Type("webpush")
	Email    = Type("email")
	Telegram = Type("telegram")
	SNS      = Type("sns")
)

func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case WebPush, Email, Telegram, SNS:
		return Type(raw), nil
	default:
		return Unknown, fmt.Errorf("%w: unknown subscription type '%s'", ErrSubscriptionInvalidSettings, raw)
	}
}

func (t Type) String() string {
	return string(t)
}

type typeDetector struct {
	result Type
}

func (d *typeDetector) VisitWebPush(s *WebPushSettings) error {
	d.result = WebPush
	return nil
}

func (d *typeDetector) VisitEmail(s *EmailSettings) error {
	d.result = Email
	return nil
}

func (d *typeDetector) VisitTelegram(s *TelegramSettings) error {
	d.result = Telegram
	return nil
}

func (d *typeDetector) VisitSNS(s *SNSSettings) error {
	d.result = SNS
	return nil
}

func TypeOf(settings Settings) Type {
	if settings == nil {
		return Unknown
	}
	detector := &typeDetector{}
	_ = settings.Accept(detector)
	return detector.result
}
