package subscription

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	cases := []struct {
		id       string
		settings Settings
		expected Type
	}{
		{id: "webpush", settings: NewWebPushSettings("key", "auth"), expected: WebPush},
		{id: "email", settings: NewEmailSettings("john@example.com"), expected: Email},
		{id: "telegram", settings: NewTelegramSettings(42), expected: Telegram},
		{id: "sns", settings: NewSNSSettings("arn:aws:sns:eu-west-1:1:endpoint/GCM/app/1"), expected: SNS},
		{id: "nil", settings: nil, expected: Unknown},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.expected, TypeOf(testcase.settings))
		})
	}
}

func TestParseType(t *testing.T) {
	assert := require.New(t)

	for _, raw := range []string{"webpush", "email", "telegram", "sns"} {
		parsed, err := ParseType(raw)
		assert.Nil(err)
		assert.Equal(raw, parsed.String())
	}

	_, err := ParseType("pigeon")
	assert.ErrorIs(err, ErrSubscriptionInvalidSettings)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		id    string
		sub   Subscription
		valid bool
	}{
		{id: "webpush", sub: Subscription{Endpoint: "https://push/1", Settings: NewWebPushSettings("k", "a")}, valid: true},
		{id: "webpush without keys", sub: Subscription{Endpoint: "https://push/1", Settings: NewWebPushSettings("", "a")}},
		{id: "no endpoint", sub: Subscription{Settings: NewWebPushSettings("k", "a")}},
		{id: "no settings", sub: Subscription{Endpoint: "https://push/1"}},
		{id: "email", sub: Subscription{Endpoint: "mailto:a@b.c", Settings: NewEmailSettings("a@b.c")}, valid: true},
		{id: "bad email", sub: Subscription{Endpoint: "mailto:x", Settings: NewEmailSettings("x")}},
		{id: "telegram", sub: Subscription{Endpoint: "tg:1", Settings: NewTelegramSettings(1)}, valid: true},
		{id: "telegram without chat", sub: Subscription{Endpoint: "tg:0", Settings: NewTelegramSettings(0)}},
		{id: "sns", sub: Subscription{Endpoint: "sns:1", Settings: NewSNSSettings("arn:aws:sns:x")}, valid: true},
		{id: "sns bad arn", sub: Subscription{Endpoint: "sns:1", Settings: NewSNSSettings("x")}},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			err := testcase.sub.Validate()
			if testcase.valid {
				require.Nil(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
