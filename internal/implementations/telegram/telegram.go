package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"
	"strings"
	"time"
)

type telegramMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type Sender struct {
	httpClient http.Client
	baseURL    url.URL
	token      string
}

func New(baseURL url.URL, token string, timeout time.Duration) *Sender {
	return &Sender{
		baseURL:    baseURL,
		token:      token,
		httpClient: http.Client{Timeout: timeout},
	}
}

func (s *Sender) SendTelegram(
	ctx context.Context,
	settings *subscription.TelegramSettings,
	payload notification.Payload,
) error {
	text := payload.Title
	if payload.Body != "" {
		text += "\n\n" + payload.Body
	}

	url := s.baseURL.JoinPath(fmt.Sprintf("bot%s", s.token), "sendMessage")
	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	err := encoder.Encode(telegramMessage{ChatID: int64(settings.ChatID), Text: text})
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url.String(), &body)
	if err != nil {
		return err
	}
	request.Header.Add("content-type", "application/json")
	resp, err := s.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var parsed telegramResponse
	_ = json.Unmarshal(respBody, &parsed)
	if isChatGone(resp.StatusCode, parsed.Description) {
		return notification.NewEndpointGoneError(parsed.Description)
	}
	return fmt.Errorf("got unsuccessful response from Telegram: %s", string(respBody))
}

// isChatGone reports whether the bot can never write to the chat again:
// the bot was blocked or kicked, or the chat does not exist.
func isChatGone(status int, description string) bool {
	if status == http.StatusForbidden {
		return true
	}
	return status == http.StatusBadRequest && strings.Contains(strings.ToLower(description), "chat not found")
}
