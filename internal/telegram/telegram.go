package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiBase = "https://api.telegram.org"

// Client sends messages through the Bot API. Delivery is best-effort: the
// caller logs failures and never retries.
type Client struct {
	Token  string
	ChatID string
	HTTP   *http.Client
	Base   string
}

func NewClient(token, chatID string) *Client {
	return &Client{
		Token:  token,
		ChatID: chatID,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
		Base:   apiBase,
	}
}

func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c.Token == "" || c.ChatID == "" {
		return fmt.Errorf("telegram: bot token or chat id not configured")
	}

	form := url.Values{}
	form.Set("chat_id", c.ChatID)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.Base, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: bot api status %d: %s", resp.StatusCode, body)
	}
	return nil
}
