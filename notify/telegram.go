package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const (
	apiBase     = "https://api.telegram.org"
	sendTimeout = 30 * time.Second

	// DefaultSendDelay is the pause between consecutive messages.
	// Telegram throttles bots that send faster than about one message
	// per second to the same chat.
	DefaultSendDelay = time.Second
)

// Client sends messages through the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
	baseURL    string
	token      string
	chatID     string
	sendDelay  time.Duration
}

// NewClient returns a Client that posts to chatID as the bot identified by
// token. A sendDelay of zero or less means DefaultSendDelay.
func NewClient(token, chatID string, sendDelay time.Duration, logger *log.Logger) *Client {
	if sendDelay <= 0 {
		sendDelay = DefaultSendDelay
	}

	return &Client{
		httpClient: &http.Client{Timeout: sendTimeout},
		logger:     logger,
		baseURL:    apiBase,
		token:      token,
		chatID:     chatID,
		sendDelay:  sendDelay,
	}
}

// sendMessageRequest is the JSON body of a sendMessage call.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the envelope every Bot API method responds with.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts a single Markdown message to the configured chat.
func (c *Client) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(respBody, &api); err != nil {
		return fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !api.OK {
		return fmt.Errorf("telegram rejected message (HTTP %d): %s", resp.StatusCode, api.Description)
	}

	return nil
}

// Deliver sends messages in order, pausing sendDelay between consecutive
// sends. A failed send is logged and delivery moves on to the next message;
// cancelling ctx abandons whatever remains.
func (c *Client) Deliver(ctx context.Context, messages []string) {
	for i, msg := range messages {
		if i > 0 {
			select {
			case <-ctx.Done():
				c.logger.Warn("delivery interrupted", "sent", i, "remaining", len(messages)-i)
				return
			case <-time.After(c.sendDelay):
			}
		}

		if err := c.Send(ctx, msg); err != nil {
			c.logger.Error("failed to deliver message", "error", err)
		}
	}
}
