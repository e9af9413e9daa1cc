// Package discord is a minimal Discord client: a REST client for posting
// messages and a gateway connection for receiving them.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultAPIBase = "https://discord.com/api/v10"

// Client is a minimal Discord REST API client authenticated with a bot
// token. Outbound calls share a rate limiter so bursts of replies stay under
// the platform's per-channel limits.
type Client struct {
	apiBase    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Discord REST client. If apiBase is empty, the public
// API is used.
func NewClient(apiBase, token string) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Client{
		apiBase: apiBase,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Me fetches the authenticated bot user. Called once at startup; a failure
// here means the token is bad and the process cannot run.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/@me", nil, &user); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &user, nil
}

// GatewayURL fetches the websocket URL the gateway should connect to.
func (c *Client) GatewayURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/gateway/bot", nil, &resp); err != nil {
		return "", fmt.Errorf("get gateway url: %w", err)
	}
	return resp.URL, nil
}

// SendMessage posts a text message to a channel.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	body := map[string]string{"content": content}
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// TriggerTyping shows the typing indicator in a channel while a reply is
// being prepared.
func (c *Client) TriggerTyping(ctx context.Context, channelID string) error {
	path := fmt.Sprintf("/channels/%s/typing", channelID)
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, nil); err != nil {
		return fmt.Errorf("trigger typing: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
