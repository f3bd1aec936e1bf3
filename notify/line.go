/*
line.go - LINE Messaging API push client

PURPOSE:
  Sends a text push to a LINE group via the Messaging API:

    POST https://api.line.me/v2/bot/message/push
    Authorization: Bearer <channel access token>
    {"to": "<group id>", "messages": [{"type": "text", "text": "..."}]}

TIMEOUTS:
  The HTTP client carries a bounded timeout; callers may tighten it
  further via ctx. One retry, if any, is the caller's decision - this
  client does exactly one attempt per call.
*/
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.line.me/v2/bot/message/push"

// LineClient pushes text messages through the LINE Messaging API.
type LineClient struct {
	token    string
	endpoint string
	client   *http.Client
}

// NewLineClient creates a client with the given channel access token.
func NewLineClient(token string) *LineClient {
	return &LineClient{
		token:    token,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewLineClientWithEndpoint overrides the API endpoint (tests).
func NewLineClientWithEndpoint(token, endpoint string) *LineClient {
	c := NewLineClient(token)
	c.endpoint = endpoint
	return c
}

type pushPayload struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Push sends one text message to the destination id.
func (c *LineClient) Push(ctx context.Context, to, text string) error {
	payload := pushPayload{
		To:       to,
		Messages: []textMessage{{Type: "text", Text: text}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push rejected: %s: %s", resp.Status, detail)
	}
	return nil
}
