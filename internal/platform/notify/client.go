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

// Message is a notification delivered to a participant.
type Message struct {
	ParticipantID string `json:"participant_id"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
}

// Notifier delivers participant notifications. Delivery is best-effort;
// callers never block competition state changes on it.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}
	return nil
}

// NopNotifier discards notifications; used when no notification service is
// configured and in tests.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, Message) error { return nil }
