package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// Client is the HTTP Sender talking to a codepulse server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type batchRequest struct {
	Username   string           `json:"username"`
	Activities []event.Activity `json:"activities"`
}

type batchResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Accepted int    `json:"accepted"`
}

// SendBatch posts a batch to the ingestion endpoint. Network failures and
// 5xx responses come back as TransientError so the syncer requeues the
// batch; 4xx responses are permanent rejections.
func (c *Client) SendBatch(ctx context.Context, username string, batch []event.Activity) (int, error) {
	body, err := json.Marshal(batchRequest{Username: username, Activities: batch})
	if err != nil {
		return 0, fmt.Errorf("encoding batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/activities", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransientError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return 0, &TransientError{Err: fmt.Errorf("server returned %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("batch rejected: %s", responseMessage(resp.Body, resp.StatusCode))
	}

	var br batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	return br.Accepted, nil
}

// Heartbeat tells the server the user is active without recording events.
func (c *Client) Heartbeat(ctx context.Context, username string) error {
	body, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/heartbeat", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &TransientError{Err: fmt.Errorf("server returned %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat rejected: %s", responseMessage(resp.Body, resp.StatusCode))
	}
	return nil
}

func responseMessage(r io.Reader, status int) string {
	var br batchResponse
	if err := json.NewDecoder(r).Decode(&br); err == nil && br.Message != "" {
		return br.Message
	}
	return fmt.Sprintf("status %d", status)
}
