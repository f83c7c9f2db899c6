// Package agent talks to the desktop CAD agent: a separately-run local
// listener on the operator's workstation that can open a file path in the CAD
// application. Delivery is best-effort, fire-and-report: one HTTP call with a
// hard timeout, no retry, no queueing.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// statusTimeout bounds the liveness probe; it is deliberately shorter than
// the open call so the status widget stays snappy.
const statusTimeout = 3 * time.Second

// OpenAck is the agent's acknowledgement for a successful open.
type OpenAck struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Client is the HTTP client for the desktop agent. The shared-secret token
// authenticates the server to the agent.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Open asks the agent to open path in the CAD application. The path is opaque
// to the server; it only means something on the agent's workstation.
func (c *Client) Open(ctx context.Context, path string) (*OpenAck, error) {
	body, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		return nil, fmt.Errorf("agent: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/open", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("agent: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var agentErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&agentErr)
		if agentErr.Error != "" {
			return nil, fmt.Errorf("agent: %s", agentErr.Error)
		}
		return nil, fmt.Errorf("agent: returned %d", resp.StatusCode)
	}

	var ack OpenAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, fmt.Errorf("agent: decode response: %w", err)
	}
	return &ack, nil
}

// Status probes the agent's /status endpoint and returns its self-report.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	u := c.baseURL + "/status?token=" + url.QueryEscape(c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("agent: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent: returned %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("agent: decode response: %w", err)
	}
	return out, nil
}
