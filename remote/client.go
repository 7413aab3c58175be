// Package remote talks to the timer service. Every method is one
// request/response round trip; nothing here retries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MatchTimer/timer"
)

const maxErrorBody = 4 << 10

// Client is the HTTP client for the timer service.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	headers map[string]string
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		headers: make(map[string]string),
	}, nil
}

// SetHeader adds a header sent with every request.
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// PushURL returns the push channel endpoint. The scheme follows the TLS state
// of the base URL.
func (c *Client) PushURL() string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String()
}

// FetchTime returns the server's current time string.
func (c *Client) FetchTime(ctx context.Context) (string, error) {
	var body struct {
		CurrentTime *string `json:"currentTime"`
	}
	if err := c.getJSON(ctx, "fetch time", "/time", &body); err != nil {
		return "", err
	}
	if body.CurrentTime == nil {
		return "", &ShapeError{Op: "fetch time", Err: errors.New("missing currentTime")}
	}
	return *body.CurrentTime, nil
}

// FetchStatus returns whether the timer is running.
func (c *Client) FetchStatus(ctx context.Context) (timer.Status, error) {
	var body struct {
		TimerRunning *bool `json:"timerRunning"`
	}
	if err := c.getJSON(ctx, "fetch status", "/status", &body); err != nil {
		return timer.Status{}, err
	}
	if body.TimerRunning == nil {
		return timer.Status{}, &ShapeError{Op: "fetch status", Err: errors.New("missing timerRunning")}
	}
	return timer.Status{Running: *body.TimerRunning}, nil
}

// FetchLogs returns the full ordered event log, oldest first.
func (c *Client) FetchLogs(ctx context.Context) ([]timer.LogEntry, error) {
	const op = "fetch logs"
	var raw json.RawMessage
	if err := c.getJSON(ctx, op, "/logs", &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ShapeError{Op: op, Err: fmt.Errorf("expected an array, got %.64s", trimmed)}
	}

	var entries []timer.LogEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &ShapeError{Op: op, Err: err}
	}
	if entries == nil {
		entries = []timer.LogEntry{}
	}
	return entries, nil
}

// StartTimer submits a schedule.
func (c *Client) StartTimer(ctx context.Context, cfg timer.TimerConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = c.do(ctx, "start timer", http.MethodPost, "/start", bytes.NewReader(payload))
	return err
}

// StopTimer stops the running timer.
func (c *Client) StopTimer(ctx context.Context) error {
	_, err := c.do(ctx, "stop timer", http.MethodPost, "/stop", nil)
	return err
}

// ClearLogs deletes the server's event log.
func (c *Client) ClearLogs(ctx context.Context) error {
	_, err := c.do(ctx, "clear logs", http.MethodPost, "/clear_logs", nil)
	return err
}

// FetchAsset downloads a static file such as a cue sound.
func (c *Client) FetchAsset(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, "fetch asset", http.MethodGet, path, nil)
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	body, err := c.do(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ShapeError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body io.Reader) ([]byte, error) {
	target := c.baseURL.String() + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return data, nil
}
