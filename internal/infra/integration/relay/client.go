package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xavierca1/unic-leads/internal/entity"
)

const maxResponseBody = 64 << 10

// Client forwards submissions to the relay endpoint. Notify never fails the
// caller: every problem becomes false plus a warning.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger

	onResult func(delivered bool)
}

func NewClient(url string, opts ...func(*Client)) *Client {
	c := &Client{
		url:    url,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithTimeout(d time.Duration) func(*Client) {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *slog.Logger) func(*Client) {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResultHook is called once per Notify with the outcome (metrics).
func WithResultHook(fn func(delivered bool)) func(*Client) {
	return func(c *Client) {
		c.onResult = fn
	}
}

func (c *Client) Notify(ctx context.Context, s entity.Submission) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("⚠️ relay: notify panicked", "panic", r)
			delivered = false
		}
		if c.onResult != nil {
			c.onResult(delivered)
		}
	}()

	if err := c.send(ctx, s); err != nil {
		c.logger.Warn("⚠️ relay: notification not delivered", "url", c.url, "source", s.Source, "error", err)
		return false
	}
	return true
}

func (c *Client) send(ctx context.Context, s entity.Submission) error {
	body, err := json.Marshal(notifyRequest{
		FullName:  s.FullName,
		BirthDate: s.BirthDate,
		Phone:     s.Phone,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed notifyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("malformed relay response: %w", err)
	}
	return nil
}
