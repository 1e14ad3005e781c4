// Package httpclient sends requests with retry and backoff. Remote catalog
// loaders use it to download documents and the webhook output uses it to
// deliver result batches.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	userAgent = "industry-codes/1.0"

	// DefaultMaxRetries is how many times a retryable response is retried,
	// so a request makes at most DefaultMaxRetries+1 attempts.
	DefaultMaxRetries = 3

	maxErrorBody = 512

	// maxRetryAfter caps how long a server's Retry-After can hold a request.
	maxRetryAfter = 60 * time.Second
)

// Client sends requests to paths under a base URL. The base may be empty,
// in which case every path is a full URL.
type Client struct {
	baseURL    string
	header     http.Header
	backoff    time.Duration
	maxRetries int
	hc         *http.Client
}

// APIError is a non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string // first 512 bytes

	retryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed if retried:
// 429 and 5xx responses.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each attempt. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithBackoff sets the base retry delay; retry n waits base * 2^(n-1)
// unless the server sent Retry-After. Default: 1s.
func WithBackoff(base time.Duration) Option {
	return func(c *Client) { c.backoff = base }
}

// WithMaxRetries overrides DefaultMaxRetries. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		header:     make(http.Header),
		backoff:    time.Second,
		maxRetries: DefaultMaxRetries,
		hc:         &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches path and returns the response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// GetJSON fetches path and decodes the JSON body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", c.resolve(path, query), err)
	}
	return nil
}

// PostJSON encodes payload as JSON and posts it to path. The response body
// is discarded.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, path, nil, body)
	return err
}

// do sends one logical request. 429 and 5xx responses are retried with
// backoff; other non-2xx responses and transport errors are returned as is.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	target := c.resolve(path, query)

	var last *APIError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.retryDelay(attempt, last)); err != nil {
				return nil, err
			}
		}

		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rd)
		if err != nil {
			return nil, err
		}
		for k, vs := range c.header {
			req.Header[k] = vs
		}
		req.Header.Set("User-Agent", userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		last = &APIError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(data[:min(len(data), maxErrorBody)]),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		if !last.Temporary() {
			return nil, last
		}
	}
	return nil, last
}

func (c *Client) resolve(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// retryDelay returns the wait before retry attempt n (n >= 1). A
// Retry-After from the last response wins, up to maxRetryAfter.
func (c *Client) retryDelay(attempt int, last *APIError) time.Duration {
	if last != nil && last.retryAfter > 0 {
		return min(last.retryAfter, maxRetryAfter)
	}
	return c.backoff << (attempt - 1)
}

// parseRetryAfter accepts delay-seconds or an HTTP date. Anything else,
// or a date in the past, yields 0.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
