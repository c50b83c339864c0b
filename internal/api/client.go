// Package api is the typed REST client for the packing-list service.
// It wraps a JSON fetch core with a per-request timeout, retries
// idempotent reads with backoff, and classifies failures into a small
// error taxonomy (network, timeout, HTTP status, parse).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 2
	retryBaseDelay = 250 * time.Millisecond
)

// Client talks to the packing-list service. Sessions are cookie-based;
// the client carries a cookie jar so credentials ride along on every
// request after login.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	retries int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 30s per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries overrides the number of retries for idempotent reads.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("api: base URL is empty")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("api: cookie jar: %w", err)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{Jar: jar},
		timeout: defaultTimeout,
		retries: defaultRetries,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Ping performs a cheap reachability check and returns the round-trip
// latency. Used by the network monitor.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	err := c.get(ctx, "/health", nil)
	if err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

// get performs a GET with retry/backoff on transient failures. Only
// reads go through here; mutations must never be auto-retried.
func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return &NetworkError{Err: ctx.Err()}
			}
		}

		lastErr = c.do(ctx, http.MethodGet, path, nil, out)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// do performs a single request. Non-GET callers use this directly so
// mutations get exactly one attempt.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("api: parse path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Err: err}
		}

		return &NetworkError{Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}

	// 204 is an empty success payload.
	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	decodeErr := json.NewDecoder(resp.Body).Decode(out)
	if decodeErr != nil {
		return &ParseError{Err: decodeErr}
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}

	return false
}

// readError builds an HTTPError from a non-2xx response. JSON bodies are
// parsed as {message}; anything else is taken as plain text.
func readError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &HTTPError{Status: resp.StatusCode}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Message string `json:"message"`
		}

		if json.Unmarshal(raw, &body) == nil && body.Message != "" {
			return &HTTPError{Status: resp.StatusCode, Message: body.Message}
		}
	}

	return &HTTPError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
