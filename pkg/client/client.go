// Package client is a Go client for the SandboxFS HTTP API.
//
// Failed calls return *APIError carrying the status code and the message
// from the {"error": ...} envelope. Calls that are safe to repeat (List, Get,
// Update, Health) retry rate-limited (429), timed out and 5xx responses as
// well as transport errors, with exponential backoff according to the
// client's RetryPolicy. Create, CreateAnonymous and Delete change the outcome
// when replayed after a lost response, so they only retry 429: the server
// rejects those before the request is handled.
package client

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

	"github.com/marmos91/sandboxfs/pkg/api"
	"github.com/marmos91/sandboxfs/pkg/files"
)

// RetryPolicy controls the retry behaviour for transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy implements a conservative retry strategy.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRetryPolicy overrides the default retry configuration.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// Client talks to one SandboxFS server. It is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	retryPolicy RetryPolicy
	backoff     Backoff
}

// retryMode selects which failures a call may repeat.
type retryMode int

const (
	// retryTransient repeats 429, 408, 5xx and transport failures.
	retryTransient retryMode = iota

	// retryRejectedOnly repeats 429 only. Any other failure may have
	// happened after the server acted on the request.
	retryRejectedOnly
)

// New creates a Client for the provided base URL, e.g. "http://localhost:5001".
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("client: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", parsed.Scheme)
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryPolicy: DefaultRetryPolicy,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.retryPolicy.MaxRetries < 0 {
		c.retryPolicy.MaxRetries = 0
	}
	c.backoff = NewBackoff(c.retryPolicy)

	return c, nil
}

// List returns the names of all managed files.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, retryTransient, http.MethodGet, "/files", nil, &names); err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Get returns a file and its content.
func (c *Client) Get(ctx context.Context, name string) (*files.File, error) {
	var f files.File
	if err := c.do(ctx, retryTransient, http.MethodGet, filePath(name), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create creates a file under name and returns the server's confirmation.
func (c *Client) Create(ctx context.Context, name, content string) (string, error) {
	var resp api.MessageResponse
	if err := c.do(ctx, retryRejectedOnly, http.MethodPost, filePath(name), &api.ContentRequest{Content: &content}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CreateAnonymous creates a file under a server-generated name and returns it.
func (c *Client) CreateAnonymous(ctx context.Context, content string) (string, error) {
	var resp api.CreatedResponse
	if err := c.do(ctx, retryRejectedOnly, http.MethodPost, "/files", &api.ContentRequest{Content: &content}, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

// Update replaces the content of an existing file.
func (c *Client) Update(ctx context.Context, name, content string) (string, error) {
	var resp api.MessageResponse
	if err := c.do(ctx, retryTransient, http.MethodPut, filePath(name), &api.ContentRequest{Content: &content}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Delete removes a file.
func (c *Client) Delete(ctx context.Context, name string) (string, error) {
	var resp api.MessageResponse
	if err := c.do(ctx, retryRejectedOnly, http.MethodDelete, filePath(name), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Health returns nil when the server answers /healthz with status ok.
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.do(ctx, retryTransient, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("client: unhealthy status %q", resp.Status)
	}
	return nil
}

// filePath escapes name as a single path segment, so that "a/b" reaches
// the server as one (rejected) name instead of two segments. Dot-only names
// are percent-encoded as well, or URL resolution would collapse them.
func filePath(name string) string {
	escaped := url.PathEscape(name)
	if strings.Trim(name, ".") == "" {
		escaped = strings.ReplaceAll(escaped, ".", "%2E")
	}
	return "/files/" + escaped
}

// do sends one API call, retrying the failures mode allows, and decodes a
// 2xx JSON body into out.
func (c *Client) do(ctx context.Context, mode retryMode, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
	}

	fullURL, err := c.buildURL(path)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := c.send(ctx, method, fullURL, payload)
		if err == nil {
			return decodeResponse(resp, out)
		}

		if !c.shouldRetry(mode, attempt, err) {
			return err
		}

		var retryAfter time.Duration
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			retryAfter = apiErr.RetryAfter()
		}
		if err := sleep(ctx, c.backoff.Delay(attempt, retryAfter)); err != nil {
			return err
		}
	}
}

// send performs a single request. Non-2xx responses are returned as *APIError.
func (c *Client) send(ctx context.Context, method, fullURL string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("client: read error body: %w", err)
		}
		return nil, newAPIError(resp, data)
	}

	return resp, nil
}

func (c *Client) shouldRetry(mode retryMode, attempt int, err error) bool {
	if attempt >= c.retryPolicy.MaxRetries {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	isAPIErr := errors.As(err, &apiErr)

	switch mode {
	case retryRejectedOnly:
		return isAPIErr && apiErr.StatusCode == http.StatusTooManyRequests
	default:
		if isAPIErr {
			return apiErr.Retryable()
		}
		// Transport failure.
		return true
	}
}

func (c *Client) buildURL(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("client: invalid path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
