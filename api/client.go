package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 10 * 1024 * 1024

// TokenSource supplies the bearer token for authenticated requests. An empty
// string means no token.
type TokenSource interface {
	Get(ctx context.Context) string
}

// RequestOptions describes one call. Headers are applied last and override
// the computed Accept, Content-Type and Authorization values.
type RequestOptions struct {
	Headers map[string]string
	Query   map[string]any
	Body    any
	Auth    bool
}

// Client performs JSON requests against the Vesta Nest backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// NewClient creates a client rooted at baseURL (normalized to end in /api/v1).
// A nil httpClient uses a 30 second timeout client without a cookie jar.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		httpClient: httpClient,
		tokens:     tokens,
		logger:     slog.Default(),
	}
}

// SetLogger replaces the logger used for request tracing.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// MediaURL resolves a backend storage path against this client's origin.
func (c *Client) MediaURL(path string) string {
	return MediaURL(c.baseURL, path)
}

// BuildURL resolves path and query against the client's base URL.
func (c *Client) BuildURL(path string, query map[string]any) string {
	return BuildURL(c.baseURL, path, query)
}

// AuthHeader returns the Authorization header for the current token, or an
// empty map when there is none.
func (c *Client) AuthHeader(ctx context.Context) map[string]string {
	if c.tokens == nil {
		return map[string]string{}
	}
	token := c.tokens.Get(ctx)
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func (c *Client) Get(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodGet, path, opts, out)
}

func (c *Client) Post(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodPost, path, opts, out)
}

func (c *Client) Put(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodPut, path, opts, out)
}

func (c *Client) Delete(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Request(ctx, http.MethodDelete, path, opts, out)
}

// Request sends one call and decodes a 2xx body into out. out may be nil, or a
// *string to receive the raw body. Non-2xx responses return *Error.
func (c *Client) Request(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	target := c.BuildURL(path, opts.Query)

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.Auth {
		for k, v := range c.AuthHeader(ctx) {
			req.Header.Set(k, v)
		}
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	isJSON := strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, raw, isJSON)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(raw)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func responseError(status int, raw []byte, isJSON bool) *Error {
	apiErr := &Error{Status: status}

	if isJSON && json.Valid(raw) {
		apiErr.Data = json.RawMessage(raw)
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
			apiErr.Message = body.Message
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Data, _ = json.Marshal(text)
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("Request failed with status %d", status)
	}
	return apiErr
}
