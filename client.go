package tokentally

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

	"github.com/google/uuid"

	"github.com/tokentally/tokentally-go/headers"
)

const defaultBaseURL = "https://api.tokentally.io"
const defaultUserAgent = "tokentally-go/" + Version
const defaultTimeout = 30 * time.Second

const usagePath = "/api/usage"

// Config wires authentication, base URL, timeout, and telemetry for the API client.
type Config struct {
	// APIKey authenticates every request. Required; must be a tt_* key.
	APIKey SecretKey
	// BaseURL overrides the production endpoint. Optional.
	BaseURL string
	// Timeout bounds each request. Defaults to 30 seconds. Ignored when
	// HTTPClient is set.
	Timeout time.Duration
	// HTTPClient replaces the SDK-owned client, e.g. for test servers.
	HTTPClient *http.Client
	// Telemetry receives observability callbacks.
	Telemetry TelemetryHooks
	// UserAgent overrides the default client-identity string.
	UserAgent string
}

// ClientOption customizes a Client built through NewClientWithKey.
type ClientOption func(*Config)

// WithBaseURL points the client at a non-production service.
func WithBaseURL(baseURL string) ClientOption {
	return func(cfg *Config) { cfg.BaseURL = baseURL }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(cfg *Config) { cfg.Timeout = d }
}

// WithHTTPClient supplies the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(cfg *Config) { cfg.HTTPClient = httpClient }
}

// WithTelemetry attaches observability hooks.
func WithTelemetry(hooks TelemetryHooks) ClientOption {
	return func(cfg *Config) { cfg.Telemetry = hooks }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(cfg *Config) { cfg.UserAgent = ua }
}

// Client reports usage records to the TokenTally API. One HTTP session is
// reused across all calls from a Client instance; it is safe for concurrent
// use. Call Close when the client is no longer needed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       apiKeyAuth
	telemetry  TelemetryHooks
	userAgent  string
}

// NewClient validates the configuration and returns a ready-to-use Client.
// Key validation happens here, before any network resource is allocated.
func NewClient(cfg Config) (*Client, error) {
	key, err := ParseSecretKey(cfg.APIKey.String())
	if err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		auth:       apiKeyAuth{key: key},
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
	}, nil
}

// NewClientWithKey builds a Client from a raw API key and options.
func NewClientWithKey(rawKey string, opts ...ClientOption) (*Client, error) {
	key, err := ParseSecretKey(rawKey)
	if err != nil {
		return nil, err
	}
	cfg := Config{APIKey: key}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return NewClient(cfg)
}

// Close releases idle connections held by the underlying HTTP session.
// The client must not be used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("tokentally: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("tokentally: invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return "", errors.New("tokentally: base URL missing scheme (http/https)")
	}
	if u.Host == "" {
		return "", errors.New("tokentally: base URL missing host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	injectTraceparent(ctx, req)
	return req, nil
}

func (c *Client) prepare(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
	c.auth.Apply(req)
}

// send issues the request exactly once. There is no retry or backoff;
// duplicate sends on transient failure are the caller's responsibility.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	c.prepare(req)
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	c.telemetry.log(req.Context(), LogLevelInfo, "http_request", map[string]any{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": req.Header.Get(headers.RequestID),
	})
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, time.Since(start))
	}
	c.telemetry.metric(req.Context(), "sdk_http_request_latency_ms", float64(time.Since(start).Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	if err != nil {
		return nil, &Error{Message: "request failed", Cause: err}
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		classified := classifyHTTPError(resp)
		c.telemetry.log(req.Context(), LogLevelError, "http_error", map[string]any{
			"status": resp.StatusCode,
			"error":  classified.Error(),
		})
		return nil, classified
	}
	return resp, nil
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
