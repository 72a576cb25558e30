// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/folio-tui/internal/history"
)

// =============================================================================
// ERRORS
// =============================================================================

// ClientError is returned by every Client method.
type ClientError struct {
	Type    ErrorType
	Message string
	// Status is the HTTP status for ErrTypeServer, zero otherwise.
	Status int
	// Detail is the service's {error} text, if it sent one.
	Detail string
	Cause  error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel ClientErrors by type and message.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeServer
	ErrTypeInvalidResponse
)

// String returns the error type name.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeServer:
		return "server"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ErrEmptyReply is returned when the chat service answers 2xx without a reply.
var ErrEmptyReply = &ClientError{Type: ErrTypeInvalidResponse, Message: "empty reply from chat service"}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the site client.
type ClientConfig struct {
	// BaseURL of the site (default: http://127.0.0.1:5000)
	BaseURL string

	ChatPath      string
	ContactPath   string
	AnalyticsPath string

	// Timeout per request (default: 30s)
	Timeout time.Duration

	// UserAgent sent with every request
	UserAgent string

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:5000",
		ChatPath:      "/api/ai-chat",
		ContactPath:   "/api/contact",
		AnalyticsPath: "/api/analytics",
		Timeout:       30 * time.Second,
		UserAgent:     "folio-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the site's JSON endpoints. Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client, filling zero values with defaults.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	def := DefaultConfig()

	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ChatPath == "" {
		cfg.ChatPath = def.ChatPath
	}
	if cfg.ContactPath == "" {
		cfg.ContactPath = def.ContactPath
	}
	if cfg.AnalyticsPath == "" {
		cfg.AnalyticsPath = def.AnalyticsPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{config: &cfg, httpClient: hc}
}

// BaseURL returns the configured site URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// Chat sends a message with its history and returns the reply text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if req.History == nil {
		req.History = []history.Turn{}
	}
	var resp ChatResponse
	if err := c.post(ctx, c.config.ChatPath, req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Reply) == "" {
		return "", ErrEmptyReply
	}
	return resp.Reply, nil
}

// SubmitContact posts the contact form.
func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	var resp ContactResponse
	if err := c.post(ctx, c.config.ContactPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Track posts an analytics event. The body of a successful response is
// ignored.
func (c *Client) Track(ctx context.Context, ev Event) error {
	if ev.Data == nil {
		ev.Data = map[string]any{}
	}
	return c.post(ctx, c.config.AnalyticsPath, ev, nil)
}

// post sends in as JSON and decodes a 2xx body into out (if non-nil).
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &ClientError{
			Type:    ErrTypeServer,
			Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
			Status:  resp.StatusCode,
			Detail:  eb.Error,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func transportError(err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "failed to reach server", Cause: err}
}
