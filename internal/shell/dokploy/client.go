// Package dokploy provides a client for the Dokploy REST API.
// It covers the calls a deployment run needs: projects, environments,
// servers, applications, domains and deployments.
package dokploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client provides methods for interacting with the Dokploy API.
type Client struct {
	baseURL      string
	apiKey       string
	requestID    string
	logRequests  bool
	logResponses bool
	httpClient   *http.Client
	logger       *slog.Logger
}

// Config holds Dokploy client configuration.
type Config struct {
	BaseURL string // Dokploy base URL, e.g., "https://dokploy.example.com"
	APIKey  string // API key sent as x-api-key
	Timeout time.Duration

	// RetryMax is the number of retries for connection errors and 5xx responses.
	RetryMax int

	// RequestID is sent as X-Request-ID on every request.
	RequestID string

	// LogRequests and LogResponses log request and response bodies.
	// Request bodies are redacted before logging.
	LogRequests  bool
	LogResponses bool
}

// NewClient creates a new Dokploy client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	retryMax := cfg.RetryMax
	if retryMax < 0 {
		retryMax = 0
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = logger.With("component", "dokploy_http")
	// Keep the final response so status codes reach the caller.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		requestID:    cfg.RequestID,
		logRequests:  cfg.LogRequests,
		logResponses: cfg.LogResponses,
		httpClient:   rc.StandardClient(),
		logger:       logger.With("component", "dokploy_client"),
	}
}

// =============================================================================
// Request Plumbing
// =============================================================================

// get calls a query procedure, e.g. GET /api/project.all.
func (c *Client) get(ctx context.Context, op, endpoint string, query url.Values, out any) error {
	return c.do(ctx, op, http.MethodGet, endpoint, query, nil, out)
}

// post calls a mutation procedure, e.g. POST /api/project.create.
func (c *Client) post(ctx context.Context, op, endpoint string, body, out any) error {
	return c.do(ctx, op, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, query url.Values, body, out any) error {
	u := c.baseURL + "/api/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewAPIError(op, endpoint, 0, "marshal request", err)
		}
		reader = bytes.NewReader(data)
		c.logRequest(method, u, data)
	} else {
		c.logRequest(method, u, nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return NewAPIError(op, endpoint, 0, "create request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewAPIError(op, endpoint, 0, err.Error(), errors.Join(ErrRequestFailed, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewAPIError(op, endpoint, resp.StatusCode, "read response", errors.Join(ErrRequestFailed, err))
	}
	c.logResponse(resp.StatusCode, respBody)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewAPIError(op, endpoint, resp.StatusCode, errorMessage(respBody), statusError(resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return NewAPIError(op, endpoint, resp.StatusCode, fmt.Sprintf("decode response: %v", err), ErrInvalidResponse)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.requestID != "" {
		req.Header.Set("X-Request-ID", c.requestID)
	}
}

func (c *Client) logRequest(method, u string, body []byte) {
	if !c.logRequests {
		return
	}
	if body == nil {
		c.logger.Info("api request", "method", method, "url", u)
		return
	}
	c.logger.Info("api request", "method", method, "url", u, "body", RedactJSON(body))
}

func (c *Client) logResponse(status int, body []byte) {
	if !c.logResponses {
		return
	}
	c.logger.Info("api response", "status", status, "body", string(body))
}

// errorMessage extracts the message from an error body, falling back to the
// raw body text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	if msg == "" {
		return "empty response body"
	}
	return msg
}
