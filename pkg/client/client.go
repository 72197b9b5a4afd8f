// Package client is the Go SDK for the SeaGuard-Intelligence HTTP API.
// It wraps the versioned REST endpoints with typed sub-clients, retry with
// exponential backoff, and structured error reporting.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const Version = "0.1.0"

// Logger is the minimal logging surface the SDK needs. The zero value of
// the client logs nothing.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one SeaGuard API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	warnings     *WarningsClient
	warningsOnce sync.Once
	assess       *AssessClient
	assessOnce   sync.Once
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("seaguard: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool    { return e.StatusCode == http.StatusNotFound }
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      *errorDetail    `json:"error"`
	Pagination *Pagination     `json:"pagination"`
	RequestID  string          `json:"request_id"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination reports the page window and total of a list response.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// NewClient creates an SDK client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("seaguard: baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("seaguard: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("seaguard: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("seaguard-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Warnings returns the warnings sub-client.
func (c *Client) Warnings() *WarningsClient {
	c.warningsOnce.Do(func() {
		c.warnings = &WarningsClient{client: c}
	})
	return c.warnings
}

// Assess returns the assessment sub-client.
func (c *Client) Assess() *AssessClient {
	c.assessOnce.Do(func() {
		c.assess = &AssessClient{client: c}
	})
	return c.assess
}

// do performs a request with retries, decodes the envelope, and unmarshals
// data into result. It returns the envelope's pagination when present.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) (*Pagination, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("seaguard: failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("seaguard: failed to create request: %w", err)
		}
		requestID := uuid.New().String()
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("request failed: %v", err)
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("seaguard: failed to read response body: %w", err)
		}
		c.logger.Debugf("%s %s %d", method, path, resp.StatusCode)

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
			var env envelope
			if json.Unmarshal(respBody, &env) == nil && env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
				if env.RequestID != "" {
					apiErr.RequestID = env.RequestID
				}
			} else {
				apiErr.Message = string(respBody)
			}
			lastErr = apiErr
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				continue
			}
			return nil, apiErr
		}

		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("seaguard: failed to unmarshal response: %w", err)
		}
		if result != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, result); err != nil {
				return nil, fmt.Errorf("seaguard: failed to unmarshal data: %w", err)
			}
		}
		return env.Pagination, nil
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) (*Pagination, error) {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	_, err := c.do(ctx, http.MethodPost, path, body, result)
	return err
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
	return backoff + jitter
}
