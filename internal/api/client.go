package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client wraps HTTP calls to the shelf REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		log: zap.NewNop(),
	}
}

// WithLogger returns the client with request tracing sent to log.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c.log = log.Named("api")
	return c
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := NewClient(c.baseURL, timeout)
	clone.log = c.log
	return clone
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// failureText picks the user-facing message for a non-2xx response whose
// body carries no usable error text.
type failureText struct {
	fallback string
	byStatus map[int]string
}

func (f failureText) pick(status int) string {
	if msg, ok := f.byStatus[status]; ok {
		return msg
	}
	if f.fallback != "" {
		return f.fallback
	}
	return fmt.Sprintf("request failed (HTTP %d)", status)
}

// do executes an HTTP request and returns the raw response body. Every
// failure comes back as an *Error.
func (c *Client) do(ctx context.Context, method, path string, body any, text failureText) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, transportError(fmt.Errorf("marshal body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reqBody)
	if err != nil {
		return nil, transportError(fmt.Errorf("create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, transportError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(fmt.Errorf("read response: %w", err))
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		msg, ok := extractAPIErrorBody(respBody)
		if !ok {
			msg = text.pick(resp.StatusCode)
		}
		return nil, &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: msg,
		}
	}

	return respBody, nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string, text failureText) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, text)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body any, text failureText) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body, text)
}

// put performs a PUT request.
func (c *Client) put(ctx context.Context, path string, body any, text failureText) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body, text)
}

// del performs a DELETE request.
func (c *Client) del(ctx context.Context, path string, text failureText) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, text)
	return err
}

// decodeOne decodes a single-object response body.
func decodeOne[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, transportError(fmt.Errorf("decode response: %w", err))
	}
	return &out, nil
}

// decodeList decodes an array response body. A JSON null decodes to an
// empty slice.
func decodeList[T any](data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, transportError(fmt.Errorf("decode response: %w", err))
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// buildQuery appends query params to a path.
func buildQuery(path string, params QueryParams) string {
	if len(params) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func extractAPIErrorBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}

	if msg, ok := parseErrorValue(payload["detail"]); ok {
		return msg, true
	}
	if msg, ok := parseErrorValue(payload["error"]); ok {
		return msg, true
	}
	return "", false
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case map[string]any:
		if nested, ok := parseErrorValue(value["error"]); ok {
			return nested, true
		}
		message, _ := value["message"].(string)
		return parseErrorValue(message)
	case []any:
		// FastAPI validation errors: [{"loc": [...], "msg": "..."}]
		parts := make([]string, 0, len(value))
		for _, entry := range value {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if msg, ok := obj["msg"].(string); ok && strings.TrimSpace(msg) != "" {
				parts = append(parts, strings.TrimSpace(msg))
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "; "), true
	}
	return "", false
}
