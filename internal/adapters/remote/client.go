// Package remote backs the collection stores with the HTTP API instead of
// local files. Mutations are never merged optimistically: the store sends the
// mutation, then reloads the full collection, so the local view always agrees
// with the server at the cost of one extra round trip.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prodsmart/core/internal/infrastructure/logger"
)

// HeaderProvider supplies auth headers for outgoing requests.
type HeaderProvider interface {
	AuthHeader() map[string]string
}

type noHeaders struct{}

func (noHeaders) AuthHeader() map[string]string { return nil }

// APIError is a non-2xx response decoded from the backend's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a thin JSON client for the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	headers HeaderProvider
	logger  *logger.Logger
}

// NewClient creates an API client. A nil header provider sends no auth.
func NewClient(baseURL string, timeout time.Duration, headers HeaderProvider, log *logger.Logger) *Client {
	if headers == nil {
		headers = noHeaders{}
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		headers: headers,
		logger:  log.WithComponent("remote"),
	}
}

// Do sends one JSON request and decodes the response into out (skipped when
// out is nil). Non-2xx responses come back as *APIError; a body that is not
// the error envelope is kept verbatim as the message.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers.AuthHeader() {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
}
