package deckapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"slidesmith/internal/config"
	"slidesmith/internal/services"
)

// HTTPDoer describes the HTTP client used by the deck service client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNotFound is returned when the service reports a missing document, job,
// or slot.
var ErrNotFound = errors.New("resource not found")

// Client talks to the slide-generation service.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used in tests).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.client = doer
	}
}

// New constructs a client for the given base URL and API token.
func New(baseURL, token string, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewFromConfig constructs a client using application config.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	client := New(cfg.Service.BaseURL, cfg.Service.APIToken)
	client.client = &http.Client{Timeout: time.Duration(cfg.Service.RequestTimeout) * time.Second}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// apiError is the service's structured error payload.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope wraps every service response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	return req, nil
}

// doJSON issues a request with an optional JSON body and decodes the
// enveloped response data into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	operation := req.Method + " " + req.URL.Path
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "deck service", operation, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNotFound)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// 4xx means the request itself is wrong; retrying will not help.
	marker := services.ErrTransient
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		marker = services.ErrInvalidRequest
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%s %s: malformed response (status %d): %w", req.Method, req.URL.Path, resp.StatusCode, err)
	}
	if !env.Success {
		if env.Error != nil {
			return services.Wrap(marker, "deck service", operation,
				fmt.Sprintf("service error %s: %s", env.Error.Code, env.Error.Message), nil)
		}
		return services.Wrap(marker, "deck service", operation,
			fmt.Sprintf("request failed with status %d", resp.StatusCode), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
