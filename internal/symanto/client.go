package symanto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
)

// APIKeyHeader carries the API key on every request
const APIKeyHeader = "x-api-key"

// requestItem is one text in the request array
type requestItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Response is a successful API response. Raw is kept byte-for-byte so that
// raw output preserves the server's field order.
type Response struct {
	Kind     Kind
	Status   int
	Raw      json.RawMessage
	Duration time.Duration
}

// Client sends analysis requests to the Symanto API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for baseURL authenticated with apiKey
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// No client timeout: requests end when the server answers or ctx is done
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts text to the endpoint for kind. language is ignored for
// language detection.
func (c *Client) Send(ctx context.Context, kind Kind, text, language string) (*Response, error) {
	item := requestItem{ID: "1", Text: text}
	if kind.UsesLanguage() {
		item.Language = language
	}

	payload, err := json.Marshal([]requestItem{item})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+kind.Path(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set(APIKeyHeader, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	logger := log.WithFields(log.Fields{
		"kind": string(kind),
		"path": kind.Path(),
	})
	logger.Debug("sending request")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.WithError(err).Debug("request failed")
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(startTime)
	if err != nil {
		return nil, newNetworkError(err)
	}

	logger.WithFields(log.Fields{
		"status":   resp.StatusCode,
		"duration": duration.Milliseconds(),
	}).Debug("response received")

	if !IsSuccessStatus(resp.StatusCode) {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(body),
			Body:    body,
		}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON in %s response", kind)
	}

	return &Response{
		Kind:     kind,
		Status:   resp.StatusCode,
		Raw:      json.RawMessage(body),
		Duration: duration,
	}, nil
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
