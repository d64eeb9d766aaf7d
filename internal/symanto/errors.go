package symanto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Symanto API error %d: %s", e.Status, e.Message)
}

// NetworkError means no response was obtained
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err came from sending a request
func IsRequestError(err error) bool {
	var apiErr *APIError
	var netErr *NetworkError
	return errors.As(err, &apiErr) || errors.As(err, &netErr)
}

// newNetworkError strips the url.Error wrapper so the message carries only
// the underlying failure (e.g. "dial tcp ...: connection refused").
func newNetworkError(err error) *NetworkError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	return &NetworkError{Err: err}
}

// extractErrorMessage picks the message from an error body: the "message"
// field, then the "error" field, then the body itself as compact JSON.
// Values are echoed as the server sent them, without re-encoding.
func extractErrorMessage(body []byte) string {
	if !json.Valid(body) {
		// Not JSON: serialize the text itself as a JSON string
		return quoteJSON(string(body))
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, field := range []string{"message", "error"} {
			raw, ok := obj[field]
			if !ok {
				continue
			}
			var v any
			if err := json.Unmarshal(raw, &v); err == nil && truthy(v) {
				return stringify(v, raw)
			}
		}
	}

	return compactJSON(body)
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// quoteJSON encodes s as a JSON string without escaping HTML characters
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return s
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// truthy mirrors loose truthiness for decoded JSON values
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	}
	return true
}

// stringify renders a decoded field value; objects and arrays keep their raw form
func stringify(v any, raw json.RawMessage) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return compactJSON(raw)
}
