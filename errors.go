package tokentally

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is the root error type for TokenTally failures. It covers transport
// failures and any HTTP error the service does not classify more precisely,
// wrapping the underlying cause when one exists.
type Error struct {
	// Status is the HTTP status code, or zero for network-level failures.
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("tokentally: %s: %v", msg, e.Cause)
	}
	return "tokentally: " + msg
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// AuthenticationError is returned on HTTP 401: the API key is invalid or
// revoked. Not retryable.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return "tokentally: " + e.Message }

// RateLimitError is returned on HTTP 429. The SDK performs no automatic
// retry; callers should back off before sending again.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return "tokentally: " + e.Message }

// ConfigError reports invalid client configuration or an unsendable record.
// It is returned before any network request is made.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string { return "tokentally: " + e.Reason }

// IsAuthenticationError reports whether err is an AuthenticationError.
func IsAuthenticationError(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsRateLimit reports whether err is a RateLimitError.
func IsRateLimit(err error) bool {
	var target *RateLimitError
	return errors.As(err, &target)
}

// classifyHTTPError maps a non-2xx response to the error taxonomy.
// The response body is consumed but the caller still owns closing it.
func classifyHTTPError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{Message: "Invalid API key"}
	case http.StatusTooManyRequests:
		msg := "Rate limit exceeded"
		data, _ := io.ReadAll(resp.Body)
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &RateLimitError{Message: msg}
	default:
		return &Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("unexpected status %s", resp.Status),
		}
	}
}
