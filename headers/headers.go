// Package headers defines HTTP header constants used by the TokenTally API.
// This is the single source of truth for header names used in API requests.
package headers

const (
	// APIKey is the header for API key authentication.
	APIKey = "X-API-Key" //nolint:gosec // This is a header name, not a credential

	// RequestID is the header for request correlation. The SDK generates a
	// fresh value per request; it is not an idempotency key.
	RequestID = "X-TokenTally-Request-Id"
)
