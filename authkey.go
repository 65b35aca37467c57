package tokentally

import (
	"strings"
)

const (
	secretKeyPrefix = "tt_"
)

// SecretKey is a TokenTally API key (tt_*).
//
// Use ParseSecretKey to construct from untrusted input.
type SecretKey string

// String returns the raw key value.
func (k SecretKey) String() string { return string(k) }

// ParseSecretKey parses and validates an API key string (tt_*).
//
// Validation is purely syntactic; a well-formed but revoked key still fails
// at request time with AuthenticationError.
func ParseSecretKey(raw string) (SecretKey, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, secretKeyPrefix) || len(trimmed) <= len(secretKeyPrefix) {
		return "", ConfigError{Reason: "invalid api key format (expected tt_*)"}
	}
	return SecretKey(trimmed), nil
}
