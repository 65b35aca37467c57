package tokentally

import (
	"encoding/json"
	"strings"
	"time"
)

// DefaultProvider is the provider reported when a record does not name one.
const DefaultProvider = "anthropic"

// UsageRecord is one reported AI API call: token counts, timing, and
// metadata. Records are built by the caller (or by the SDK's tracking
// helpers), serialized once at send time, and not retained afterwards.
type UsageRecord struct {
	// TokensIn and TokensOut are required; a record is only sendable once
	// both counts are known.
	TokensIn  int64
	TokensOut int64

	// Model is the provider-specific model identifier. Required.
	Model string

	// Provider is the AI provider name. Defaults to DefaultProvider when
	// empty.
	Provider string

	// RuntimeMS is the wall-clock duration of the upstream call in
	// milliseconds, when measured.
	RuntimeMS *int64

	// StopReason is the provider-reported stop reason, when known.
	StopReason StopReason

	// ErrorMessage carries the upstream failure message for calls that
	// errored but still consumed tokens.
	ErrorMessage string

	// Metadata holds caller-defined attributes. Serialized as an empty
	// object when nil.
	Metadata map[string]any

	// Timestamp is when the usage was observed, in UTC. When nil at send
	// time the client assigns the current time.
	Timestamp *time.Time
}

// Validate returns an error when required fields are missing or malformed.
func (r UsageRecord) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return ConfigError{Reason: "model is required"}
	}
	if r.TokensIn < 0 || r.TokensOut < 0 {
		return ConfigError{Reason: "token counts must be non-negative"}
	}
	return nil
}

type usageRecordWire struct {
	TokensIn     int64          `json:"tokens_in"`
	TokensOut    int64          `json:"tokens_out"`
	Model        string         `json:"model"`
	Provider     string         `json:"provider"`
	Metadata     map[string]any `json:"metadata"`
	RuntimeMS    *int64         `json:"runtime_ms,omitempty"`
	StopReason   StopReason     `json:"stop_reason,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Timestamp    string         `json:"timestamp,omitempty"`
}

// MarshalJSON produces the wire form: required keys are always present
// (metadata as {} when unset, provider defaulted), optional keys only when
// their value is set. The timestamp is RFC 3339 in UTC.
func (r UsageRecord) MarshalJSON() ([]byte, error) {
	wire := usageRecordWire{
		TokensIn:     r.TokensIn,
		TokensOut:    r.TokensOut,
		Model:        r.Model,
		Provider:     r.Provider,
		Metadata:     r.Metadata,
		RuntimeMS:    r.RuntimeMS,
		StopReason:   r.StopReason,
		ErrorMessage: r.ErrorMessage,
	}
	if wire.Provider == "" {
		wire.Provider = DefaultProvider
	}
	if wire.Metadata == nil {
		wire.Metadata = map[string]any{}
	}
	if r.Timestamp != nil {
		wire.Timestamp = r.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(wire)
}

// UsageResult is the service's acknowledgment of a recorded usage event.
// Cost is computed server-side from token counts and model; the client never
// computes cost locally.
type UsageResult struct {
	Success  bool    `json:"success"`
	RecordID string  `json:"record_id"`
	CostUSD  float64 `json:"cost_usd"`
}

// UnmarshalJSON decodes a service response. Every field defaults
// independently, so a partial or empty object decodes without error.
func (u *UsageResult) UnmarshalJSON(data []byte) error {
	type alias UsageResult
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*u = UsageResult(tmp)
	return nil
}
