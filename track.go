package tokentally

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// TrackOption customizes the optional fields of a tracked usage record.
type TrackOption func(*UsageRecord)

// WithProvider sets the AI provider name (default "anthropic").
func WithProvider(provider string) TrackOption {
	return func(rec *UsageRecord) { rec.Provider = provider }
}

// WithRuntimeMS attaches the upstream call's wall-clock duration in milliseconds.
func WithRuntimeMS(ms int64) TrackOption {
	return func(rec *UsageRecord) { rec.RuntimeMS = Int64Ptr(ms) }
}

// WithStopReason attaches the provider-reported stop reason.
func WithStopReason(reason StopReason) TrackOption {
	return func(rec *UsageRecord) { rec.StopReason = reason }
}

// WithErrorMessage attaches the upstream failure message.
func WithErrorMessage(msg string) TrackOption {
	return func(rec *UsageRecord) { rec.ErrorMessage = msg }
}

// WithMetadata attaches caller-defined attributes. The map is copied, so
// later mutation by the caller does not alter what is sent.
func WithMetadata(metadata map[string]any) TrackOption {
	return func(rec *UsageRecord) { rec.Metadata = copyMetadata(metadata) }
}

func copyMetadata(metadata map[string]any) map[string]any {
	copied := make(map[string]any, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}

// Track records one usage event and returns the service's acknowledgment,
// including the server-computed cost. The record's timestamp is the current
// time in UTC. Blocking; errors propagate to the caller synchronously.
func (c *Client) Track(ctx context.Context, tokensIn, tokensOut int64, model string, opts ...TrackOption) (*UsageResult, error) {
	rec := UsageRecord{
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
		Model:     model,
		Provider:  DefaultProvider,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&rec)
		}
	}
	now := time.Now().UTC()
	rec.Timestamp = &now
	return c.sendUsage(ctx, rec)
}

// TrackRecord records a caller-built usage event. When rec.Timestamp is nil
// it is set to the current time in UTC before sending; this mutates the
// caller's record.
func (c *Client) TrackRecord(ctx context.Context, rec *UsageRecord) (*UsageResult, error) {
	if rec == nil {
		return nil, ConfigError{Reason: "usage record is required"}
	}
	if rec.Timestamp == nil {
		now := time.Now().UTC()
		rec.Timestamp = &now
	}
	return c.sendUsage(ctx, *rec)
}

func (c *Client) sendUsage(ctx context.Context, rec UsageRecord) (*UsageResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	req, err := c.newJSONRequest(ctx, http.MethodPost, usagePath, rec)
	if err != nil {
		return nil, &Error{Message: "build request", Cause: err}
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var result UsageResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &Error{Message: "decode response", Cause: err}
	}
	return &result, nil
}
