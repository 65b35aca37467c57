package tokentally

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageRecordMarshalJSON(t *testing.T) {
	t.Run("minimal record emits required keys only", func(t *testing.T) {
		data, err := json.Marshal(UsageRecord{TokensIn: 10, TokensOut: 20, Model: "claude-3-sonnet-20240229"})
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, float64(10), got["tokens_in"])
		assert.Equal(t, float64(20), got["tokens_out"])
		assert.Equal(t, "claude-3-sonnet-20240229", got["model"])
		assert.Equal(t, "anthropic", got["provider"])
		assert.Equal(t, map[string]any{}, got["metadata"])
		assert.NotContains(t, got, "runtime_ms")
		assert.NotContains(t, got, "stop_reason")
		assert.NotContains(t, got, "error_message")
		assert.NotContains(t, got, "timestamp")
	})

	t.Run("optional fields included when set", func(t *testing.T) {
		ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
		rec := UsageRecord{
			TokensIn:     1,
			TokensOut:    2,
			Model:        "gpt-4o",
			Provider:     "openai",
			RuntimeMS:    Int64Ptr(150),
			StopReason:   StopReasonEndTurn,
			ErrorMessage: "upstream timeout",
			Metadata:     map[string]any{"feature": "chat"},
			Timestamp:    TimePtr(ts),
		}
		data, err := json.Marshal(rec)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "openai", got["provider"])
		assert.Equal(t, float64(150), got["runtime_ms"])
		assert.Equal(t, "end_turn", got["stop_reason"])
		assert.Equal(t, "upstream timeout", got["error_message"])
		assert.Equal(t, map[string]any{"feature": "chat"}, got["metadata"])
		assert.Equal(t, "2026-03-01T12:30:00Z", got["timestamp"])
	})

	t.Run("non-UTC timestamp serialized in UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		rec := UsageRecord{
			TokensIn:  1,
			TokensOut: 1,
			Model:     "m",
			Timestamp: TimePtr(time.Date(2026, 3, 1, 14, 30, 0, 0, loc)),
		}
		data, err := json.Marshal(rec)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "2026-03-01T12:30:00Z", got["timestamp"])
	})

	t.Run("zero runtime is still present", func(t *testing.T) {
		rec := UsageRecord{TokensIn: 1, TokensOut: 1, Model: "m", RuntimeMS: Int64Ptr(0)}
		data, err := json.Marshal(rec)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, float64(0), got["runtime_ms"])
	})
}

func TestUsageRecordValidate(t *testing.T) {
	t.Run("requires model", func(t *testing.T) {
		err := UsageRecord{TokensIn: 1, TokensOut: 1}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model")
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		err := UsageRecord{TokensIn: -1, TokensOut: 1, Model: "m"}.Validate()
		require.Error(t, err)
	})

	t.Run("accepts zero counts", func(t *testing.T) {
		require.NoError(t, UsageRecord{Model: "m"}.Validate())
	})
}

func TestUsageResultUnmarshalJSON(t *testing.T) {
	t.Run("empty object defaults every field", func(t *testing.T) {
		var result UsageResult
		require.NoError(t, json.Unmarshal([]byte(`{}`), &result))
		assert.False(t, result.Success)
		assert.Equal(t, "", result.RecordID)
		assert.Equal(t, 0.0, result.CostUSD)
	})

	t.Run("each field defaults independently", func(t *testing.T) {
		var result UsageResult
		require.NoError(t, json.Unmarshal([]byte(`{"record_id": "r9"}`), &result))
		assert.False(t, result.Success)
		assert.Equal(t, "r9", result.RecordID)
		assert.Equal(t, 0.0, result.CostUSD)
	})

	t.Run("full response", func(t *testing.T) {
		var result UsageResult
		require.NoError(t, json.Unmarshal([]byte(`{"success": true, "record_id": "r1", "cost_usd": 0.05}`), &result))
		assert.True(t, result.Success)
		assert.Equal(t, "r1", result.RecordID)
		assert.Equal(t, 0.05, result.CostUSD)
	})
}

func TestParseStopReason(t *testing.T) {
	assert.Equal(t, StopReasonEndTurn, ParseStopReason("stop"))
	assert.Equal(t, StopReasonMaxTokens, ParseStopReason("LENGTH"))
	assert.Equal(t, StopReasonToolUse, ParseStopReason("tool_calls"))
	assert.Equal(t, StopReason(""), ParseStopReason("  "))
	// Vendor-specific values pass through untouched.
	assert.Equal(t, StopReason("vendor_special"), ParseStopReason("vendor_special"))
}
