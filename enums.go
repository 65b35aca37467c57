package tokentally

import "strings"

// StopReason encodes the reason a generation ended, as reported by the
// upstream AI provider.
type StopReason string

const (
	StopReasonEndTurn       StopReason = "end_turn"
	StopReasonStopSequence  StopReason = "stop_sequence"
	StopReasonMaxTokens     StopReason = "max_tokens"
	StopReasonToolUse       StopReason = "tool_use"
	StopReasonContentFilter StopReason = "content_filter"
	StopReasonError         StopReason = "error"
)

// ParseStopReason normalizes known stop reasons while keeping vendor-specific
// values intact.
func ParseStopReason(val string) StopReason {
	normalized := strings.TrimSpace(strings.ToLower(val))
	switch normalized {
	case "":
		return ""
	case "end_turn", "stop":
		return StopReasonEndTurn
	case "stop_sequence":
		return StopReasonStopSequence
	case "max_tokens", "length", "max_len":
		return StopReasonMaxTokens
	case "tool_use", "tool_calls":
		return StopReasonToolUse
	case "content_filter":
		return StopReasonContentFilter
	case "error":
		return StopReasonError
	default:
		return StopReason(val)
	}
}
