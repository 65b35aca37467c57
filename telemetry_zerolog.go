package tokentally

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologHooks returns TelemetryHooks that write SDK log entries and metrics
// to the given zerolog logger. Log entries map to info/error events; metrics
// are emitted at debug level with their labels as fields.
func ZerologHooks(logger zerolog.Logger) TelemetryHooks {
	return TelemetryHooks{
		OnLogEntry: func(_ context.Context, entry LogEntry) {
			evt := logger.Info()
			if entry.Level == LogLevelError {
				evt = logger.Error()
			}
			evt.Fields(entry.Fields).Msg(entry.Message)
		},
		OnMetric: func(_ context.Context, metric Metric) {
			evt := logger.Debug().Float64("value", metric.Value)
			for k, v := range metric.Labels {
				evt = evt.Str(k, v)
			}
			evt.Msg(metric.Name)
		},
	}
}
