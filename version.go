package tokentally

// Version is the published SDK version.
// 0.3.0: Add Tracker interface, MockTracker test double, and ZerologHooks telemetry adapter.
// 0.2.0: Breaking - TrackUsage takes the scoped block as func(*UsageContext) error and
// returns the context for result inspection; SetUsage stop reason is now a typed StopReason.
// 0.1.0: Initial release: Track, TrackRecord, TrackUsage against POST /api/usage.
const Version = "0.3.0"
