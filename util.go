package tokentally

import "time"

// Int64Ptr is a convenience helper for optional int64 fields.
func Int64Ptr(v int64) *int64 { return &v }

// TimePtr is a convenience helper for optional timestamp fields.
func TimePtr(t time.Time) *time.Time { return &t }

// DurationPtr is a convenience helper for optional duration fields.
func DurationPtr(d time.Duration) *time.Duration { return &d }
