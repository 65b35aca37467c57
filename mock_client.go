package tokentally

import (
	"context"
	"sync"
)

// Tracker is the tracking surface shared by Client and MockTracker, for
// callers who want to swap in a test double.
type Tracker interface {
	Track(ctx context.Context, tokensIn, tokensOut int64, model string, opts ...TrackOption) (*UsageResult, error)
	TrackRecord(ctx context.Context, rec *UsageRecord) (*UsageResult, error)
}

var _ Tracker = (*Client)(nil)
var _ Tracker = (*MockTracker)(nil)

type mockTrackResult struct {
	result UsageResult
	err    error
}

// MockTracker provides an in-memory Tracker for unit tests without hitting
// the API. Responses are dequeued in FIFO order; when the queue is empty a
// generic success result is returned. Every accepted record is retained for
// inspection.
type MockTracker struct {
	mu      sync.Mutex
	queue   []mockTrackResult
	records []UsageRecord
}

// NewMockTracker creates an empty mock tracker.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// WithResult enqueues a result for the next Track/TrackRecord call.
func (m *MockTracker) WithResult(result UsageResult) *MockTracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockTrackResult{result: result})
	return m
}

// WithError enqueues an error for the next Track/TrackRecord call.
func (m *MockTracker) WithError(err error) *MockTracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockTrackResult{err: err})
	return m
}

// Records returns a copy of every record accepted so far.
func (m *MockTracker) Records() []UsageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]UsageRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Track implements Tracker.
func (m *MockTracker) Track(_ context.Context, tokensIn, tokensOut int64, model string, opts ...TrackOption) (*UsageResult, error) {
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
	return m.accept(rec)
}

// TrackRecord implements Tracker.
func (m *MockTracker) TrackRecord(_ context.Context, rec *UsageRecord) (*UsageResult, error) {
	if rec == nil {
		return nil, ConfigError{Reason: "usage record is required"}
	}
	return m.accept(*rec)
}

func (m *MockTracker) accept(rec UsageRecord) (*UsageResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var next mockTrackResult
	if len(m.queue) > 0 {
		next = m.queue[0]
		m.queue = m.queue[1:]
	} else {
		next = mockTrackResult{result: UsageResult{Success: true, RecordID: "mock"}}
	}
	if next.err != nil {
		return nil, next.err
	}
	m.records = append(m.records, rec)
	result := next.result
	return &result, nil
}
