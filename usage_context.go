package tokentally

import (
	"context"
	"fmt"
	"time"
)

// UsageContext accumulates usage details during one TrackUsage scope. It is
// owned by a single scope invocation and must not be reused after the scope
// returns.
type UsageContext struct {
	client   *Client
	model    string
	provider string
	metadata map[string]any

	tokensIn     *int64
	tokensOut    *int64
	stopReason   StopReason
	errorMessage string
	runtimeMS    *int64

	result *UsageResult
}

// SetUsage records the token counts observed inside the scope, with an
// optional stop reason. May be called any number of times; only the last
// call's values are kept, and at most one record is sent per scope.
func (u *UsageContext) SetUsage(tokensIn, tokensOut int64, stopReason ...StopReason) {
	u.tokensIn = Int64Ptr(tokensIn)
	u.tokensOut = Int64Ptr(tokensOut)
	u.stopReason = ""
	if len(stopReason) > 0 {
		u.stopReason = stopReason[0]
	}
}

// Result returns the service's acknowledgment once the scope has closed and
// a record was actually sent; nil otherwise.
func (u *UsageContext) Result() *UsageResult { return u.result }

// RuntimeMS returns the measured wall-clock duration in milliseconds once
// the scope has closed; nil while the scope is still open.
func (u *UsageContext) RuntimeMS() *int64 { return u.runtimeMS }

func (u *UsageContext) sendable() bool {
	return u.tokensIn != nil && u.tokensOut != nil
}

func (u *UsageContext) flush(ctx context.Context) error {
	if u.result != nil {
		return nil
	}
	now := time.Now().UTC()
	rec := UsageRecord{
		TokensIn:     *u.tokensIn,
		TokensOut:    *u.tokensOut,
		Model:        u.model,
		Provider:     u.provider,
		RuntimeMS:    u.runtimeMS,
		StopReason:   u.stopReason,
		ErrorMessage: u.errorMessage,
		Metadata:     u.metadata,
		Timestamp:    &now,
	}
	result, err := u.client.sendUsage(ctx, rec)
	if err != nil {
		return err
	}
	u.result = result
	return nil
}

// TrackUsage wraps a third-party API call in a scoped measurement: it times
// fn's execution and, if fn reported token counts via SetUsage, sends exactly
// one usage record when fn returns. When SetUsage was never called nothing is
// sent and no error is reported for the skipped send.
//
// fn's own failure always takes precedence: its error is returned unchanged
// (with its message attached to the record as error_message), and a panic
// propagates after a best-effort send. A send failure is returned only when
// fn itself succeeded. The returned UsageContext exposes the send result and
// measured runtime; it is also returned on failure so partial state can be
// inspected.
func (c *Client) TrackUsage(ctx context.Context, model string, fn func(*UsageContext) error, opts ...TrackOption) (uc *UsageContext, err error) {
	template := UsageRecord{Provider: DefaultProvider}
	for _, opt := range opts {
		if opt != nil {
			opt(&template)
		}
	}
	uc = &UsageContext{
		client:   c,
		model:    model,
		provider: template.Provider,
		metadata: copyMetadata(template.Metadata),
	}
	start := time.Now()
	// Scope-exit cleanup: runs on normal return, error return, and panic.
	defer func() {
		uc.runtimeMS = Int64Ptr(time.Since(start).Milliseconds())
		if r := recover(); r != nil {
			uc.errorMessage = fmt.Sprint(r)
			if uc.sendable() {
				_ = uc.flush(ctx)
			}
			panic(r)
		}
		if !uc.sendable() {
			return
		}
		flushErr := uc.flush(ctx)
		if err == nil {
			err = flushErr
		}
	}()
	err = fn(uc)
	if err != nil {
		uc.errorMessage = err.Error()
	}
	return uc, err
}
