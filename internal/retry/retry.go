// Package retry implements the cache engine's retry-on-hash-mismatch loop,
// scan-queue backoff, and per-item enrichment retries (spec §4.3.3,
// §4.4, §4.6), built on github.com/sethvargo/go-retry the way the teacher builds
// its Graph API retry loop around an exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/tonimelisma/musiccore/internal/coreerr"
)

// Policy mirrors the capability.RetryPolicy contract: max attempts, base
// and max delay, and whether backoff is exponential or constant.
type Policy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Exponential bool
}

// DefaultPolicy is used when a caller doesn't supply one: 3 attempts,
// 200ms base delay doubling up to 5s — the same shape as the teacher's
// Graph API 429/5xx retry loop.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    5 * time.Second,
	Exponential: true,
}

func (p Policy) backoff() retry.Backoff {
	var b retry.Backoff
	if p.Exponential {
		b = retry.NewExponential(p.BaseDelay)
	} else {
		b = retry.NewConstant(p.BaseDelay)
	}

	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}

	if p.MaxAttempts > 0 {
		b = retry.WithMaxRetries(p.MaxAttempts-1, b)
	}

	return b
}

// Do runs fn under the policy's backoff schedule. fn should return a
// coreerr.Error; Do wraps it as retryable automatically when
// coreerr.Retryable reports true, non-retryable errors abort immediately.
// Cancellation of ctx is surfaced as coreerr.ErrCancelled.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if coreerr.Retryable(err) {
				return retry.RetryableError(err)
			}

			return err
		}

		return nil
	})

	if ctx.Err() != nil {
		return coreerr.New(coreerr.KindCancelled, "retry: context done", ctx.Err())
	}

	return err
}

// BackoffDuration computes the visibility-timeout delay for a scan-queue
// item's nth retry: base·2^n capped at max (spec §4.3.3).
func BackoffDuration(p Policy, attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}

	return d
}
