package llm

import (
	"context"
	"math/rand"
	"time"

	"github.com/KarakuriAgent/clawdroid/pkg/providers"
)

// RetryPolicy defines per-attempt timeouts and backoffs for model calls.
// The number of attempt timeouts is the attempt budget.
type RetryPolicy struct {
	AttemptTimeouts []time.Duration
	Backoffs        []time.Duration
	MaxElapsed      time.Duration
	MaxJitter       time.Duration
}

// DefaultRetryPolicy returns the default retry behavior for model calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		AttemptTimeouts: []time.Duration{45 * time.Second, 90 * time.Second, 120 * time.Second},
		Backoffs:        []time.Duration{2 * time.Second, 5 * time.Second},
		MaxElapsed:      180 * time.Second,
		MaxJitter:       500 * time.Millisecond,
	}
}

// doWithRetry executes fn under the policy, retrying only errors whose
// classification is retryable. The last error is returned as-is so
// callers can classify it themselves.
func doWithRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) (string, error)) (string, error) {
	if len(policy.AttemptTimeouts) == 0 {
		return fn(ctx)
	}

	runCtx := ctx
	cancelRun := func() {}
	if policy.MaxElapsed > 0 {
		runCtx, cancelRun = context.WithTimeout(ctx, policy.MaxElapsed)
	}
	defer cancelRun()

	var lastErr error
	total := len(policy.AttemptTimeouts)
	for attempt := 0; attempt < total; attempt++ {
		if err := runCtx.Err(); err != nil {
			return "", err
		}

		attemptCtx := runCtx
		cancelAttempt := func() {}
		if timeout := policy.AttemptTimeouts[attempt]; timeout > 0 {
			attemptCtx, cancelAttempt = context.WithTimeout(runCtx, timeout)
		}

		text, err := fn(attemptCtx)
		cancelAttempt()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt == total-1 {
			break
		}
		classified := providers.ClassifyError(err)
		if !classified.Reason.Retryable() {
			break
		}

		if delay := backoffDelay(policy, attempt); delay > 0 {
			if err := sleepCtx(runCtx, delay); err != nil {
				return "", err
			}
		}
	}

	return "", lastErr
}

func backoffDelay(policy RetryPolicy, attempt int) time.Duration {
	if attempt < 0 || attempt >= len(policy.Backoffs) {
		return 0
	}
	base := policy.Backoffs[attempt]
	if base <= 0 {
		return 0
	}
	if policy.MaxJitter <= 0 {
		return base
	}
	//nolint:gosec // Backoff jitter only.
	return base + time.Duration(rand.Int63n(int64(policy.MaxJitter)+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
