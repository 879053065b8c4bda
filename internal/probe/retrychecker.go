package probe

import (
	"context"
	"time"
)

// RetryChecker wraps a Checker with caller-side retries. The inner checker
// still performs exactly one attempt per call.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, target string) Result {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last Result
	for i := 0; i < attempts; i++ {
		last = r.Inner.Check(ctx, target)
		if last.Succeeded {
			return last
		}
		// Configuration errors will not get better on retry.
		if last.Reason == ReasonConfigurationErr {
			return last
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return last
			case <-time.After(r.Backoff):
			}
		}
	}
	last.Message = last.Message + " (after retries)"
	return last
}
