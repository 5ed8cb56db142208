// Package retry paces reattempts after a failure verdict and records the
// attempt history. The coordinator cannot re-invoke the wrapped call; unless
// the host environment supplies a fresh outcome it always exhausts.
package retry

import (
	"context"
	"fmt"
	"time"

	sretry "github.com/sethvargo/go-retry"

	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/infra/storage/audit"
	"github.com/zircote/nsip-plugin/internal/resilience/classify"
	"github.com/zircote/nsip-plugin/internal/resilience/metrics"
)

// Terminal statuses reported to the caller.
const (
	StatusSucceeded = "succeeded"
	StatusExhausted = "exhausted"
)

// Result is the coordinator's advisory output.
type Result struct {
	RetryNeeded bool
	RetryCount  int
	Status      string
	Message     string
}

// Prober supplies a fresh outcome for a retry attempt when the host
// environment performed the actual re-invocation. A nil return means no
// new outcome is available for that attempt.
type Prober func(attempt int) *domain.Outcome

// Coordinator runs the attempt loop for one failed call.
type Coordinator struct {
	cfg config.RetryConfig
	log *audit.Logger

	now func() time.Time
}

// NewCoordinator creates a coordinator writing attempt records through log.
func NewCoordinator(cfg config.RetryConfig, log *audit.Logger) *Coordinator {
	return &Coordinator{cfg: cfg, log: log, now: time.Now}
}

// Run executes the retry loop for a failure verdict. Each attempt blocks
// for its scheduled backoff, then is recorded with status "retrying". If
// probe yields an outcome that classifies as success the run ends
// "succeeded"; otherwise it ends "exhausted" after the configured maximum.
// A cancelled context cuts the current wait short but the loop still
// terminates through the normal exhausted path.
func (c *Coordinator) Run(ctx context.Context, invocationID, tool string, verdict domain.Verdict, probe Prober) Result {
	if verdict.Success() {
		return Result{RetryNeeded: false}
	}

	_ = c.log.Append(audit.RetryLog, domain.RetryAttemptRecord{
		InvocationID:  invocationID,
		Timestamp:     c.now().UTC(),
		Tool:          tool,
		FailureReason: verdict.Reason,
		Status:        domain.RetryStatusInitialFailure,
	})

	backoff := c.schedule()
	attempt := 0
	for {
		delay, stop := backoff.Next()
		if stop {
			break
		}
		attempt++

		if delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}

		_ = c.log.Append(audit.RetryLog, domain.RetryAttemptRecord{
			InvocationID:   invocationID,
			Timestamp:      c.now().UTC(),
			Tool:           tool,
			Attempt:        attempt,
			BackoffSeconds: delay.Seconds(),
			Status:         domain.RetryStatusRetrying,
		})
		metrics.RetryAttemptsTotal.WithLabelValues(tool).Inc()

		if probe != nil {
			if fresh := probe(attempt); fresh != nil && classify.Classify(*fresh).Success() {
				_ = c.log.Append(audit.RetryLog, domain.RetryAttemptRecord{
					InvocationID: invocationID,
					Timestamp:    c.now().UTC(),
					Tool:         tool,
					Attempt:      attempt,
					Status:       domain.RetryStatusSucceeded,
				})
				return Result{
					RetryNeeded: true,
					RetryCount:  attempt,
					Status:      StatusSucceeded,
					Message:     fmt.Sprintf("Note: API call succeeded after %d retry attempt(s)", attempt),
				}
			}
		}
	}

	_ = c.log.Append(audit.RetryLog, domain.RetryAttemptRecord{
		InvocationID: invocationID,
		Timestamp:    c.now().UTC(),
		Tool:         tool,
		MaxRetries:   c.cfg.MaxAttempts,
		Status:       domain.RetryStatusExhausted,
	})

	return Result{
		RetryNeeded: true,
		RetryCount:  attempt,
		Status:      StatusExhausted,
		Message:     fmt.Sprintf("Warning: API call failed after %d retry attempt(s). Using original result.", attempt),
	}
}

// schedule builds the fixed backoff: delays come from the configured
// slice indexed by attempt, zero past the end, capped at max attempts.
func (c *Coordinator) schedule() sretry.Backoff {
	next := 0
	fixed := sretry.BackoffFunc(func() (time.Duration, bool) {
		var delay time.Duration
		if next < len(c.cfg.Backoff) {
			delay = c.cfg.Backoff[next]
		}
		next++
		return delay, false
	})
	return sretry.WithMaxRetries(uint64(c.cfg.MaxAttempts), fixed)
}
