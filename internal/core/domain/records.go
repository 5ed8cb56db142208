package domain

import "time"

// CacheEntry is one cached call result, stored as a single file keyed
// by fingerprint.
type CacheEntry struct {
	Fingerprint string         `json:"fingerprint"`
	Tool        string         `json:"tool"`
	Parameters  map[string]any `json:"parameters"`
	Result      Outcome        `json:"result"`
	CachedAt    time.Time      `json:"cached_at"`
	TTLSeconds  int64          `json:"ttl_seconds"`
}

// Expired reports whether the entry is older than its TTL at the given time.
func (e CacheEntry) Expired(now time.Time) bool {
	return now.Sub(e.CachedAt) > time.Duration(e.TTLSeconds)*time.Second
}

// FailureRecord is one observed failure, kept in the tracker's sliding
// window and in the audit logs.
type FailureRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Reason    string    `json:"error_reason"`
}

// TrackerState is the persisted state of the failure tracker.
type TrackerState struct {
	Failures  []FailureRecord `json:"failures"`
	LastAlert *time.Time      `json:"last_alert,omitempty"`
}

// Retry attempt statuses as written to the retry audit log.
const (
	RetryStatusInitialFailure = "initial_failure"
	RetryStatusRetrying       = "retrying"
	RetryStatusSucceeded      = "retry_succeeded"
	RetryStatusExhausted      = "retries_exhausted"
)

// RetryAttemptRecord is one entry in the retry audit log. Attempt and
// BackoffSeconds are zero for the initial-failure and terminal records.
type RetryAttemptRecord struct {
	InvocationID   string    `json:"invocation_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Tool           string    `json:"tool"`
	Attempt        int       `json:"attempt,omitempty"`
	BackoffSeconds float64   `json:"backoff_seconds,omitempty"`
	MaxRetries     int       `json:"max_retries,omitempty"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	Status         string    `json:"status"`
}
