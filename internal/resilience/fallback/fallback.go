// Package fallback substitutes previously cached results when a live
// call fails.
package fallback

import (
	"fmt"
	"time"

	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/infra/storage/audit"
	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
	"github.com/zircote/nsip-plugin/internal/resilience/metrics"
)

// Statuses written to the fallback audit log.
const (
	statusNoCacheAvailable = "no_cache_available"
	statusFallbackUsed     = "fallback_used"
)

// Result is the supplier's decision for one failed call.
type Result struct {
	FallbackUsed bool
	Reason       string
	CachedAt     time.Time
	CacheAge     string
	CachedResult *domain.Outcome
	Message      string
}

type logRecord struct {
	InvocationID string         `json:"invocation_id,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Tool         string         `json:"tool"`
	Parameters   map[string]any `json:"parameters"`
	CachedAt     *time.Time     `json:"cached_at,omitempty"`
	CacheAge     string         `json:"cache_age,omitempty"`
	Status       string         `json:"status"`
}

// Supplier serves stale cached data on failure verdicts.
type Supplier struct {
	cache *fscache.Store
	log   *audit.Logger

	now func() time.Time
}

// NewSupplier creates a supplier reading from cache and logging through log.
func NewSupplier(cache *fscache.Store, log *audit.Logger) *Supplier {
	return &Supplier{cache: cache, log: log, now: time.Now}
}

// Handle looks up cached data for a failed call. TTL expiry is handled
// inside the cache store; a miss here means no usable entry at all.
func (s *Supplier) Handle(invocationID, tool string, params map[string]any, verdict domain.Verdict) Result {
	if verdict.Success() {
		return Result{FallbackUsed: false}
	}

	entry, ok := s.cache.Get(tool, params)
	if !ok {
		_ = s.log.Append(audit.FallbackLog, logRecord{
			InvocationID: invocationID,
			Timestamp:    s.now().UTC(),
			Tool:         tool,
			Parameters:   params,
			Status:       statusNoCacheAvailable,
		})
		metrics.FallbacksTotal.WithLabelValues(tool, "false").Inc()
		return Result{FallbackUsed: false, Reason: "No cached data available"}
	}

	age := AgeString(s.now().Sub(entry.CachedAt))

	_ = s.log.Append(audit.FallbackLog, logRecord{
		InvocationID: invocationID,
		Timestamp:    s.now().UTC(),
		Tool:         tool,
		Parameters:   params,
		CachedAt:     &entry.CachedAt,
		CacheAge:     age,
		Status:       statusFallbackUsed,
	})
	metrics.FallbacksTotal.WithLabelValues(tool, "true").Inc()

	result := entry.Result
	return Result{
		FallbackUsed: true,
		CachedAt:     entry.CachedAt,
		CacheAge:     age,
		CachedResult: &result,
		Message: fmt.Sprintf(
			"Warning: API call failed. Using cached data from %s (%s). Data may be outdated.",
			entry.CachedAt.Format(time.RFC3339), age),
	}
}

// AgeString renders an entry age in minutes, switching to hours at 60.
func AgeString(age time.Duration) string {
	minutes := int(age.Minutes())
	if hours := minutes / 60; hours > 0 {
		return fmt.Sprintf("%d hour(s) old", hours)
	}
	return fmt.Sprintf("%d minute(s) old", minutes)
}
