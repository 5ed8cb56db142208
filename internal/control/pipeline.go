// Package control wires the resilience components together and runs the
// per-invocation decision flow: classify once, then cache write-through on
// success, or retry pacing + fallback + failure tracking on failure.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/infra/storage/audit"
	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
	"github.com/zircote/nsip-plugin/internal/resilience/classify"
	"github.com/zircote/nsip-plugin/internal/resilience/fallback"
	"github.com/zircote/nsip-plugin/internal/resilience/metrics"
	"github.com/zircote/nsip-plugin/internal/resilience/retry"
	"github.com/zircote/nsip-plugin/internal/resilience/tracker"
)

type queryRecord struct {
	InvocationID string         `json:"invocation_id"`
	Timestamp    time.Time      `json:"timestamp"`
	Tool         string         `json:"tool"`
	Parameters   map[string]any `json:"parameters"`
	Success      bool           `json:"success"`
	Error        string         `json:"error,omitempty"`
	ResultSize   int            `json:"result_size"`
	DurationMS   float64        `json:"duration_ms,omitempty"`
}

// Pipeline is one assembled resilience layer over a state root.
type Pipeline struct {
	cfg         *config.AppConfig
	cache       *fscache.Store
	log         *audit.Logger
	coordinator *retry.Coordinator
	supplier    *fallback.Supplier
	tracker     *tracker.Tracker

	// prober lets a host that can re-invoke the wrapped call feed fresh
	// outcomes into the retry loop. Nil by default: the coordinator then
	// always exhausts.
	prober retry.Prober

	now func() time.Time
}

// NewPipeline assembles the components beneath cfg.Root.
func NewPipeline(cfg *config.AppConfig) *Pipeline {
	log := audit.NewLogger(cfg.LogDir())
	cache := fscache.NewStore(cfg.CacheDir(), cfg.Cache.TTL)
	return &Pipeline{
		cfg:         cfg,
		cache:       cache,
		log:         log,
		coordinator: retry.NewCoordinator(cfg.Retry, log),
		supplier:    fallback.NewSupplier(cache, log),
		tracker:     tracker.NewTracker(cfg.Tracker, cfg.LogDir()),
		now:         time.Now,
	}
}

// SetProber installs a fresh-outcome source for the retry loop.
func (p *Pipeline) SetProber(probe retry.Prober) {
	p.prober = probe
}

// Audit exposes the audit logger for inspection tooling.
func (p *Pipeline) Audit() *audit.Logger {
	return p.log
}

// Process runs the decision flow for one completed call. It never fails
// the caller: malformed input and storage trouble degrade into metadata.
func (p *Pipeline) Process(ctx context.Context, input domain.HookInput) domain.Decision {
	invocationID := uuid.NewString()
	tool := input.Tool.Name

	if tool == "" {
		return domain.Decision{
			Continue: true,
			Metadata: map[string]any{"error": "malformed input: missing tool name"},
		}
	}

	verdict := classify.Classify(input.Result)
	logger := slog.With("invocation_id", invocationID, "tool", tool)

	p.logQuery(invocationID, input, verdict)

	meta := map[string]any{
		"invocation_id": invocationID,
		"failure":       verdict.Failure,
	}

	if verdict.Success() {
		metrics.CallsTotal.WithLabelValues(tool, "success").Inc()
		if p.cacheable(tool) {
			p.cache.Set(tool, input.Tool.Parameters, input.Result)
			metrics.CacheWritesTotal.WithLabelValues(tool).Inc()
			meta["cached"] = true
			meta["cache_stats"] = p.cache.Stats()
			logger.Debug("result cached")
		} else {
			meta["cached"] = false
			meta["reason"] = "operation not cacheable"
		}
		return domain.Decision{Continue: true, Metadata: meta}
	}

	metrics.CallsTotal.WithLabelValues(tool, "failure").Inc()
	metrics.FailuresTotal.WithLabelValues(tool, string(verdict.Kind)).Inc()
	logger.Warn("call failed", "kind", verdict.Kind, "reason", verdict.Reason)

	meta["error_reason"] = verdict.Reason
	meta["failure_kind"] = string(verdict.Kind)

	// The three consumers are independent functions of the same verdict;
	// none depends on another's outcome.
	retryRes := p.coordinator.Run(ctx, invocationID, tool, verdict, p.prober)
	fbRes := p.supplier.Handle(invocationID, tool, input.Tool.Parameters, verdict)
	trkRes := p.tracker.Track(tool, verdict)

	meta["retry_needed"] = retryRes.RetryNeeded
	meta["retry_count"] = retryRes.RetryCount
	meta["retry_status"] = retryRes.Status

	meta["fallback_used"] = fbRes.FallbackUsed
	if fbRes.FallbackUsed {
		meta["cached_at"] = fbRes.CachedAt.Format(time.RFC3339)
		meta["cache_age"] = fbRes.CacheAge
		meta["cached_result"] = fbRes.CachedResult
	} else if fbRes.Reason != "" {
		meta["fallback_reason"] = fbRes.Reason
	}

	meta["error_tracked"] = trkRes.ErrorTracked
	meta["recent_failure_count"] = trkRes.RecentFailureCount
	meta["alert_created"] = trkRes.AlertCreated
	if trkRes.AlertPath != "" {
		meta["alert_path"] = trkRes.AlertPath
	}

	return domain.Decision{
		Continue: true,
		Metadata: meta,
		Context:  p.buildContext(retryRes, trkRes),
		Warning:  fbRes.Message,
	}
}

// buildContext assembles the advisory message surfaced to the caller.
// The alert path must be included so an operator can locate the file.
func (p *Pipeline) buildContext(retryRes retry.Result, trkRes tracker.Result) string {
	var parts []string
	if retryRes.Message != "" {
		parts = append(parts, retryRes.Message)
	}
	if trkRes.AlertCreated {
		parts = append(parts, fmt.Sprintf(
			"ALERT: %d API failures detected. Alert file created at: %s",
			trkRes.RecentFailureCount, trkRes.AlertPath))
	}
	return strings.Join(parts, " ")
}

func (p *Pipeline) cacheable(tool string) bool {
	if len(p.cfg.Cache.Operations) == 0 {
		return true
	}
	base := strings.TrimPrefix(tool, "mcp__nsip__")
	for _, op := range p.cfg.Cache.Operations {
		if op == base || op == tool {
			return true
		}
	}
	return false
}

func (p *Pipeline) logQuery(invocationID string, input domain.HookInput, verdict domain.Verdict) {
	size := 0
	if data, err := json.Marshal(input.Result); err == nil {
		size = len(data)
	}
	_ = p.log.Append(audit.QueryLog, queryRecord{
		InvocationID: invocationID,
		Timestamp:    p.now().UTC(),
		Tool:         input.Tool.Name,
		Parameters:   input.Tool.Parameters,
		Success:      verdict.Success(),
		Error:        verdict.Reason,
		ResultSize:   size,
		DurationMS:   input.DurationMS,
	})
}
