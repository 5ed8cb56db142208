// Package tracker maintains a sliding time-window count of failures and
// raises deduplicated operator alerts when a threshold is crossed.
package tracker

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/resilience/metrics"
)

const stateFile = "error_tracker.state"

// Result reports what the tracker did with one verdict.
type Result struct {
	ErrorTracked       bool
	RecentFailureCount int
	AlertCreated       bool
	AlertPath          string
	Threshold          int
}

// Tracker persists failure state beneath a single log directory. The
// state file is read-modify-write: concurrent hook processes can race and
// undercount, an accepted bounded-accuracy tradeoff for alerting.
type Tracker struct {
	cfg config.TrackerConfig
	dir string

	now func() time.Time
}

// NewTracker creates a tracker writing state and alerts beneath dir.
func NewTracker(cfg config.TrackerConfig, dir string) *Tracker {
	return &Tracker{cfg: cfg, dir: dir, now: time.Now}
}

// Track records a failure verdict, prunes the sliding window, and writes
// an alert when the threshold is crossed outside the cooldown. Success
// verdicts never touch state.
func (t *Tracker) Track(tool string, verdict domain.Verdict) Result {
	if verdict.Success() {
		return Result{ErrorTracked: false}
	}

	now := t.now().UTC()
	state := t.loadState()

	// Drop entries outside the window before appending the new one.
	cutoff := now.Add(-t.cfg.Window)
	recent := state.Failures[:0]
	for _, f := range state.Failures {
		if f.Timestamp.After(cutoff) {
			recent = append(recent, f)
		}
	}
	state.Failures = append(recent, domain.FailureRecord{
		Timestamp: now,
		Tool:      tool,
		Reason:    verdict.Reason,
	})

	shouldAlert := len(state.Failures) >= t.cfg.Threshold &&
		(state.LastAlert == nil || now.Sub(*state.LastAlert) >= t.cfg.Cooldown)

	alertPath := ""
	if shouldAlert {
		alertPath = t.writeAlert(now, state.Failures)
		alertTime := now
		state.LastAlert = &alertTime
		if alertPath != "" {
			metrics.AlertsTotal.Inc()
		}
	}

	t.saveState(state)

	return Result{
		ErrorTracked:       true,
		RecentFailureCount: len(state.Failures),
		AlertCreated:       alertPath != "",
		AlertPath:          alertPath,
		Threshold:          t.cfg.Threshold,
	}
}

// Snapshot returns the persisted state without mutating it. Used by the
// health monitor.
func (t *Tracker) Snapshot() domain.TrackerState {
	return t.loadState()
}

// loadState reads the persisted state; any error yields a fresh state.
func (t *Tracker) loadState() domain.TrackerState {
	data, err := os.ReadFile(filepath.Join(t.dir, stateFile))
	if err != nil {
		return domain.TrackerState{}
	}

	var state domain.TrackerState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Debug("tracker state unreadable, starting fresh", "error", err)
		return domain.TrackerState{}
	}
	return state
}

// saveState persists state via temp file + rename, best-effort.
func (t *Tracker) saveState(state domain.TrackerState) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		slog.Debug("tracker state save skipped", "error", err)
		return
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		slog.Debug("tracker state save skipped", "error", err)
		return
	}

	tmp, err := os.CreateTemp(t.dir, stateFile+".tmp-")
	if err != nil {
		slog.Debug("tracker state save skipped", "error", err)
		return
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		slog.Debug("tracker state save failed", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		slog.Debug("tracker state save failed", "error", err)
		return
	}
	if err := os.Rename(tmp.Name(), filepath.Join(t.dir, stateFile)); err != nil {
		_ = os.Remove(tmp.Name())
		slog.Debug("tracker state save failed", "error", err)
	}
}
