package health

import (
	"time"

	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
	"github.com/zircote/nsip-plugin/internal/resilience/metrics"
	"github.com/zircote/nsip-plugin/internal/resilience/tracker"
)

// Monitor derives a health report from failure-tracker state and cache
// stats. It performs no outbound calls: health is judged purely from what
// recent invocations persisted.
type Monitor struct {
	cfg     config.TrackerConfig
	tracker *tracker.Tracker
	cache   *fscache.Store

	now func() time.Time
}

// NewMonitor creates a monitor over the given tracker and cache.
func NewMonitor(cfg config.TrackerConfig, trk *tracker.Tracker, cache *fscache.Store) *Monitor {
	return &Monitor{cfg: cfg, tracker: trk, cache: cache, now: time.Now}
}

// Check computes the current health report.
//
// healthy:  fewer recent failures than the alert threshold
// degraded: threshold reached within the sliding window
// critical: an alert was raised within the cooldown period
func (m *Monitor) Check() Report {
	now := m.now().UTC()
	state := m.tracker.Snapshot()

	cutoff := now.Add(-m.cfg.Window)
	recent := 0
	for _, f := range state.Failures {
		if f.Timestamp.After(cutoff) {
			recent++
		}
	}

	status := StatusHealthy
	if recent >= m.cfg.Threshold {
		status = StatusDegraded
	}
	if state.LastAlert != nil && now.Sub(*state.LastAlert) < m.cfg.Cooldown {
		status = StatusCritical
	}

	stats := m.cache.Stats()
	metrics.CacheEntries.Set(float64(stats.Entries))

	return Report{
		Status:         status,
		RecentFailures: recent,
		WindowMinutes:  int(m.cfg.Window.Minutes()),
		Threshold:      m.cfg.Threshold,
		LastAlert:      state.LastAlert,
		Cache:          stats,
	}
}
