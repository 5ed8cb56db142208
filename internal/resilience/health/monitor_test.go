package health

import (
	"testing"
	"time"

	"github.com/zircote/nsip-plugin/internal/core/config"
	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
	"github.com/zircote/nsip-plugin/internal/resilience/tracker"
)

func testConfig() config.TrackerConfig {
	return config.TrackerConfig{
		Window:    5 * time.Minute,
		Threshold: 3,
		Cooldown:  10 * time.Minute,
	}
}

func TestMonitor_HealthyWhenQuiet(t *testing.T) {
	cfg := testConfig()
	trk := tracker.NewTracker(cfg, t.TempDir())
	cache := fscache.NewStore(t.TempDir(), time.Hour)

	report := NewMonitor(cfg, trk, cache).Check()

	if report.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	if report.RecentFailures != 0 {
		t.Errorf("expected no recent failures, got %d", report.RecentFailures)
	}
}

func TestMonitor_DegradedAtThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Threshold = 100 // keep the tracker itself from alerting
	trk := tracker.NewTracker(cfg, t.TempDir())
	cache := fscache.NewStore(t.TempDir(), time.Hour)

	for i := 0; i < 3; i++ {
		trk.Track("nsip_search", domain.Verdict{Failure: true, Reason: "down"})
	}

	checkCfg := testConfig() // threshold 3
	report := NewMonitor(checkCfg, trk, cache).Check()

	if report.Status != StatusDegraded {
		t.Errorf("expected degraded at threshold, got %s", report.Status)
	}
	if report.RecentFailures != 3 {
		t.Errorf("expected 3 recent failures, got %d", report.RecentFailures)
	}
}

func TestMonitor_CriticalDuringCooldown(t *testing.T) {
	cfg := testConfig()
	trk := tracker.NewTracker(cfg, t.TempDir())
	cache := fscache.NewStore(t.TempDir(), time.Hour)

	// Trip the alert.
	for i := 0; i < 3; i++ {
		trk.Track("nsip_search", domain.Verdict{Failure: true, Reason: "down"})
	}

	report := NewMonitor(cfg, trk, cache).Check()

	if report.Status != StatusCritical {
		t.Errorf("expected critical within cooldown of an alert, got %s", report.Status)
	}
	if report.LastAlert == nil {
		t.Error("expected last alert timestamp in report")
	}
}

func TestMonitor_ReportsCacheStats(t *testing.T) {
	cfg := testConfig()
	trk := tracker.NewTracker(cfg, t.TempDir())
	cache := fscache.NewStore(t.TempDir(), time.Hour)
	cache.Set("nsip_get_animal", map[string]any{"id": "X1"},
		domain.Outcome{Content: []domain.ContentItem{{Text: "data"}}})

	report := NewMonitor(cfg, trk, cache).Check()

	if report.Cache.Entries != 1 {
		t.Errorf("expected 1 cache entry in report, got %d", report.Cache.Entries)
	}
}
