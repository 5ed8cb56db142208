package fallback

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/infra/storage/audit"
	"github.com/zircote/nsip-plugin/internal/infra/storage/fscache"
)

func failureVerdict() domain.Verdict {
	return domain.Verdict{Failure: true, Kind: domain.FailureExplicit, Reason: "down"}
}

func TestSupplier_NoFailureNoFallback(t *testing.T) {
	cache := fscache.NewStore(t.TempDir(), time.Hour)
	s := NewSupplier(cache, audit.NewLogger(t.TempDir()))

	res := s.Handle("inv-1", "nsip_search", nil, domain.Verdict{})

	if res.FallbackUsed {
		t.Error("expected no fallback for a success verdict")
	}
}

func TestSupplier_MissLogsAndReports(t *testing.T) {
	cache := fscache.NewStore(t.TempDir(), time.Hour)
	log := audit.NewLogger(t.TempDir())
	s := NewSupplier(cache, log)

	res := s.Handle("inv-2", "nsip_get_animal", map[string]any{"id": "X1"}, failureVerdict())

	if res.FallbackUsed {
		t.Error("expected no fallback without cached data")
	}
	if res.Reason != "No cached data available" {
		t.Errorf("unexpected reason %q", res.Reason)
	}

	records, err := log.Tail(audit.FallbackLog, 0)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one miss record, got %d (err %v)", len(records), err)
	}
	var rec logRecord
	if err := json.Unmarshal(records[0], &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if rec.Status != statusNoCacheAvailable {
		t.Errorf("expected no_cache_available, got %s", rec.Status)
	}
}

func TestSupplier_ServesCachedData(t *testing.T) {
	cache := fscache.NewStore(t.TempDir(), time.Hour)
	log := audit.NewLogger(t.TempDir())
	s := NewSupplier(cache, log)

	params := map[string]any{"id": "X1"}
	cache.Set("nsip_get_animal", params, domain.Outcome{Content: []domain.ContentItem{{Text: "Dorset ewe"}}})

	res := s.Handle("inv-3", "nsip_get_animal", params, failureVerdict())

	if !res.FallbackUsed {
		t.Fatal("expected fallback to serve cached data")
	}
	if res.CachedResult == nil || res.CachedResult.Content[0].Text != "Dorset ewe" {
		t.Errorf("unexpected cached result %+v", res.CachedResult)
	}
	if !strings.Contains(res.Message, "Data may be outdated") {
		t.Errorf("message must warn about staleness, got %q", res.Message)
	}

	records, err := log.Tail(audit.FallbackLog, 0)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one usage record, got %d (err %v)", len(records), err)
	}
	var rec logRecord
	if err := json.Unmarshal(records[0], &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if rec.Status != statusFallbackUsed || rec.CacheAge == "" {
		t.Errorf("unexpected usage record %+v", rec)
	}
}

func TestSupplier_ReportsAge(t *testing.T) {
	cache := fscache.NewStore(t.TempDir(), 2*time.Hour)
	s := NewSupplier(cache, audit.NewLogger(t.TempDir()))

	params := map[string]any{"id": "X1"}
	cache.Set("nsip_get_animal", params, domain.Outcome{Content: []domain.ContentItem{{Text: "data"}}})

	s.now = func() time.Time { return time.Now().Add(90 * time.Minute) }
	res := s.Handle("inv-4", "nsip_get_animal", params, failureVerdict())

	if !res.FallbackUsed {
		t.Fatal("expected fallback hit")
	}
	if res.CacheAge != "1 hour(s) old" {
		t.Errorf("expected 1 hour(s) old, got %q", res.CacheAge)
	}
}

func TestAgeString(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want string
	}{
		{5 * time.Minute, "5 minute(s) old"},
		{59 * time.Minute, "59 minute(s) old"},
		{60 * time.Minute, "1 hour(s) old"},
		{90 * time.Minute, "1 hour(s) old"},
		{3 * time.Hour, "3 hour(s) old"},
		{30 * time.Second, "0 minute(s) old"},
	}

	for _, tc := range cases {
		if got := AgeString(tc.age); got != tc.want {
			t.Errorf("AgeString(%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}
