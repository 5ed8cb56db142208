// Package fscache is the filesystem-backed result cache: one file per
// entry, keyed by fingerprint, with lazy TTL expiry. The cache is strictly
// best-effort; the wrapped operation never depends on its availability.
package fscache

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zircote/nsip-plugin/internal/core/domain"
	"github.com/zircote/nsip-plugin/internal/resilience/fingerprint"
)

const entryExt = ".entry"

// Stats summarizes the cache contents.
type Stats struct {
	Entries        int    `json:"entries"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	Dir            string `json:"cache_dir"`
}

// Store caches call results beneath a single directory.
type Store struct {
	dir string
	ttl time.Duration

	now func() time.Time // injectable for tests
}

// NewStore creates a store rooted at dir with the given entry TTL.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// Get returns the cached entry for (tool, params) if present and not
// expired. Expired entries are deleted on read. Any read or parse error
// is a miss.
func (s *Store) Get(tool string, params map[string]any) (*domain.CacheEntry, bool) {
	path := s.entryPath(fingerprint.Fingerprint(tool, params))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Debug("cache entry unreadable, treating as miss", "path", path, "error", err)
		return nil, false
	}

	if entry.Expired(s.now()) {
		_ = os.Remove(path)
		return nil, false
	}

	return &entry, true
}

// Set writes the entry for (tool, params), overwriting any previous one.
// The entry is written to a temporary file and renamed so concurrent
// readers never observe a partial write. Silent no-op on failure.
func (s *Store) Set(tool string, params map[string]any, result domain.Outcome) {
	fp := fingerprint.Fingerprint(tool, params)
	entry := domain.CacheEntry{
		Fingerprint: fp,
		Tool:        tool,
		Parameters:  params,
		Result:      result,
		CachedAt:    s.now().UTC(),
		TTLSeconds:  int64(s.ttl.Seconds()),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		slog.Debug("cache set skipped", "tool", tool, "error", err)
		return
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		slog.Debug("cache set skipped", "tool", tool, "error", err)
		return
	}

	tmp, err := os.CreateTemp(s.dir, fp+".tmp-")
	if err != nil {
		slog.Debug("cache set skipped", "tool", tool, "error", err)
		return
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		slog.Debug("cache set failed", "tool", tool, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		slog.Debug("cache set failed", "tool", tool, "error", err)
		return
	}

	if err := os.Rename(tmp.Name(), s.entryPath(fp)); err != nil {
		_ = os.Remove(tmp.Name())
		slog.Debug("cache set failed", "tool", tool, "error", err)
	}
}

// Clear deletes all cache entries, best-effort.
func (s *Store) Clear() {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+entryExt))
	if err != nil {
		return
	}
	for _, path := range matches {
		_ = os.Remove(path)
	}
}

// Stats returns entry count and total size of the cache directory.
func (s *Store) Stats() Stats {
	stats := Stats{Dir: s.dir}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+entryExt))
	if err != nil {
		return stats
	}
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalSizeBytes += info.Size()
	}
	return stats
}

func (s *Store) entryPath(fp string) string {
	return filepath.Join(s.dir, fp+entryExt)
}
