// Package audit provides the append-only JSONL logs shared by every
// resilience component. One record per line; appends use O_APPEND so
// concurrent hook processes never truncate or interleave within a line.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Log stream names beneath the logs/ directory.
const (
	RetryLog      = "retry.log"
	FallbackLog   = "fallback.log"
	QueryLog      = "query.log"
	DetectionsLog = "detections.log"
)

// Logger appends JSON records to named log streams. All operations are
// best-effort: a failed append degrades auditing, never the caller.
type Logger struct {
	dir string
}

// NewLogger creates a logger writing beneath the given directory.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// Append writes one record as a single JSON line. Errors are absorbed
// and logged at debug; the returned error exists for tests only.
func (l *Logger) Append(stream string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		slog.Debug("audit append skipped", "stream", stream, "error", err)
		return err
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		slog.Debug("audit append skipped", "stream", stream, "error", err)
		return err
	}

	f, err := os.OpenFile(filepath.Join(l.dir, stream), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Debug("audit append skipped", "stream", stream, "error", err)
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	// Single write call: atomic for lines below the filesystem block size.
	if _, err := f.Write(append(data, '\n')); err != nil {
		slog.Debug("audit append failed", "stream", stream, "error", err)
		return err
	}
	return nil
}

// Tail returns up to n most recent records from a stream, oldest first.
// Unparseable lines are skipped.
func (l *Logger) Tail(stream string, n int) ([]json.RawMessage, error) {
	f, err := os.Open(filepath.Join(l.dir, stream))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open log %s: %w", stream, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !json.Valid(line) {
			continue
		}
		records = append(records, json.RawMessage(append([]byte(nil), line...)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log %s: %w", stream, err)
	}

	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
