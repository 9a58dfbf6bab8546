// Package skiplog persists the per-chunk exclusion audit trail: one row per
// processed chunk with the excluded count and a representative reason. The
// log is append-only; prior entries are never rewritten or truncated, so the
// file accumulates across runs as a durable diagnostic trail.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// header is written once, only when the file is first created.
var header = []string{"chunk_index", "excluded_count", "sample_reason"}

// Logger appends chunk audit rows to a CSV file.
type Logger struct {
	f *os.File
	w *csv.Writer
}

// Open prepares the log at path, creating parent directories and writing the
// header row when the file does not exist yet. Existing content is preserved.
func Open(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("skiplog: create dir %s: %w", dir, err)
		}
	}

	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("skiplog: open %s: %w", path, err)
	}

	l := &Logger{f: f, w: csv.NewWriter(f)}
	if fresh {
		if err := l.w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("skiplog: write header: %w", err)
		}
		l.w.Flush()
		if err := l.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("skiplog: flush header: %w", err)
		}
	}
	return l, nil
}

// Append writes one audit row and flushes it to the file. sampleReason is the
// first rejected row's joined reasons for the chunk, or "" when the chunk had
// no exclusions.
func (l *Logger) Append(chunkIndex, excludedCount int, sampleReason string) error {
	row := []string{strconv.Itoa(chunkIndex), strconv.Itoa(excludedCount), sampleReason}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("skiplog: append chunk %d: %w", chunkIndex, err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("skiplog: flush chunk %d: %w", chunkIndex, err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (l *Logger) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
