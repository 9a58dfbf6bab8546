package config

import (
	"fmt"
	"strings"
)

// IssueSeverity classifies a configuration finding.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single static-validation finding. Path is a dotted path into the
// config (e.g. "storage.dsn").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error so a single Issue can be returned as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

var validUnits = map[string]bool{"auto": true, "km": true, "miles": true}

// ValidateRun performs static validation of a normalized Run. It does not
// mutate the run; callers decide whether warnings are fatal.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	errf := func(path, format string, a ...any) {
		issues = append(issues, Issue{SeverityError, path, fmt.Sprintf(format, a...)})
	}
	warnf := func(path, format string, a ...any) {
		issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf(format, a...)})
	}

	if strings.TrimSpace(r.Input.Path) == "" {
		errf("input.path", "input path is required")
	}
	if len(r.Input.Comma) > 1 {
		warnf("input.comma", "delimiter %q has multiple characters; only the first is used", r.Input.Comma)
	}

	if strings.TrimSpace(r.Storage.Kind) == "" {
		errf("storage.kind", "storage kind is required")
	}
	if strings.TrimSpace(r.Storage.DSN) == "" {
		errf("storage.dsn", "storage DSN is required")
	}
	if strings.ContainsAny(r.Storage.Table, " ;'\"") {
		errf("storage.table", "table name %q contains unsafe characters", r.Storage.Table)
	}

	if r.Runtime.ChunkSize <= 0 {
		errf("runtime.chunk_size", "chunk size must be > 0, got %d", r.Runtime.ChunkSize)
	}
	if r.Runtime.BatchSize <= 0 {
		errf("runtime.batch_size", "batch size must be > 0, got %d", r.Runtime.BatchSize)
	}
	if r.Runtime.BatchSize > r.Runtime.ChunkSize {
		warnf("runtime.batch_size", "batch size %d exceeds chunk size %d; each chunk flushes as one sub-batch",
			r.Runtime.BatchSize, r.Runtime.ChunkSize)
	}
	if !validUnits[r.Runtime.Units] {
		errf("runtime.units", "units must be auto, km, or miles; got %q", r.Runtime.Units)
	}

	if strings.TrimSpace(r.ExclusionLog) == "" {
		errf("exclusion_log", "exclusion log path is required")
	}

	return issues
}

// HasError reports whether any issue is of error severity.
func HasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
