// Package config defines the JSON-serializable run configuration for the
// ingestion binary. It is intentionally small and dependency-free: runs can
// be described in a JSON file, decoded by the standard library, and
// overridden by flags without additional glue.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults applied by Normalize when the corresponding field is zero.
const (
	DefaultChunkSize    = 200_000
	DefaultBatchSize    = 1_000
	DefaultExclusionLog = "data/logs/cleaning_log.csv"
	DefaultTable        = "trips"
	DefaultUnits        = "auto"
)

// Run describes one full ingestion run.
type Run struct {
	// Job names the run for logs and metrics grouping.
	Job string `json:"job"`

	// Input is the source dataset.
	Input Input `json:"input"`

	// Storage selects and parameterizes the destination sink.
	Storage Storage `json:"storage"`

	// Runtime controls chunking, batching, and optional stages.
	Runtime Runtime `json:"runtime"`

	// ExclusionLog is the append-only per-chunk audit file path.
	ExclusionLog string `json:"exclusion_log"`
}

// Input configures the delimited source file.
type Input struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`

	// Comma is the field delimiter; "," when empty. Only the first rune is
	// used.
	Comma string `json:"comma"`
}

// Storage configures the destination sink.
type Storage struct {
	// Kind selects the backend: "mysql", "postgres", "sqlite", "mssql".
	Kind string `json:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name; "trips" when empty.
	Table string `json:"table"`

	// CreateTable requests the idempotent schema bootstrap before loading.
	CreateTable bool `json:"create_table"`
}

// Runtime controls chunk/batch sizing and optional stages.
type Runtime struct {
	// ChunkSize is the source rows per chunk; 200000 when zero.
	ChunkSize int `json:"chunk_size"`

	// BatchSize is the rows per atomic insert sub-batch; 1000 when zero.
	BatchSize int `json:"batch_size"`

	// Units pins the distance unit decision: "auto" (per-chunk heuristic),
	// "km", or "miles".
	Units string `json:"units"`

	// Dedup enables the run-wide canonical-row dedup stage.
	Dedup bool `json:"dedup"`
}

// Load decodes a Run from a JSON file.
func Load(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var r Run
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return Run{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return r, nil
}

// Normalize fills zero-valued fields with defaults. It does not validate;
// see ValidateRun.
func (r *Run) Normalize() {
	if r.Job == "" {
		r.Job = "trip_ingest"
	}
	if r.Storage.Table == "" {
		r.Storage.Table = DefaultTable
	}
	if r.Runtime.ChunkSize == 0 {
		r.Runtime.ChunkSize = DefaultChunkSize
	}
	if r.Runtime.BatchSize == 0 {
		r.Runtime.BatchSize = DefaultBatchSize
	}
	if r.Runtime.Units == "" {
		r.Runtime.Units = DefaultUnits
	}
	if r.ExclusionLog == "" {
		r.ExclusionLog = DefaultExclusionLog
	}
}

// CommaRune returns the delimiter rune for the input.
func (i Input) CommaRune() rune {
	if i.Comma == "" {
		return ','
	}
	return []rune(i.Comma)[0]
}
