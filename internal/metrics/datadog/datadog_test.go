package datadog

import (
	"sort"
	"testing"

	"tripetl/internal/metrics"
)

func TestNewBackendAppliesOptions(t *testing.T) {
	t.Parallel()

	// DogStatsD is UDP; no agent needs to be listening.
	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:18125",
		Namespace:  "tripetl.",
		GlobalTags: []string{"env:test"},
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	t.Cleanup(func() { b.client.Close() })

	b.IncCounter("trip_ingest_chunks_total", 1, metrics.Labels{"job": "j"})
	b.ObserveHistogram("trip_ingest_step_duration_seconds", 0.25, metrics.Labels{"step": "load"})
	if err := b.Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
}

func TestNewBackendBareAddr(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(Config{Addr: "127.0.0.1:18125"})
	if err != nil {
		t.Fatalf("NewBackend without options: %v", err)
	}
	b.client.Close()
}

func TestNewBackendRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("empty Addr must be rejected")
	}
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	tags := labelsToTags(metrics.Labels{"job": "j", "kind": "read"})
	sort.Strings(tags)
	if len(tags) != 2 || tags[0] != "job:j" || tags[1] != "kind:read" {
		t.Errorf("tags = %v, want [job:j kind:read]", tags)
	}
}
