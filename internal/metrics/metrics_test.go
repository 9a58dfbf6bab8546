package metrics

import (
	"errors"
	"testing"
	"time"
)

type captureBackend struct {
	counters map[string]float64
	labels   map[string]Labels
}

func newCapture() *captureBackend {
	return &captureBackend{counters: map[string]float64{}, labels: map[string]Labels{}}
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.counters[name]++
	c.labels[name] = labels
}

func (c *captureBackend) Flush() error { return nil }

func install(t *testing.T, b Backend) {
	t.Helper()
	SetBackend(b)
	t.Cleanup(func() { SetBackend(nopBackend{}) })
}

func TestRecordStepLabelsStatus(t *testing.T) {
	c := newCapture()
	install(t, c)

	RecordStep("job1", "load", nil, 200*time.Millisecond)
	if got := c.labels["trip_ingest_step_total"]["status"]; got != "success" {
		t.Errorf("status = %q, want success", got)
	}

	RecordStep("job1", "load", errors.New("boom"), time.Millisecond)
	if got := c.labels["trip_ingest_step_total"]["status"]; got != "failure" {
		t.Errorf("status = %q, want failure", got)
	}
	if got := c.counters["trip_ingest_step_total"]; got != 2 {
		t.Errorf("step counter = %v, want 2", got)
	}
	if got := c.counters["trip_ingest_step_duration_seconds"]; got != 2 {
		t.Errorf("duration observations = %v, want 2", got)
	}
}

func TestRecordRowsSkipsZero(t *testing.T) {
	c := newCapture()
	install(t, c)

	RecordRows("job1", "read", 0)
	if got := c.counters["trip_ingest_rows_total"]; got != 0 {
		t.Errorf("zero rows should not be recorded, counter = %v", got)
	}

	RecordRows("job1", "read", 42)
	if got := c.counters["trip_ingest_rows_total"]; got != 42 {
		t.Errorf("rows counter = %v, want 42", got)
	}
	if got := c.labels["trip_ingest_rows_total"]["kind"]; got != "read" {
		t.Errorf("kind label = %q, want read", got)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	c := newCapture()
	install(t, c)

	SetBackend(nil)
	RecordChunk("job1")
	if got := c.counters["trip_ingest_chunks_total"]; got != 1 {
		t.Errorf("chunk counter = %v, want 1 (nil must not replace the backend)", got)
	}
}
