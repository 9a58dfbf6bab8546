package skiplog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse log: %v", err)
	}
	return rows
}

func TestAppendAndHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "cleaning_log.csv")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.Append(1, 2, "dropoff_before_pickup;invalid_duration"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(2, 0, ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := [][]string{
		{"chunk_index", "excluded_count", "sample_reason"},
		{"1", "2", "dropoff_before_pickup;invalid_duration"},
		{"2", "0", ""},
	}
	if got := readAll(t, path); !reflect.DeepEqual(got, want) {
		t.Errorf("log rows = %v, want %v", got, want)
	}
}

func TestReopenAppendsWithoutSecondHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cleaning_log.csv")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := l.Append(1, 3, "invalid_fare"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	l.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if err := l2.Append(1, 1, "invalid_distance"); err != nil {
		t.Fatalf("Append after reopen: %v", err)
	}
	l2.Close()

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus two entries", len(rows))
	}
	if rows[0][0] != "chunk_index" {
		t.Errorf("first row = %v, want the header", rows[0])
	}
	for _, r := range rows[1:] {
		if r[0] == "chunk_index" {
			t.Errorf("duplicate header written on reopen: %v", rows)
		}
	}
}
