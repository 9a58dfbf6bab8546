package sqlite

import (
	"context"
	"testing"
	"time"

	"tripetl/internal/storage"
	"tripetl/internal/trip"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(context.Background(), ":memory:", trip.TableName)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := storage.EnsureSchema(context.Background(), "sqlite", trip.TableName, repo); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return repo
}

func countRows(t *testing.T, repo *Repository) int {
	t.Helper()
	var n int
	row := repo.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+trip.TableName)
	if err := row.Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestFactoryRegistered(t *testing.T) {
	repo, err := storage.New(context.Background(), storage.Config{
		Kind: "sqlite", DSN: ":memory:", Table: trip.TableName,
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	repo.Close()
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	repo := openTestRepo(t)

	// A second bootstrap against the same database must be a no-op.
	if err := storage.EnsureSchema(context.Background(), "sqlite", trip.TableName, repo); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestCopyFromRoundTrip(t *testing.T) {
	repo := openTestRepo(t)

	pickup := time.Date(2016, 1, 1, 8, 0, 0, 0, time.UTC)
	dropoff := pickup.Add(15 * time.Minute)
	fare, dist, lat, lon := 20.0, 5.0, 40.75, -73.98
	dur, speed := 900.0, 20.0
	hour := 8
	day := "Friday"

	tr := &trip.Trip{
		PickupDatetime:  &pickup,
		DropoffDatetime: &dropoff,
		PickupLat:       &lat,
		PickupLon:       &lon,
		DropoffLat:      &lat,
		DropoffLon:      &lon,
		PassengerCount:  1,
		DistanceKm:      &dist,
		DurationSec:     &dur,
		FareAmount:      &fare,
		TipAmount:       4,
		SpeedKmh:        &speed,
		HourOfDay:       &hour,
		DayOfWeek:       &day,
	}

	n, err := repo.CopyFrom(context.Background(), trip.Columns(), [][]any{tr.Row()})
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}

	var gotPickup string
	var gotFarePerKm any
	row := repo.db.QueryRowContext(context.Background(),
		"SELECT pickup_datetime, fare_per_km FROM "+trip.TableName)
	if err := row.Scan(&gotPickup, &gotFarePerKm); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if want := "2016-01-01 08:00:00"; gotPickup != want {
		t.Errorf("pickup_datetime = %q, want %q", gotPickup, want)
	}
	if gotFarePerKm != nil {
		t.Errorf("fare_per_km = %v, want NULL for an unset pointer", gotFarePerKm)
	}
}

func TestCopyFromAtomicOnBadRow(t *testing.T) {
	repo := openTestRepo(t)

	pickup := time.Date(2016, 1, 1, 8, 0, 0, 0, time.UTC)
	dropoff := pickup.Add(time.Minute)
	good := (&trip.Trip{PickupDatetime: &pickup, DropoffDatetime: &dropoff, PassengerCount: 1}).Row()
	short := []any{1, 2}

	if _, err := repo.CopyFrom(context.Background(), trip.Columns(), [][]any{good, short}); err == nil {
		t.Fatal("mismatched row width must fail the batch")
	}
	if got := countRows(t, repo); got != 0 {
		t.Errorf("rows after failed batch = %d, want 0 (rollback)", got)
	}
}

func TestCopyFromEmpty(t *testing.T) {
	repo := openTestRepo(t)
	n, err := repo.CopyFrom(context.Background(), trip.Columns(), nil)
	if err != nil || n != 0 {
		t.Fatalf("empty CopyFrom: n=%d err=%v", n, err)
	}
}

func TestEmptyDSNRejected(t *testing.T) {
	if _, err := NewRepository(context.Background(), "  ", trip.TableName); err == nil {
		t.Fatal("blank DSN must be rejected")
	}
}
