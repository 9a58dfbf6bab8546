package storage

import (
	"context"
	"strings"
	"testing"
)

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "oracle"})
	if err == nil {
		t.Fatal("unknown kind must fail")
	}
	if !strings.Contains(err.Error(), "oracle") {
		t.Errorf("error %q should name the unknown kind", err)
	}
}

func TestRegisterAndNew(t *testing.T) {
	want := &fakeRepo{}
	Register("fake", func(ctx context.Context, cfg Config) (Repository, error) {
		return want, nil
	})

	got, err := New(context.Background(), Config{Kind: "fake"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got != want {
		t.Errorf("New returned %T, want the registered fake", got)
	}

	found := false
	for _, k := range Kinds() {
		if k == "fake" {
			found = true
		}
	}
	if !found {
		t.Errorf("Kinds() = %v, want to include fake", Kinds())
	}
}

func TestEnsureSchemaUnregisteredKind(t *testing.T) {
	err := EnsureSchema(context.Background(), "no-such-kind", "trips", &fakeRepo{})
	if err == nil {
		t.Fatal("missing bootstrapper must fail")
	}
}

func TestEnsureSchemaDispatch(t *testing.T) {
	var gotTable string
	RegisterDDL("fake-ddl", func(ctx context.Context, repo Repository, table string) error {
		gotTable = table
		return nil
	})
	if err := EnsureSchema(context.Background(), "fake-ddl", "trips", &fakeRepo{}); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if gotTable != "trips" {
		t.Errorf("bootstrapper got table %q, want trips", gotTable)
	}
}
