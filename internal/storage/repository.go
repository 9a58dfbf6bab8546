// Package storage contains the storage-agnostic sink contracts: the
// Repository interface, a factory keyed by backend kind, a DDL bootstrap
// registry, and the sub-batched insert loader.
//
// Load semantics are at-least-once on failure: each sub-batch commit is
// atomic, but committed sub-batches are not rolled back when a later one
// fails. An aborted run therefore means "some prefix loaded, rest unknown";
// operators re-run against a truncated target or enable the dedup stage.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal sink contract. CopyFrom inserts rows aligned to
// the columns order atomically (all rows in one call land, or none do) and
// returns the inserted count. Exec runs backend DDL/maintenance statements.
type Repository interface {
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Exec(ctx context.Context, query string, args ...any) error
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	// Kind is the registered backend name: "mysql", "postgres", "sqlite",
	// "mssql".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name.
	Table string
}

// Factory opens a Repository for a Config. Implementations must fail fast on
// unreachable destinations; a factory error at startup aborts the run before
// any chunk is read.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
	ddlFns    = map[string]DDLBootstrapper{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens the repository for cfg.Kind. Unknown kinds list the registered
// backends in the error to make wiring mistakes obvious.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return fn(ctx, cfg)
}

// Kinds returns the registered backend names, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DDLBootstrapper idempotently ensures the destination structure for a
// backend: CREATE TABLE and index statements guarded so repeated calls leave
// the schema unchanged.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string) error

// RegisterDDL installs the DDL bootstrapper for a backend kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	mu.Lock()
	defer mu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSchema invokes the registered bootstrapper for kind. Safe to call on
// every run; creation is skipped when the structure already exists.
func EnsureSchema(ctx context.Context, kind, table string, repo Repository) error {
	mu.RLock()
	fn, ok := ddlFns[kind]
	mu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL bootstrapper registered for kind %q", kind)
	}
	return fn(ctx, repo, table)
}
