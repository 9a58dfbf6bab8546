package sqlite

import (
	"context"
	"fmt"
	"strings"

	"tripetl/internal/ddl"
	"tripetl/internal/storage"
	"tripetl/internal/trip"
)

// mapType resolves logical column kinds to SQLite storage classes.
func mapType(kind string) string {
	switch strings.ToLower(kind) {
	case "int", "tinyint":
		return "INTEGER"
	case "double":
		return "REAL"
	default: // datetime and text are stored as TEXT
		return "TEXT"
	}
}

// ensureSchema creates the trips table and its indexes if absent. SQLite
// supports IF NOT EXISTS on both, so the whole bootstrap is idempotent.
func ensureSchema(ctx context.Context, repo storage.Repository, table string) error {
	def := ddl.TableDef{Name: table}
	for _, c := range trip.Schema() {
		if c.Kind == "id" {
			def.Columns = append(def.Columns, ddl.ColumnDef{
				Name: c.Name, SQLType: "INTEGER", Suffix: "PRIMARY KEY AUTOINCREMENT",
			})
			continue
		}
		def.Columns = append(def.Columns, ddl.ColumnDef{
			Name: c.Name, SQLType: mapType(c.Kind), NotNull: c.NotNull,
		})
	}
	for _, col := range trip.IndexedColumns() {
		def.Indexes = append(def.Indexes, ddl.IndexDef{
			Name: fmt.Sprintf("idx_%s_%s", table, col), Column: col,
		})
	}

	create, err := ddl.CreateTableSQL(def, true)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	for _, stmt := range ddl.CreateIndexSQL(def, true) {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: create index: %w", err)
		}
	}
	return nil
}
