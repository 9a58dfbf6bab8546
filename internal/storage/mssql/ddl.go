package mssql

import (
	"context"
	"fmt"
	"strings"

	"tripetl/internal/storage"
	"tripetl/internal/trip"
)

// mapType resolves logical column kinds to SQL Server types.
func mapType(kind string) string {
	switch strings.ToLower(kind) {
	case "datetime":
		return "DATETIME2"
	case "double":
		return "FLOAT"
	case "int":
		return "INT"
	case "tinyint":
		return "TINYINT"
	default:
		return "NVARCHAR(64)"
	}
}

// ensureSchema creates the trips table and its indexes if absent. SQL Server
// lacks IF NOT EXISTS on CREATE TABLE, so both statements are wrapped in
// OBJECT_ID / sys.indexes guards to stay idempotent.
func ensureSchema(ctx context.Context, repo storage.Repository, table string) error {
	var cols []string
	for _, c := range trip.Schema() {
		if c.Kind == "id" {
			cols = append(cols, fmt.Sprintf("%s BIGINT IDENTITY(1,1) PRIMARY KEY", c.Name))
			continue
		}
		def := fmt.Sprintf("%s %s", c.Name, mapType(c.Kind))
		if c.NotNull {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	create := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (\n  %s\n)",
		table, table, strings.Join(cols, ",\n  "),
	)
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("mssql: create table: %w", err)
	}

	for _, col := range trip.IndexedColumns() {
		name := fmt.Sprintf("idx_%s_%s", table, col)
		stmt := fmt.Sprintf(
			"IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = N'%s' AND object_id = OBJECT_ID(N'%s')) CREATE INDEX %s ON %s (%s)",
			name, table, name, table, col,
		)
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("mssql: create index %s: %w", name, err)
		}
	}
	return nil
}
