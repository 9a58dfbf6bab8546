package mysql

import (
	"context"
	"fmt"
	"strings"

	"tripetl/internal/storage"
	"tripetl/internal/trip"
)

// mapType resolves logical column kinds to MySQL types.
func mapType(kind string) string {
	switch strings.ToLower(kind) {
	case "datetime":
		return "DATETIME"
	case "double":
		return "DOUBLE"
	case "int":
		return "INT"
	case "tinyint":
		return "TINYINT"
	default:
		return "VARCHAR(64)"
	}
}

// ensureSchema creates the trips table if absent. Indexes are declared inline
// so the single CREATE TABLE IF NOT EXISTS keeps the bootstrap idempotent.
func ensureSchema(ctx context.Context, repo storage.Repository, table string) error {
	var cols []string
	for _, c := range trip.Schema() {
		if c.Kind == "id" {
			cols = append(cols, fmt.Sprintf("%s BIGINT AUTO_INCREMENT PRIMARY KEY", quoteIdent(c.Name)))
			continue
		}
		def := fmt.Sprintf("%s %s", quoteIdent(c.Name), mapType(c.Kind))
		if c.NotNull {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	for _, col := range trip.IndexedColumns() {
		cols = append(cols, fmt.Sprintf("INDEX idx_%s (%s)", col, quoteIdent(col)))
	}

	create := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		quoteIdent(table), strings.Join(cols, ",\n  "),
	)
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("mysql: create table: %w", err)
	}
	return nil
}
