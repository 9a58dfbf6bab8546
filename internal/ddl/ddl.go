// Package ddl holds a small backend-agnostic model for rendering CREATE
// TABLE and CREATE INDEX statements. It stays deliberately generic: names
// and SQL types are emitted verbatim, and dialect concerns (quoting,
// IF NOT EXISTS support, identity columns) belong to the storage backends
// that build the TableDef.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef is one destination column with its dialect SQL type already
// resolved. Suffix is raw SQL appended after the type (e.g. an identity or
// primary-key clause); NotNull is ignored when Suffix is set.
type ColumnDef struct {
	Name    string
	SQLType string
	NotNull bool
	Suffix  string
}

// IndexDef is a single-column secondary index.
type IndexDef struct {
	Name   string
	Column string
}

// TableDef is a renderable table definition.
type TableDef struct {
	Name    string
	Columns []ColumnDef
	Indexes []IndexDef
}

// CreateTableSQL renders the table as CREATE TABLE [IF NOT EXISTS]. Backends
// whose dialect lacks IF NOT EXISTS pass false and guard the statement
// themselves.
func CreateTableSQL(t TableDef, ifNotExists bool) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" || c.SQLType == "" {
			return "", fmt.Errorf("ddl: column with empty name or type in table %s", t.Name)
		}
		var sb strings.Builder
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
		sb.WriteString(c.SQLType)
		if c.Suffix != "" {
			sb.WriteByte(' ')
			sb.WriteString(c.Suffix)
		} else if c.NotNull {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	ine := ""
	if ifNotExists {
		ine = "IF NOT EXISTS "
	}
	return fmt.Sprintf("CREATE TABLE %s%s (\n  %s\n)", ine, t.Name, strings.Join(cols, ",\n  ")), nil
}

// CreateIndexSQL renders the secondary index statements for the table, one
// per IndexDef, as CREATE INDEX [IF NOT EXISTS].
func CreateIndexSQL(t TableDef, ifNotExists bool) []string {
	ine := ""
	if ifNotExists {
		ine = "IF NOT EXISTS "
	}
	out := make([]string, 0, len(t.Indexes))
	for _, ix := range t.Indexes {
		out = append(out, fmt.Sprintf("CREATE INDEX %s%s ON %s (%s)", ine, ix.Name, t.Name, ix.Column))
	}
	return out
}
