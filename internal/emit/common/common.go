// Package common implements the ANSI-SQL-ish default rules every
// database dialect starts from (§4.E: "Common rules live in a
// relational:: base; database-specific rules override behavior").
// Per-database packages embed Base and override only what their
// dialect actually needs to differ on.
package common

import (
	"fmt"
	"strings"

	"pragmadb/internal/emit"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

// Base is the shared ANSI-SQL generator every dialect embeds.
type Base struct{}

func (Base) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (b Base) CreateTable(ctx *gencontext.Context, t *relational.Table) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (\n", b.QuoteIdentifier(t.Name))
	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(",\n")
		}
		fmt.Fprintf(&sb, "  %s %s", b.QuoteIdentifier(c.Name), c.Type)
		if !c.Null {
			sb.WriteString(" NOT NULL")
		}
		for _, opt := range c.Options {
			sb.WriteString(" ")
			sb.WriteString(opt)
		}
	}
	if t.PrimaryKey != nil && len(t.PrimaryKey.Columns) > 0 {
		sb.WriteString(",\n  PRIMARY KEY (")
		sb.WriteString(b.quoteList(t.PrimaryKey.Columns))
		sb.WriteString(")")
	}
	sb.WriteString("\n)")
	return sb.String()
}

func (b Base) DropTable(ctx *gencontext.Context, t *relational.Table) string {
	return "DROP TABLE " + b.QuoteIdentifier(t.Name)
}

func (b Base) AddForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string {
	deferClause := ""
	switch fk.Deferrable {
	case relational.DeferDeferred:
		deferClause = " DEFERRABLE INITIALLY DEFERRED"
	case relational.DeferImmediate:
		deferClause = " DEFERRABLE INITIALLY IMMEDIATE"
	}
	return fmt.Sprintf("ALTER TABLE %s ADD FOREIGN KEY (%s) REFERENCES %s (%s)%s",
		b.QuoteIdentifier(tableName), b.quoteList(fk.RefererColumns),
		b.QuoteIdentifier(fk.ReferencedTable), b.quoteList(fk.ReferencedColumns), deferClause)
}

func (b Base) DropForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s",
		b.QuoteIdentifier(tableName), b.QuoteIdentifier(ConstraintName(tableName, fk.ReferencedTable)))
}

func (b Base) CreateIndex(ctx *gencontext.Context, tableName string, idx *relational.Index) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		b.QuoteIdentifier(idx.Name), b.QuoteIdentifier(tableName), b.quoteList(idx.Columns))
}

// InsertStatement is the ANSI default: a plain INSERT with no id
// round-trip extension. PostgreSQL overrides this to append RETURNING.
func (b Base) InsertStatement(ctx *gencontext.Context, t *relational.Table) string {
	var cols []string
	var placeholders []string
	for _, c := range t.Columns {
		if t.PrimaryKey != nil && t.PrimaryKey.Auto && len(t.PrimaryKey.Columns) == 1 && c.Name == t.PrimaryKey.Columns[0] {
			continue
		}
		cols = append(cols, b.QuoteIdentifier(c.Name))
		placeholders = append(placeholders, "?")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", b.QuoteIdentifier(t.Name), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}

// SelectStatement is the ANSI default "find" statement: every column,
// filtered by the table's id (and, on an optimistic table, its version
// column too — §4.E: "WHERE includes id and (for optimistic) version").
func (b Base) SelectStatement(ctx *gencontext.Context, t *relational.Table) string {
	if t.PrimaryKey == nil || len(t.PrimaryKey.Columns) == 0 {
		return ""
	}
	var cols []string
	for _, c := range t.Columns {
		cols = append(cols, b.QuoteIdentifier(c.Name))
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(cols, ", "), b.QuoteIdentifier(t.Name), b.whereClause(t))
}

// UpdateStatement is the ANSI default: SET every column but id,
// readonly, and version (inverse pointers never reach the relational
// model at all — see internal/build's SkipInverse traversal), WHERE the
// same id/version predicate SelectStatement uses.
func (b Base) UpdateStatement(ctx *gencontext.Context, t *relational.Table) string {
	if t.PrimaryKey == nil || len(t.PrimaryKey.Columns) == 0 {
		return ""
	}
	var sets []string
	for _, c := range t.Columns {
		if b.isPrimaryKey(t, c.Name) || c.Readonly || c.Version {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = ?", b.QuoteIdentifier(c.Name)))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", b.QuoteIdentifier(t.Name), strings.Join(sets, ", "), b.whereClause(t))
}

// DeleteStatement is the ANSI default: DELETE WHERE the same id/version
// predicate SelectStatement and UpdateStatement use.
func (b Base) DeleteStatement(ctx *gencontext.Context, t *relational.Table) string {
	if t.PrimaryKey == nil || len(t.PrimaryKey.Columns) == 0 {
		return ""
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", b.QuoteIdentifier(t.Name), b.whereClause(t))
}

// StatementTypes has no OID space to report in the ANSI default — only
// PostgreSQL overrides it (internal/emit/pgsql).
func (b Base) StatementTypes(ctx *gencontext.Context, t *relational.Table) emit.StatementTypes {
	return emit.StatementTypes{}
}

// whereClause builds the id-plus-optional-version predicate every
// find/update/delete statement filters on, in column declaration order.
func (b Base) whereClause(t *relational.Table) string {
	var parts []string
	for _, name := range t.PrimaryKey.Columns {
		parts = append(parts, fmt.Sprintf("%s = ?", b.QuoteIdentifier(name)))
	}
	for _, c := range t.Columns {
		if c.Version && !b.isPrimaryKey(t, c.Name) {
			parts = append(parts, fmt.Sprintf("%s = ?", b.QuoteIdentifier(c.Name)))
		}
	}
	return strings.Join(parts, " AND ")
}

func (b Base) isPrimaryKey(t *relational.Table, name string) bool {
	if t.PrimaryKey == nil {
		return false
	}
	for _, c := range t.PrimaryKey.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (b Base) quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = b.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

// ConstraintName mirrors the teacher's AutoGenerateConstraintName
// (internal/core/schema.go): a deterministic fk_<table>_<ref> name used
// when the model carries no explicit constraint name.
func ConstraintName(table, refTable string) string {
	return fmt.Sprintf("fk_%s_%s", strings.ToLower(table), strings.ToLower(refTable))
}

// TypeMapper is the ANSI default implementation of build.TypeMapper: the
// common type names every dialect below starts from and narrows.
type TypeMapper struct{}

func (TypeMapper) SQLType(ctx *gencontext.Context, primitive string, isID, auto bool) string {
	switch primitive {
	case "bool":
		return "BOOLEAN"
	case "char", "signed char", "unsigned char":
		return "CHAR(1)"
	case "short", "unsigned short":
		return "SMALLINT"
	case "int", "unsigned int":
		if isID {
			return "BIGINT"
		}
		return "INTEGER"
	case "long", "unsigned long", "long long", "unsigned long long":
		return "BIGINT"
	case "float":
		return "REAL"
	case "double", "long double":
		return "DOUBLE PRECISION"
	case "std::string", "std::wstring":
		return "TEXT"
	case "std::chrono::system_clock::time_point":
		return "TIMESTAMP"
	default:
		return "BLOB"
	}
}
