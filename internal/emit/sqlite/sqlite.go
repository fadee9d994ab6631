// Package sqlite implements the SQLite dialect entries. SQLite is
// dynamically typed — the "type" in a column definition is really a type
// affinity hint, not an enforced type — so TypeMapper below collapses the
// usual primitive distinctions down to SQLite's five storage classes.
package sqlite

import (
	"fmt"
	"strings"

	"pragmadb/internal/build"
	"pragmadb/internal/emit"
	"pragmadb/internal/emit/common"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

func init() {
	emit.RegisterDialect(gencontext.DatabaseSQLite, func() emit.Dialect { return dialect{} })
}

type dialect struct{}

func (dialect) Name() gencontext.Database    { return gencontext.DatabaseSQLite }
func (dialect) Generator() emit.Generator    { return generator{} }
func (dialect) TypeMapper() build.TypeMapper { return typeMapper{} }

type generator struct{ common.Base }

// CreateTable drops the trailing PRIMARY KEY (...) clause when the id
// column's own type already spells out "INTEGER PRIMARY KEY AUTOINCREMENT"
// — SQLite rejects a table with the primary key declared twice.
func (g generator) CreateTable(ctx *gencontext.Context, t *relational.Table) string {
	stmt := g.Base.CreateTable(ctx, t)
	if t.PrimaryKey == nil || !t.PrimaryKey.Auto || len(t.PrimaryKey.Columns) != 1 {
		return stmt
	}
	col := t.Column(t.PrimaryKey.Columns[0])
	if col == nil || !strings.Contains(col.Type, "AUTOINCREMENT") {
		return stmt
	}
	if idx := strings.Index(stmt, ",\n  PRIMARY KEY ("); idx >= 0 {
		end := strings.Index(stmt[idx:], ")")
		if end >= 0 {
			stmt = stmt[:idx] + stmt[idx+end+1:]
		}
	}
	return stmt
}

// AddForeignKey: SQLite only enforces foreign keys declared inline in the
// CREATE TABLE statement (and only when PRAGMA foreign_keys is on); it has
// no ALTER TABLE ADD CONSTRAINT. Emit the constraint as a comment noting
// it must be part of the original CREATE TABLE instead.
func (g generator) AddForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string {
	stmt := g.Base.AddForeignKey(ctx, tableName, fk)
	return fmt.Sprintf("-- %s (SQLite foreign keys must be declared inline in CREATE TABLE)", stmt)
}

// DropForeignKey: same limitation in reverse — there is no constraint to
// drop independently of the table.
func (g generator) DropForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string {
	return fmt.Sprintf("-- foreign key on %s requires recreating the table on SQLite", g.QuoteIdentifier(tableName))
}

type typeMapper struct{}

func (typeMapper) SQLType(ctx *gencontext.Context, primitive string, isID, auto bool) string {
	switch primitive {
	case "bool", "char", "signed char", "unsigned char",
		"short", "unsigned short", "int", "unsigned int",
		"long", "unsigned long", "long long", "unsigned long long":
		if isID && auto {
			return "INTEGER PRIMARY KEY AUTOINCREMENT"
		}
		return "INTEGER"
	case "float", "double", "long double":
		return "REAL"
	case "std::string", "std::wstring":
		return "TEXT"
	case "std::chrono::system_clock::time_point":
		return "TEXT"
	default:
		return "BLOB"
	}
}
