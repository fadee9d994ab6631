// Package oracle implements the Oracle dialect entries. Oracle predates
// AUTO_INCREMENT/SERIAL columns entirely; auto ids there are conventionally
// driven by a CREATE SEQUENCE plus a trigger, so CreateTable here emits
// that sequence as an extra statement appended after the table body rather
// than as a column-type suffix the way MySQL/PostgreSQL do it.
package oracle

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
	emit.RegisterDialect(gencontext.DatabaseOracle, func() emit.Dialect { return dialect{} })
}

type dialect struct{}

func (dialect) Name() gencontext.Database    { return gencontext.DatabaseOracle }
func (dialect) Generator() emit.Generator    { return generator{} }
func (dialect) TypeMapper() build.TypeMapper { return typeMapper{} }

type generator struct{ common.Base }

// CreateTable appends a CREATE SEQUENCE statement when the table has a
// single-column auto-increment primary key, since the column type itself
// carries no auto-increment semantics on this dialect.
func (g generator) CreateTable(ctx *gencontext.Context, t *relational.Table) string {
	stmt := g.Base.CreateTable(ctx, t)
	if t.PrimaryKey == nil || !t.PrimaryKey.Auto || len(t.PrimaryKey.Columns) != 1 {
		return stmt
	}
	return fmt.Sprintf("%s;\nCREATE SEQUENCE %s", stmt, SequenceName(t.Name))
}

// SequenceName is the deterministic sequence identifier for an
// auto-increment primary key column, mirrored by DropTable below so the
// two stay in sync without a lookup table.
func SequenceName(table string) string {
	return fmt.Sprintf("seq_%s", strings.ToLower(table))
}

func (g generator) DropTable(ctx *gencontext.Context, t *relational.Table) string {
	stmt := g.Base.DropTable(ctx, t)
	if t.PrimaryKey == nil || !t.PrimaryKey.Auto || len(t.PrimaryKey.Columns) != 1 {
		return stmt
	}
	return fmt.Sprintf("DROP SEQUENCE %s;\n%s", SequenceName(t.Name), stmt)
}

type typeMapper struct{}

func (typeMapper) SQLType(ctx *gencontext.Context, primitive string, isID, auto bool) string {
	switch primitive {
	case "bool":
		return "NUMBER(1)"
	case "char", "signed char", "unsigned char":
		return "NUMBER(3)"
	case "short", "unsigned short":
		return "NUMBER(5)"
	case "int", "unsigned int":
		if isID {
			return "NUMBER(19)"
		}
		return "NUMBER(10)"
	case "long", "unsigned long", "long long", "unsigned long long":
		return "NUMBER(19)"
	case "float":
		return "BINARY_FLOAT"
	case "double", "long double":
		return "BINARY_DOUBLE"
	case "std::string", "std::wstring":
		return "VARCHAR2(4000)"
	case "std::chrono::system_clock::time_point":
		return "TIMESTAMP"
	default:
		return "BLOB"
	}
}
