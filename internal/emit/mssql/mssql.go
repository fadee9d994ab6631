// Package mssql implements the SQL Server dialect entries. Grounded on
// original_source/odb/relational/mssql/schema.cxx: "SQL Server does not
// support deferrable constraint checking. Output such foreign keys as
// comments, for documentation" — AddForeignKey below is the only
// override, everything else inherits common.Base.
package mssql

import (
	"fmt"

	"pragmadb/internal/build"
	"pragmadb/internal/emit"
	"pragmadb/internal/emit/common"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

func init() {
	emit.RegisterDialect(gencontext.DatabaseMSSQL, func() emit.Dialect { return dialect{} })
}

type dialect struct{}

func (dialect) Name() gencontext.Database     { return gencontext.DatabaseMSSQL }
func (dialect) Generator() emit.Generator     { return generator{} }
func (dialect) TypeMapper() build.TypeMapper  { return typeMapper{} }

type generator struct{ common.Base }

// AddForeignKey emits deferrable foreign keys as a SQL comment instead
// of a real constraint, since SQL Server has no deferred constraint
// checking mode at all (not even the ANSI-default "immediate").
func (g generator) AddForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string {
	stmt := g.Base.AddForeignKey(ctx, tableName, fk)
	if fk.Deferrable == relational.DeferNot {
		return stmt
	}
	return fmt.Sprintf("-- %s (deferrable constraint, not supported by SQL Server)", stmt)
}

type typeMapper struct{}

func (typeMapper) SQLType(ctx *gencontext.Context, primitive string, isID, auto bool) string {
	switch primitive {
	case "bool":
		return "BIT"
	case "char", "signed char", "unsigned char":
		return "TINYINT"
	case "short", "unsigned short":
		return "SMALLINT"
	case "int", "unsigned int":
		if isID {
			return "BIGINT"
		}
		return "INT"
	case "long", "unsigned long", "long long", "unsigned long long":
		return "BIGINT"
	case "float":
		return "REAL"
	case "double", "long double":
		return "FLOAT"
	case "std::string", "std::wstring":
		return "NVARCHAR(MAX)"
	case "std::chrono::system_clock::time_point":
		return "DATETIME2"
	default:
		return "VARBINARY(MAX)"
	}
}
