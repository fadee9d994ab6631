// Package pgsql implements the PostgreSQL dialect entries. Grounded on
// original_source/odb/relational/pgsql/source.cxx's persist_statement_extra:
// "Top-level auto id ... RETURNING <id-column>" — InsertStatement below
// appends RETURNING for a non-polymorphic-derived auto id, matching the
// original's poly_derived guard. StatementTypes and oidFor are grounded
// on the same file's oids[] table: persist/find/update parameter arrays
// carry one OID per bound column, keyed off the column's rendered SQL
// type rather than its Go-side representation.
package pgsql

import (
	"fmt"

	"pragmadb/internal/build"
	"pragmadb/internal/emit"
	"pragmadb/internal/emit/common"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

func init() {
	emit.RegisterDialect(gencontext.DatabasePgSQL, func() emit.Dialect { return dialect{} })
}

type dialect struct{}

func (dialect) Name() gencontext.Database    { return gencontext.DatabasePgSQL }
func (dialect) Generator() emit.Generator    { return generator{} }
func (dialect) TypeMapper() build.TypeMapper { return typeMapper{} }

type generator struct{ common.Base }

// InsertStatement appends "RETURNING <id>" when the table's primary key
// is a single auto-increment column and the table is not itself a
// polymorphic-derived table (derived tables share their root's id and
// never generate one of their own to return).
func (g generator) InsertStatement(ctx *gencontext.Context, t *relational.Table) string {
	stmt := g.Base.InsertStatement(ctx, t)
	if t.PrimaryKey == nil || !t.PrimaryKey.Auto || len(t.PrimaryKey.Columns) != 1 {
		return stmt
	}
	if len(t.ForeignKeys) > 0 && isPolyDerived(t) {
		return stmt
	}
	return fmt.Sprintf("%s RETURNING %s", stmt, g.QuoteIdentifier(t.PrimaryKey.Columns[0]))
}

// isPolyDerived reports whether t's primary key column is also the
// referer side of one of its own foreign keys — the shape a
// polymorphic-derived table's id-sharing FK takes (see internal/build's
// buildObjectTable).
func isPolyDerived(t *relational.Table) bool {
	pkCol := t.PrimaryKey.Columns[0]
	for _, fk := range t.ForeignKeys {
		if len(fk.RefererColumns) == 1 && fk.RefererColumns[0] == pkCol {
			return true
		}
	}
	return false
}

// StatementTypes computes §4.E's OID arrays, grounded on
// original_source/odb/relational/pgsql/source.cxx's statement_oids:
// Persist mirrors InsertStatement's column set, Find and UpdateWhere
// mirror whereClause's id(+version) predicate, and UpdateSet mirrors
// UpdateStatement's SET list.
func (g generator) StatementTypes(ctx *gencontext.Context, t *relational.Table) emit.StatementTypes {
	var st emit.StatementTypes

	autoID := ""
	if t.PrimaryKey != nil && t.PrimaryKey.Auto && len(t.PrimaryKey.Columns) == 1 {
		autoID = t.PrimaryKey.Columns[0]
	}
	isPK := func(name string) bool {
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

	for _, c := range t.Columns {
		if c.Name == autoID {
			continue
		}
		st.Persist = append(st.Persist, oidFor(c.Type))
	}
	for _, c := range t.Columns {
		if isPK(c.Name) || c.Readonly || c.Version {
			continue
		}
		st.UpdateSet = append(st.UpdateSet, oidFor(c.Type))
	}
	if t.PrimaryKey != nil {
		for _, name := range t.PrimaryKey.Columns {
			if col := t.Column(name); col != nil {
				st.Find = append(st.Find, oidFor(col.Type))
				st.UpdateWhere = append(st.UpdateWhere, oidFor(col.Type))
			}
		}
		for _, c := range t.Columns {
			if c.Version && !isPK(c.Name) {
				st.Find = append(st.Find, oidFor(c.Type))
				st.UpdateWhere = append(st.UpdateWhere, oidFor(c.Type))
			}
		}
	}
	return st
}

// oidFor maps a column's DDL type string to the pgsql:: OID constant
// used to bind it, following the oids[] table in
// original_source/odb/relational/pgsql/source.cxx. A serial column
// binds as its underlying integer width, not a "serial" OID — Postgres
// has no such wire type.
func oidFor(sqlType string) string {
	switch sqlType {
	case "BOOLEAN":
		return "pgsql::bool_oid"
	case "SMALLINT":
		return "pgsql::int2_oid"
	case "INTEGER", "SERIAL":
		return "pgsql::int4_oid"
	case "BIGINT", "BIGSERIAL":
		return "pgsql::int8_oid"
	case "REAL":
		return "pgsql::float4_oid"
	case "DOUBLE PRECISION":
		return "pgsql::float8_oid"
	case "NUMERIC":
		return "pgsql::numeric_oid"
	case "DATE":
		return "pgsql::date_oid"
	case "TIME":
		return "pgsql::time_oid"
	case "TIMESTAMP", "TIMESTAMP WITH TIME ZONE":
		return "pgsql::timestamp_oid"
	case `"char"`, "CHAR(1)", "VARCHAR", "TEXT":
		return "pgsql::text_oid"
	case "BIT":
		return "pgsql::bit_oid"
	case "VARBIT":
		return "pgsql::varbit_oid"
	case "UUID":
		return "pgsql::uuid_oid"
	default:
		return "pgsql::bytea_oid"
	}
}

type typeMapper struct{}

func (typeMapper) SQLType(ctx *gencontext.Context, primitive string, isID, auto bool) string {
	switch primitive {
	case "bool":
		return "BOOLEAN"
	case "char", "signed char", "unsigned char":
		return `"char"`
	case "short", "unsigned short":
		return "SMALLINT"
	case "int", "unsigned int":
		if isID && auto {
			return "SERIAL"
		}
		return "INTEGER"
	case "long", "unsigned long", "long long", "unsigned long long":
		if isID && auto {
			return "BIGSERIAL"
		}
		return "BIGINT"
	case "float":
		return "REAL"
	case "double", "long double":
		return "DOUBLE PRECISION"
	case "std::string", "std::wstring":
		return "TEXT"
	case "std::chrono::system_clock::time_point":
		return "TIMESTAMP WITH TIME ZONE"
	default:
		return "BYTEA"
	}
}
