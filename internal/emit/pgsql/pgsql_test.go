package pgsql

import (
	"strings"
	"testing"

	"pragmadb/internal/relational"
)

func newAutoPKTable(name string) *relational.Table {
	tbl := relational.NewTable(name)
	tbl.AddColumn(&relational.Column{Name: "id", Type: "SERIAL"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: true, Columns: []string{"id"}}
	return tbl
}

func TestInsertStatementAppendsReturningForAutoPK(t *testing.T) {
	g := generator{}
	tbl := newAutoPKTable("owner")
	stmt := g.InsertStatement(nil, tbl)
	if !strings.Contains(stmt, "RETURNING") {
		t.Fatalf("expected RETURNING clause, got %q", stmt)
	}
}

func TestInsertStatementSkipsReturningForPolyDerived(t *testing.T) {
	g := generator{}
	tbl := newAutoPKTable("dog")
	tbl.AddForeignKey(&relational.ForeignKey{
		RefererColumns:    []string{"id"},
		ReferencedTable:   "animal",
		ReferencedColumns: []string{"id"},
	})
	stmt := g.InsertStatement(nil, tbl)
	if strings.Contains(stmt, "RETURNING") {
		t.Fatalf("poly-derived table should not get RETURNING, got %q", stmt)
	}
}

func TestTypeMapperSerial(t *testing.T) {
	tm := typeMapper{}
	if got := tm.SQLType(nil, "int", true, true); got != "SERIAL" {
		t.Fatalf("expected SERIAL, got %q", got)
	}
	if got := tm.SQLType(nil, "long", true, true); got != "BIGSERIAL" {
		t.Fatalf("expected BIGSERIAL, got %q", got)
	}
}

func TestOidForSerialBindsAsUnderlyingWidth(t *testing.T) {
	if got := oidFor("SERIAL"); got != "pgsql::int4_oid" {
		t.Fatalf("expected SERIAL to bind as int4_oid, got %q", got)
	}
	if got := oidFor("BIGSERIAL"); got != "pgsql::int8_oid" {
		t.Fatalf("expected BIGSERIAL to bind as int8_oid, got %q", got)
	}
	if got := oidFor("TEXT"); got != "pgsql::text_oid" {
		t.Fatalf("got %q", got)
	}
}

// TestStatementTypesAutoIDSkipsIDInPersist mirrors S1: an auto-id table's
// persist_statement_types array omits the id column, and find_statement_types
// carries the id column's own oid.
func TestStatementTypesAutoIDSkipsIDInPersist(t *testing.T) {
	g := generator{}
	tbl := relational.NewTable("person")
	tbl.AddColumn(&relational.Column{Name: "id", Type: "BIGSERIAL"})
	tbl.AddColumn(&relational.Column{Name: "name", Type: "TEXT"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: true, Columns: []string{"id"}}

	st := g.StatementTypes(nil, tbl)
	if len(st.Persist) != 1 || st.Persist[0] != "pgsql::text_oid" {
		t.Fatalf("expected persist types [pgsql::text_oid], got %v", st.Persist)
	}
	if len(st.Find) != 1 || st.Find[0] != "pgsql::int8_oid" {
		t.Fatalf("expected find types [pgsql::int8_oid], got %v", st.Find)
	}
}

// TestStatementTypesOptimisticUpdateWhere mirrors S3: an optimistic
// table's UPDATE WHERE types are [id oid, version oid].
func TestStatementTypesOptimisticUpdateWhere(t *testing.T) {
	g := generator{}
	tbl := relational.NewTable("doc")
	tbl.AddColumn(&relational.Column{Name: "id", Type: "BIGSERIAL"})
	tbl.AddColumn(&relational.Column{Name: "ver", Type: "BIGINT", Version: true})
	tbl.AddColumn(&relational.Column{Name: "body", Type: "TEXT"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: true, Columns: []string{"id"}}

	st := g.StatementTypes(nil, tbl)
	want := []string{"pgsql::int8_oid", "pgsql::int8_oid"}
	if len(st.UpdateWhere) != 2 || st.UpdateWhere[0] != want[0] || st.UpdateWhere[1] != want[1] {
		t.Fatalf("expected UPDATE WHERE types %v, got %v", want, st.UpdateWhere)
	}
	if len(st.UpdateSet) != 1 || st.UpdateSet[0] != "pgsql::text_oid" {
		t.Fatalf("expected UPDATE SET types to carry only body (text), got %v", st.UpdateSet)
	}
}
