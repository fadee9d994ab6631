package sqlite

import (
	"strings"
	"testing"

	"pragmadb/internal/relational"
)

func TestCreateTableOmitsDuplicatePrimaryKeyClause(t *testing.T) {
	g := generator{}
	tbl := relational.NewTable("owner")
	tbl.AddColumn(&relational.Column{Name: "id", Type: "INTEGER PRIMARY KEY AUTOINCREMENT"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: true, Columns: []string{"id"}}

	stmt := g.CreateTable(nil, tbl)
	if strings.Contains(stmt, "PRIMARY KEY (\"id\")") {
		t.Fatalf("expected no trailing PRIMARY KEY clause, got %q", stmt)
	}
	if !strings.Contains(stmt, "AUTOINCREMENT") {
		t.Fatalf("expected inline AUTOINCREMENT to remain, got %q", stmt)
	}
}

func TestCreateTableLeavesNonAutoPKAlone(t *testing.T) {
	g := generator{}
	tbl := relational.NewTable("owner")
	tbl.AddColumn(&relational.Column{Name: "id", Type: "INTEGER"})
	tbl.AddColumn(&relational.Column{Name: "name", Type: "TEXT"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: false, Columns: []string{"id"}}

	stmt := g.CreateTable(nil, tbl)
	if !strings.Contains(stmt, "PRIMARY KEY") {
		t.Fatalf("expected primary key clause preserved, got %q", stmt)
	}
}

func TestAddForeignKeyCommented(t *testing.T) {
	g := generator{}
	fk := &relational.ForeignKey{RefererColumns: []string{"owner_id"}, ReferencedTable: "owner", ReferencedColumns: []string{"id"}}
	stmt := g.AddForeignKey(nil, "pet", fk)
	if !strings.HasPrefix(stmt, "-- ") {
		t.Fatalf("expected comment, got %q", stmt)
	}
}

func TestTypeMapperCollapsesIntegers(t *testing.T) {
	tm := typeMapper{}
	if got := tm.SQLType(nil, "short", false, false); got != "INTEGER" {
		t.Fatalf("got %q", got)
	}
	if got := tm.SQLType(nil, "int", true, true); got != "INTEGER PRIMARY KEY AUTOINCREMENT" {
		t.Fatalf("got %q", got)
	}
}
