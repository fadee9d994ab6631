package oracle

import (
	"strings"
	"testing"

	"pragmadb/internal/relational"
)

func newAutoPKTable(name string) *relational.Table {
	tbl := relational.NewTable(name)
	tbl.AddColumn(&relational.Column{Name: "id", Type: "NUMBER(19)"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: true, Columns: []string{"id"}}
	return tbl
}

func TestCreateTableAppendsSequence(t *testing.T) {
	g := generator{}
	stmt := g.CreateTable(nil, newAutoPKTable("owner"))
	if !strings.Contains(stmt, "CREATE SEQUENCE "+SequenceName("owner")) {
		t.Fatalf("expected sequence creation, got %q", stmt)
	}
}

func TestDropTableDropsSequenceFirst(t *testing.T) {
	g := generator{}
	stmt := g.DropTable(nil, newAutoPKTable("owner"))
	seqIdx := strings.Index(stmt, "DROP SEQUENCE")
	tblIdx := strings.Index(stmt, "DROP TABLE")
	if seqIdx < 0 || tblIdx < 0 || seqIdx > tblIdx {
		t.Fatalf("expected sequence drop before table drop, got %q", stmt)
	}
}

func TestTypeMapperIDUsesNumber19(t *testing.T) {
	tm := typeMapper{}
	if got := tm.SQLType(nil, "int", true, false); got != "NUMBER(19)" {
		t.Fatalf("got %q", got)
	}
}
