package mysql

import (
	"strings"
	"testing"

	"pragmadb/internal/relational"
)

func TestCheckDDLAcceptsValidStatement(t *testing.T) {
	if err := CheckDDL("CREATE TABLE `owner` (`id` BIGINT NOT NULL, PRIMARY KEY (`id`))"); err != nil {
		t.Fatalf("expected valid DDL to parse, got %v", err)
	}
}

func TestCheckDDLRejectsGarbage(t *testing.T) {
	if err := CheckDDL("CREATE TABLE garbage ((("); err == nil {
		t.Fatal("expected parse error for malformed SQL")
	}
}

func TestCreateTableQuotesWithBackticks(t *testing.T) {
	g := generator{}
	tbl := relational.NewTable("owner")
	tbl.AddColumn(&relational.Column{Name: "id", Type: "BIGINT AUTO_INCREMENT"})
	tbl.PrimaryKey = &relational.PrimaryKey{Auto: true, Columns: []string{"id"}}

	stmt := g.CreateTable(nil, tbl)
	if !strings.Contains(stmt, "`owner`") || !strings.Contains(stmt, "`id`") {
		t.Fatalf("expected backtick-quoted identifiers, got %q", stmt)
	}
}

func TestTypeMapperAutoIncrement(t *testing.T) {
	tm := typeMapper{}
	if got := tm.SQLType(nil, "int", true, true); got != "BIGINT AUTO_INCREMENT" {
		t.Fatalf("expected BIGINT AUTO_INCREMENT, got %q", got)
	}
}
