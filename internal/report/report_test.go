package report

import (
	"strings"
	"testing"

	"pragmadb/internal/changelog"
	"pragmadb/internal/relational"
	"pragmadb/internal/semantics"
	"pragmadb/internal/validate"
)

func TestNewFormatterDispatch(t *testing.T) {
	for _, name := range []string{"", "human", "HUMAN", "json", "sql"} {
		if _, err := NewFormatter(name); err != nil {
			t.Fatalf("NewFormatter(%q): %v", name, err)
		}
	}
	if _, err := NewFormatter("yaml"); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func sampleDiagnostics() *validate.Diagnostics {
	var d validate.Diagnostics
	d.Error(semantics.Location{File: "schema.toml", Line: 12}, "person", "missing object id")
	d.Warning(semantics.Location{File: "schema.toml", Line: 20}, "address", "unused value type")
	return &d
}

func sampleChangeset() *changelog.Changeset {
	return &changelog.Changeset{
		Version: 2,
		AddedTables: []*relational.Table{
			{Name: "address", Columns: []*relational.Column{{Name: "id", Type: "BIGINT"}}},
		},
		DroppedTables: []string{"legacy_person"},
		AlteredTables: []*changelog.TableChange{
			{Name: "person", DroppedColumns: []string{"nickname"}},
		},
	}
}

func sampleMigration() (*changelog.Migration, []changelog.Risk) {
	m := &changelog.Migration{
		Pre:  []string{`CREATE TABLE "address" ("id" BIGINT NOT NULL)`},
		Post: []string{`ALTER TABLE "person" DROP COLUMN "nickname"`},
	}
	risks := []changelog.Risk{
		{Statement: m.Post[0], StatementType: "ALTER TABLE", Destructive: true, Reason: "drops a column and its data"},
	}
	return m, risks
}

func TestHumanFormatter(t *testing.T) {
	f, err := NewFormatter("human")
	if err != nil {
		t.Fatal(err)
	}

	diagText, err := f.FormatDiagnostics(sampleDiagnostics())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diagText, "1 error(s), 1 warning(s)") {
		t.Fatalf("expected a summary line, got:\n%s", diagText)
	}

	csText, err := f.FormatChangeset(sampleChangeset())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(csText, "+ address") || !strings.Contains(csText, "- legacy_person") || !strings.Contains(csText, "~ person") {
		t.Fatalf("expected added/dropped/altered table lines, got:\n%s", csText)
	}

	m, risks := sampleMigration()
	migText, err := f.FormatMigration(m, risks)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(migText, "drops a column and its data") {
		t.Fatalf("expected the risk reason inline, got:\n%s", migText)
	}
}

func TestJSONFormatter(t *testing.T) {
	f, err := NewFormatter("json")
	if err != nil {
		t.Fatal(err)
	}

	diagText, err := f.FormatDiagnostics(sampleDiagnostics())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diagText, `"errors": 1`) || !strings.Contains(diagText, `"warnings": 1`) {
		t.Fatalf("expected error/warning counts, got:\n%s", diagText)
	}

	csText, err := f.FormatChangeset(sampleChangeset())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(csText, `"addedTables": 1`) {
		t.Fatalf("expected addedTables summary, got:\n%s", csText)
	}

	m, risks := sampleMigration()
	migText, err := f.FormatMigration(m, risks)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(migText, `"risks": 1`) {
		t.Fatalf("expected risks summary, got:\n%s", migText)
	}
}

func TestSQLFormatter(t *testing.T) {
	f, err := NewFormatter("sql")
	if err != nil {
		t.Fatal(err)
	}

	m, risks := sampleMigration()
	migText, err := f.FormatMigration(m, risks)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(migText, "-- [ALTER TABLE] drops a column and its data") {
		t.Fatalf("expected a risk comment ahead of the flagged statement, got:\n%s", migText)
	}
	if !strings.Contains(migText, `ALTER TABLE "person" DROP COLUMN "nickname";`) {
		t.Fatalf("expected the statement itself to be rendered, got:\n%s", migText)
	}

	empty, err := sqlFormatter{}.FormatMigration(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty != "-- no migration statements\n" {
		t.Fatalf("expected the empty-migration placeholder, got %q", empty)
	}
}
