package report

import (
	"fmt"
	"strings"

	"pragmadb/internal/changelog"
	"pragmadb/internal/validate"
)

type sqlFormatter struct{}

// FormatDiagnostics renders diagnostics as a leading comment block, for
// embedding at the top of a generated SQL file when -sloc-limit or a
// validation warning needs to travel with the statements it concerns.
func (sqlFormatter) FormatDiagnostics(d *validate.Diagnostics) (string, error) {
	if d == nil || len(d.All()) == 0 {
		return "", nil
	}
	var sb strings.Builder
	sb.WriteString("-- diagnostics\n")
	for _, it := range d.All() {
		label := "warning"
		if it.Severity == validate.SeverityError {
			label = "error"
		}
		fmt.Fprintf(&sb, "-- [%s] %s: %s: %s\n", label, it.Loc, it.Subject, it.Message)
	}
	return sb.String(), nil
}

// FormatChangeset renders a changeset as the SQL comment header
// pragmadb's changelog.BuildMigration output is typically paired with:
// one line per added, dropped, or altered table.
func (sqlFormatter) FormatChangeset(cs *changelog.Changeset) (string, error) {
	if cs == nil || cs.IsEmpty() {
		return "-- no schema changes\n", nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- changeset version %d\n", cs.Version)
	for _, t := range cs.AddedTables {
		fmt.Fprintf(&sb, "-- + table %s\n", t.Name)
	}
	for _, name := range cs.DroppedTables {
		fmt.Fprintf(&sb, "-- - table %s\n", name)
	}
	for _, tc := range cs.AlteredTables {
		fmt.Fprintf(&sb, "-- ~ table %s\n", tc.Name)
	}
	return sb.String(), nil
}

// FormatMigration renders m's pre- and post-migration statements with a
// risk comment ahead of any statement the risk analyzer flagged.
func (sqlFormatter) FormatMigration(m *changelog.Migration, risks []changelog.Risk) (string, error) {
	if m == nil || (len(m.Pre) == 0 && len(m.Post) == 0) {
		return "-- no migration statements\n", nil
	}

	riskByStatement := make(map[string]changelog.Risk, len(risks))
	for _, r := range risks {
		riskByStatement[r.Statement] = r
	}

	var sb strings.Builder
	sb.WriteString("-- pragmadb migration\n")
	sb.WriteString("-- review the risk-flagged statements before running in production\n")

	sb.WriteString("\n-- pre\n")
	writeSQLStatements(&sb, m.Pre, riskByStatement)
	sb.WriteString("\n-- post\n")
	writeSQLStatements(&sb, m.Post, riskByStatement)

	return sb.String(), nil
}

func writeSQLStatements(sb *strings.Builder, stmts []string, risks map[string]changelog.Risk) {
	if len(stmts) == 0 {
		sb.WriteString("-- (none)\n")
		return
	}
	for _, s := range stmts {
		writeRiskComment(sb, s, risks)
		sb.WriteString(s)
		if !strings.HasSuffix(strings.TrimSpace(s), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
}

func writeRiskComment(sb *strings.Builder, stmt string, risks map[string]changelog.Risk) {
	r, ok := risks[stmt]
	if !ok || r.Reason == "" {
		return
	}
	fmt.Fprintf(sb, "-- [%s] %s\n", r.StatementType, r.Reason)
}
