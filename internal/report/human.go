package report

import (
	"fmt"
	"strings"

	"pragmadb/internal/changelog"
	"pragmadb/internal/validate"
)

type humanFormatter struct{}

func (humanFormatter) FormatDiagnostics(d *validate.Diagnostics) (string, error) {
	if d == nil || len(d.All()) == 0 {
		return "No diagnostics.\n", nil
	}

	var sb strings.Builder
	errs, warns := 0, 0
	for _, it := range d.All() {
		label := "warning"
		if it.Severity == validate.SeverityError {
			label = "error"
			errs++
		} else {
			warns++
		}
		fmt.Fprintf(&sb, "%s: %s: %s: %s\n", it.Loc, label, it.Subject, it.Message)
	}
	fmt.Fprintf(&sb, "\n%d error(s), %d warning(s)\n", errs, warns)
	return sb.String(), nil
}

func (humanFormatter) FormatChangeset(cs *changelog.Changeset) (string, error) {
	if cs == nil || cs.IsEmpty() {
		return "No schema changes.\n", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Changeset (version %d)\n", cs.Version)
	fmt.Fprintf(&sb, "Tables: +%d, ~%d, -%d\n\n", len(cs.AddedTables), len(cs.AlteredTables), len(cs.DroppedTables))

	for _, t := range cs.AddedTables {
		fmt.Fprintf(&sb, "  + %s (%d columns)\n", t.Name, len(t.Columns))
	}
	for _, name := range cs.DroppedTables {
		fmt.Fprintf(&sb, "  - %s\n", name)
	}
	for _, tc := range cs.AlteredTables {
		fmt.Fprintf(&sb, "  ~ %s (%s)\n", tc.Name, tableChangeSummary(tc))
	}
	return sb.String(), nil
}

func tableChangeSummary(tc *changelog.TableChange) string {
	var parts []string
	if n := len(tc.AddedColumns); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d cols", n))
	}
	if n := len(tc.DroppedColumns); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d cols", n))
	}
	if n := len(tc.AlteredColumns); n > 0 {
		parts = append(parts, fmt.Sprintf("~%d cols", n))
	}
	if n := len(tc.AddedForeignKeys); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d fk", n))
	}
	if n := len(tc.DroppedForeignKeys); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d fk", n))
	}
	if n := len(tc.AddedIndexes); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d idx", n))
	}
	if n := len(tc.DroppedIndexes); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d idx", n))
	}
	if len(parts) == 0 {
		return "no column changes"
	}
	return strings.Join(parts, ", ")
}

func (humanFormatter) FormatMigration(m *changelog.Migration, risks []changelog.Risk) (string, error) {
	if m == nil || (len(m.Pre) == 0 && len(m.Post) == 0) {
		return "No migration statements.\n", nil
	}

	riskByStatement := make(map[string]changelog.Risk, len(risks))
	for _, r := range risks {
		riskByStatement[r.Statement] = r
	}

	var sb strings.Builder
	sb.WriteString("Pre-migration:\n")
	writeStatements(&sb, m.Pre, riskByStatement)
	sb.WriteString("\nPost-migration:\n")
	writeStatements(&sb, m.Post, riskByStatement)
	return sb.String(), nil
}

func writeStatements(sb *strings.Builder, stmts []string, risks map[string]changelog.Risk) {
	if len(stmts) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for _, s := range stmts {
		if r, ok := risks[s]; ok && r.Reason != "" {
			fmt.Fprintf(sb, "  [%s] %s\n", r.StatementType, r.Reason)
		}
		fmt.Fprintf(sb, "  %s;\n", s)
	}
}
