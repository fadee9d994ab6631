// Package report formats the three kinds of value a pragmadb invocation
// surfaces to a human or another tool: validation diagnostics, a
// changelog changeset, and a migration (with its risk classification).
// Grounded on the teacher's internal/output package: a small Format enum,
// a NewFormatter(name) constructor, and one Formatter implementation per
// format, each with one method per value kind.
package report

import (
	"fmt"
	"strings"

	"pragmadb/internal/changelog"
	"pragmadb/internal/validate"
)

// Format selects the output rendering.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatSQL   Format = "sql"
)

// Formatter renders the three report kinds a CLI invocation can produce.
type Formatter interface {
	FormatDiagnostics(*validate.Diagnostics) (string, error)
	FormatChangeset(*changelog.Changeset) (string, error)
	FormatMigration(*changelog.Migration, []changelog.Risk) (string, error)
}

// NewFormatter returns the Formatter for name, defaulting to human-
// readable output when name is empty.
func NewFormatter(name string) (Formatter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSQL:
		return sqlFormatter{}, nil
	default:
		return nil, fmt.Errorf("report: unsupported format %q; use 'human', 'json', or 'sql'", name)
	}
}
