package report

import (
	"encoding/json"

	"pragmadb/internal/changelog"
	"pragmadb/internal/relational"
	"pragmadb/internal/validate"
)

type jsonFormatter struct{}

type diagnosticEntry struct {
	Severity string `json:"severity"`
	Location string `json:"location"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

type diagnosticsSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

type diagnosticsPayload struct {
	Format      string              `json:"format"`
	Summary     diagnosticsSummary  `json:"summary"`
	Diagnostics []diagnosticEntry   `json:"diagnostics,omitempty"`
}

type changesetSummary struct {
	AddedTables   int `json:"addedTables"`
	DroppedTables int `json:"droppedTables"`
	AlteredTables int `json:"alteredTables"`
}

type changesetPayload struct {
	Format        string                     `json:"format"`
	Version       int                        `json:"version"`
	Summary       changesetSummary           `json:"summary"`
	AddedTables   []*relational.Table        `json:"addedTables,omitempty"`
	DroppedTables []string                   `json:"droppedTables,omitempty"`
	AlteredTables []*changelog.TableChange   `json:"alteredTables,omitempty"`
}

type migrationSummary struct {
	PreStatements  int `json:"preStatements"`
	PostStatements int `json:"postStatements"`
	Risks          int `json:"risks"`
}

type migrationPayload struct {
	Format  string             `json:"format"`
	Summary migrationSummary   `json:"summary"`
	Pre     []string           `json:"pre,omitempty"`
	Post    []string           `json:"post,omitempty"`
	Risks   []changelog.Risk   `json:"risks,omitempty"`
}

type payload interface {
	diagnosticsPayload | changesetPayload | migrationPayload
}

func (jsonFormatter) FormatDiagnostics(d *validate.Diagnostics) (string, error) {
	p := diagnosticsPayload{Format: string(FormatJSON)}
	if d != nil {
		for _, it := range d.All() {
			sev := "warning"
			if it.Severity == validate.SeverityError {
				sev = "error"
			}
			p.Diagnostics = append(p.Diagnostics, diagnosticEntry{
				Severity: sev,
				Location: it.Loc.String(),
				Subject:  it.Subject,
				Message:  it.Message,
			})
		}
		p.Summary = diagnosticsSummary{Errors: len(d.Errors()), Warnings: len(d.All()) - len(d.Errors())}
	}
	return marshalJSON(p)
}

func (jsonFormatter) FormatChangeset(cs *changelog.Changeset) (string, error) {
	p := changesetPayload{Format: string(FormatJSON)}
	if cs != nil {
		p.Version = cs.Version
		p.AddedTables = cs.AddedTables
		p.DroppedTables = cs.DroppedTables
		p.AlteredTables = cs.AlteredTables
		p.Summary = changesetSummary{
			AddedTables:   len(cs.AddedTables),
			DroppedTables: len(cs.DroppedTables),
			AlteredTables: len(cs.AlteredTables),
		}
	}
	return marshalJSON(p)
}

func (jsonFormatter) FormatMigration(m *changelog.Migration, risks []changelog.Risk) (string, error) {
	p := migrationPayload{Format: string(FormatJSON)}
	if m != nil {
		p.Pre = m.Pre
		p.Post = m.Post
	}
	p.Risks = risks
	p.Summary = migrationSummary{
		PreStatements:  len(p.Pre),
		PostStatements: len(p.Post),
		Risks:          len(risks),
	}
	return marshalJSON(p)
}

func marshalJSON[T payload](p T) (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
