// Package generator implements §4.G's pipeline driver: it orders
// validation, relational-model construction, changelog diffing, and
// per-database emission into one invocation, counts the generated
// source lines, and writes the resulting files to disk. Grounded on the
// teacher's cmd/smf/main.go command orchestration (open files, call into
// the core packages in sequence, write results) and on its
// internal/output package's dispatch-by-output-kind shape
// (formatter.go -> human.go/json.go/sql.go), generalized here to
// dispatch by output *file* kind (header/inline/source/schema/sql/
// changelog/migration) instead of by report format.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pragmadb/internal/build"
	"pragmadb/internal/changelog"
	"pragmadb/internal/emit"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
	"pragmadb/internal/validate"
)

// Result collects every artifact one generator invocation produces.
type Result struct {
	Diagnostics *validate.Diagnostics
	Model       *relational.Model
	Changeset   *changelog.Changeset
	Migration   *changelog.Migration
	Changelog   *changelog.Changelog
	Risks       []changelog.Risk

	Header string
	Inline string
	Source string
	Schema string // embedded in Source when schema-format is "embedded"
	SQL    string

	// StatementTypes and FindStatementNames carry §4.E's "SQL statement
	// typing" and find_statement_names artifacts, keyed by table name.
	// StatementTypes is the zero value on every dialect but PostgreSQL.
	StatementTypes     map[string]emit.StatementTypes
	FindStatementNames map[string][]string

	Names OutputSet
	SLOC  int
}

// Run executes §2's full data flow for one translation unit against
// ctx.Options.Database: validate the unit, build its relational model,
// diff it against prev's model (nil for an initial version), build the
// pre/post migration for that diff, and render every output text. Run
// never touches the filesystem; callers that want files on disk call
// Result.WriteAll.
func Run(ctx *gencontext.Context, oracle validate.ComparabilityOracle, riskAnalyzer *changelog.RiskAnalyzer, base string, prev *changelog.Changelog, version int) (*Result, error) {
	diags := validate.Validate(ctx, oracle)
	res := &Result{Diagnostics: diags}
	if diags.Failed() {
		return res, fmt.Errorf("generator: validation failed with %d error(s)", len(diags.Errors()))
	}

	dialect, err := emit.GetDialect(ctx.Options.Database)
	if err != nil {
		return res, err
	}
	gen := dialect.Generator()

	model := build.BuildModel(ctx, dialect.TypeMapper(), version)
	res.Model = model
	res.Names = NamesFor(base, ctx.Options, ctx.Options.Database, version)

	res.StatementTypes = make(map[string]emit.StatementTypes, len(model.Tables))
	for _, t := range model.Tables {
		res.StatementTypes[t.Name] = gen.StatementTypes(ctx, t)
	}
	res.FindStatementNames = make(map[string][]string, len(model.Tables))
	for _, class := range build.ObjectClasses(ctx.Unit) {
		res.FindStatementNames[ctx.TableName(class)] = build.FindStatementNames(ctx, class)
	}

	var prevModel *relational.Model
	var changesets []*changelog.Changeset
	if prev != nil {
		if prev.Database != string(ctx.Options.Database) {
			return res, &changelog.DatabaseMismatchError{Expected: string(ctx.Options.Database), Found: prev.Database}
		}
		prevModel = prev.Model
		changesets = append(changesets, prev.Changesets...)
	}

	cs := changelog.Diff(prevModel, model, version)
	res.Changeset = cs
	if !cs.IsEmpty() {
		changesets = append(changesets, cs)
	}

	if !ctx.Options.SuppressMigration && !cs.IsEmpty() {
		mig := changelog.BuildMigration(ctx, gen, cs)
		res.Migration = mig
		if riskAnalyzer != nil {
			res.Risks = riskAnalyzer.ClassifyAll(append(append([]string{}, mig.Pre...), mig.Post...))
		}
	}

	res.Changelog = &changelog.Changelog{
		Database:   string(ctx.Options.Database),
		SchemaName: ctx.Options.Schema,
		Model:      model,
		Changesets: changesets,
	}

	res.Header = buildHeader(ctx, base, model)
	res.Inline = buildInline(ctx, base, model)

	if ctx.Options.GenerateSchema {
		switch ctx.Options.SchemaFormats[ctx.Options.Database] {
		case gencontext.SchemaFormatSeparate:
			res.Schema = buildEmbeddedSchema(ctx, model, gen)
			res.Source = buildSource(ctx, base, model, gen)
		case gencontext.SchemaFormatSQL:
			res.SQL = buildEmbeddedSchema(ctx, model, gen)
			res.Source = buildSource(ctx, base, model, gen)
		default: // embedded
			res.Source = buildSource(ctx, base, model, gen) + "\n" + buildEmbeddedSchema(ctx, model, gen)
		}
	} else {
		res.Source = buildSource(ctx, base, model, gen)
	}

	res.SLOC = CountSLOC(res.Header, res.Inline, res.Source, res.Schema, res.SQL)
	if ctx.Options.SLOCLimit > 0 && res.SLOC > ctx.Options.SLOCLimit {
		return res, fmt.Errorf("generator: generated %d source lines, exceeding sloc-limit %d", res.SLOC, ctx.Options.SLOCLimit)
	}
	return res, nil
}

// WriteAll writes every non-empty rendered artifact under dir. The
// changelog is rewritten only when changelog.NeedsRewrite reports a
// byte difference from what's already on disk (§4.F: "rewritten only
// when the serialized form differs ... byte-exact comparison"). On any
// write failure every file this call itself created is removed before
// returning the error (§5: "Errors abort the run ... partial files are
// removed") — anything that predated this call (an existing changelog,
// say) is left untouched.
func (r *Result) WriteAll(dir string) error {
	type entry struct {
		path    string
		content []byte
	}
	var entries []entry
	add := func(path, content string) {
		if path == "" || content == "" {
			return
		}
		entries = append(entries, entry{path: path, content: []byte(content)})
	}

	add(r.Names.Header, r.Header)
	add(r.Names.Inline, r.Inline)
	add(r.Names.Source, r.Source)
	add(r.Names.Schema, r.Schema)
	add(r.Names.SQL, r.SQL)

	if r.Changelog != nil {
		data, err := r.Changelog.Marshal()
		if err != nil {
			return &IOError{Path: r.Names.Changelog, Op: "marshal", Err: err}
		}
		existing, _ := os.ReadFile(filepath.Join(dir, r.Names.Changelog))
		if changelog.NeedsRewrite(existing, data) {
			add(r.Names.Changelog, string(data))
		}
	}

	if r.Migration != nil {
		add(r.Names.MigrationPre, joinStatements(r.Migration.Pre))
		add(r.Names.MigrationPost, joinStatements(r.Migration.Post))
	}

	var written []string
	for _, e := range entries {
		full := filepath.Join(dir, e.path)
		if err := os.WriteFile(full, e.content, 0o644); err != nil {
			for _, w := range written {
				_ = os.Remove(w)
			}
			return &IOError{Path: full, Op: "write", Err: err}
		}
		written = append(written, full)
	}
	return nil
}

func joinStatements(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(s)
		sb.WriteString(";\n")
	}
	return sb.String()
}
