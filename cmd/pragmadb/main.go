// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pragmadb/internal/changelog"
	"pragmadb/internal/emit"
	_ "pragmadb/internal/emit/mssql"
	_ "pragmadb/internal/emit/mysql"
	_ "pragmadb/internal/emit/oracle"
	_ "pragmadb/internal/emit/pgsql"
	_ "pragmadb/internal/emit/sqlite"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/generator"
	"pragmadb/internal/input/unit"
	"pragmadb/internal/report"
	"pragmadb/internal/validate"
)

type generateFlags struct {
	database       string
	multiDatabase  string
	schema         string
	tablePrefix    string
	generateSchema bool
	schemaFormat   string
	generateQuery  bool

	changelogIn       string
	changelogOut      string
	changelogDir      string
	initChangelog     bool
	suppressMigration bool

	exportSymbol []string // db=symbol
	externSymbol []string

	guardPrefix string
	hxxSuffix   string
	ixxSuffix   string
	cxxSuffix   string
	sqlSuffix   string

	slocLimit int
	showSLOC  bool

	out    string
	base   string
	format string
}

type validateFlags struct {
	database string
	format   string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pragmadb",
		Short: "ORM schema and migration code generator",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate <schema.toml>",
		Short: "Generate persistence code, schema, and migration for one translation unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.database, "database", "common", "Target database: common, mssql, mysql, oracle, pgsql, sqlite")
	cmd.Flags().StringVar(&flags.multiDatabase, "multi-database", "disabled", "Common base class emission: disabled, static, dynamic")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "Default schema name")
	cmd.Flags().StringVar(&flags.tablePrefix, "table-prefix", "", "Default table name prefix")
	cmd.Flags().BoolVar(&flags.generateSchema, "generate-schema", false, "Enable schema emission")
	cmd.Flags().StringVar(&flags.schemaFormat, "schema-format", "embedded", "Schema output shape: embedded, separate, sql")
	cmd.Flags().BoolVar(&flags.generateQuery, "generate-query", false, "Enable view query support")

	cmd.Flags().StringVar(&flags.changelogIn, "changelog-in", "", "Previous changelog to fold forward")
	cmd.Flags().StringVar(&flags.changelogOut, "changelog-out", "", "Explicit changelog output path")
	cmd.Flags().StringVar(&flags.changelogDir, "changelog-dir", "", "Directory to derive the changelog path from")
	cmd.Flags().BoolVar(&flags.initChangelog, "init-changelog", false, "Start a fresh changelog at version 1")
	cmd.Flags().BoolVar(&flags.suppressMigration, "suppress-migration", false, "Skip migration SQL and risk classification")

	cmd.Flags().StringSliceVar(&flags.exportSymbol, "export-symbol", nil, "db=SYMBOL pairs for the export decoration")
	cmd.Flags().StringSliceVar(&flags.externSymbol, "extern-symbol", nil, "db=SYMBOL pairs for the extern decoration")

	cmd.Flags().StringVar(&flags.guardPrefix, "guard-prefix", "", "Prefix for generated include guards")
	cmd.Flags().StringVar(&flags.hxxSuffix, "hxx-suffix", "-odb.hxx", "Header file suffix")
	cmd.Flags().StringVar(&flags.ixxSuffix, "ixx-suffix", "-odb.ixx", "Inline file suffix")
	cmd.Flags().StringVar(&flags.cxxSuffix, "cxx-suffix", "-odb.cxx", "Source file suffix")
	cmd.Flags().StringVar(&flags.sqlSuffix, "sql-suffix", ".sql", "Standalone schema file suffix")

	cmd.Flags().IntVar(&flags.slocLimit, "sloc-limit", 0, "Fail generation past this many generated source lines (0 disables)")
	cmd.Flags().BoolVar(&flags.showSLOC, "show-sloc", false, "Print the generated line count")

	cmd.Flags().StringVarP(&flags.out, "out", "o", ".", "Output directory for generated files")
	cmd.Flags().StringVar(&flags.base, "base", "", "Base name for generated files (defaults to the input file stem)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Report format: human, json, sql")

	return cmd
}

func validateCmd() *cobra.Command {
	flags := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate <schema.toml>",
		Short: "Run the validator and report diagnostics without generating output",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.database, "database", "common", "Target database: common, mssql, mysql, oracle, pgsql, sqlite")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Report format: human, json, sql")
	return cmd
}

func runValidate(path string, flags *validateFlags) error {
	u, err := unit.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	db := gencontext.Database(flags.database)
	opts := gencontext.DefaultOptions(db)
	ctx := gencontext.New(opts, u)

	diags := validate.Validate(ctx, validate.NewDefaultOracle(nil))

	formatter, err := report.NewFormatter(flags.format)
	if err != nil {
		return err
	}
	text, err := formatter.FormatDiagnostics(diags)
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	fmt.Print(text)

	if diags.Failed() {
		return fmt.Errorf("validation failed with %d error(s)", len(diags.Errors()))
	}
	return nil
}

func runGenerate(path string, flags *generateFlags) error {
	u, err := unit.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	db := gencontext.Database(flags.database)
	if _, err := emit.GetDialect(db); err != nil {
		return fmt.Errorf("unsupported database: %w", err)
	}

	opts, err := buildOptions(db, flags)
	if err != nil {
		return err
	}
	ctx := gencontext.New(opts, u)

	base := flags.base
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	prev, version, err := loadChangelog(flags, db)
	if err != nil {
		return err
	}

	var riskAnalyzer *changelog.RiskAnalyzer
	if !flags.suppressMigration {
		riskAnalyzer = changelog.NewRiskAnalyzer()
	}

	res, err := generator.Run(ctx, validate.NewDefaultOracle(nil), riskAnalyzer, base, prev, version)

	formatter, ferr := report.NewFormatter(flags.format)
	if ferr != nil {
		return ferr
	}
	if diagText, derr := formatter.FormatDiagnostics(res.Diagnostics); derr == nil {
		fmt.Print(diagText)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flags.out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := res.WriteAll(flags.out); err != nil {
		return fmt.Errorf("failed to write generated files: %w", err)
	}

	if csText, cerr := formatter.FormatChangeset(res.Changeset); cerr == nil {
		fmt.Print(csText)
	}
	if res.Migration != nil {
		if migText, merr := formatter.FormatMigration(res.Migration, res.Risks); merr == nil {
			fmt.Print(migText)
		}
	}
	if flags.showSLOC {
		fmt.Printf("generated %d source line(s)\n", res.SLOC)
	}
	return nil
}

func buildOptions(db gencontext.Database, flags *generateFlags) (gencontext.Options, error) {
	opts := gencontext.DefaultOptions(db)
	opts.MultiDatabase = gencontext.MultiDatabase(flags.multiDatabase)
	opts.Schema = flags.schema
	opts.TablePrefix = flags.tablePrefix
	opts.GenerateSchema = flags.generateSchema
	opts.SchemaFormats[db] = gencontext.SchemaFormat(flags.schemaFormat)
	opts.GenerateQuery = flags.generateQuery

	opts.ChangelogIn = flags.changelogIn
	opts.ChangelogOut = flags.changelogOut
	opts.ChangelogDir = flags.changelogDir
	opts.InitChangelog = flags.initChangelog
	opts.SuppressMigration = flags.suppressMigration

	opts.ExportSymbol = map[gencontext.Database]string{}
	for _, pair := range flags.exportSymbol {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return opts, fmt.Errorf("invalid --export-symbol %q, expected db=SYMBOL", pair)
		}
		opts.ExportSymbol[gencontext.Database(k)] = v
	}
	opts.ExternSymbol = map[gencontext.Database]string{}
	for _, pair := range flags.externSymbol {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return opts, fmt.Errorf("invalid --extern-symbol %q, expected db=SYMBOL", pair)
		}
		opts.ExternSymbol[gencontext.Database(k)] = v
	}

	opts.GuardPrefix = flags.guardPrefix
	opts.HxxSuffix = flags.hxxSuffix
	opts.IxxSuffix = flags.ixxSuffix
	opts.CxxSuffix = flags.cxxSuffix
	opts.SQLSuffix = flags.sqlSuffix

	opts.SLOCLimit = flags.slocLimit
	opts.ShowSLOC = flags.showSLOC

	return opts, nil
}

// loadChangelog resolves the previous changelog (if any) and the version
// number the new run targets, per §6's changelog-in/-dir/init-changelog
// options.
func loadChangelog(flags *generateFlags, db gencontext.Database) (*changelog.Changelog, int, error) {
	if flags.initChangelog {
		return nil, 1, nil
	}

	path := flags.changelogIn
	if path == "" && flags.changelogDir != "" {
		path = filepath.Join(flags.changelogDir, "changelog.xml")
	}
	if path == "" {
		return nil, 1, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, 1, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read changelog: %w", err)
	}

	prev, err := changelog.Unmarshal(data, string(db), 0)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse changelog: %w", err)
	}
	return prev, prev.Model.Version + 1, nil
}
