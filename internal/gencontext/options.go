// Package gencontext implements the process-wide generation context (§5)
// and the pure name-derivation functions of §4.B: schema, table name,
// column name/prefix, nullability, column type/options, and identifier
// escaping. It is grounded on the teacher's internal/core naming helpers
// (AutoGenerateConstraintName, NormalizeDataType) and, for the
// C++-specific escape/public_name algorithm, on
// original_source/odb/context.cxx.
package gencontext

// Database identifies the target SQL dialect, matching §6's `database`
// option values.
type Database string

const (
	DatabaseCommon   Database = "common"
	DatabaseMSSQL    Database = "mssql"
	DatabaseMySQL    Database = "mysql"
	DatabaseOracle   Database = "oracle"
	DatabasePgSQL    Database = "pgsql"
	DatabaseSQLite   Database = "sqlite"
)

// MultiDatabase selects whether common base classes are emitted (§6).
type MultiDatabase string

const (
	MultiDatabaseDisabled MultiDatabase = "disabled"
	MultiDatabaseStatic   MultiDatabase = "static"
	MultiDatabaseDynamic  MultiDatabase = "dynamic"
)

// SchemaFormat selects the schema output shape (§6), one flag per
// database in multi-database builds.
type SchemaFormat string

const (
	SchemaFormatEmbedded SchemaFormat = "embedded"
	SchemaFormatSeparate SchemaFormat = "separate"
	SchemaFormatSQL      SchemaFormat = "sql"
)

// RewriteRule is one entry of an include / accessor / modifier rule set.
// Options only stores the rules: nothing in this module compiles or
// applies them, and the CLI has no flags that fill them in.
type RewriteRule struct {
	Pattern     string // regular-expression source text, stored uncompiled
	Replacement string
}

// Options is the full bound set of command-line options from §6's table.
type Options struct {
	Database       Database
	MultiDatabase  MultiDatabase
	GenerateSchema bool
	SchemaFormats  map[Database]SchemaFormat
	GenerateQuery  bool

	Schema      string // --schema default
	TablePrefix string // --table-prefix

	ChangelogIn         string
	ChangelogOut        string
	ChangelogDir        string
	InitChangelog       bool
	SuppressMigration   bool

	IncludeRegex  []RewriteRule
	AccessorRegex []RewriteRule
	ModifierRegex []RewriteRule

	ExportSymbol map[Database]string
	ExternSymbol map[Database]string

	GuardPrefix string
	HxxSuffix   string
	IxxSuffix   string
	CxxSuffix   string
	SQLSuffix   string

	SLOCLimit int
	ShowSLOC  bool

	// TraceRegex is stored for the rewrite rules above; no code in this
	// module reads it, so setting it produces no trace output.
	TraceRegex bool
}

// DefaultOptions returns the zero-value-safe defaults the teacher's CLI
// layer would bind before flag overrides (teacher: internal/dialect's
// DefaultMigrationOptions plays the analogous role for the migration
// pipeline).
func DefaultOptions(db Database) Options {
	return Options{
		Database:      db,
		MultiDatabase: MultiDatabaseDisabled,
		SchemaFormats: map[Database]SchemaFormat{db: SchemaFormatEmbedded},
		HxxSuffix:     "-odb.hxx",
		IxxSuffix:     "-odb.ixx",
		CxxSuffix:     "-odb.cxx",
		SQLSuffix:     ".sql",
	}
}
