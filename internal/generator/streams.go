package generator

import (
	"fmt"
	"path/filepath"

	"pragmadb/internal/gencontext"
)

// OutputSet names every file one generator invocation may produce (§6's
// outputs table), derived from the input file stem (base) and the bound
// Options' suffixes and schema-format selection. A field left empty
// means that artifact isn't produced for this invocation.
type OutputSet struct {
	Header    string // <base><HxxSuffix>
	Inline    string // <base><IxxSuffix>
	Source    string // <base><CxxSuffix>
	Schema    string // <base>[-db]-schema.cxx, separate schema format only
	SQL       string // <base>[-db]<SQLSuffix>, sql schema format only
	Changelog string // <base>.xml, or ChangelogOut/ChangelogDir if set

	MigrationPre  string // <base>[-db]-NNN-pre.sql
	MigrationPost string // <base>[-db]-NNN-post.sql
}

// dbSuffix returns "-<db>" in multi-database builds, "" otherwise (§6:
// "with optional database suffix in multi-database builds").
func dbSuffix(opts gencontext.Options, db gencontext.Database) string {
	if opts.MultiDatabase == gencontext.MultiDatabaseDisabled {
		return ""
	}
	return "-" + string(db)
}

// NamesFor derives the output file names for one invocation of base
// against database db under opts.
func NamesFor(base string, opts gencontext.Options, db gencontext.Database, version int) OutputSet {
	out := OutputSet{
		Header: base + opts.HxxSuffix,
		Inline: base + opts.IxxSuffix,
		Source: base + opts.CxxSuffix,
	}

	suffix := dbSuffix(opts, db)

	if opts.GenerateSchema {
		switch opts.SchemaFormats[db] {
		case gencontext.SchemaFormatSeparate:
			out.Schema = base + suffix + "-schema.cxx"
		case gencontext.SchemaFormatSQL:
			out.SQL = base + suffix + opts.SQLSuffix
		}
	}

	switch {
	case opts.ChangelogOut != "":
		out.Changelog = opts.ChangelogOut
	case opts.ChangelogDir != "":
		out.Changelog = filepath.Join(opts.ChangelogDir, base+".xml")
	default:
		out.Changelog = base + ".xml"
	}

	stem := fmt.Sprintf("%s%s-%03d", base, suffix, version)
	out.MigrationPre = stem + "-pre.sql"
	out.MigrationPost = stem + "-post.sql"
	return out
}
