// Package build implements §4.E's relational model builder: it walks the
// validated semantic graph's object classes with internal/traverse
// and projects each into a relational.Table, deriving names with
// internal/gencontext and SQL column types through an injected TypeMapper.
//
// Grounded on the teacher's internal/core/schema.go for the Table/Column
// assembly shape, and on original_source/odb/context.cxx's id/column
// traversal for which facts (auto, deferrability, poly-base FK) get
// attached where.
package build

import "pragmadb/internal/gencontext"

// TypeMapper resolves a C++ primitive/class type spelling to the
// concrete SQL column type for the target database (§4.E: "per-member
// image binding ... type-dispatched"). internal/emit's per-database
// packages implement this; build depends only on the interface so it
// never imports internal/emit (which itself depends on relational.Model,
// and would create an import cycle if the dependency ran the other way).
type TypeMapper interface {
	// SQLType returns the column type for a member whose declared type
	// spells as primitive (a C++ fundamental type name, "std::string",
	// or similar). isID/auto let a dialect pick a different width or an
	// auto-increment-capable type for identity columns.
	SQLType(ctx *gencontext.Context, primitive string, isID, auto bool) string
}
