// Package changelog implements §4.F: diffing two relational.Model
// versions into a Changeset, and serializing the running history of
// changesets as the XML changelog of §6's normative schema. The diff
// shape (added/removed/modified, grouped per table) is grounded on the
// teacher's internal/diff package (SchemaDiff/TableDiff/ColumnChange),
// adapted from the teacher's unordered map-then-sort comparison to an
// order-preserving one, since §5 requires "declaration order is
// preserved through all transformations" — the changelog's table and
// column order must match model_curr's build order, not an alphabetic
// sort.
package changelog

import "pragmadb/internal/relational"

// Changeset is one version transition's worth of schema change
// directives (§4.F's table): applying it to model_prev yields
// model_curr.
type Changeset struct {
	Version int

	AddedTables   []*relational.Table
	DroppedTables []string
	AlteredTables []*TableChange
}

// TableChange groups every directive for one table that exists in both
// model_prev and model_curr but differs (§4.F: "alter_table{ops}").
type TableChange struct {
	Name string

	AddedColumns   []*relational.Column
	DroppedColumns []string
	AlteredColumns []*ColumnChange

	AddedForeignKeys   []*relational.ForeignKey
	DroppedForeignKeys []*relational.ForeignKey

	AddedIndexes   []*relational.Index
	DroppedIndexes []string
}

// ColumnChange is a type or nullability change on an existing column
// (§4.F: "alter_column | type/null change | Relax NULL in pre, tighten
// in post to allow data move").
type ColumnChange struct {
	Name string
	Old  *relational.Column
	New  *relational.Column
}

// IsEmpty reports whether the changeset carries no directives at all —
// used to skip writing an empty changeset when nothing changed between
// two otherwise-identical generation runs.
func (cs *Changeset) IsEmpty() bool {
	return len(cs.AddedTables) == 0 && len(cs.DroppedTables) == 0 && len(cs.AlteredTables) == 0
}

func (tc *TableChange) isEmpty() bool {
	return len(tc.AddedColumns) == 0 && len(tc.DroppedColumns) == 0 && len(tc.AlteredColumns) == 0 &&
		len(tc.AddedForeignKeys) == 0 && len(tc.DroppedForeignKeys) == 0 &&
		len(tc.AddedIndexes) == 0 && len(tc.DroppedIndexes) == 0
}
