package traverse

import "pragmadb/internal/semantics"

// ColumnKind distinguishes how a flattened column-sequence entry maps
// back to a member (§4.C ObjectColumnsBase).
type ColumnKind int

const (
	ColumnSimple ColumnKind = iota
	ColumnPointer
)

// ColumnVisitor receives the flattened column sequence produced by
// ObjectColumns. Container receives containers encountered along the way
// (they do not themselves become columns — they become separate
// container tables, built by internal/build — but the builder still
// needs to know where they occurred in the flattened walk to derive
// their table names from the enclosing prefix).
type ColumnVisitor interface {
	Column(f Frame, member semantics.Ref, kind ColumnKind)
	Container(f Frame, member semantics.Ref, elem semantics.Ref)
	// Flush is invoked once after the last column of the top-level
	// class/composite has been visited (§4.C: "a trailing flush() is
	// invoked after the last column of a top-level class/composite").
	Flush(f Frame)
}

// ColumnOptions configures ObjectColumns.
type ColumnOptions struct {
	// SkipInverse omits inverse object-pointer members from the flattened
	// sequence (§4.C: "Inverse object pointers are skipped by
	// ObjectColumnsList"), used for INSERT/UPDATE/DELETE column lists but
	// not for SELECT, which must still read the inverse side back.
	SkipInverse bool
	Options
}

type columnAdapter struct {
	u    *semantics.Unit
	v    ColumnVisitor
	opts ColumnOptions
}

func (a *columnAdapter) Simple(f Frame, member semantics.Ref) {
	a.v.Column(f, member, ColumnSimple)
}

func (a *columnAdapter) Pointer(f Frame, member semantics.Ref, target semantics.Ref) {
	if a.opts.SkipInverse && semantics.GetOr(&a.u.Node(member).Annotations, semantics.AnnoInverse, "") != "" {
		return
	}
	a.v.Column(f, member, ColumnPointer)
}

func (a *columnAdapter) Container(f Frame, member semantics.Ref, elem semantics.Ref) {
	a.v.Container(f, member, elem)
}

func (a *columnAdapter) Composite(f Frame, member semantics.Ref, class semantics.Ref) bool {
	return true
}

// ObjectColumns walks class the same way ObjectMembers does, but
// flattens composite members into their own leaf columns and calls a
// single trailing Flush when done (§4.C ObjectColumnsBase).
func ObjectColumns(u *semantics.Unit, class semantics.Ref, v ColumnVisitor, opts ColumnOptions) {
	a := &columnAdapter{u: u, v: v, opts: opts}
	ObjectMembers(u, class, a, opts.Options)
	v.Flush(Frame{TopObject: class, CurObject: class})
}
