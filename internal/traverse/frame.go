// Package traverse implements the member and column traversal framework
// of §4.C: disciplined walks over a class's persistent members (and, for
// composite members, their own members recursively), with controlled
// recursion into polymorphic bases and a running set of naming prefixes
// threaded through the recursion.
//
// Grounded on original_source/odb/common.cxx's object_members_base
// dispatch shape (simple/pointer/container/composite endpoints,
// inherits/names recursion) and on §9's "Visitor with rich per-frame
// state" design note: the walk is plain mutually recursive functions over
// an explicit Frame value, saved and restored on entry/exit of each
// level — never a package-level singleton.
package traverse

import "pragmadb/internal/semantics"

// Frame carries the running state threaded through a traversal. Each
// recursive step into a composite member or a base class produces a new
// Frame (by value) derived from the parent one; popping back out is
// simply "the recursive call returns," which is why there is no explicit
// push/pop bookkeeping to forget.
type Frame struct {
	// MemberPath is the chain of composite-member ancestors from the
	// top-level object down to (but not including) the member currently
	// being visited.
	MemberPath []semantics.Ref

	// FlatPrefix, MemberPrefix, TablePrefix are the three running
	// prefixes of §3.5: FlatPrefix/MemberPrefix accumulate column-name
	// material (kept separate because a member can override one without
	// the other via a custom column prefix), TablePrefix accumulates the
	// table-name material used when a container is nested inside
	// composite members.
	FlatPrefix   string
	MemberPrefix string
	TablePrefix  string

	// TopObject is the top-level persistent class this traversal started
	// from; CurObject is the object whose members are being iterated at
	// this exact frame (equal to TopObject except while traversing an
	// object-pointer's target in a context that re-enters member
	// traversal, e.g. computing the pointed-to id column).
	TopObject semantics.Ref
	CurObject semantics.Ref

	// Depth counts composite-recursion levels, for callers that want to
	// bound or log recursion.
	Depth int
}

// WithMember returns a new Frame for recursing into a composite member,
// with the member appended to MemberPath and Depth incremented. The
// caller is responsible for updating the prefix fields (via
// gencontext.ColumnPrefix et al.) before passing the frame down, since
// the exact prefix rule differs between member and column traversal.
func (f Frame) WithMember(m semantics.Ref) Frame {
	path := make([]semantics.Ref, len(f.MemberPath)+1)
	copy(path, f.MemberPath)
	path[len(path)-1] = m
	f.MemberPath = path
	f.Depth++
	return f
}
