package gencontext

import "pragmadb/internal/semantics"

// Null resolves a member's nullability (§4.B, §8 invariant 3): object
// pointer members default to nullable, scalars default to non-null; a
// later explicit null/not-null annotation overrides an earlier one.
// When both null and not-null are present the conflict is reported (for
// validate to record as an AnnotationConflict diagnostic — resolving it
// is not itself an error, §7) and the later-located directive wins. The
// winning bool and its location are cached on the member under
// AnnoKeyNullResolved/AnnoKeyNullLoc.
func (c *Context) Null(member semantics.Ref) (nullable bool, conflict *semantics.AnnotationConflict) {
	n := c.Unit.Node(member)
	if v, err := semantics.Get[bool](&n.Annotations, semantics.AnnoKeyNullResolved); err == nil {
		return v, nil
	}

	nullable = c.defaultNullability(member)

	nullDir, hasNull := semantics.Get[semantics.Located[bool]](&n.Annotations, semantics.AnnoNull)
	notNullDir, hasNotNull := semantics.Get[semantics.Located[bool]](&n.Annotations, semantics.AnnoNotNull)

	switch {
	case hasNull == nil && hasNotNull == nil:
		if locLater(notNullDir.Loc, nullDir.Loc) {
			nullable = false
			conflict = &semantics.AnnotationConflict{Loc: notNullDir.Loc, Subject: "member " + n.Name, Winner: "not-null"}
		} else {
			nullable = true
			conflict = &semantics.AnnotationConflict{Loc: nullDir.Loc, Subject: "member " + n.Name, Winner: "null"}
		}
	case hasNull == nil:
		nullable = nullDir.Value
	case hasNotNull == nil:
		nullable = !notNullDir.Value
	}

	semantics.Set(&n.Annotations, semantics.AnnoKeyNullResolved, nullable)
	if conflict != nil {
		semantics.Set(&n.Annotations, semantics.AnnoKeyNullLoc, conflict.Loc)
	}
	return nullable, conflict
}

// defaultNullability implements the type-driven default before any
// explicit annotation is applied: object pointers are nullable by
// default, everything else is not. A wrapper type can override this
// default (§4.B: "Wrapper types can supply a default null handler that
// carries through") via a "wrapper_null_default" bool annotation placed
// on the Type node by the input parser.
func (c *Context) defaultNullability(member semantics.Ref) bool {
	n := c.Unit.Node(member)
	t := c.Unit.Node(n.MemberType)
	if t.TypeVariant == semantics.TypePointer {
		return true
	}
	if d := c.unwrapToTypedef(n.MemberType); d.Valid() {
		if v, err := semantics.Get[bool](&c.Unit.Node(d).Annotations, "wrapper_null_default"); err == nil {
			return v
		}
	}
	return false
}

// unwrapToTypedef walks through qualifier/array wrappers to the
// innermost named typedef, if any, so a wrapper's default can be found
// even when the member's declared type is, e.g., const SomeWrapper.
func (c *Context) unwrapToTypedef(t semantics.Ref) semantics.Ref {
	cur := t
	for cur.Valid() {
		n := c.Unit.Node(cur)
		if n.TypeVariant == semantics.TypeTypedef {
			return cur
		}
		if n.Underlying.Valid() {
			cur = n.Underlying
			continue
		}
		return 0
	}
	return 0
}
