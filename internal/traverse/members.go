package traverse

import "pragmadb/internal/semantics"

// MemberVisitor receives the four dispatch endpoints of §4.C. Composite
// should return true if the walker should recurse into the composite
// class's own members (the common case); returning false lets a caller
// that only wants the top-level shape of a class skip descending.
type MemberVisitor interface {
	Simple(f Frame, member semantics.Ref)
	Pointer(f Frame, member semantics.Ref, target semantics.Ref)
	Container(f Frame, member semantics.Ref, elem semantics.Ref)
	Composite(f Frame, member semantics.Ref, class semantics.Ref) (recurse bool)
}

// Options configures a single ObjectMembers (or ObjectColumns) invocation.
type Options struct {
	// TraversePolyBase, when true, recurses into a polymorphic object's
	// Object-kind base even though it has its own table (§4.C). Off by
	// default: most callers (e.g. building one table per hierarchy level)
	// want each class's own-declared members only.
	TraversePolyBase bool
}

func classKind(u *semantics.Unit, class semantics.Ref) semantics.ClassKind {
	return semantics.GetOr(&u.Node(class).Annotations, semantics.AnnoKeyClassKind, semantics.ClassOther)
}

func isPolymorphicBase(u *semantics.Unit, base semantics.Ref) bool {
	return classKind(u, base) == semantics.ClassObject
}

// ObjectMembers walks every persistent member of class (§4.C
// ObjectMembersBase), recursing into composite sub-members, skipping
// transient members, and skipping Object-kind bases unless
// opts.TraversePolyBase is set.
func ObjectMembers(u *semantics.Unit, class semantics.Ref, v MemberVisitor, opts Options) {
	f := Frame{TopObject: class, CurObject: class}
	walkClassMembers(u, class, f, v, opts)
}

func walkClassMembers(u *semantics.Unit, class semantics.Ref, f Frame, v MemberVisitor, opts Options) {
	kind := classKind(u, class)
	if kind == semantics.ClassOther {
		return
	}

	// Inherits: recurse into bases in declaration order before this
	// class's own members, so id/base columns appear first the way a
	// derived table's SELECT * would list them.
	for _, inh := range u.Inherits(class) {
		if isPolymorphicBase(u, inh.Base) && !opts.TraversePolyBase {
			continue
		}
		walkClassMembers(u, inh.Base, f, v, opts)
	}

	walkDirectMembers(u, class, f, v, opts)
}

func walkDirectMembers(u *semantics.Unit, class semantics.Ref, f Frame, v MemberVisitor, opts Options) {
	owner := u.Node(class)
	for _, member := range owner.Members {
		m := u.Node(member)
		if semantics.GetOr(&m.Annotations, semantics.AnnoTransient, false) {
			continue
		}

		switch variant, target := memberShape(u, member); variant {
		case shapePointer:
			v.Pointer(f, member, target)
		case shapeContainer:
			elem := u.Node(m.MemberType).Underlying
			v.Container(f, member, elem)
		case shapeComposite:
			recurse := v.Composite(f, member, target)
			if recurse {
				nf := f.WithMember(member)
				walkClassMembers(u, target, nf, v, opts)
			}
		default:
			v.Simple(f, member)
		}
	}
}

type memberShapeKind int

const (
	shapeSimple memberShapeKind = iota
	shapePointer
	shapeContainer
	shapeComposite
)

// memberShape resolves through qualifier/typedef wrappers to classify a
// member's declared type for dispatch purposes, returning the target
// class for pointer/composite members.
func memberShape(u *semantics.Unit, member semantics.Ref) (memberShapeKind, semantics.Ref) {
	t := u.Node(member).MemberType
	for {
		n := u.Node(t)
		switch n.TypeVariant {
		case semantics.TypePointer:
			pointee := underlyingClass(u, n.Underlying)
			return shapePointer, pointee
		case semantics.TypeContainer:
			return shapeContainer, 0
		case semantics.TypeClassRef:
			if classKind(u, n.ClassRef) == semantics.ClassComposite {
				return shapeComposite, n.ClassRef
			}
			return shapeSimple, 0
		case semantics.TypeQualifier, semantics.TypeTypedef:
			t = n.Underlying
			continue
		default:
			return shapeSimple, 0
		}
	}
}

// PointeeClass returns the class an object-pointer member refers to, or
// the zero Ref if member is not a pointer member. Exported so
// internal/build can resolve a pointer column's foreign-key target
// without duplicating the type-unwrapping dispatch.
func PointeeClass(u *semantics.Unit, member semantics.Ref) semantics.Ref {
	kind, target := memberShape(u, member)
	if kind != shapePointer {
		return 0
	}
	return target
}

func underlyingClass(u *semantics.Unit, t semantics.Ref) semantics.Ref {
	n := u.Node(t)
	for n.TypeVariant == semantics.TypeQualifier || n.TypeVariant == semantics.TypeTypedef {
		t = n.Underlying
		n = u.Node(t)
	}
	if n.TypeVariant == semantics.TypeClassRef {
		return n.ClassRef
	}
	return 0
}
