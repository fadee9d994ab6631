package validate

import (
	"pragmadb/internal/gencontext"
	"pragmadb/internal/semantics"
)

// classifyKind determines a class's §3.1 kind from its user-visible
// annotations and caches the result under AnnoKeyClassKind, the same
// cache traverse.classKind reads back.
func classifyKind(n *semantics.Node) semantics.ClassKind {
	switch {
	case semantics.GetOr(&n.Annotations, semantics.AnnoObject, false):
		return semantics.ClassObject
	case semantics.GetOr(&n.Annotations, semantics.AnnoView, false):
		return semantics.ClassView
	case semantics.GetOr(&n.Annotations, semantics.AnnoValue, false),
		semantics.GetOr(&n.Annotations, semantics.AnnoSimple, false):
		return semantics.ClassComposite
	default:
		return semantics.ClassOther
	}
}

// structuralPass runs §4.D pass 1 over every class in the unit.
func structuralPass(ctx *gencontext.Context, oracle ComparabilityOracle, diags *Diagnostics) {
	u := ctx.Unit
	u.All(func(r semantics.Ref, n *semantics.Node) {
		if n.Kind != semantics.KindClass {
			return
		}
		kind := classifyKind(n)
		semantics.Set(&n.Annotations, semantics.AnnoKeyClassKind, kind)

		switch kind {
		case semantics.ClassObject:
			validateObject(ctx, r, n, oracle, diags)
		case semantics.ClassView:
			validateView(ctx, r, n, diags)
		case semantics.ClassComposite:
			validateComposite(ctx, r, n, diags)
		}
	})

	// Polymorphic root/depth is a function of the whole hierarchy, so it
	// runs as a second sweep once every class's kind is cached (a
	// derived class's base may be processed after it in allocation
	// order).
	u.All(func(r semantics.Ref, n *semantics.Node) {
		if classifyKind(n) == semantics.ClassObject {
			resolvePolymorphicRoot(u, r)
		}
	})
}

func objectBases(u *semantics.Unit, class semantics.Ref) []semantics.Ref {
	var out []semantics.Ref
	for _, inh := range u.Inherits(class) {
		if classifyKind(u.Node(inh.Base)) == semantics.ClassObject {
			out = append(out, inh.Base)
		}
	}
	return out
}

func validateObject(ctx *gencontext.Context, r semantics.Ref, n *semantics.Node, oracle ComparabilityOracle, diags *Diagnostics) {
	u := ctx.Unit

	bases := objectBases(u, r)
	if len(bases) > 1 {
		diags.Error(n.Loc, n.Name, "object has more than one polymorphic base")
	}

	var id, version semantics.Ref
	var idCount, versionCount int

	for _, m := range n.Members {
		mn := u.Node(m)
		if semantics.GetOr(&mn.Annotations, semantics.AnnoTransient, false) {
			continue
		}
		if mn.MemberType == 0 {
			diags.Error(mn.Loc, mn.Name, "member has no named type")
		}

		// Reconcile null/not-null by location (§4.D, §8 invariant 3):
		// resolving through gencontext.Null has the side effect of
		// caching the winning directive, exactly what pass 1 requires.
		if _, conflict := ctx.Null(m); conflict != nil {
			diags.Warning(conflict.Loc, mn.Name, conflict.Error())
		}

		if semantics.GetOr(&mn.Annotations, semantics.AnnoID, false) {
			idCount++
			id = m
		}
		if semantics.GetOr(&mn.Annotations, semantics.AnnoVersion, false) {
			versionCount++
			version = m
		}
	}

	if idCount > 1 {
		diags.Error(n.Loc, n.Name, "object has more than one id member")
	}
	if versionCount > 1 {
		diags.Error(n.Loc, n.Name, "object has more than one version member")
	}

	noID := semantics.GetOr(&n.Annotations, semantics.AnnoNoID, false)
	abstract := semantics.GetOr(&n.Annotations, semantics.AnnoAbstract, false)
	if idCount == 0 && !noID && !abstract && len(bases) == 0 {
		diags.Error(n.Loc, n.Name, "object has no id member (use #pragma db no_id to opt out)")
	}

	if id != 0 {
		idNode := u.Node(id)
		if semantics.GetOr(&idNode.Annotations, semantics.AnnoDefault, "") != "" {
			diags.Error(idNode.Loc, idNode.Name, "id member must not have a default value")
		}
		if semantics.GetOr(&idNode.Annotations, semantics.AnnoSection, "") != "" {
			diags.Error(idNode.Loc, idNode.Name, "id member must not belong to a section")
		}
		if semantics.GetOr(&idNode.Annotations, semantics.AnnoReadonly, false) {
			diags.Error(idNode.Loc, idNode.Name, "id member must not be readonly")
		}
		if nullable, _ := ctx.Null(id); nullable {
			diags.Error(idNode.Loc, idNode.Name, "id member must not be null")
		}
		semantics.Set(&n.Annotations, semantics.AnnoKeyIDMember, id)

		if comparable, known := oracle.Comparable(typeSpelling(u, idNode.MemberType)); !comparable {
			diags.Error(idNode.Loc, idNode.Name, "id type is not comparable, required for session containers")
		} else if !known {
			diags.Warning(idNode.Loc, idNode.Name, "id type's comparability could not be verified; assumed comparable")
		}
	}

	optimistic := semantics.GetOr(&n.Annotations, semantics.AnnoOptimistic, false)
	if optimistic && version == 0 {
		diags.Error(n.Loc, n.Name, "optimistic object requires a version member")
	}
	if version != 0 {
		semantics.Set(&n.Annotations, semantics.AnnoKeyOptMember, version)
	}
}

func validateView(ctx *gencontext.Context, r semantics.Ref, n *semantics.Node, diags *Diagnostics) {
	u := ctx.Unit
	if !semantics.GetOr(&n.Annotations, semantics.AnnoQuery, false) {
		diags.Error(n.Loc, n.Name, "view must have query support enabled")
	}
	for _, inh := range u.Inherits(r) {
		if classifyKind(u.Node(inh.Base)) != semantics.ClassOther {
			diags.Error(n.Loc, n.Name, "view must not have persistent bases")
		}
	}
}

func validateComposite(ctx *gencontext.Context, r semantics.Ref, n *semantics.Node, diags *Diagnostics) {
	u := ctx.Unit
	for _, m := range n.Members {
		if semantics.GetOr(&u.Node(m).Annotations, semantics.AnnoID, false) {
			diags.Error(n.Loc, n.Name, "composite value type must not declare an id member")
			break
		}
	}
	if hasPersistentMember(u, r, map[semantics.Ref]bool{}) {
		return
	}
	diags.Error(n.Loc, n.Name, "composite value type has no persistent members, directly or inherited")
}

func hasPersistentMember(u *semantics.Unit, class semantics.Ref, seen map[semantics.Ref]bool) bool {
	if seen[class] {
		return false
	}
	seen[class] = true

	n := u.Node(class)
	for _, m := range n.Members {
		if !semantics.GetOr(&u.Node(m).Annotations, semantics.AnnoTransient, false) {
			return true
		}
	}
	for _, inh := range u.Inherits(class) {
		if hasPersistentMember(u, inh.Base, seen) {
			return true
		}
	}
	return false
}

// resolvePolymorphicRoot walks up an object's Object-kind base chain,
// caching polymorphic-root and polymorphic-depth on every class in the
// chain (§4.D, scenario S4: "Validator sets polymorphic-root=animal on
// both; polymorphic-depth(dog)=2").
func resolvePolymorphicRoot(u *semantics.Unit, class semantics.Ref) {
	n := u.Node(class)
	bases := objectBases(u, class)
	if len(bases) == 0 {
		semantics.Set(&n.Annotations, semantics.AnnoKeyPolyRoot, class)
		semantics.Set(&n.Annotations, semantics.AnnoKeyPolyDepth, 1)
		return
	}

	base := bases[0]
	resolvePolymorphicRoot(u, base)
	baseNode := u.Node(base)
	root := semantics.GetOr(&baseNode.Annotations, semantics.AnnoKeyPolyRoot, base)
	depth := semantics.GetOr(&baseNode.Annotations, semantics.AnnoKeyPolyDepth, 1)

	semantics.Set(&n.Annotations, semantics.AnnoKeyPolyRoot, root)
	semantics.Set(&n.Annotations, semantics.AnnoKeyPolyDepth, depth+1)
	semantics.Set(&n.Annotations, semantics.AnnoKeyPolyBase, base)
}

// typeSpelling resolves through qualifier/typedef wrappers down to a
// primitive name or class name, for the oracle's lookup key.
func typeSpelling(u *semantics.Unit, t semantics.Ref) string {
	for t != 0 {
		n := u.Node(t)
		switch n.TypeVariant {
		case semantics.TypeQualifier, semantics.TypeTypedef:
			t = n.Underlying
		case semantics.TypePrimitive:
			return n.Primitive
		case semantics.TypeClassRef:
			return u.Node(n.ClassRef).Name
		default:
			return ""
		}
	}
	return ""
}
