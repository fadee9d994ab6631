package semantics

// Unit is the single owning arena for a translation unit's semantic graph
// (§9, "mutually recursive pointer graphs ... represent all nodes inside
// a single owning arena per unit; cross-references are either indices
// into the arena ... or name lookups in the containing scope"). No Node
// is ever freed before the Unit itself goes out of scope, so Ref values
// stay valid for the Unit's whole lifetime.
type Unit struct {
	nodes []Node // 1-indexed; nodes[0] is an unused sentinel
	Root  Ref    // the global namespace
}

// NewUnit creates an empty arena with a global-namespace root.
func NewUnit() *Unit {
	u := &Unit{nodes: make([]Node, 1, 64)}
	u.Root = u.alloc(Node{Kind: KindNamespace, Name: ""})
	return u
}

func (u *Unit) alloc(n Node) Ref {
	u.nodes = append(u.nodes, n)
	return Ref(len(u.nodes) - 1)
}

// Node dereferences r. Calling with an invalid Ref panics: every Ref
// handed to callers came from this same Unit and must be valid by
// construction; a dangling Ref is a programming error, not a runtime
// condition to recover from.
func (u *Unit) Node(r Ref) *Node {
	return &u.nodes[r]
}

// Len returns the number of allocated nodes (including the sentinel).
func (u *Unit) Len() int { return len(u.nodes) }

// All iterates every allocated node in allocation order. Allocation order
// is not declaration order in general (composite Types referenced by a
// Member may be allocated after it); use Scope/Members for declaration
// order.
func (u *Unit) All(fn func(Ref, *Node)) {
	for i := 1; i < len(u.nodes); i++ {
		fn(Ref(i), &u.nodes[i])
	}
}

// NewNamespace allocates a namespace nested in parent (Root for
// top-level) and binds it under name in parent's scope.
func (u *Unit) NewNamespace(parent Ref, name string) Ref {
	r := u.alloc(Node{Kind: KindNamespace, Name: name, Parent: parent})
	u.Node(parent).Scope.Bind(name, r)
	return r
}

// NewClass allocates a class nested in parent and binds it under name.
func (u *Unit) NewClass(parent Ref, name string) Ref {
	r := u.alloc(Node{Kind: KindClass, Name: name, Parent: parent})
	u.Node(parent).Scope.Bind(name, r)
	return r
}

// NewMember allocates a data member owned by class `owner` with the given
// declared type, appends it to owner's declaration-order Members list,
// and binds it by name in owner's scope (so name lookups, e.g. callback
// resolution, work the same as for any other scope member).
func (u *Unit) NewMember(owner Ref, name string, typ Ref) Ref {
	r := u.alloc(Node{Kind: KindMember, Name: name, Parent: owner, MemberType: typ})
	o := u.Node(owner)
	o.Members = append(o.Members, r)
	o.Scope.Bind(name, r)
	return r
}

// NewPrimitiveType allocates an unnamed primitive Type node (e.g. "int",
// "std::string"). Primitive types are not bound into any scope; members
// reference them directly by Ref.
func (u *Unit) NewPrimitiveType(primitive string) Ref {
	return u.alloc(Node{Kind: KindType, TypeVariant: TypePrimitive, Primitive: primitive})
}

// NewClassRefType allocates a Type node that names a Class (used for
// composite-value and object-pointer members).
func (u *Unit) NewClassRefType(class Ref) Ref {
	return u.alloc(Node{Kind: KindType, TypeVariant: TypeClassRef, ClassRef: class})
}

// NewPointerType allocates an object-pointer wrapper around a class type.
func (u *Unit) NewPointerType(pointee Ref) Ref {
	return u.alloc(Node{Kind: KindType, TypeVariant: TypePointer, Underlying: pointee})
}

// NewQualifierType allocates a cv-qualifier wrapper (e.g. const) around
// another type.
func (u *Unit) NewQualifierType(underlying Ref) Ref {
	return u.alloc(Node{Kind: KindType, TypeVariant: TypeQualifier, Underlying: underlying})
}

// NewArrayType allocates a fixed or unbounded array of elem.
func (u *Unit) NewArrayType(elem Ref, bound int) Ref {
	return u.alloc(Node{Kind: KindType, TypeVariant: TypeArray, Underlying: elem, ArrayBound: bound})
}

// NewContainerType allocates a container (vector/set/map-like) of elem,
// with an optional key type for associative containers.
func (u *Unit) NewContainerType(elem, key Ref) Ref {
	return u.alloc(Node{Kind: KindType, TypeVariant: TypeContainer, Underlying: elem, ContainerKey: key})
}

// NewTypedefType allocates a named alias for an underlying type.
func (u *Unit) NewTypedefType(name string, underlying Ref, parent Ref) Ref {
	r := u.alloc(Node{Kind: KindType, Name: name, TypeVariant: TypeTypedef, Underlying: underlying, Parent: parent})
	u.Node(parent).Scope.Bind(name, r)
	return r
}

// AddBase appends a base-class edge to derived, in declaration order.
func (u *Unit) AddBase(derived, base Ref, access AccessKind, virtual bool) {
	d := u.Node(derived)
	d.Bases = append(d.Bases, Inheritance{Base: base, Access: access, Virtual: virtual})
}

// Inherits returns class's base edges in declaration order (§3.1).
func (u *Unit) Inherits(class Ref) []Inheritance {
	return u.Node(class).Bases
}

// Resolve walks scopes outward from `from`, looking up `name`, the way a
// C++ unqualified name lookup would, stopping at the first scope that
// binds it. Returns the zero Ref and false if nothing binds the name by
// the time the global namespace is reached.
func (u *Unit) Resolve(from Ref, name string) (Ref, bool) {
	cur := from
	for {
		n := u.Node(cur)
		if refs := n.Scope.Lookup(name); len(refs) > 0 {
			return refs[0], true
		}
		if !n.Parent.Valid() && cur != u.Root {
			return 0, false
		}
		if cur == u.Root {
			return 0, false
		}
		cur = n.Parent
	}
}
