// Package semantics holds the typed graph of declarations (namespaces,
// classes, members, types) that the rest of pragmadb operates on. The
// graph is the in-process analogue of the C++ front-end's AST after
// #pragma db directives have been parsed into annotations; pragmadb never
// parses C++ itself (see internal/input/unit for the surrogate it reads
// instead).
package semantics

// Kind discriminates the payload carried by a Node.
type Kind int

const (
	KindNamespace Kind = iota
	KindClass
	KindMember
	KindType
	KindInheritance
)

func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindClass:
		return "class"
	case KindMember:
		return "member"
	case KindType:
		return "type"
	case KindInheritance:
		return "inheritance"
	default:
		return "unknown"
	}
}

// Ref is an index into a Unit's arena. The zero Ref is never valid;
// arena slots start at 1 so a zero value reliably means "no reference."
type Ref int

// Valid reports whether r refers to a real arena slot.
func (r Ref) Valid() bool { return r > 0 }

// Location is a source position, propagated from the (external) front-end
// into annotations so diagnostics can point at user code.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return l.File + ":" + itoa(l.Line) + ":" + itoa(l.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TypeVariant distinguishes the kinds of Type node (§3.1).
type TypeVariant int

const (
	TypePrimitive TypeVariant = iota
	TypeClassRef              // names a Class node
	TypeTypedef
	TypeQualifier // cv-qualified wrapper around another Type
	TypeArray
	TypePointer // object pointer, e.g. std::shared_ptr<Foo> / Foo*
	TypeContainer
)

// Node is a tagged-variant record: one struct shape for every kind, with
// only the fields relevant to Kind populated. This keeps the arena a flat
// []Node (no boxing per node) while letting call sites dispatch on Kind,
// matching the "tagged variant for node kinds" guidance for dispatching
// on node kind with shared default behavior.
type Node struct {
	Kind Kind
	Name string
	Loc  Location

	Annotations Annotations

	// Namespace / Class: ordered name -> bindings scope.
	Scope Scope

	// Class only.
	Bases []Inheritance // declaration-order base list
	// Members holds direct data members in declaration order (a filtered
	// view of Scope bindings of Kind==KindMember, retained separately so
	// member order is trivial to recover without re-walking Scope).
	Members []Ref

	// Member only.
	MemberType Ref // the Type node describing this member's declared type
	// When the member is a container, its element type is the Underlying
	// of the TypeContainer node that MemberType refers to; Node has no
	// separate field for it.

	// Type only.
	TypeVariant  TypeVariant
	ClassRef     Ref    // valid when TypeVariant == TypeClassRef
	Underlying   Ref    // valid for Typedef/Qualifier/Array/Pointer/Container (element type)
	ArrayBound   int    // valid for TypeArray; 0 means unbounded / not fixed
	ContainerKey Ref    // valid for TypeContainer with an explicit key type (map-like)
	Primitive    string // valid for TypePrimitive (e.g. "int", "std::string")

	// Parent is the enclosing scope's node (namespace containing a class,
	// class containing a member), used to walk outward for schema/prefix
	// derivation. Ref zero means global scope.
	Parent Ref
}

// Inheritance is an edge from a derived Class to one of its bases,
// carrying access and virtual-ness per §3.1.
type Inheritance struct {
	Base    Ref
	Access  AccessKind
	Virtual bool
}

// AccessKind mirrors C++ access specifiers on a base-class edge.
type AccessKind int

const (
	AccessPublic AccessKind = iota
	AccessProtected
	AccessPrivate
)

// ClassKind is the four-way classification of §3.1 / §4.B-adjacent rules,
// derived from annotations by internal/validate's classifyKind and cached under
// AnnoKeyClassKind.
type ClassKind int

const (
	ClassOther ClassKind = iota
	ClassObject
	ClassView
	ClassComposite
)

func (k ClassKind) String() string {
	switch k {
	case ClassObject:
		return "object"
	case ClassView:
		return "view"
	case ClassComposite:
		return "composite"
	default:
		return "other"
	}
}
