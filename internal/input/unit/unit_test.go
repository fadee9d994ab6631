package unit

import (
	"strings"
	"testing"

	"pragmadb/internal/semantics"
)

const sampleSchema = `
[[classes]]
name = "point"
value = true

  [[classes.members]]
  name = "x"
  kind = "primitive"
  type = "double"

  [[classes.members]]
  name = "y"
  kind = "primitive"
  type = "double"

[[classes]]
name = "person"
object = true
table = "people"

  [[classes.members]]
  name = "id"
  kind = "primitive"
  type = "unsigned long"
  id = true
  auto = true

  [[classes.members]]
  name = "version"
  kind = "primitive"
  type = "unsigned long"
  version = true

  [[classes.members]]
  name = "home"
  kind = "composite"
  target = "point"

  [[classes.members]]
  name = "best_friend"
  kind = "pointer"
  target = "person"

  [[classes.members]]
  name = "nicknames"
  kind = "container"
  element = "std::string"

[[classes]]
name = "employee"
object = true
polymorphic = true
bases = ["person"]

  [[classes.members]]
  name = "salary"
  kind = "primitive"
  type = "double"

[comparable]
`

func mustParse(t *testing.T, src string) *semantics.Unit {
	t.Helper()
	u, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return u
}

func findClass(t *testing.T, u *semantics.Unit, name string) semantics.Ref {
	t.Helper()
	ref, ok := u.Resolve(u.Root, name)
	if !ok {
		t.Fatalf("class %q not found", name)
	}
	return ref
}

func TestParsePrimitiveMember(t *testing.T) {
	u := mustParse(t, sampleSchema)
	point := findClass(t, u, "point")
	n := u.Node(point)
	if len(n.Members) != 2 {
		t.Fatalf("expected 2 members on point, got %d", len(n.Members))
	}
	x := u.Node(n.Members[0])
	xt := u.Node(x.MemberType)
	if xt.TypeVariant != semantics.TypePrimitive || xt.Primitive != "double" {
		t.Fatalf("expected primitive double for x, got %+v", xt)
	}
}

func TestParseCompositeMember(t *testing.T) {
	u := mustParse(t, sampleSchema)
	person := findClass(t, u, "person")
	point := findClass(t, u, "point")
	n := u.Node(person)

	var home *semantics.Node
	for _, m := range n.Members {
		mn := u.Node(m)
		if mn.Name == "home" {
			home = mn
		}
	}
	if home == nil {
		t.Fatal("home member not found")
	}
	ht := u.Node(home.MemberType)
	if ht.TypeVariant != semantics.TypeClassRef || ht.ClassRef != point {
		t.Fatalf("expected home to be a class-ref to point, got %+v", ht)
	}
}

func TestParsePointerMember(t *testing.T) {
	u := mustParse(t, sampleSchema)
	person := findClass(t, u, "person")
	n := u.Node(person)

	var bf *semantics.Node
	for _, m := range n.Members {
		mn := u.Node(m)
		if mn.Name == "best_friend" {
			bf = mn
		}
	}
	if bf == nil {
		t.Fatal("best_friend member not found")
	}
	pt := u.Node(bf.MemberType)
	if pt.TypeVariant != semantics.TypePointer {
		t.Fatalf("expected best_friend to be a pointer type, got %+v", pt)
	}
	pointee := u.Node(pt.Underlying)
	if pointee.TypeVariant != semantics.TypeClassRef || pointee.ClassRef != person {
		t.Fatalf("expected best_friend to point at person, got %+v", pointee)
	}
}

func TestParseContainerMember(t *testing.T) {
	u := mustParse(t, sampleSchema)
	person := findClass(t, u, "person")
	n := u.Node(person)

	var nicks *semantics.Node
	for _, m := range n.Members {
		mn := u.Node(m)
		if mn.Name == "nicknames" {
			nicks = mn
		}
	}
	if nicks == nil {
		t.Fatal("nicknames member not found")
	}
	ct := u.Node(nicks.MemberType)
	if ct.TypeVariant != semantics.TypeContainer {
		t.Fatalf("expected nicknames to be a container type, got %+v", ct)
	}
	elem := u.Node(ct.Underlying)
	if elem.TypeVariant != semantics.TypePrimitive || elem.Primitive != "std::string" {
		t.Fatalf("expected container element std::string, got %+v", elem)
	}
}

func TestParsePolymorphicBase(t *testing.T) {
	u := mustParse(t, sampleSchema)
	employee := findClass(t, u, "employee")
	person := findClass(t, u, "person")
	bases := u.Inherits(employee)
	if len(bases) != 1 || bases[0].Base != person {
		t.Fatalf("expected employee to derive from person, got %+v", bases)
	}
	poly := semantics.GetOr(&u.Node(employee).Annotations, semantics.AnnoPolymorphic, false)
	if !poly {
		t.Fatal("expected employee to be marked polymorphic")
	}
}

func TestParseIDAndAutoAnnotations(t *testing.T) {
	u := mustParse(t, sampleSchema)
	person := findClass(t, u, "person")
	n := u.Node(person)
	id := u.Node(n.Members[0])
	if !semantics.GetOr(&id.Annotations, semantics.AnnoID, false) {
		t.Fatal("expected id member to carry AnnoID")
	}
	if !semantics.GetOr(&id.Annotations, semantics.AnnoAuto, false) {
		t.Fatal("expected id member to carry AnnoAuto")
	}
}

func TestParseClassTableAnnotation(t *testing.T) {
	u := mustParse(t, sampleSchema)
	person := findClass(t, u, "person")
	table, err := semantics.Get[semantics.Located[string]](&u.Node(person).Annotations, semantics.AnnoTable)
	if err != nil {
		t.Fatalf("expected table annotation on person: %v", err)
	}
	if table.Value != "people" {
		t.Fatalf("expected table = people, got %q", table.Value)
	}
}

func TestParseDuplicateClassNameErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`
[[classes]]
name = "dup"
[[classes]]
name = "dup"
`))
	if err == nil {
		t.Fatal("expected an error for a duplicate class name")
	}
}

func TestParseUnknownBaseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`
[[classes]]
name = "child"
bases = ["missing"]
`))
	if err == nil {
		t.Fatal("expected an error for an unresolved base class")
	}
}
