package traverse

import (
	"testing"

	"pragmadb/internal/semantics"
)

func markObject(u *semantics.Unit, class semantics.Ref) {
	semantics.Set(&u.Node(class).Annotations, semantics.AnnoKeyClassKind, semantics.ClassObject)
}

func markComposite(u *semantics.Unit, class semantics.Ref) {
	semantics.Set(&u.Node(class).Annotations, semantics.AnnoKeyClassKind, semantics.ClassComposite)
}

type recordingVisitor struct {
	simple     []semantics.Ref
	pointers   []semantics.Ref
	containers []semantics.Ref
	composite  []semantics.Ref
}

func (r *recordingVisitor) Simple(f Frame, member semantics.Ref) {
	r.simple = append(r.simple, member)
}

func (r *recordingVisitor) Pointer(f Frame, member semantics.Ref, target semantics.Ref) {
	r.pointers = append(r.pointers, member)
}

func (r *recordingVisitor) Container(f Frame, member semantics.Ref, elem semantics.Ref) {
	r.containers = append(r.containers, member)
}

func (r *recordingVisitor) Composite(f Frame, member semantics.Ref, class semantics.Ref) bool {
	r.composite = append(r.composite, member)
	return true
}

func TestObjectMembersSkipsTransient(t *testing.T) {
	u := semantics.NewUnit()
	cls := u.NewClass(u.Root, "person")
	markObject(u, cls)
	strT := u.NewPrimitiveType("std::string")
	name := u.NewMember(cls, "name", strT)
	secret := u.NewMember(cls, "secret", strT)
	semantics.Set(&u.Node(secret).Annotations, semantics.AnnoTransient, true)

	v := &recordingVisitor{}
	ObjectMembers(u, cls, v, Options{})

	if len(v.simple) != 1 {
		t.Fatalf("expected exactly one simple member visited, got %d", len(v.simple))
	}
	_ = name
}

func TestObjectMembersRecursesBasesBeforeOwn(t *testing.T) {
	u := semantics.NewUnit()
	base := u.NewClass(u.Root, "base")
	markObject(u, base)
	derived := u.NewClass(u.Root, "derived")
	markObject(u, derived)
	u.AddBase(derived, base, semantics.AccessPublic, false)

	intT := u.NewPrimitiveType("int")
	u.NewMember(base, "id", intT)
	u.NewMember(derived, "extra", intT)

	v := &recordingVisitor{}
	ObjectMembers(u, derived, v, Options{TraversePolyBase: true})

	if len(v.simple) != 2 {
		t.Fatalf("expected base + derived members, got %d", len(v.simple))
	}
}

func TestObjectMembersSkipsPolyBaseByDefault(t *testing.T) {
	u := semantics.NewUnit()
	base := u.NewClass(u.Root, "base")
	markObject(u, base)
	derived := u.NewClass(u.Root, "derived")
	markObject(u, derived)
	u.AddBase(derived, base, semantics.AccessPublic, false)

	intT := u.NewPrimitiveType("int")
	u.NewMember(base, "id", intT)
	u.NewMember(derived, "extra", intT)

	v := &recordingVisitor{}
	ObjectMembers(u, derived, v, Options{})

	if len(v.simple) != 1 {
		t.Fatalf("expected only derived's own member, got %d", len(v.simple))
	}
}

func TestObjectMembersDispatchesCompositeAndContainer(t *testing.T) {
	u := semantics.NewUnit()
	cls := u.NewClass(u.Root, "person")
	markObject(u, cls)
	addr := u.NewClass(u.Root, "address")
	markComposite(u, addr)

	addrT := u.NewClassRefType(addr)
	u.NewMember(cls, "home", addrT)

	strT := u.NewPrimitiveType("std::string")
	containerT := u.NewContainerType(strT, 0)
	u.NewMember(cls, "tags", containerT)

	v := &recordingVisitor{}
	ObjectMembers(u, cls, v, Options{})

	if len(v.composite) != 1 {
		t.Fatalf("expected one composite dispatch, got %d", len(v.composite))
	}
	if len(v.containers) != 1 {
		t.Fatalf("expected one container dispatch, got %d", len(v.containers))
	}
}

type columnRecorder struct {
	columns []ColumnKind
	flushed bool
}

func (c *columnRecorder) Column(f Frame, member semantics.Ref, kind ColumnKind) {
	c.columns = append(c.columns, kind)
}

func (c *columnRecorder) Container(f Frame, member semantics.Ref, elem semantics.Ref) {}

func (c *columnRecorder) Flush(f Frame) { c.flushed = true }

func TestObjectColumnsFlattensCompositeAndFlushes(t *testing.T) {
	u := semantics.NewUnit()
	cls := u.NewClass(u.Root, "person")
	markObject(u, cls)
	addr := u.NewClass(u.Root, "address")
	markComposite(u, addr)

	strT := u.NewPrimitiveType("std::string")
	u.NewMember(addr, "street", strT)
	u.NewMember(addr, "city", strT)

	addrT := u.NewClassRefType(addr)
	u.NewMember(cls, "home", addrT)
	u.NewMember(cls, "name", strT)

	v := &columnRecorder{}
	ObjectColumns(u, cls, v, ColumnOptions{})

	if len(v.columns) != 3 {
		t.Fatalf("expected 3 flattened columns (street, city, name), got %d", len(v.columns))
	}
	if !v.flushed {
		t.Fatal("expected Flush to be called")
	}
}

func TestObjectColumnsSkipsInversePointerWhenRequested(t *testing.T) {
	u := semantics.NewUnit()
	cls := u.NewClass(u.Root, "person")
	markObject(u, cls)
	other := u.NewClass(u.Root, "employer")
	markObject(u, other)

	ptrT := u.NewPointerType(u.NewClassRefType(other))
	m := u.NewMember(cls, "employer", ptrT)
	semantics.Set(&u.Node(m).Annotations, semantics.AnnoInverse, "employees")

	v := &columnRecorder{}
	ObjectColumns(u, cls, v, ColumnOptions{SkipInverse: true})
	if len(v.columns) != 0 {
		t.Fatalf("expected inverse pointer to be skipped, got %d columns", len(v.columns))
	}

	v2 := &columnRecorder{}
	ObjectColumns(u, cls, v2, ColumnOptions{SkipInverse: false})
	if len(v2.columns) != 1 {
		t.Fatalf("expected inverse pointer to be kept when SkipInverse is false, got %d", len(v2.columns))
	}
}
