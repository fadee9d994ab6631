package build

import (
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
	"pragmadb/internal/semantics"
	"pragmadb/internal/traverse"
)

// BuildModel projects every non-reuse-only object class of ctx.Unit into
// a relational.Table (§4.E). Callers must run internal/validate first —
// BuildModel trusts the AnnoKeyClassKind/AnnoKeyIDMember/AnnoKeyPolyRoot
// caches validate populates and does not re-derive them.
func BuildModel(ctx *gencontext.Context, tm TypeMapper, version int) *relational.Model {
	u := ctx.Unit
	m := relational.NewModel(version)
	for _, class := range ObjectClasses(u) {
		buildObjectTable(ctx, m, class, tm)
	}
	return m
}

// ObjectClasses returns every concrete persistent object class of u, in
// declaration order — the same set BuildModel projects into tables, and
// the set internal/generator walks to compute find_statement_names per
// table.
func ObjectClasses(u *semantics.Unit) []semantics.Ref {
	var classes []semantics.Ref
	u.All(func(r semantics.Ref, n *semantics.Node) {
		if n.Kind != semantics.KindClass {
			return
		}
		if semantics.GetOr(&n.Annotations, semantics.AnnoKeyClassKind, semantics.ClassOther) != semantics.ClassObject {
			return
		}
		if semantics.GetOr(&n.Annotations, semantics.AnnoAbstract, false) {
			return
		}
		classes = append(classes, r)
	})
	return classes
}

// FindStatementNames returns the find_<table> statement name for class
// and, walking up through AnnoKeyPolyBase, one more per polymorphic
// ancestor, in root-to-leaf order (§4.E: "find_statement_names for
// polymorphic hierarchies" — S4 expects length 2 for a one-level
// hierarchy). A non-polymorphic class yields a single-element slice.
func FindStatementNames(ctx *gencontext.Context, class semantics.Ref) []string {
	u := ctx.Unit
	var chain []semantics.Ref
	for cur := class; cur.Valid(); {
		chain = append(chain, cur)
		base, err := semantics.Get[semantics.Ref](&u.Node(cur).Annotations, semantics.AnnoKeyPolyBase)
		if err != nil {
			break
		}
		cur = base
	}

	names := make([]string, len(chain))
	for i, c := range chain {
		names[len(chain)-1-i] = "find_" + ctx.TableName(c)
	}
	return names
}

// resolveIDMember returns the id member governing class, walking up the
// polymorphic base chain when class itself declares no id (a derived
// class in a hierarchy shares its root's id).
func resolveIDMember(u *semantics.Unit, class semantics.Ref) semantics.Ref {
	cur := class
	for cur.Valid() {
		n := u.Node(cur)
		if id, err := semantics.Get[semantics.Ref](&n.Annotations, semantics.AnnoKeyIDMember); err == nil {
			return id
		}
		base, err := semantics.Get[semantics.Ref](&n.Annotations, semantics.AnnoKeyPolyBase)
		if err != nil {
			return 0
		}
		cur = base
	}
	return 0
}

func typeSpelling(u *semantics.Unit, t semantics.Ref) string {
	for t.Valid() {
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

func memberTypeSpelling(u *semantics.Unit, member semantics.Ref) string {
	return typeSpelling(u, u.Node(member).MemberType)
}

func buildObjectTable(ctx *gencontext.Context, m *relational.Model, class semantics.Ref, tm TypeMapper) {
	u := ctx.Unit
	table := m.AddTable(relational.NewTable(ctx.TableName(class)))

	idMember := resolveIDMember(u, class)
	if idMember.Valid() {
		idNode := u.Node(idMember)
		auto := semantics.GetOr(&idNode.Annotations, semantics.AnnoAuto, false)
		colName := ctx.ColumnName(idMember, "", "")
		sqlType := tm.SQLType(ctx, memberTypeSpelling(u, idMember), true, auto)
		ctx.SetColumnType(idMember, sqlType)
		colType, _ := ctx.ColumnType(idMember)

		table.AddColumn(&relational.Column{
			Name:     colName,
			Type:     colType,
			Null:     false,
			Options:  ctx.ColumnOptions(idMember),
			Readonly: semantics.GetOr(&idNode.Annotations, semantics.AnnoReadonly, false),
			Version:  semantics.GetOr(&idNode.Annotations, semantics.AnnoVersion, false),
		})
		table.PrimaryKey = &relational.PrimaryKey{Auto: auto, Columns: []string{colName}}

		if polyBase, err := semantics.Get[semantics.Ref](&u.Node(class).Annotations, semantics.AnnoKeyPolyBase); err == nil {
			table.AddForeignKey(&relational.ForeignKey{
				Deferrable:        relational.DeferNot,
				RefererColumns:    []string{colName},
				ReferencedTable:   ctx.TableName(polyBase),
				ReferencedColumns: []string{colName},
			})
		}
	}

	v := &modelVisitor{ctx: ctx, tm: tm, table: table}
	traverse.ObjectColumns(u, class, v, traverse.ColumnOptions{SkipInverse: true})

	for _, job := range v.containers {
		buildContainerTable(ctx, m, job, tm)
	}
}

type containerJob struct {
	member     semantics.Ref
	elem       semantics.Ref
	ownerTable *relational.Table
	ownerID    semantics.Ref
	prefix     string
}

type modelVisitor struct {
	ctx        *gencontext.Context
	tm         TypeMapper
	table      *relational.Table
	containers []containerJob
}

func (v *modelVisitor) prefixFor(f traverse.Frame) string {
	prefix := ""
	for _, ancestor := range f.MemberPath {
		prefix = v.ctx.ColumnPrefix(prefix, ancestor)
	}
	return prefix
}

func (v *modelVisitor) Column(f traverse.Frame, member semantics.Ref, kind traverse.ColumnKind) {
	u := v.ctx.Unit
	if semantics.GetOr(&u.Node(member).Annotations, semantics.AnnoID, false) {
		// buildObjectTable has already added the id column ahead of the walk.
		return
	}
	prefix := v.prefixFor(f)
	name := prefix + v.ctx.ColumnName(member, "", "")
	nullable, _ := v.ctx.Null(member)

	memberNode := u.Node(member)
	readonly := semantics.GetOr(&memberNode.Annotations, semantics.AnnoReadonly, false)
	version := semantics.GetOr(&memberNode.Annotations, semantics.AnnoVersion, false)

	if kind == traverse.ColumnPointer {
		pointee := traverse.PointeeClass(u, member)
		pointeeID := resolveIDMember(u, pointee)
		sqlType := v.tm.SQLType(v.ctx, memberTypeSpelling(u, pointeeID), false, false)
		v.ctx.SetColumnType(member, sqlType)
		colType, _ := v.ctx.ColumnType(member)
		v.table.AddColumn(&relational.Column{
			Name:     name,
			Type:     colType,
			Null:     nullable,
			Options:  v.ctx.ColumnOptions(member),
			Readonly: readonly,
			Version:  version,
		})
		v.table.AddForeignKey(&relational.ForeignKey{
			Deferrable:        relational.DeferNot,
			RefererColumns:    []string{name},
			ReferencedTable:   v.ctx.TableName(pointee),
			ReferencedColumns: []string{v.ctx.ColumnName(pointeeID, "", "")},
		})
		return
	}

	sqlType := v.tm.SQLType(v.ctx, memberTypeSpelling(u, member), false, false)
	v.ctx.SetColumnType(member, sqlType)
	colType, _ := v.ctx.ColumnType(member)
	v.table.AddColumn(&relational.Column{
		Name:     name,
		Type:     colType,
		Null:     nullable,
		Options:  v.ctx.ColumnOptions(member),
		Readonly: readonly,
		Version:  version,
	})
}

func (v *modelVisitor) Container(f traverse.Frame, member semantics.Ref, elem semantics.Ref) {
	v.containers = append(v.containers, containerJob{
		member:     member,
		elem:       elem,
		ownerTable: v.table,
		prefix:     v.prefixFor(f),
	})
}

func (v *modelVisitor) Flush(f traverse.Frame) {}

// buildContainerTable derives a container member's own table: a foreign
// key back to the owning row plus a value column (and a key column for
// associative containers), per §4.E ("emitting a Table for each concrete
// persistent class and, transitively, container tables").
func buildContainerTable(ctx *gencontext.Context, m *relational.Model, job containerJob, tm TypeMapper) {
	u := ctx.Unit
	memberName := job.prefix + ctx.ColumnName(job.member, "", "")
	tableName := ctx.ContainerTableName(job.ownerTable.Name, memberName)
	table := m.AddTable(relational.NewTable(tableName))

	ownerPK := job.ownerTable.PrimaryKey
	if ownerPK == nil || len(ownerPK.Columns) == 0 {
		return
	}
	ownerIDCol := job.ownerTable.Column(ownerPK.Columns[0])

	objectIDCol := "object_id"
	table.AddColumn(&relational.Column{Name: objectIDCol, Type: ownerIDCol.Type, Null: false})
	table.AddForeignKey(&relational.ForeignKey{
		Deferrable:        relational.DeferNot,
		RefererColumns:    []string{objectIDCol},
		ReferencedTable:   job.ownerTable.Name,
		ReferencedColumns: []string{ownerIDCol.Name},
	})

	containerNode := u.Node(u.Node(job.member).MemberType)
	if containerNode.ContainerKey.Valid() {
		keyType := tm.SQLType(ctx, typeSpelling(u, containerNode.ContainerKey), false, false)
		table.AddColumn(&relational.Column{Name: "key", Type: keyType, Null: false})
	} else {
		table.AddColumn(&relational.Column{Name: "index", Type: tm.SQLType(ctx, "unsigned long", false, false), Null: false})
	}

	valueType := tm.SQLType(ctx, typeSpelling(u, job.elem), false, false)
	table.AddColumn(&relational.Column{Name: "value", Type: valueType, Null: false})
}
