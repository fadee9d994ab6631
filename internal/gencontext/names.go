package gencontext

import (
	"strings"

	"pragmadb/internal/semantics"
)

// qualifierOf splits a possibly schema-qualified name ("myschema.mytable")
// into its qualifier and unqualified parts. ok is false when name carries
// no qualifier.
func qualifierOf(name string) (qualifier, unqualified string, ok bool) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot >= len(name)-1 {
		return "", name, false
	}
	return name[:dot], name[dot+1:], true
}

func joinQualified(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}

// Schema walks enclosing namespaces outward from scope (§4.B): each
// namespace contributes its `schema` annotation if present, or the
// qualifier of its `table` annotation otherwise; when a namespace carries
// both, the one declared later in source wins (compared via Located.Loc).
// The walk stops at the first fully qualified result or at the global
// scope, and finally falls back to --schema if still unqualified. The
// result is cached on scope under AnnoKeySchema (§4.B: "Result cached on
// the scope").
func (c *Context) Schema(scope semantics.Ref) string {
	n := c.Unit.Node(scope)
	if v, err := semantics.Get[string](&n.Annotations, semantics.AnnoKeySchema); err == nil {
		return v
	}

	result := c.schemaUncached(scope)
	semantics.Set(&n.Annotations, semantics.AnnoKeySchema, result)
	return result
}

func (c *Context) schemaUncached(scope semantics.Ref) string {
	cur := scope
	for {
		n := c.Unit.Node(cur)
		if contrib, ok := c.namespaceSchemaContribution(n); ok && contrib != "" {
			return contrib
		}
		if cur == c.Unit.Root || !n.Parent.Valid() {
			break
		}
		cur = n.Parent
	}
	return c.Options.Schema
}

// namespaceSchemaContribution returns what a single namespace (or any
// scope node) contributes toward Schema(), resolving a same-node
// schema/table conflict by location.
func (c *Context) namespaceSchemaContribution(n *semantics.Node) (string, bool) {
	schemaDir, schemaErr := semantics.Get[semantics.Located[string]](&n.Annotations, semantics.AnnoSchema)
	tableDir, tableErr := semantics.Get[semantics.Located[string]](&n.Annotations, semantics.AnnoTable)
	hasSchema, hasTable := schemaErr == nil, tableErr == nil

	switch {
	case !hasSchema && !hasTable:
		return "", false
	case hasSchema && !hasTable:
		return schemaDir.Value, true
	case hasTable && !hasSchema:
		qual, _, ok := qualifierOf(tableDir.Value)
		return qual, ok
	default:
		// Both present: later declaration wins.
		if locLater(tableDir.Loc, schemaDir.Loc) {
			qual, _, ok := qualifierOf(tableDir.Value)
			return qual, ok
		}
		return schemaDir.Value, true
	}
}

// locLater reports whether a was declared after b (by line, tie-broken by
// column). Locations from different files are treated as incomparable and
// b is preferred (stable, deterministic default).
func locLater(a, b semantics.Location) bool {
	if a.File != b.File {
		return false
	}
	if a.Line != b.Line {
		return a.Line > b.Line
	}
	return a.Column > b.Column
}

// TableNamePrefix concatenates the unqualified `table` annotations of
// enclosing namespaces outermost-first, then prepends --table-prefix if
// given (§4.B).
func (c *Context) TableNamePrefix(scope semantics.Ref) string {
	var chain []string
	cur := scope
	for {
		n := c.Unit.Node(cur)
		if n.Kind == semantics.KindNamespace {
			if dir, err := semantics.Get[semantics.Located[string]](&n.Annotations, semantics.AnnoTable); err == nil {
				_, unqual, _ := qualifierOf(dir.Value)
				chain = append(chain, unqual)
			}
		}
		if cur == c.Unit.Root || !n.Parent.Valid() {
			break
		}
		cur = n.Parent
	}
	// chain was built innermost-first; reverse for outermost-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	prefix := strings.Join(chain, "_")
	if c.Options.TablePrefix != "" {
		prefix = c.Options.TablePrefix + prefix
	}
	return prefix
}

// TableName derives the qualified table name for a persistent class
// (§4.B). Container tables append a component per ancestor composite
// member, with a container directly inside an object using the object's
// table name + "_" as the prefix; that recursive derivation lives in
// internal/build (which owns the member-path state) and calls
// ContainerTableName below with the already-computed base.
func (c *Context) TableName(class semantics.Ref) string {
	n := c.Unit.Node(class)
	if v, err := semantics.Get[string](&n.Annotations, semantics.AnnoKeyTableName); err == nil {
		return v
	}

	base := n.Name
	if dir, err := semantics.Get[semantics.Located[string]](&n.Annotations, semantics.AnnoTable); err == nil {
		base = dir.Value
	}

	qual, unqual, hasQual := qualifierOf(base)
	name := unqual
	if !hasQual {
		name = c.TableNamePrefix(n.Parent) + name
	}

	schema := qual
	if schema == "" {
		schema = c.Schema(n.Parent)
	}

	result := joinQualified(schema, name)
	semantics.Set(&n.Annotations, semantics.AnnoKeyTableName, result)
	return result
}

// ContainerTableName derives a container's table name from its owning
// object/composite's table name and the container member's public name,
// per §4.B ("a container directly inside an object uses the object's
// table name + '_' as prefix").
func (c *Context) ContainerTableName(ownerTableName string, memberPublicName string) string {
	return ownerTableName + "_" + memberPublicName
}

// ColumnName returns the member's explicit column name if set, otherwise
// its public name (§4.B). keyPrefix/def are accepted for parity with the
// spec signature (used by container value/key columns which have no
// member of their own to read a column annotation from) — when member is
// the zero Ref, def is returned directly.
func (c *Context) ColumnName(member semantics.Ref, keyPrefix, def string) string {
	if !member.Valid() {
		if def != "" {
			return def
		}
		return keyPrefix
	}
	n := c.Unit.Node(member)
	if col, err := semantics.Get[string](&n.Annotations, semantics.AnnoColumn); err == nil && col != "" {
		return col
	}
	return c.PublicNameDB(n.Name)
}

// ColumnPrefix computes the cumulative prefix contributed by a composite
// member path (§4.B, §8 invariant 2): each intermediate member
// contributes its public name, with an underscore appended unless the
// resulting prefix already ends with one or the member supplied a custom
// (verbatim) prefix annotation.
func (c *Context) ColumnPrefix(running string, member semantics.Ref) string {
	n := c.Unit.Node(member)
	if custom, err := semantics.Get[string](&n.Annotations, "column_prefix"); err == nil {
		return running + custom
	}
	p := running + c.PublicNameDB(n.Name)
	if strings.HasSuffix(p, "_") {
		return p
	}
	return p + "_"
}
