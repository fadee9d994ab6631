package gencontext

import "pragmadb/internal/semantics"

// columnTypeKeyPrefix namespaces the per-database cached column type so
// re-running the generator for a different --database doesn't reuse a
// stale mapping cached on the same semantics.Unit (tests do this:
// building one unit, emitting it for several databases).
const columnTypeKeyPrefix = "$column_type:"

// SetColumnType caches the per-database SQL type string that
// internal/build computed for member through its TypeMapper; build reads
// it back through ColumnType when it fills in the column.
func (c *Context) SetColumnType(member semantics.Ref, sqlType string) {
	n := c.Unit.Node(member)
	semantics.Set(&n.Annotations, columnTypeKeyPrefix+string(c.Options.Database), sqlType)
}

// ColumnType returns member's explicit `type` annotation when one is set,
// otherwise the type cached by SetColumnType for the current --database;
// the bool is false when neither is present. It takes no is_id argument:
// internal/build passes the id flag to the TypeMapper before caching, so
// an id column's type is already in the cache.
func (c *Context) ColumnType(member semantics.Ref) (string, bool) {
	n := c.Unit.Node(member)
	if explicit, err := semantics.Get[string](&n.Annotations, semantics.AnnoType); err == nil && explicit != "" {
		return explicit, true
	}
	v, err := semantics.Get[string](&n.Annotations, columnTypeKeyPrefix+string(c.Options.Database))
	return v, err == nil
}

// ColumnOptions accumulates options contributed by the member's type, its
// container (if any), and the member itself, in that order. An empty
// entry anywhere in the sequence clears everything accumulated so far —
// the "reset" semantics of §4.B — so only the options contributed after
// the last empty marker survive.
func (c *Context) ColumnOptions(member semantics.Ref) []string {
	n := c.Unit.Node(member)

	var seq []string
	seq = append(seq, semantics.GetOr[[]string](&c.Unit.Node(n.MemberType).Annotations, "type_options", nil)...)
	if n.MemberType.Valid() {
		t := c.Unit.Node(n.MemberType)
		if t.TypeVariant == semantics.TypeContainer {
			seq = append(seq, semantics.GetOr[[]string](&t.Annotations, "container_options", nil)...)
		}
	}
	seq = append(seq, semantics.GetOr[[]string](&n.Annotations, "member_options", nil)...)

	var out []string
	for _, opt := range seq {
		if opt == "" {
			out = out[:0]
			continue
		}
		out = append(out, opt)
	}
	return out
}
