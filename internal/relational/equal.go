package relational

// stringSliceEqual compares two column-name lists positionally: column
// order is part of a key's identity (a composite primary key on (a,b) is
// not the same key as one on (b,a)), matching the insertion-order
// discipline carried through the rest of the model.
func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal reports whether two columns have identical name, type, and
// nullability — the full set of facts internal/changelog's diff engine
// compares to decide between add/drop/alter-column.
func (c *Column) Equal(o *Column) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Name == o.Name && c.Type == o.Type && c.Null == o.Null
}

// Equal reports whether two primary keys are identical.
func (p *PrimaryKey) Equal(o *PrimaryKey) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Auto == o.Auto && stringSliceEqual(p.Columns, o.Columns)
}

// Equal reports whether two foreign keys reference the same table and
// columns with the same deferrability.
func (f *ForeignKey) Equal(o *ForeignKey) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Deferrable == o.Deferrable &&
		f.ReferencedTable == o.ReferencedTable &&
		stringSliceEqual(f.RefererColumns, o.RefererColumns) &&
		stringSliceEqual(f.ReferencedColumns, o.ReferencedColumns)
}

// Equal reports whether two indexes cover the same columns.
func (i *Index) Equal(o *Index) bool {
	if i == nil || o == nil {
		return i == o
	}
	return i.Name == o.Name && stringSliceEqual(i.Columns, o.Columns)
}
