package changelog

import "pragmadb/internal/relational"

// Diff computes the Changeset that takes prev to curr, tagged version.
// A nil prev is treated as the empty model — every table in curr becomes
// an add_table directive, matching §4.F's "t in curr, not in prev" rule
// for the initial changelog entry (§6's --init-changelog).
func Diff(prev, curr *relational.Model, version int) *Changeset {
	cs := &Changeset{Version: version}

	var prevTables []*relational.Table
	if prev != nil {
		prevTables = prev.Tables
	}
	prevByName := make(map[string]*relational.Table, len(prevTables))
	for _, t := range prevTables {
		prevByName[t.Name] = t
	}
	currByName := make(map[string]*relational.Table, len(curr.Tables))
	for _, t := range curr.Tables {
		currByName[t.Name] = t
	}

	for _, ct := range curr.Tables {
		pt, ok := prevByName[ct.Name]
		if !ok {
			cs.AddedTables = append(cs.AddedTables, ct)
			continue
		}
		if tc := diffTable(pt, ct); tc != nil {
			cs.AlteredTables = append(cs.AlteredTables, tc)
		}
	}

	// Drop order follows prev's declaration order, not curr's — a
	// dropped table by definition has no position in curr to inherit.
	for _, pt := range prevTables {
		if _, ok := currByName[pt.Name]; !ok {
			cs.DroppedTables = append(cs.DroppedTables, pt.Name)
		}
	}

	return cs
}

func diffTable(prev, curr *relational.Table) *TableChange {
	tc := &TableChange{Name: curr.Name}

	prevCols := make(map[string]*relational.Column, len(prev.Columns))
	for _, c := range prev.Columns {
		prevCols[c.Name] = c
	}
	currCols := make(map[string]*relational.Column, len(curr.Columns))
	for _, c := range curr.Columns {
		currCols[c.Name] = c
	}

	for _, cc := range curr.Columns {
		pc, ok := prevCols[cc.Name]
		if !ok {
			tc.AddedColumns = append(tc.AddedColumns, cc)
			continue
		}
		if !pc.Equal(cc) {
			tc.AlteredColumns = append(tc.AlteredColumns, &ColumnChange{Name: cc.Name, Old: pc, New: cc})
		}
	}
	for _, pc := range prev.Columns {
		if _, ok := currCols[pc.Name]; !ok {
			tc.DroppedColumns = append(tc.DroppedColumns, pc.Name)
		}
	}

	diffForeignKeys(prev, curr, tc)
	diffIndexes(prev, curr, tc)

	if tc.isEmpty() {
		return nil
	}
	return tc
}

func diffForeignKeys(prev, curr *relational.Table, tc *TableChange) {
	prevFKs := make(map[string]*relational.ForeignKey, len(prev.ForeignKeys))
	for _, fk := range prev.ForeignKeys {
		prevFKs[foreignKeyKey(fk)] = fk
	}
	currFKs := make(map[string]*relational.ForeignKey, len(curr.ForeignKeys))
	for _, fk := range curr.ForeignKeys {
		currFKs[foreignKeyKey(fk)] = fk
	}

	for _, fk := range curr.ForeignKeys {
		key := foreignKeyKey(fk)
		pfk, ok := prevFKs[key]
		if !ok {
			tc.AddedForeignKeys = append(tc.AddedForeignKeys, fk)
			continue
		}
		if !pfk.Equal(fk) {
			tc.DroppedForeignKeys = append(tc.DroppedForeignKeys, pfk)
			tc.AddedForeignKeys = append(tc.AddedForeignKeys, fk)
		}
	}
	for _, fk := range prev.ForeignKeys {
		if _, ok := currFKs[foreignKeyKey(fk)]; !ok {
			tc.DroppedForeignKeys = append(tc.DroppedForeignKeys, fk)
		}
	}
}

// foreignKeyKey identifies a foreign key by its referer columns and
// referenced table — the model carries no separate identity field, so
// two FKs are "the same constraint" exactly when they connect the same
// columns to the same table.
func foreignKeyKey(fk *relational.ForeignKey) string {
	key := fk.ReferencedTable + "|"
	for _, c := range fk.RefererColumns {
		key += c + ","
	}
	return key
}

func diffIndexes(prev, curr *relational.Table, tc *TableChange) {
	prevIdx := make(map[string]*relational.Index, len(prev.Indexes))
	for _, idx := range prev.Indexes {
		prevIdx[idx.Name] = idx
	}
	currIdx := make(map[string]*relational.Index, len(curr.Indexes))
	for _, idx := range curr.Indexes {
		currIdx[idx.Name] = idx
	}

	for _, idx := range curr.Indexes {
		pidx, ok := prevIdx[idx.Name]
		if !ok {
			tc.AddedIndexes = append(tc.AddedIndexes, idx)
			continue
		}
		if !pidx.Equal(idx) {
			tc.DroppedIndexes = append(tc.DroppedIndexes, idx.Name)
			tc.AddedIndexes = append(tc.AddedIndexes, idx)
		}
	}
	for _, idx := range prev.Indexes {
		if _, ok := currIdx[idx.Name]; !ok {
			tc.DroppedIndexes = append(tc.DroppedIndexes, idx.Name)
		}
	}
}
