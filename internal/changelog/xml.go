// XML (de)serialization of the changelog root element (§6's normative
// schema: `<changelog database="X" schema-name="Y"><model .../><changeset
// .../>...</changelog>`). This file defines its own wire types for the
// `<model>` element, of the same shape as internal/relational's
// Marshal/UnmarshalModel (which it does not call), wraps them with the
// changelog root and the changeset history, and defines the wire
// shape of the add/drop/alter directives the schema leaves as a comment
// ("<!-- add/drop/alter directives -->") — resolved here as one element
// per directive kind, kebab-case, nested the same way <model> nests
// <table>.
package changelog

import (
	"bytes"
	"encoding/xml"

	"pragmadb/internal/relational"
)

// Changelog is the full on-disk changelog: the base model plus every
// changeset recorded against it, in ascending version order (§4.F).
type Changelog struct {
	Database   string
	SchemaName string
	Model      *relational.Model
	Changesets []*Changeset
}

type wireChangelog struct {
	XMLName    xml.Name        `xml:"changelog"`
	Database   string          `xml:"database,attr"`
	SchemaName string          `xml:"schema-name,attr"`
	Model      wireModelRef    `xml:"model"`
	Changesets []wireChangeset `xml:"changeset"`
}

type wireModelRef struct {
	Version int         `xml:"version,attr"`
	Tables  []wireTable `xml:"table"`
}

type wireTable struct {
	Name        string           `xml:"name,attr"`
	Columns     []wireColumn     `xml:"column"`
	PrimaryKey  *wirePrimaryKey  `xml:"primary-key"`
	ForeignKeys []wireForeignKey `xml:"foreign-key"`
	Indexes     []wireIndex      `xml:"index"`
}

type wireColumn struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Null bool   `xml:"null,attr"`
}

type wirePrimaryKey struct {
	Auto    bool     `xml:"auto,attr"`
	Columns []string `xml:"column"`
}

type wireForeignKey struct {
	Deferrable string            `xml:"deferrable,attr"`
	Referer    wireColumnRefList `xml:"referer"`
	Referenced wireReferenced    `xml:"referenced"`
}

type wireColumnRefList struct {
	Columns []string `xml:"column"`
}

type wireReferenced struct {
	Table   string   `xml:"table,attr"`
	Columns []string `xml:"column"`
}

type wireIndex struct {
	Name    string   `xml:"name,attr"`
	Columns []string `xml:"column"`
}

type wireChangeset struct {
	Version       int                  `xml:"version,attr"`
	AddedTables   []wireTable          `xml:"add-table"`
	DroppedTables []wireDropTable      `xml:"drop-table"`
	AlteredTables []wireAlterTable     `xml:"alter-table"`
}

type wireDropTable struct {
	Name string `xml:"name,attr"`
}

type wireAlterTable struct {
	Name               string               `xml:"name,attr"`
	AddedColumns       []wireColumn         `xml:"add-column"`
	DroppedColumns     []wireDropColumn     `xml:"drop-column"`
	AlteredColumns     []wireAlterColumn    `xml:"alter-column"`
	AddedForeignKeys   []wireForeignKey     `xml:"add-foreign-key"`
	DroppedForeignKeys []wireForeignKey     `xml:"drop-foreign-key"`
	AddedIndexes       []wireIndex          `xml:"add-index"`
	DroppedIndexes     []wireDropIndex      `xml:"drop-index"`
}

type wireDropColumn struct {
	Name string `xml:"name,attr"`
}

type wireDropIndex struct {
	Name string `xml:"name,attr"`
}

type wireAlterColumn struct {
	Name string          `xml:"name,attr"`
	Old  wireColumnState `xml:"old"`
	New  wireColumnState `xml:"new"`
}

type wireColumnState struct {
	Type string `xml:"type,attr"`
	Null bool   `xml:"null,attr"`
}

func toWireTable(t *relational.Table) wireTable {
	wt := wireTable{Name: t.Name}
	for _, c := range t.Columns {
		wt.Columns = append(wt.Columns, wireColumn{Name: c.Name, Type: c.Type, Null: c.Null})
	}
	if t.PrimaryKey != nil {
		wt.PrimaryKey = &wirePrimaryKey{Auto: t.PrimaryKey.Auto, Columns: t.PrimaryKey.Columns}
	}
	for _, fk := range t.ForeignKeys {
		wt.ForeignKeys = append(wt.ForeignKeys, toWireForeignKey(fk))
	}
	for _, idx := range t.Indexes {
		wt.Indexes = append(wt.Indexes, wireIndex{Name: idx.Name, Columns: idx.Columns})
	}
	return wt
}

func fromWireTable(w wireTable) *relational.Table {
	t := relational.NewTable(w.Name)
	for _, wc := range w.Columns {
		t.AddColumn(&relational.Column{Name: wc.Name, Type: wc.Type, Null: wc.Null})
	}
	if w.PrimaryKey != nil {
		t.PrimaryKey = &relational.PrimaryKey{Auto: w.PrimaryKey.Auto, Columns: w.PrimaryKey.Columns}
	}
	for _, wfk := range w.ForeignKeys {
		t.AddForeignKey(fromWireForeignKey(wfk))
	}
	for _, wi := range w.Indexes {
		t.AddIndex(&relational.Index{Name: wi.Name, Columns: wi.Columns})
	}
	return t
}

func toWireForeignKey(fk *relational.ForeignKey) wireForeignKey {
	return wireForeignKey{
		Deferrable: string(fk.Deferrable),
		Referer:    wireColumnRefList{Columns: fk.RefererColumns},
		Referenced: wireReferenced{Table: fk.ReferencedTable, Columns: fk.ReferencedColumns},
	}
}

func fromWireForeignKey(w wireForeignKey) *relational.ForeignKey {
	return &relational.ForeignKey{
		Deferrable:        relational.Deferrability(w.Deferrable),
		RefererColumns:    w.Referer.Columns,
		ReferencedTable:   w.Referenced.Table,
		ReferencedColumns: w.Referenced.Columns,
	}
}

func toWireChangeset(cs *Changeset) wireChangeset {
	w := wireChangeset{Version: cs.Version}
	for _, t := range cs.AddedTables {
		w.AddedTables = append(w.AddedTables, toWireTable(t))
	}
	for _, name := range cs.DroppedTables {
		w.DroppedTables = append(w.DroppedTables, wireDropTable{Name: name})
	}
	for _, tc := range cs.AlteredTables {
		w.AlteredTables = append(w.AlteredTables, toWireAlterTable(tc))
	}
	return w
}

func toWireAlterTable(tc *TableChange) wireAlterTable {
	wat := wireAlterTable{Name: tc.Name}
	for _, c := range tc.AddedColumns {
		wat.AddedColumns = append(wat.AddedColumns, wireColumn{Name: c.Name, Type: c.Type, Null: c.Null})
	}
	for _, name := range tc.DroppedColumns {
		wat.DroppedColumns = append(wat.DroppedColumns, wireDropColumn{Name: name})
	}
	for _, cc := range tc.AlteredColumns {
		wat.AlteredColumns = append(wat.AlteredColumns, wireAlterColumn{
			Name: cc.Name,
			Old:  wireColumnState{Type: cc.Old.Type, Null: cc.Old.Null},
			New:  wireColumnState{Type: cc.New.Type, Null: cc.New.Null},
		})
	}
	for _, fk := range tc.AddedForeignKeys {
		wat.AddedForeignKeys = append(wat.AddedForeignKeys, toWireForeignKey(fk))
	}
	for _, fk := range tc.DroppedForeignKeys {
		wat.DroppedForeignKeys = append(wat.DroppedForeignKeys, toWireForeignKey(fk))
	}
	for _, idx := range tc.AddedIndexes {
		wat.AddedIndexes = append(wat.AddedIndexes, wireIndex{Name: idx.Name, Columns: idx.Columns})
	}
	for _, name := range tc.DroppedIndexes {
		wat.DroppedIndexes = append(wat.DroppedIndexes, wireDropIndex{Name: name})
	}
	return wat
}

func fromWireChangeset(w wireChangeset) *Changeset {
	cs := &Changeset{Version: w.Version}
	for _, wt := range w.AddedTables {
		cs.AddedTables = append(cs.AddedTables, fromWireTable(wt))
	}
	for _, wd := range w.DroppedTables {
		cs.DroppedTables = append(cs.DroppedTables, wd.Name)
	}
	for _, wat := range w.AlteredTables {
		cs.AlteredTables = append(cs.AlteredTables, fromWireAlterTable(wat))
	}
	return cs
}

func fromWireAlterTable(w wireAlterTable) *TableChange {
	tc := &TableChange{Name: w.Name}
	for _, wc := range w.AddedColumns {
		tc.AddedColumns = append(tc.AddedColumns, &relational.Column{Name: wc.Name, Type: wc.Type, Null: wc.Null})
	}
	for _, wd := range w.DroppedColumns {
		tc.DroppedColumns = append(tc.DroppedColumns, wd.Name)
	}
	for _, wac := range w.AlteredColumns {
		tc.AlteredColumns = append(tc.AlteredColumns, &ColumnChange{
			Name: wac.Name,
			Old:  &relational.Column{Name: wac.Name, Type: wac.Old.Type, Null: wac.Old.Null},
			New:  &relational.Column{Name: wac.Name, Type: wac.New.Type, Null: wac.New.Null},
		})
	}
	for _, wfk := range w.AddedForeignKeys {
		tc.AddedForeignKeys = append(tc.AddedForeignKeys, fromWireForeignKey(wfk))
	}
	for _, wfk := range w.DroppedForeignKeys {
		tc.DroppedForeignKeys = append(tc.DroppedForeignKeys, fromWireForeignKey(wfk))
	}
	for _, wi := range w.AddedIndexes {
		tc.AddedIndexes = append(tc.AddedIndexes, &relational.Index{Name: wi.Name, Columns: wi.Columns})
	}
	for _, wd := range w.DroppedIndexes {
		tc.DroppedIndexes = append(tc.DroppedIndexes, wd.Name)
	}
	return tc
}

// Marshal serializes the full changelog, matching §6's normative schema
// byte for byte in shape (a doc indented with two spaces, one changeset
// per recorded version).
func (c *Changelog) Marshal() ([]byte, error) {
	w := wireChangelog{
		Database:   c.Database,
		SchemaName: c.SchemaName,
		Model:      wireModelRef{Version: c.Model.Version},
	}
	for _, t := range c.Model.Tables {
		w.Model.Tables = append(w.Model.Tables, toWireTable(t))
	}
	for _, cs := range c.Changesets {
		w.Changesets = append(w.Changesets, toWireChangeset(cs))
	}
	body, err := xml.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Unmarshal parses a changelog document, returning VersionMismatchError or
// DatabaseMismatchError if expectDB/expectVersion are non-empty/non-zero
// and the document's header does not match (§6).
func Unmarshal(data []byte, expectDB string, expectVersion int) (*Changelog, error) {
	var w wireChangelog
	if err := xml.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if expectDB != "" && w.Database != expectDB {
		return nil, &DatabaseMismatchError{Expected: expectDB, Found: w.Database}
	}
	if expectVersion != 0 && w.Model.Version != expectVersion {
		return nil, &VersionMismatchError{Expected: expectVersion, Found: w.Model.Version}
	}

	model := relational.NewModel(w.Model.Version)
	for _, wt := range w.Model.Tables {
		model.AddTable(fromWireTable(wt))
	}

	c := &Changelog{Database: w.Database, SchemaName: w.SchemaName, Model: model}
	for _, wcs := range w.Changesets {
		c.Changesets = append(c.Changesets, fromWireChangeset(wcs))
	}
	return c, nil
}

// NeedsRewrite reports whether newContent differs from the bytes last
// read from disk (prevContent) — §4.F: "rewritten only when the
// serialized form differs from the previously read bytes (byte-exact
// comparison — not a normalization)".
func NeedsRewrite(prevContent, newContent []byte) bool {
	return !bytes.Equal(prevContent, newContent)
}
