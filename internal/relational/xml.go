package relational

import "encoding/xml"

// The wireXXX types below mirror §6's normative changelog schema
// attribute-for-attribute. They exist separately from Model/Table/Column
// because the domain types use typed Deferrability and plain string
// column references for diffing convenience, while the wire format is
// fixed by the spec's literal attribute names and nesting. Marshal/
// Unmarshal convert between the two; within this package only this file
// imports encoding/xml (internal/changelog keeps its own copy of these
// wire types for the full changelog document).
//
// No third-party XML library is used here: the rest of the example pack
// carries no XML dependency at all (the teacher and every other example
// repo serialize structured data as JSON), so there is no ecosystem
// precedent to follow for this one format, and the standard library's
// encoding/xml already matches the spec's schema with struct tags alone.

type wireModel struct {
	XMLName xml.Name    `xml:"model"`
	Version int         `xml:"version,attr"`
	Tables  []wireTable `xml:"table"`
}

type wireTable struct {
	Name        string            `xml:"name,attr"`
	Columns     []wireColumn      `xml:"column"`
	PrimaryKey  *wirePrimaryKey   `xml:"primary-key"`
	ForeignKeys []wireForeignKey  `xml:"foreign-key"`
	Indexes     []wireIndex       `xml:"index"`
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

func toWireModel(m *Model) wireModel {
	w := wireModel{Version: m.Version}
	for _, t := range m.Tables {
		w.Tables = append(w.Tables, toWireTable(t))
	}
	return w
}

func toWireTable(t *Table) wireTable {
	wt := wireTable{Name: t.Name}
	for _, c := range t.Columns {
		wt.Columns = append(wt.Columns, wireColumn{Name: c.Name, Type: c.Type, Null: c.Null})
	}
	if t.PrimaryKey != nil {
		wt.PrimaryKey = &wirePrimaryKey{Auto: t.PrimaryKey.Auto, Columns: t.PrimaryKey.Columns}
	}
	for _, fk := range t.ForeignKeys {
		wt.ForeignKeys = append(wt.ForeignKeys, wireForeignKey{
			Deferrable: string(fk.Deferrable),
			Referer:    wireColumnRefList{Columns: fk.RefererColumns},
			Referenced: wireReferenced{Table: fk.ReferencedTable, Columns: fk.ReferencedColumns},
		})
	}
	for _, idx := range t.Indexes {
		wt.Indexes = append(wt.Indexes, wireIndex{Name: idx.Name, Columns: idx.Columns})
	}
	return wt
}

func fromWireModel(w wireModel) *Model {
	m := NewModel(w.Version)
	for _, wt := range w.Tables {
		m.AddTable(fromWireTable(wt))
	}
	return m
}

func fromWireTable(w wireTable) *Table {
	t := NewTable(w.Name)
	for _, wc := range w.Columns {
		t.AddColumn(&Column{Name: wc.Name, Type: wc.Type, Null: wc.Null})
	}
	if w.PrimaryKey != nil {
		t.PrimaryKey = &PrimaryKey{Auto: w.PrimaryKey.Auto, Columns: w.PrimaryKey.Columns}
	}
	for _, wfk := range w.ForeignKeys {
		t.AddForeignKey(&ForeignKey{
			Deferrable:        Deferrability(wfk.Deferrable),
			RefererColumns:    wfk.Referer.Columns,
			ReferencedTable:   wfk.Referenced.Table,
			ReferencedColumns: wfk.Referenced.Columns,
		})
	}
	for _, wi := range w.Indexes {
		t.AddIndex(&Index{Name: wi.Name, Columns: wi.Columns})
	}
	return t
}

// Marshal serializes m as the `<model version="...">` element of §6's
// normative changelog schema (without the enclosing `<changelog>` root,
// which internal/changelog owns).
func (m *Model) Marshal() ([]byte, error) {
	return xml.MarshalIndent(toWireModel(m), "", "  ")
}

// UnmarshalModel parses a `<model>` element back into a Model.
func UnmarshalModel(data []byte) (*Model, error) {
	var w wireModel
	if err := xml.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromWireModel(w), nil
}
