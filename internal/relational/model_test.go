package relational

import "testing"

func sampleModel() *Model {
	m := NewModel(1)
	t := m.AddTable(NewTable("person"))
	t.AddColumn(&Column{Name: "id", Type: "BIGINT", Null: false})
	t.AddColumn(&Column{Name: "name", Type: "TEXT", Null: true})
	t.PrimaryKey = &PrimaryKey{Auto: true, Columns: []string{"id"}}

	emp := m.AddTable(NewTable("employer"))
	emp.AddColumn(&Column{Name: "id", Type: "BIGINT", Null: false})
	emp.PrimaryKey = &PrimaryKey{Auto: true, Columns: []string{"id"}}

	t.AddColumn(&Column{Name: "employer", Type: "BIGINT", Null: true})
	t.AddForeignKey(&ForeignKey{
		Deferrable:        DeferNot,
		RefererColumns:    []string{"employer"},
		ReferencedTable:   "employer",
		ReferencedColumns: []string{"id"},
	})
	t.AddIndex(&Index{Name: "person_name_i", Columns: []string{"name"}})
	return m
}

func TestModelXMLRoundTrip(t *testing.T) {
	m := sampleModel()
	data, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := UnmarshalModel(data)
	if err != nil {
		t.Fatalf("UnmarshalModel: %v", err)
	}

	if got.Version != m.Version {
		t.Fatalf("version mismatch: got %d want %d", got.Version, m.Version)
	}
	if len(got.Tables) != len(m.Tables) {
		t.Fatalf("table count mismatch: got %d want %d", len(got.Tables), len(m.Tables))
	}
	for i, wantT := range m.Tables {
		gotT := got.Tables[i]
		if gotT.Name != wantT.Name {
			t.Fatalf("table %d name mismatch: got %s want %s", i, gotT.Name, wantT.Name)
		}
		for j, wantC := range wantT.Columns {
			if !gotT.Columns[j].Equal(wantC) {
				t.Fatalf("table %s column %d mismatch: got %+v want %+v", wantT.Name, j, gotT.Columns[j], wantC)
			}
		}
		if !gotT.PrimaryKey.Equal(wantT.PrimaryKey) {
			t.Fatalf("table %s primary key mismatch", wantT.Name)
		}
		for j, wantFK := range wantT.ForeignKeys {
			if !gotT.ForeignKeys[j].Equal(wantFK) {
				t.Fatalf("table %s fk %d mismatch", wantT.Name, j)
			}
		}
		for j, wantIdx := range wantT.Indexes {
			if !gotT.Indexes[j].Equal(wantIdx) {
				t.Fatalf("table %s index %d mismatch", wantT.Name, j)
			}
		}
	}
}

func TestModelMarshalDeterministic(t *testing.T) {
	m := sampleModel()
	a, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatal("expected repeated marshaling of the same model to be byte-identical")
	}
}

func TestTableColumnLookup(t *testing.T) {
	m := sampleModel()
	person := m.Table("person")
	if person == nil {
		t.Fatal("expected to find person table")
	}
	if person.Column("name") == nil {
		t.Fatal("expected to find name column")
	}
	if person.Column("nonexistent") != nil {
		t.Fatal("expected nonexistent column to be nil")
	}
	if m.Table("nonexistent") != nil {
		t.Fatal("expected nonexistent table to be nil")
	}
}

func TestColumnOrderPreserved(t *testing.T) {
	m := sampleModel()
	person := m.Table("person")
	want := []string{"id", "name", "employer"}
	for i, c := range person.Columns {
		if c.Name != want[i] {
			t.Fatalf("column %d: got %s want %s", i, c.Name, want[i])
		}
	}
}
