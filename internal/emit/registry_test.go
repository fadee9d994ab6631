package emit

import (
	"testing"

	"pragmadb/internal/build"
	"pragmadb/internal/gencontext"
)

type fakeDialect struct{ name gencontext.Database }

func (f fakeDialect) Name() gencontext.Database { return f.name }
func (f fakeDialect) Generator() Generator      { return nil }
func (f fakeDialect) TypeMapper() build.TypeMapper { return nil }

func TestRegisterAndGetDialect(t *testing.T) {
	RegisterDialect(gencontext.Database("test-fake"), func() Dialect { return fakeDialect{name: gencontext.Database("test-fake")} })

	d, err := GetDialect(gencontext.Database("test-fake"))
	if err != nil {
		t.Fatalf("GetDialect: %v", err)
	}
	if d.Name() != gencontext.Database("test-fake") {
		t.Fatalf("got dialect %q", d.Name())
	}
}

func TestGetDialectUnregisteredErrors(t *testing.T) {
	if _, err := GetDialect(gencontext.Database("does-not-exist")); err == nil {
		t.Fatal("expected error for unregistered database")
	}
}
