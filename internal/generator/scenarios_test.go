package generator

import (
	"strings"
	"testing"

	"pragmadb/internal/changelog"
	"pragmadb/internal/emit"
	_ "pragmadb/internal/emit/mssql"
	_ "pragmadb/internal/emit/mysql"
	_ "pragmadb/internal/emit/pgsql"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
	"pragmadb/internal/semantics"
	"pragmadb/internal/validate"
)

func newCtx(db gencontext.Database, build func(u *semantics.Unit)) *gencontext.Context {
	u := semantics.NewUnit()
	build(u)
	opts := gencontext.DefaultOptions(db)
	opts.GenerateSchema = true
	opts.SchemaFormats[db] = gencontext.SchemaFormatSQL
	return gencontext.New(opts, u)
}

func resolve(t *testing.T, u *semantics.Unit, name string) semantics.Ref {
	t.Helper()
	r, ok := u.Resolve(u.Root, name)
	if !ok {
		t.Fatalf("class %q not found", name)
	}
	return r
}

// TestScenarioS1AutoIDPostgres mirrors S1: an auto-id object on
// PostgreSQL produces an INSERT ending in RETURNING "id".
func TestScenarioS1AutoIDPostgres(t *testing.T) {
	ctx := newCtx(gencontext.DatabasePgSQL, func(u *semantics.Unit) {
		person := u.NewClass(u.Root, "person")
		semantics.Set(&u.Node(person).Annotations, semantics.AnnoObject, true)
		id := u.NewMember(person, "id", u.NewPrimitiveType("unsigned long"))
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoID, true)
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoAuto, true)
		u.NewMember(person, "name", u.NewPrimitiveType("std::string"))
	})

	res, err := Run(ctx, validate.NewDefaultOracle(nil), nil, "person", nil, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(res.Source, `RETURNING "id"`) {
		t.Fatalf("expected INSERT ending in RETURNING \"id\", got:\n%s", res.Source)
	}

	personTable := ctx.TableName(resolve(t, ctx.Unit, "person"))
	st := res.StatementTypes[personTable]
	if len(st.Persist) != 1 || st.Persist[0] != "pgsql::text_oid" {
		t.Fatalf("expected persist_statement_types [pgsql::text_oid] (name only, id skipped), got %v", st.Persist)
	}
	if len(st.Find) == 0 || st.Find[0] != "pgsql::int8_oid" {
		t.Fatalf("expected find_statement_types to start with pgsql::int8_oid, got %v", st.Find)
	}
}

// TestScenarioS2CompositeColumnPrefix mirrors S2: a composite member's
// columns are prefixed with the member name, in declaration order.
func TestScenarioS2CompositeColumnPrefix(t *testing.T) {
	ctx := newCtx(gencontext.DatabaseCommon, func(u *semantics.Unit) {
		addr := u.NewClass(u.Root, "addr")
		semantics.Set(&u.Node(addr).Annotations, semantics.AnnoValue, true)
		u.NewMember(addr, "street", u.NewPrimitiveType("std::string"))
		u.NewMember(addr, "city", u.NewPrimitiveType("std::string"))

		user := u.NewClass(u.Root, "user")
		semantics.Set(&u.Node(user).Annotations, semantics.AnnoObject, true)
		id := u.NewMember(user, "id", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoID, true)
		u.NewMember(user, "home", u.NewClassRefType(addr))
	})

	res, err := Run(ctx, validate.NewDefaultOracle(nil), nil, "user", nil, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	table := res.Model.Table(ctx.TableName(resolve(t, ctx.Unit, "user")))
	if table == nil || len(table.Columns) != 3 {
		t.Fatalf("expected id, home_street, home_city columns, got %+v", table)
	}
	if table.Columns[1].Name != "home_street" || table.Columns[2].Name != "home_city" {
		t.Fatalf("expected home_street then home_city, got %s, %s", table.Columns[1].Name, table.Columns[2].Name)
	}
}

// TestScenarioS3OptimisticConcurrency mirrors S3: optimistic concurrency
// validates successfully when a version member is present, and its
// UPDATE WHERE types are [int8, int8] (id, then version).
func TestScenarioS3OptimisticConcurrency(t *testing.T) {
	ctx := newCtx(gencontext.DatabasePgSQL, func(u *semantics.Unit) {
		doc := u.NewClass(u.Root, "doc")
		semantics.Set(&u.Node(doc).Annotations, semantics.AnnoObject, true)
		semantics.Set(&u.Node(doc).Annotations, semantics.AnnoOptimistic, true)
		id := u.NewMember(doc, "id", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoID, true)
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoAuto, true)
		ver := u.NewMember(doc, "ver", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(ver).Annotations, semantics.AnnoVersion, true)
		u.NewMember(doc, "body", u.NewPrimitiveType("std::string"))
	})

	res, err := Run(ctx, validate.NewDefaultOracle(nil), nil, "doc", nil, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Diagnostics.Failed() {
		t.Fatalf("expected optimistic doc to validate, got %+v", res.Diagnostics.Errors())
	}

	docTable := ctx.TableName(resolve(t, ctx.Unit, "doc"))
	where := res.StatementTypes[docTable].UpdateWhere
	want := []string{"pgsql::int8_oid", "pgsql::int8_oid"}
	if len(where) != len(want) || where[0] != want[0] || where[1] != want[1] {
		t.Fatalf("expected UPDATE WHERE types %v, got %v", want, where)
	}
}

// TestScenarioS3OptimisticWithoutVersionRejected is the negative half of
// S3: optimistic without a version member fails validation, so Run
// returns an error.
func TestScenarioS3OptimisticWithoutVersionRejected(t *testing.T) {
	ctx := newCtx(gencontext.DatabaseCommon, func(u *semantics.Unit) {
		doc := u.NewClass(u.Root, "doc")
		semantics.Set(&u.Node(doc).Annotations, semantics.AnnoObject, true)
		semantics.Set(&u.Node(doc).Annotations, semantics.AnnoOptimistic, true)
		id := u.NewMember(doc, "id", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoID, true)
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoAuto, true)
	})

	_, err := Run(ctx, validate.NewDefaultOracle(nil), nil, "doc", nil, 1)
	if err == nil {
		t.Fatal("expected a validation error for optimistic without version")
	}
}

// TestScenarioS4PolymorphicHierarchy mirrors S4: a polymorphic base and
// derived class produce two tables, with dog's id foreign-keyed to animal.
func TestScenarioS4PolymorphicHierarchy(t *testing.T) {
	ctx := newCtx(gencontext.DatabaseCommon, func(u *semantics.Unit) {
		animal := u.NewClass(u.Root, "animal")
		semantics.Set(&u.Node(animal).Annotations, semantics.AnnoObject, true)
		semantics.Set(&u.Node(animal).Annotations, semantics.AnnoPolymorphic, true)
		id := u.NewMember(animal, "id", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(id).Annotations, semantics.AnnoID, true)

		dog := u.NewClass(u.Root, "dog")
		semantics.Set(&u.Node(dog).Annotations, semantics.AnnoObject, true)
		u.AddBase(dog, animal, semantics.AccessPublic, false)
	})

	res, err := Run(ctx, validate.NewDefaultOracle(nil), nil, "animal", nil, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Model.Tables) != 2 {
		t.Fatalf("expected 2 tables (animal, dog), got %d", len(res.Model.Tables))
	}

	dogTable := ctx.TableName(resolve(t, ctx.Unit, "dog"))
	names := res.FindStatementNames[dogTable]
	want := []string{"find_animal", "find_dog"}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("expected find_statement_names %v, got %v", want, names)
	}
}

// TestScenarioS5MSSQLDeferrableFKComment mirrors S5: SQL Server lacks
// deferrable FKs, so the generator wraps the constraint in a comment.
func TestScenarioS5MSSQLDeferrableFKComment(t *testing.T) {
	ctx := newCtx(gencontext.DatabaseMSSQL, func(u *semantics.Unit) {
		b := u.NewClass(u.Root, "b")
		semantics.Set(&u.Node(b).Annotations, semantics.AnnoObject, true)
		bid := u.NewMember(b, "id", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(bid).Annotations, semantics.AnnoID, true)
		semantics.Set(&u.Node(bid).Annotations, semantics.AnnoAuto, true)

		a := u.NewClass(u.Root, "a")
		semantics.Set(&u.Node(a).Annotations, semantics.AnnoObject, true)
		aid := u.NewMember(a, "id", u.NewPrimitiveType("long"))
		semantics.Set(&u.Node(aid).Annotations, semantics.AnnoID, true)
		semantics.Set(&u.Node(aid).Annotations, semantics.AnnoAuto, true)
		ptr := u.NewPointerType(u.NewClassRefType(b))
		u.NewMember(a, "owner", ptr)
	})

	dialect, err := emit.GetDialect(gencontext.DatabaseMSSQL)
	if err != nil {
		t.Fatalf("GetDialect: %v", err)
	}
	diags := validate.Validate(ctx, validate.NewDefaultOracle(nil))
	if diags.Failed() {
		t.Fatalf("unexpected validation failure: %+v", diags.Errors())
	}
	gen := dialect.Generator()
	// The FK from a to b isn't deferrable by construction here
	// (internal/build always emits DeferNot for object-pointer FKs), so exercise the
	// comment path directly against a deferrable FK the way
	// changelog.BuildMigration's deferrable-FK branch would construct one.
	fk := &relational.ForeignKey{
		Deferrable:        relational.DeferDeferred,
		RefererColumns:    []string{"owner"},
		ReferencedTable:   "b",
		ReferencedColumns: []string{"id"},
	}
	stmt := gen.AddForeignKey(ctx, "a", fk)
	if !strings.HasPrefix(strings.TrimSpace(stmt), "--") {
		t.Fatalf("expected SQL Server to comment out a deferrable FK, got %q", stmt)
	}
}

// TestRunAppliesChangelogAcrossVersions checks that Run folds a prior
// Changelog's changesets forward and appends the newly diffed one,
// matching §4.F's "model_prev"/"model_curr" + growing changeset list
// shape.
func TestRunAppliesChangelogAcrossVersions(t *testing.T) {
	build := func(withB bool) func(u *semantics.Unit) {
		return func(u *semantics.Unit) {
			t := u.NewClass(u.Root, "t")
			semantics.Set(&u.Node(t).Annotations, semantics.AnnoObject, true)
			id := u.NewMember(t, "id", u.NewPrimitiveType("long"))
			semantics.Set(&u.Node(id).Annotations, semantics.AnnoID, true)
			semantics.Set(&u.Node(id).Annotations, semantics.AnnoAuto, true)
			if withB {
				u.NewMember(t, "b", u.NewPrimitiveType("std::string"))
			} else {
				u.NewMember(t, "c", u.NewPrimitiveType("bool"))
			}
		}
	}

	ctxV1 := newCtx(gencontext.DatabaseCommon, build(true))
	resV1, err := Run(ctxV1, validate.NewDefaultOracle(nil), nil, "t", nil, 1)
	if err != nil {
		t.Fatalf("Run v1: %v", err)
	}

	ctxV2 := newCtx(gencontext.DatabaseCommon, build(false))
	resV2, err := Run(ctxV2, validate.NewDefaultOracle(nil), changelog.NewRiskAnalyzer(), "t", resV1.Changelog, 2)
	if err != nil {
		t.Fatalf("Run v2: %v", err)
	}

	if len(resV2.Changelog.Changesets) != 1 {
		t.Fatalf("expected exactly one changeset carried into v2's changelog, got %d", len(resV2.Changelog.Changesets))
	}
	tc := resV2.Changeset.AlteredTables
	if len(tc) != 1 || len(tc[0].DroppedColumns) != 1 || tc[0].DroppedColumns[0] != "b" {
		t.Fatalf("expected drop-column(b), got %+v", tc)
	}
	if len(resV2.Risks) == 0 {
		t.Fatalf("expected the drop-column migration to be flagged as a risk")
	}
}
