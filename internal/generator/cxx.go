package generator

import (
	"fmt"
	"strings"

	"pragmadb/internal/emit"
	"pragmadb/internal/emit/cxxtraits"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

// headerGuard derives the #ifndef/#define guard for base, combining the
// bound guard-prefix option with an escaped, upper-cased form of the
// file stem, the same ingredients odb itself combines for a guard name.
func headerGuard(ctx *gencontext.Context, base string) string {
	return ctx.Options.GuardPrefix + ctx.Escape(strings.ToUpper(base)) + "_HXX"
}

// bindingsFor derives one cxxtraits.Binding per column of t, keyed by
// column name on both sides since the relational model has already
// collapsed member and column naming into Column.Name.
func bindingsFor(t *relational.Table) []cxxtraits.Binding {
	members := make([]string, len(t.Columns))
	columns := make([]string, len(t.Columns))
	sqlTypes := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		members[i] = c.Name
		columns[i] = c.Name
		sqlTypes[i] = c.Type
	}
	return cxxtraits.BindAll(members, columns, sqlTypes)
}

// buildHeader renders the access-trait declarations for every table in
// m between an include guard, with an export-symbol decoration line
// when the bound options set one for the target database (§6:
// "export-symbol, extern-symbol (per-db): code decorations").
func buildHeader(ctx *gencontext.Context, base string, m *relational.Model) string {
	guard := headerGuard(ctx, base)
	var sb strings.Builder
	fmt.Fprintf(&sb, "#ifndef %s\n#define %s\n\n", guard, guard)
	if sym := ctx.Options.ExportSymbol[ctx.Options.Database]; sym != "" {
		fmt.Fprintf(&sb, "#define %s_EXPORT %s\n\n", strings.ToUpper(base), sym)
	}
	for _, t := range m.Tables {
		fmt.Fprintf(&sb, "// access traits: %s\n", t.Name)
		for _, b := range bindingsFor(t) {
			fmt.Fprintf(&sb, "%s\n", b.LoadStmt)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "#endif // %s\n", guard)
	return sb.String()
}

// buildInline renders the per-column bind statements, the body of the
// generated -odb.ixx file.
func buildInline(ctx *gencontext.Context, base string, m *relational.Model) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// inline definitions: %s\n\n", base)
	for _, t := range m.Tables {
		fmt.Fprintf(&sb, "// %s\n", t.Name)
		for _, b := range bindingsFor(t) {
			fmt.Fprintf(&sb, "%s\n", b.BindStmt)
		}
	}
	return sb.String()
}

// buildSource renders the per-table embedded schema (persist/find/
// update statement text) that backs the generated -odb.cxx file, with
// an extern-symbol decoration when bound for the target database.
func buildSource(ctx *gencontext.Context, base string, m *relational.Model, gen emit.Generator) string {
	var sb strings.Builder
	if sym := ctx.Options.ExternSymbol[ctx.Options.Database]; sym != "" {
		fmt.Fprintf(&sb, "extern %s // statements: %s\n\n", sym, base)
	} else {
		fmt.Fprintf(&sb, "// statements: %s\n\n", base)
	}
	for _, t := range m.Tables {
		fmt.Fprintf(&sb, "%s;\n", gen.InsertStatement(ctx, t))
		for _, stmt := range []string{gen.SelectStatement(ctx, t), gen.UpdateStatement(ctx, t), gen.DeleteStatement(ctx, t)} {
			if stmt != "" {
				fmt.Fprintf(&sb, "%s;\n", stmt)
			}
		}
	}
	return sb.String()
}

// buildEmbeddedSchema renders CREATE TABLE/ADD FOREIGN KEY/CREATE INDEX
// statements for every table in m, in declaration order, the text
// embedded in the -odb.cxx file (schema-format=embedded, the default)
// or written standalone (schema-format=separate or sql).
func buildEmbeddedSchema(ctx *gencontext.Context, m *relational.Model, gen emit.Generator) string {
	var sb strings.Builder
	for i, t := range m.Tables {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(gen.CreateTable(ctx, t))
		sb.WriteString(";")
		for _, fk := range t.ForeignKeys {
			sb.WriteString("\n")
			sb.WriteString(gen.AddForeignKey(ctx, t.Name, fk))
			sb.WriteString(";")
		}
		for _, idx := range t.Indexes {
			sb.WriteString("\n")
			sb.WriteString(gen.CreateIndex(ctx, t.Name, idx))
			sb.WriteString(";")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
