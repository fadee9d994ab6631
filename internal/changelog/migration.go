// Migration SQL generation from a Changeset (§4.F: "pre-file ...
// post-file", writing <base>-<v>-pre.sql / -post.sql). The split exists
// so that, on databases with no online DDL, a column can be widened/
// nulled in the pre-migration (safe to run before application code is
// updated) and narrowed/tightened in the post-migration (safe only once
// every row has been backfilled) — grounded on §4.F's alter_column row:
// "Relax NULL in pre, tighten in post to allow data move."
package changelog

import (
	"strings"

	"pragmadb/internal/emit"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

// Migration holds the pre- and post-migration SQL text for one
// changeset, one statement per line in application order.
type Migration struct {
	Pre  []string
	Post []string
}

// BuildMigration renders cs into pre/post SQL using g, the target
// database's Generator.
func BuildMigration(ctx *gencontext.Context, g emit.Generator, cs *Changeset) *Migration {
	m := &Migration{}

	for _, t := range cs.AddedTables {
		m.Post = append(m.Post, g.CreateTable(ctx, t))
	}

	// Deferrable FKs referencing a dropped table are logically gone the
	// moment the table disappears regardless of the SQL engine's
	// enforcement, but an engine with real referential integrity needs
	// them dropped explicitly before the table itself — §4.F: "Deferrable
	// FKs from other tables to t are dropped first."
	for _, name := range cs.DroppedTables {
		m.Pre = append(m.Pre, dropForeignKeysReferencing(ctx, g, cs, name)...)
	}
	for _, name := range cs.DroppedTables {
		m.Post = append(m.Post, g.DropTable(ctx, &relational.Table{Name: name}))
	}

	for _, tc := range cs.AlteredTables {
		buildAlterTableMigration(ctx, g, tc, m)
	}

	return m
}

func dropForeignKeysReferencing(ctx *gencontext.Context, g emit.Generator, cs *Changeset, tableName string) []string {
	var stmts []string
	for _, tc := range cs.AlteredTables {
		for _, fk := range tc.DroppedForeignKeys {
			if fk.ReferencedTable == tableName {
				stmts = append(stmts, g.DropForeignKey(ctx, tc.Name, fk))
			}
		}
	}
	return stmts
}

func buildAlterTableMigration(ctx *gencontext.Context, g emit.Generator, tc *TableChange, m *Migration) {
	for _, c := range tc.AddedColumns {
		// Add as nullable in pre (safe before app code writes it), then
		// tighten to the declared nullability in post once backfilled.
		pre := *c
		pre.Null = true
		m.Pre = append(m.Pre, addColumnStatement(ctx, g, tc.Name, &pre))
		if !c.Null {
			m.Post = append(m.Post, alterColumnStatement(ctx, g, tc.Name, c))
		}
	}
	for _, name := range tc.DroppedColumns {
		m.Post = append(m.Post, dropColumnStatement(ctx, g, tc.Name, name))
	}
	for _, cc := range tc.AlteredColumns {
		relaxed := *cc.New
		relaxed.Null = true
		m.Pre = append(m.Pre, alterColumnStatement(ctx, g, tc.Name, &relaxed))
		if !cc.New.Null {
			m.Post = append(m.Post, alterColumnStatement(ctx, g, tc.Name, cc.New))
		}
	}

	for _, fk := range tc.DroppedForeignKeys {
		if fk.Deferrable != relational.DeferNot {
			m.Pre = append(m.Pre, commentOut(g.DropForeignKey(ctx, tc.Name, fk)))
			continue
		}
		m.Pre = append(m.Pre, g.DropForeignKey(ctx, tc.Name, fk))
	}
	for _, fk := range tc.AddedForeignKeys {
		if fk.Deferrable != relational.DeferNot {
			m.Post = append(m.Post, commentOut(g.AddForeignKey(ctx, tc.Name, fk)))
			continue
		}
		m.Post = append(m.Post, g.AddForeignKey(ctx, tc.Name, fk))
	}

	for _, name := range tc.DroppedIndexes {
		m.Pre = append(m.Pre, "DROP INDEX "+g.QuoteIdentifier(name))
	}
	for _, idx := range tc.AddedIndexes {
		m.Post = append(m.Post, g.CreateIndex(ctx, tc.Name, idx))
	}
}

func addColumnStatement(ctx *gencontext.Context, g emit.Generator, table string, c *relational.Column) string {
	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(g.QuoteIdentifier(table))
	b.WriteString(" ADD COLUMN ")
	b.WriteString(columnDefinition(g, c))
	return b.String()
}

func dropColumnStatement(ctx *gencontext.Context, g emit.Generator, table, column string) string {
	return "ALTER TABLE " + g.QuoteIdentifier(table) + " DROP COLUMN " + g.QuoteIdentifier(column)
}

func alterColumnStatement(ctx *gencontext.Context, g emit.Generator, table string, c *relational.Column) string {
	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(g.QuoteIdentifier(table))
	b.WriteString(" ALTER COLUMN ")
	b.WriteString(columnDefinition(g, c))
	return b.String()
}

func columnDefinition(g emit.Generator, c *relational.Column) string {
	var b strings.Builder
	b.WriteString(g.QuoteIdentifier(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)
	if !c.Null {
		b.WriteString(" NOT NULL")
	}
	for _, opt := range c.Options {
		b.WriteString(" ")
		b.WriteString(opt)
	}
	return b.String()
}

func commentOut(stmt string) string {
	if strings.HasPrefix(stmt, "-- ") {
		return stmt
	}
	return "-- " + stmt
}
