// Package emit implements §4.E's per-database emitter dispatch: each
// database registers a set of entries (Generator, TypeMapper) keyed by
// gencontext.Database, following the same RegisterDialect/GetDialect
// pattern the teacher uses for its core.Dialect registry.
//
// Grounded on the teacher's internal/dialect/dialect.go (Generator/Parser/
// Dialect interfaces, sync.RWMutex-guarded registry, RegisterDialect/
// GetDialect) and on original_source/odb/relational/{mssql,pgsql}/*.cxx
// for the specific per-database override behavior (deferrable-FK-as-
// comment on SQL Server, RETURNING on PostgreSQL).
package emit

import (
	"fmt"
	"sync"

	"pragmadb/internal/build"
	"pragmadb/internal/gencontext"
	"pragmadb/internal/relational"
)

// Generator produces the SQL text for one database's schema artifacts
// (§4.E: "create_foreign_key", "create_table", etc. as abstract emitter
// names dispatched per database).
type Generator interface {
	CreateTable(ctx *gencontext.Context, t *relational.Table) string
	DropTable(ctx *gencontext.Context, t *relational.Table) string
	AddForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string
	DropForeignKey(ctx *gencontext.Context, tableName string, fk *relational.ForeignKey) string
	CreateIndex(ctx *gencontext.Context, tableName string, idx *relational.Index) string
	InsertStatement(ctx *gencontext.Context, t *relational.Table) string
	SelectStatement(ctx *gencontext.Context, t *relational.Table) string
	UpdateStatement(ctx *gencontext.Context, t *relational.Table) string
	DeleteStatement(ctx *gencontext.Context, t *relational.Table) string
	StatementTypes(ctx *gencontext.Context, t *relational.Table) StatementTypes
	QuoteIdentifier(name string) string
}

// StatementTypes carries §4.E's "SQL statement typing": parallel arrays
// of OID type codes for one table's bound statement parameters. Persist
// lines up with InsertStatement's column list (every column but a
// single auto-increment id), Find and UpdateWhere line up with the
// WHERE predicate every find/update/delete statement filters on (the
// primary key, plus the version column on an optimistic table), and
// UpdateSet lines up with UpdateStatement's SET list (every column but
// id, readonly, and version). Only PostgreSQL has a concrete OID space
// to report through this; every other dialect inherits common.Base's
// zero-value implementation.
type StatementTypes struct {
	Persist     []string
	Find        []string
	UpdateSet   []string
	UpdateWhere []string
}

// Dialect bundles the Generator and the build.TypeMapper a database
// contributes, mirroring the teacher's Dialect (Name/Generator/Parser).
type Dialect interface {
	Name() gencontext.Database
	Generator() Generator
	TypeMapper() build.TypeMapper
}

var (
	registryMu sync.RWMutex
	registry   = map[gencontext.Database]func() Dialect{}
)

// RegisterDialect installs ctor under db, overwriting any previous
// registration — called from each dialect package's init().
func RegisterDialect(db gencontext.Database, ctor func() Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[db] = ctor
}

// GetDialect returns the registered Dialect for db.
func GetDialect(db gencontext.Database) (Dialect, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ctor, ok := registry[db]
	if !ok {
		return nil, fmt.Errorf("emit: no dialect registered for database %q", db)
	}
	return ctor(), nil
}
