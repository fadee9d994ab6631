// Migration-risk classification, repurposed from the teacher's
// internal/apply/analyzer.go (StatementAnalyzer). The teacher drives a
// live-migration preflight against a real MySQL connection; here the
// same AST-dispatch shape runs purely at generation time, over text this
// package just built, to flag a migration file's destructive statements
// before they are written to disk — no connection, no execution, ever.
package changelog

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// Risk is the classification of a single migration statement.
type Risk struct {
	Statement     string
	StatementType string
	Destructive   bool
	Reason        string
}

// RiskAnalyzer wraps a TiDB parser instance for repeated classification
// calls across a whole migration file.
type RiskAnalyzer struct {
	parser *parser.Parser
}

// NewRiskAnalyzer returns a ready-to-use analyzer.
func NewRiskAnalyzer() *RiskAnalyzer {
	return &RiskAnalyzer{parser: parser.New()}
}

// Classify parses sql and reports its destructiveness. A statement the
// parser cannot parse (non-MySQL dialect SQL, or a dialect-specific
// extension the MySQL grammar doesn't know) falls back to a keyword scan
// rather than erroring out, mirroring fallbackAnalysis in the teacher.
func (a *RiskAnalyzer) Classify(sql string) Risk {
	stmtNodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil || len(stmtNodes) == 0 {
		return a.fallbackClassify(sql)
	}
	return classifyNode(stmtNodes[0], sql)
}

// ClassifyAll runs Classify over every statement and returns only the
// destructive ones, in order — the set a changelog-dir report should
// surface to a reviewer before a migration file ships.
func (a *RiskAnalyzer) ClassifyAll(statements []string) []Risk {
	var risky []Risk
	for _, stmt := range statements {
		r := a.Classify(stmt)
		if r.Destructive {
			risky = append(risky, r)
		}
	}
	return risky
}

func classifyNode(node ast.StmtNode, originalSQL string) Risk {
	r := Risk{Statement: originalSQL}
	switch node.(type) {
	case *ast.DropTableStmt:
		r.StatementType = "DROP TABLE"
		r.Destructive = true
		r.Reason = "drops a table and all of its rows"
	case *ast.DropIndexStmt:
		r.StatementType = "DROP INDEX"
	case *ast.CreateTableStmt:
		r.StatementType = "CREATE TABLE"
	case *ast.CreateIndexStmt:
		r.StatementType = "CREATE INDEX"
	case *ast.AlterTableStmt:
		r.StatementType = "ALTER TABLE"
		classifyAlterTable(node.(*ast.AlterTableStmt), &r)
	default:
		r.StatementType = "OTHER"
	}
	return r
}

func classifyAlterTable(stmt *ast.AlterTableStmt, r *Risk) {
	for _, spec := range stmt.Specs {
		switch spec.Tp {
		case ast.AlterTableDropColumn:
			r.Destructive = true
			r.Reason = "drops a column and its data"
			return
		case ast.AlterTableDropPrimaryKey, ast.AlterTableDropForeignKey, ast.AlterTableDropIndex:
			r.Destructive = true
			r.Reason = "drops a constraint relied on for data integrity"
			return
		}
	}
}

// fallbackClassify mirrors the teacher's keyword-prefix fallback for SQL
// the parser rejects outright (a non-MySQL statement shape, most often,
// since this analyzer runs regardless of the target database).
func (a *RiskAnalyzer) fallbackClassify(sql string) Risk {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	r := Risk{Statement: sql, StatementType: "OTHER"}
	switch {
	case strings.HasPrefix(upper, "DROP TABLE"):
		r.StatementType = "DROP TABLE"
		r.Destructive = true
		r.Reason = "drops a table and all of its rows"
	case strings.Contains(upper, "DROP COLUMN"):
		r.StatementType = "ALTER TABLE"
		r.Destructive = true
		r.Reason = "drops a column and its data"
	case strings.HasPrefix(upper, "DROP SEQUENCE"):
		r.StatementType = "DROP SEQUENCE"
		r.Destructive = true
		r.Reason = "drops a sequence backing an auto-increment column"
	}
	return r
}
