package changelog

import "testing"

func TestRiskAnalyzerFlagsDropTable(t *testing.T) {
	a := NewRiskAnalyzer()
	r := a.Classify("DROP TABLE `owner`")
	if !r.Destructive || r.StatementType != "DROP TABLE" {
		t.Fatalf("expected destructive DROP TABLE, got %+v", r)
	}
}

func TestRiskAnalyzerFlagsDropColumn(t *testing.T) {
	a := NewRiskAnalyzer()
	r := a.Classify("ALTER TABLE `owner` DROP COLUMN `b`")
	if !r.Destructive {
		t.Fatalf("expected destructive ALTER TABLE DROP COLUMN, got %+v", r)
	}
}

func TestRiskAnalyzerIgnoresCreateTable(t *testing.T) {
	a := NewRiskAnalyzer()
	r := a.Classify("CREATE TABLE `owner` (`id` BIGINT NOT NULL)")
	if r.Destructive {
		t.Fatalf("CREATE TABLE should not be flagged destructive, got %+v", r)
	}
}

func TestClassifyAllReturnsOnlyDestructive(t *testing.T) {
	a := NewRiskAnalyzer()
	risky := a.ClassifyAll([]string{
		"CREATE TABLE `owner` (`id` BIGINT NOT NULL)",
		"DROP TABLE `pet`",
	})
	if len(risky) != 1 || risky[0].StatementType != "DROP TABLE" {
		t.Fatalf("expected exactly one destructive statement, got %+v", risky)
	}
}
