// Package cxxtraits generates the C++ persistence-glue snippets that bind
// a member's in-memory image to its relational column (§4.E's "per-member
// image binding"). There is no C++ output path in the teacher, so the
// per-type dispatch and the statement-building style are grounded on
// original_source/odb/relational/pgsql/source.cxx's bind_member, adapted
// to this project's existing strings.Builder idiom (teacher:
// internal/dialect/mysql/format.go, internal/core/schema.go's
// BuildEnumTypeRaw) rather than a text/template.
package cxxtraits

import (
	"fmt"
	"strings"
)

// Category classifies a relational column type into the family of C++
// binding code it needs (§4.E's int/float/numeric/date/time/string/bit/
// varbit/uuid cases).
type Category int

const (
	CategoryInt Category = iota
	CategoryFloat
	CategoryNumeric
	CategoryDate
	CategoryTime
	CategoryString
	CategoryBit
	CategoryVarbit
	CategoryUUID
	CategoryBlob
)

// Classify maps a generated SQL column type string to its binding
// category. The switch is deliberately loose (prefix/substring matching)
// since every dialect spells its integer/text/timestamp types differently.
func Classify(sqlType string) Category {
	t := strings.ToUpper(sqlType)
	switch {
	case strings.Contains(t, "UUID"):
		return CategoryUUID
	case strings.Contains(t, "BIT") && !strings.Contains(t, "VARBINARY"):
		if strings.Contains(t, "VARBIT") {
			return CategoryVarbit
		}
		return CategoryBit
	case strings.Contains(t, "TIMESTAMP") || strings.Contains(t, "DATETIME"):
		return CategoryDate
	case t == "TIME" || strings.HasPrefix(t, "TIME("):
		return CategoryTime
	case strings.Contains(t, "NUMERIC") || strings.Contains(t, "DECIMAL") || strings.Contains(t, "NUMBER"):
		return CategoryNumeric
	case strings.Contains(t, "FLOAT") || strings.Contains(t, "REAL") || strings.Contains(t, "DOUBLE"):
		return CategoryFloat
	case strings.Contains(t, "INT") || strings.Contains(t, "SERIAL"):
		return CategoryInt
	case strings.Contains(t, "CHAR") || strings.Contains(t, "TEXT") || strings.Contains(t, "CLOB"):
		return CategoryString
	case strings.Contains(t, "BLOB") || strings.Contains(t, "BYTEA") || strings.Contains(t, "BINARY"):
		return CategoryBlob
	default:
		return CategoryBlob
	}
}

// Binding is the generated C++ fragment pair for one column: the
// statement that reads the column's bound image into the member, and the
// statement that binds the member's value for writing.
type Binding struct {
	Member   string
	Column   string
	Category Category
	LoadStmt string
	BindStmt string
}

// Bind produces the Binding for member bound to column, given the
// column's relational SQL type.
func Bind(member, column, sqlType string) Binding {
	cat := Classify(sqlType)
	var sb strings.Builder
	var lb strings.Builder

	switch cat {
	case CategoryInt, CategoryFloat, CategoryNumeric:
		fmt.Fprintf(&sb, "i.%s = sb.%s().value;", member, column)
		fmt.Fprintf(&lb, "sb.%s().value = o.%s;", column, member)
	case CategoryDate, CategoryTime:
		fmt.Fprintf(&sb, "i.%s = system_clock::from_time_t(sb.%s().value);", member, column)
		fmt.Fprintf(&lb, "sb.%s().value = system_clock::to_time_t(o.%s);", column, member)
	case CategoryString:
		fmt.Fprintf(&sb, "i.%s.assign(sb.%s().value, sb.%s().size);", member, column, column)
		fmt.Fprintf(&lb, "sb.%s().value = o.%s.c_str(); sb.%s().size = o.%s.size();", column, member, column, member)
	case CategoryBit, CategoryVarbit:
		fmt.Fprintf(&sb, "i.%s = sb.%s().value != 0;", member, column)
		fmt.Fprintf(&lb, "sb.%s().value = o.%s ? 1 : 0;", column, member)
	case CategoryUUID:
		fmt.Fprintf(&sb, "i.%s.assign(sb.%s().value, 16);", member, column)
		fmt.Fprintf(&lb, "sb.%s().value = o.%s.data();", column, member)
	default: // CategoryBlob
		fmt.Fprintf(&sb, "i.%s.assign(sb.%s().value, sb.%s().size);", member, column, column)
		fmt.Fprintf(&lb, "sb.%s().value = o.%s.data(); sb.%s().size = o.%s.size();", column, member, column, member)
	}

	return Binding{
		Member:   member,
		Column:   column,
		Category: cat,
		LoadStmt: sb.String(),
		BindStmt: lb.String(),
	}
}

// BindAll runs Bind over a parallel list of member/column/type triples,
// preserving order — this is the per-table entry point that
// internal/generator calls over a relational table's columns.
func BindAll(members, columns, sqlTypes []string) []Binding {
	out := make([]Binding, 0, len(members))
	for i := range members {
		out = append(out, Bind(members[i], columns[i], sqlTypes[i]))
	}
	return out
}
