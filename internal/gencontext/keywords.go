package gencontext

// cxxKeywords is the complete, fixed set of reserved C++98 keywords plus
// NULL (§6: "not configurable"), grounded verbatim on
// original_source/odb/context.cxx's keyword table.
var cxxKeywords = [...]string{
	"NULL",
	"and", "asm", "auto",
	"bitand", "bitor", "bool", "break",
	"case", "catch", "char", "class", "compl", "const", "const_cast", "continue",
	"default", "delete", "do", "double", "dynamic_cast",
	"else", "and_eq", "enum", "explicit", "export", "extern",
	"false", "float", "for", "friend",
	"goto",
	"if", "inline", "int",
	"long",
	"mutable",
	"namespace", "new", "not", "not_eq",
	"operator", "or", "or_eq",
	"private", "protected", "public",
	"register", "reinterpret_cast", "return",
	"short", "signed", "sizeof", "static", "static_cast", "struct", "switch",
	"template", "this", "throw", "true", "try", "typedef", "typeid", "typename",
	"union", "unsigned", "using",
	"virtual", "void", "volatile",
	"wchar_t", "while",
	"xor", "xor_eq",
}

func cxxKeywordSet() map[string]struct{} {
	m := make(map[string]struct{}, len(cxxKeywords))
	for _, k := range cxxKeywords {
		m[k] = struct{}{}
	}
	return m
}
