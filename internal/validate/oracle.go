package validate

import "strings"

// ComparabilityOracle answers whether a C++ type supports operator< well
// enough to be used as a session container key (§4.D pass 1: "verify
// sessions requiring operator< on id types (via type-trait instantiation
// against the host language — if unavailable, the core must accept an
// injected comparability oracle)").
//
// pragmadb never actually compiles C++, so there is no type-trait
// instantiation to fall back on: the injected oracle is not a fallback
// here, it is the only implementation. Comparable reports whether typ is
// known to support operator<, and known reports whether the oracle had an
// opinion at all (an unknown type is accepted with a recorded note rather
// than rejected outright — see DefaultOracle).
type ComparabilityOracle interface {
	Comparable(typ string) (comparable bool, known bool)
}

// builtinComparable lists the C++ built-in and standard-library types
// that are unambiguously operator<-comparable, the way the real odb
// compiler's type-trait instantiation would report for fundamental types.
var builtinComparable = map[string]bool{
	"bool": true, "char": true, "signed char": true, "unsigned char": true,
	"short": true, "unsigned short": true, "int": true, "unsigned int": true,
	"long": true, "unsigned long": true, "long long": true, "unsigned long long": true,
	"float": true, "double": true, "long double": true,
	"std::string": true, "std::wstring": true,
	"std::chrono::system_clock::time_point": true,
}

// DefaultOracle is the built-in ComparabilityOracle: it knows the C++
// fundamental types and std::string/wstring, and additionally consults
// Extra, a caller-supplied table of project-specific comparable types.
// The input unit's `[comparable]` entries are not passed in: the CLI
// builds the oracle with no extra types.
type DefaultOracle struct {
	// Extra names additional types known (by the input unit's author) to
	// be comparable, beyond the built-in set.
	Extra map[string]bool
}

// NewDefaultOracle builds a DefaultOracle seeded with extra, a
// case-sensitive set of additional comparable type names.
func NewDefaultOracle(extra []string) *DefaultOracle {
	m := make(map[string]bool, len(extra))
	for _, t := range extra {
		m[t] = true
	}
	return &DefaultOracle{Extra: m}
}

// Comparable implements ComparabilityOracle. Unknown types are resolved
// as (comparable=true, known=false) — the validator reading `known=false`
// records a note rather than a structural error, the decision recorded in
// DESIGN.md: an unrecognized type is optimistically accepted, since
// rejecting it outright would make the oracle a hard dependency for every
// non-trivial id type.
func (o *DefaultOracle) Comparable(typ string) (bool, bool) {
	typ = strings.TrimSpace(typ)
	if builtinComparable[typ] {
		return true, true
	}
	if o.Extra != nil && o.Extra[typ] {
		return true, true
	}
	return true, false
}
