package gencontext

import "strings"

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnumUnderscore(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}

// Escape replaces characters outside [A-Za-z0-9_] with '_', prepends
// "cxx" (or "cxx_" if the first character is a digit) when the first
// character is invalid, and appends '_' to reserved C++ keywords (§4.B,
// §8 invariant 1). Ported behavior-for-behavior from
// original_source/odb/context.cxx's escape().
func (c *Context) Escape(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	n := len(name)
	for i := 0; i < n; i++ {
		ch := name[i]
		if i == 0 && !(isAlpha(ch) || ch == '_') {
			if isDigit(ch) {
				b.WriteString("cxx_")
			} else {
				b.WriteString("cxx")
			}
		}
		if isAlnumUnderscore(ch) {
			b.WriteByte(ch)
		} else {
			b.WriteByte('_')
		}
	}

	r := b.String()
	if r == "" {
		r = "cxx"
	}
	if c.IsKeyword(r) {
		r += "_"
	}
	return r
}

// publicNameImpl strips the "m_" prefix (if present) and any surrounding
// underscores from a raw member name. Per the resolved Open Question
// (§9), if stripping would leave an empty span the original name is
// returned unchanged rather than producing "".
func publicNameImpl(s string) string {
	n := len(s)
	if n == 0 {
		return s
	}
	b, e := 0, n-1
	if n >= 2 && s[0] == 'm' && s[1] == '_' {
		b += 2
	}
	for b <= e && s[b] == '_' {
		b++
	}
	for e >= b && s[e] == '_' {
		e--
	}
	if b > e {
		return s
	}
	return s[b : e+1]
}

// PublicNameDB returns the member's public name without escaping
// (suitable for deriving a SQL column name, which has its own
// identifier-quoting rules downstream).
func (c *Context) PublicNameDB(rawMemberName string) string {
	return publicNameImpl(rawMemberName)
}

// PublicName returns the member's public name, escaped for use as a C++
// identifier when escape is true.
func (c *Context) PublicName(rawMemberName string, escape bool) string {
	p := publicNameImpl(rawMemberName)
	if escape {
		return c.Escape(p)
	}
	return p
}
