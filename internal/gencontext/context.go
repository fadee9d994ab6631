package gencontext

import (
	"io"

	"pragmadb/internal/semantics"
)

// Context is the process-wide generation context of §5: "created when
// generator begins; destroyed at end", carrying options, the semantic
// unit, feature flags, the keyword set, and the output stream stack.
// Sub-components (emitters) receive it as an explicit constructor
// argument rather than reaching for a package-level global (§9, "Strategy:
// pass an explicit context handle to each emitter constructor... the
// only exception is the output stream stack for diverge/restore, which
// is a property of the context").
type Context struct {
	Options Options
	Unit    *semantics.Unit

	keywords map[string]struct{}

	streams []io.Writer // stack; streams[len-1] is current
}

// New builds a Context for one generator invocation over unit.
func New(opts Options, unit *semantics.Unit) *Context {
	return &Context{
		Options:  opts,
		Unit:     unit,
		keywords: cxxKeywordSet(),
	}
}

// Current returns the active output stream, or io.Discard if none has
// been pushed yet.
func (c *Context) Current() io.Writer {
	if len(c.streams) == 0 {
		return io.Discard
	}
	return c.streams[len(c.streams)-1]
}

// Diverge pushes w as the current output stream and returns a restore
// function that pops it. Every call site must `defer restore()` so "all
// paths out of a generation block must restore" (§5) holds mechanically
// even when the block returns early on error.
func (c *Context) Diverge(w io.Writer) (restore func()) {
	c.streams = append(c.streams, w)
	depth := len(c.streams)
	return func() {
		if len(c.streams) == depth {
			c.streams = c.streams[:depth-1]
		}
	}
}

// IsKeyword reports whether s is a reserved C++98 keyword (or NULL),
// per §6's fixed, non-configurable keyword set.
func (c *Context) IsKeyword(s string) bool {
	_, ok := c.keywords[s]
	return ok
}
