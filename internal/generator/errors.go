package generator

import "fmt"

// IOError wraps a failure opening, writing, or removing an output
// stream, carrying the path so callers can report exactly which file
// failed (§4.G: "opens output streams").
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("generator: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
