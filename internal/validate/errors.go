package validate

import "fmt"

// OptionError reports an invalid combination of generator options (§4.D
// last paragraph): schema-only without a standalone schema format,
// dynamic multi-database with a non-common default, changelog input
// without changelog output.
type OptionError struct {
	Option string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}
