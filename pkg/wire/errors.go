package wire

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is returned when an input fails a top-level
// structural requirement, such as message text with no array bracket.
var ErrMalformedInput = errors.New("wire: malformed input: expected array")

// NumericError reports a sampling-option value that could not be parsed
// as its declared numeric type. It is fatal to the whole options decode.
type NumericError struct {
	Field string // option key, e.g. "top_k"
	Text  string // offending text at the value position
}

// Error implements the error interface.
func (e *NumericError) Error() string {
	return fmt.Sprintf("wire: option %s: cannot parse %q as a number", e.Field, e.Text)
}
