package grover

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InputError.
var ErrInvalidInput = errors.New("invalid input vector")

// InputError reports a vector the search cannot be built for. Index is the
// offending position, or -1 when the vector as a whole is at fault.
type InputError struct {
	Reason string
	Index  int
	Value  int
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s (element %d = %d)", ErrInvalidInput, e.Reason, e.Index, e.Value)
}

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }
