package circuit

import (
	"errors"
	"fmt"
)

// ErrConsistency is matched by every ConsistencyError.
var ErrConsistency = errors.New("circuit consistency violation")

// ConsistencyError reports a broken construction contract: mismatched
// register widths, a qubit out of range, overlapping controls and targets, or
// a composition of circuits with different qubit counts. It is a programming
// error, never a transient condition.
type ConsistencyError struct {
	Op     string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConsistency, e.Op, e.Detail)
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }

func consistencyf(op, format string, args ...any) error {
	return &ConsistencyError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// Mismatch returns the ConsistencyError for two widths that must agree.
func Mismatch(op, what string, want, got int) error {
	return consistencyf(op, "%s mismatch: expected %d, got %d", what, want, got)
}
