package agg

import "fmt"

// InvariantViolationError signals a bug in a grouping step rather than bad input data.
type InvariantViolationError struct {
	Op     string
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Detail)
}
