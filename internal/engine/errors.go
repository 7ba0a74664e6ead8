package engine

import (
	"fmt"
	"strings"
)

// NotFoundError reports a lookup of an outline number that does not exist.
type NotFoundError struct {
	Outline string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s: not found", e.Outline)
}

// InvariantViolationError reports an edit that would break a modeled
// invariant. The edit is rejected with no mutation.
type InvariantViolationError struct {
	Outline string
	Reason  string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("task %s: %s", e.Outline, e.Reason)
}

// StructuralFailureError reports that date propagation exhausted its sweep
// bound with tasks still unresolved, which means a dependency cycle escaped
// detection.
type StructuralFailureError struct {
	Unresolved []string
}

func (e *StructuralFailureError) Error() string {
	return fmt.Sprintf("date propagation could not resolve %d task(s): %s",
		len(e.Unresolved), strings.Join(e.Unresolved, ", "))
}
