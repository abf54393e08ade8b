package quantum

import "fmt"

// MalformedCircuitError indicates a circuit that cannot be normalized:
// an unknown gate kind, a negative qubit index, or a negative position.
type MalformedCircuitError struct {
	Reason string
}

func (e *MalformedCircuitError) Error() string {
	return "malformed circuit: " + e.Reason
}

// ResourceLimitError indicates a circuit that exceeds the simulator's
// qubit or gate caps.
type ResourceLimitError struct {
	Resource string
	Actual   int
	Limit    int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("resource limit exceeded: %s %d exceeds limit %d", e.Resource, e.Actual, e.Limit)
}

// InvariantViolationError indicates internal numerical corruption, such
// as a state vector that lost normalization or a reduced density matrix
// that is no longer Hermitian. It always represents a bug, never bad input.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("internal invariant violated (%s): %s", e.Invariant, e.Detail)
}

func malformed(format string, args ...interface{}) error {
	return &MalformedCircuitError{Reason: fmt.Sprintf(format, args...)}
}
