package quantum

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQubitCount is returned by New when the qubit count is outside [1, MaxQubits].
	ErrInvalidQubitCount = errors.New("invalid qubit count")

	// ErrAllocationFailure is returned when the amplitude storage cannot be obtained.
	ErrAllocationFailure = errors.New("amplitude allocation failed")

	// ErrInvalidQubitIndex is returned when a qubit argument is out of range
	// or repeated within a multi-qubit gate.
	ErrInvalidQubitIndex = errors.New("invalid qubit index")

	// ErrRenormalizationUnderflow is returned by Measure when the probability of
	// the drawn outcome is too small to renormalize by.
	ErrRenormalizationUnderflow = errors.New("renormalization underflow")

	ErrInvalidBasisIndex = errors.New("invalid basis index")
	ErrInvalidAngle      = errors.New("invalid angle")
	ErrInvalidOutcome    = errors.New("outcome must be 0 or 1")
	ErrInvalidShots      = errors.New("shots must be positive")
	ErrUnknownGate       = errors.New("unknown gate")
	ErrGateArity         = errors.New("wrong number of qubits for gate")

	// ErrClosed is returned by every operation on a State after Close.
	ErrClosed = errors.New("state is closed")
)

// QubitError describes a rejected qubit argument.
//
// It unwraps to ErrInvalidQubitIndex.
type QubitError struct {
	Op        string
	Qubit     int
	NumQubits int
	Duplicate bool
}

func (e *QubitError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("%s: qubit %d used more than once", e.Op, e.Qubit)
	}
	return fmt.Sprintf("%s: qubit %d out of range [0,%d)", e.Op, e.Qubit, e.NumQubits)
}

func (e *QubitError) Unwrap() error { return ErrInvalidQubitIndex }

// UnderflowError reports the probability that was too small to renormalize by.
//
// It unwraps to ErrRenormalizationUnderflow.
type UnderflowError struct {
	Qubit       int
	Outcome     int
	Probability float64
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("measure qubit %d: outcome %d has probability %g", e.Qubit, e.Outcome, e.Probability)
}

func (e *UnderflowError) Unwrap() error { return ErrRenormalizationUnderflow }
