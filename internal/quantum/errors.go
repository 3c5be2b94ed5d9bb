package quantum

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGate  = errors.New("invalid gate")
	ErrQubitIndex   = errors.New("qubit index out of range")
	ErrQubitCount   = errors.New("unsupported qubit count")
	ErrGateMismatch = errors.New("gate is not a 2x2 operator")
)

// InvalidGateError reports an unknown gate name or an ill-formed controlled gate.
type InvalidGateError struct {
	Gate   string
	Reason string
}

func (e *InvalidGateError) Error() string {
	return fmt.Sprintf("invalid gate %q: %s", e.Gate, e.Reason)
}

func (e *InvalidGateError) Unwrap() error { return ErrInvalidGate }

// QubitIndexError reports a target or control outside [0, NumQubits).
type QubitIndexError struct {
	Role      string
	Index     int
	NumQubits int
}

func (e *QubitIndexError) Error() string {
	return fmt.Sprintf("%s qubit %d out of range [0, %d)", e.Role, e.Index, e.NumQubits)
}

func (e *QubitIndexError) Unwrap() error { return ErrQubitIndex }
