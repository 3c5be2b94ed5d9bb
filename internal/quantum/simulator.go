// Package quantum is a dense state-vector simulator for small circuits.
//
// Every gate application materializes the full 2^n×2^n operator, either by
// folding Kronecker products (single-qubit gates) or by bit arithmetic over
// basis indices (CNOT), and left-multiplies the state vector with it.
package quantum

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
)

const (
	// MaxQubits bounds the register so a dense operator stays at most 1024×1024.
	MaxQubits = 10

	// NoControl marks a gate application without a control qubit.
	NoControl = -1
)

// Option configures a Simulator.
type Option func(*Simulator)

// WithWorkers sets how many goroutines share operator construction and the
// matrix-vector product of a single gate. Zero or less means runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		s.workers = n
	}
}

// WithLogger routes gate-level debug logs to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// Simulator owns the state of an n-qubit register. It is not safe for
// concurrent use; gates must be applied in circuit order.
type Simulator struct {
	numQubits int
	state     *StateVector
	workers   int
	logger    *log.Logger
}

// NewSimulator returns a simulator in the all-zero basis state.
func NewSimulator(numQubits int, opts ...Option) (*Simulator, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrQubitCount, numQubits, MaxQubits)
	}
	s := &Simulator{
		numQubits: numQubits,
		state:     NewStateVector(numQubits),
		workers:   1,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NumQubits returns the register size.
func (s *Simulator) NumQubits() int { return s.numQubits }

// State returns a copy of the current state vector.
func (s *Simulator) State() *StateVector {
	return s.state.Clone()
}

// ApplyGate applies name to target, with control set to NoControl unless the gate
// is CNOT. A control passed to a single-qubit gate is validated and then ignored.
// On error the state vector is left untouched.
func (s *Simulator) ApplyGate(name GateName, target, control int) error {
	if err := CheckGate(name, target, control, s.numQubits); err != nil {
		return err
	}

	var op Matrix
	if name.IsControlled() {
		op = controlledNot(control, target, s.numQubits, s.workers)
	} else {
		g, _ := SingleQubitGate(name)
		op = expandGate(g, target, s.numQubits, s.workers)
	}
	s.state.Amplitudes = op.mulVec(s.state.Amplitudes, s.workers)

	s.logger.Debug("applied gate", "gate", name, "target", target, "control", control, "qubits", s.numQubits)
	return nil
}
