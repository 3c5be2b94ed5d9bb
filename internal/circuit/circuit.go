// Package circuit holds the caller-side circuit: an ordered list of gate steps
// over a fixed number of qubits, plus its QASM and plain-text renderings.
package circuit

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

// Step is one gate application. Control is quantum.NoControl unless Gate is CNOT.
type Step struct {
	Gate    quantum.GateName
	Target  int
	Control int
}

// NewStep returns a single-qubit gate step.
func NewStep(gate quantum.GateName, target int) Step {
	return Step{Gate: gate, Target: target, Control: quantum.NoControl}
}

// NewControlledStep returns a CNOT step.
func NewControlledStep(control, target int) Step {
	return Step{Gate: quantum.GateCNOT, Target: target, Control: control}
}

// HasControl reports whether the step carries a control qubit.
func (s Step) HasControl() bool {
	return s.Control != quantum.NoControl
}

// Check validates the step against an n-qubit register.
func (s Step) Check(numQubits int) error {
	return quantum.CheckGate(s.Gate, s.Target, s.Control, numQubits)
}

type stepJSON struct {
	Gate    quantum.GateName `json:"gate"`
	Target  int              `json:"target"`
	Control *int             `json:"control"`
}

// MarshalJSON encodes s as {"gate","target","control"} with a null control
// when the step has none.
func (s Step) MarshalJSON() ([]byte, error) {
	out := stepJSON{Gate: s.Gate, Target: s.Target}
	if s.HasControl() {
		out.Control = &s.Control
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the MarshalJSON form; gate names are case-insensitive.
func (s *Step) UnmarshalJSON(data []byte) error {
	var in stepJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	gate, err := quantum.ParseGateName(string(in.Gate))
	if err != nil {
		return err
	}
	*s = Step{Gate: gate, Target: in.Target, Control: quantum.NoControl}
	if in.Control != nil {
		s.Control = *in.Control
	}
	return nil
}

// Circuit is an ordered sequence of steps. Steps run strictly in slice order.
type Circuit struct {
	NumQubits int
	Steps     []Step
}

// New returns an empty circuit over numQubits qubits.
func New(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// BellState returns the two-qubit H + CNOT circuit that prepares (|00⟩+|11⟩)/√2.
func BellState() *Circuit {
	return &Circuit{
		NumQubits: 2,
		Steps: []Step{
			NewStep(quantum.GateH, 0),
			NewControlledStep(0, 1),
		},
	}
}

// Append adds a step at the end of the circuit.
func (c *Circuit) Append(s Step) {
	c.Steps = append(c.Steps, s)
}

// Set replaces the step at index i, or appends when i == len(Steps).
func (c *Circuit) Set(i int, s Step) error {
	switch {
	case i == len(c.Steps):
		c.Append(s)
	case i >= 0 && i < len(c.Steps):
		c.Steps[i] = s
	default:
		return fmt.Errorf("step %d out of range [0, %d]", i, len(c.Steps))
	}
	return nil
}

// Remove deletes the step at index i; later steps shift left.
func (c *Circuit) Remove(i int) {
	if i < 0 || i >= len(c.Steps) {
		return
	}
	c.Steps = slices.Delete(c.Steps, i, i+1)
}

// Clear removes every step.
func (c *Circuit) Clear() {
	c.Steps = nil
}

// SetNumQubits resizes the register and drops steps that touch removed qubits.
func (c *Circuit) SetNumQubits(n int) {
	c.NumQubits = n
	c.Steps = slices.DeleteFunc(c.Steps, func(s Step) bool {
		return s.Target >= n || (s.HasControl() && s.Control >= n)
	})
}

// Clone returns a deep copy of c.
func (c *Circuit) Clone() *Circuit {
	return &Circuit{NumQubits: c.NumQubits, Steps: slices.Clone(c.Steps)}
}

// Validate checks the qubit count and every step. Step numbers in errors are 1-based.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 || c.NumQubits > quantum.MaxQubits {
		return fmt.Errorf("%w: %d (want 1..%d)", quantum.ErrQubitCount, c.NumQubits, quantum.MaxQubits)
	}
	for i, s := range c.Steps {
		if err := s.Check(c.NumQubits); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Simulate runs every step on a fresh simulator and returns it for measurement.
func Simulate(c *Circuit, opts ...quantum.Option) (*quantum.Simulator, error) {
	sim, err := quantum.NewSimulator(c.NumQubits, opts...)
	if err != nil {
		return nil, err
	}
	for i, s := range c.Steps {
		if err := sim.ApplyGate(s.Gate, s.Target, s.Control); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sim, nil
}

// Run simulates c and returns the measured distribution, label → percentage.
func Run(c *Circuit, opts ...quantum.Option) (map[string]string, error) {
	sim, err := Simulate(c, opts...)
	if err != nil {
		return nil, err
	}
	return sim.Measure(), nil
}
