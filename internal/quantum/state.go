package quantum

// Complex is a single amplitude or operator entry.
type Complex = complex128

// Add returns a+b. It has the shape of a fold step over amplitudes.
func Add(a, b Complex) Complex { return a + b }

// Mul returns a·b.
func Mul(a, b Complex) Complex { return a * b }

// StateVector holds the 2^n amplitudes of an n-qubit register.
// Index bits are read most-significant first: qubit 0 is the top bit.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns the all-zero basis state |0…0⟩.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Len returns the number of amplitudes (2^n).
func (s *StateVector) Len() int {
	return len(s.Amplitudes)
}

// At returns the amplitude of basis state i.
func (s *StateVector) At(i int) Complex {
	return s.Amplitudes[i]
}

// Set overwrites the amplitude of basis state i.
func (s *StateVector) Set(i int, c Complex) {
	s.Amplitudes[i] = c
}

// Probability returns |amplitude|² for basis state i.
func (s *StateVector) Probability(i int) float64 {
	a := s.Amplitudes[i]
	return real(a)*real(a) + imag(a)*imag(a)
}

// Clone returns an independent copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}
