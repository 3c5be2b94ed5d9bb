package quantum

import "fmt"

// ExpandGate embeds the 2×2 gate g at position target of an n-qubit register,
// returning I⊗…⊗g⊗…⊗I with qubit 0 as the leftmost factor.
func ExpandGate(g Matrix, target, numQubits int) (Matrix, error) {
	if g.rows != 2 || g.cols != 2 {
		return Matrix{}, fmt.Errorf("%w: got %dx%d", ErrGateMismatch, g.rows, g.cols)
	}
	if target < 0 || target >= numQubits {
		return Matrix{}, &QubitIndexError{Role: "target", Index: target, NumQubits: numQubits}
	}
	return expandGate(g, target, numQubits, 1), nil
}

func expandGate(g Matrix, target, numQubits, workers int) Matrix {
	id := Identity(2)
	full := Identity(1)
	for i := range numQubits {
		factor := id
		if i == target {
			factor = g
		}
		full = kron(full, factor, workers)
	}
	return full
}

// ControlledNot builds the n-qubit CNOT as a permutation matrix: row i has its
// single 1 in column i with the target bit flipped when the control bit of i is set,
// and in column i otherwise.
func ControlledNot(control, target, numQubits int) (Matrix, error) {
	if err := CheckGate(GateCNOT, target, control, numQubits); err != nil {
		return Matrix{}, err
	}
	return controlledNot(control, target, numQubits, 1), nil
}

func controlledNot(control, target, numQubits, workers int) Matrix {
	size := 1 << numQubits
	cBit := 1 << (numQubits - 1 - control)
	tBit := 1 << (numQubits - 1 - target)
	m := NewMatrix(size, size)
	forEachRowBlock(size, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			j := i
			if i&cBit != 0 {
				j = i ^ tBit
			}
			m.Set(i, j, 1)
		}
	})
	return m
}

// CheckGate validates a gate application against an n-qubit register without
// building anything. control is NoControl when absent.
func CheckGate(name GateName, target, control, numQubits int) error {
	if !name.Valid() {
		return &InvalidGateError{Gate: string(name), Reason: "unsupported gate"}
	}
	if target < 0 || target >= numQubits {
		return &QubitIndexError{Role: "target", Index: target, NumQubits: numQubits}
	}
	if control != NoControl {
		if control < 0 || control >= numQubits {
			return &QubitIndexError{Role: "control", Index: control, NumQubits: numQubits}
		}
		if control == target {
			return &InvalidGateError{Gate: string(name), Reason: "control equals target"}
		}
	}
	if name.IsControlled() && control == NoControl {
		return &InvalidGateError{Gate: string(name), Reason: "control qubit required"}
	}
	return nil
}
