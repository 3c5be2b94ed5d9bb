package quantum

import (
	"math"
	"strings"
)

// GateName identifies a gate the simulator can apply.
type GateName string

const (
	GateH    GateName = "H"
	GateX    GateName = "X"
	GateY    GateName = "Y"
	GateZ    GateName = "Z"
	GateCNOT GateName = "CNOT"
)

// Gates lists every supported gate in toolbar order.
var Gates = []GateName{GateH, GateX, GateY, GateZ, GateCNOT}

// singleQubitGates is never mutated after init; lookups hand out copies.
var singleQubitGates = map[GateName]Matrix{
	GateH: matrixFromRows([][]Complex{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}),
	GateX: matrixFromRows([][]Complex{
		{0, 1},
		{1, 0},
	}),
	GateY: matrixFromRows([][]Complex{
		{0, -1i},
		{1i, 0},
	}),
	GateZ: matrixFromRows([][]Complex{
		{1, 0},
		{0, -1},
	}),
}

// SingleQubitGate returns a copy of the 2×2 unitary for name.
// It reports false for CNOT and for names outside the library.
func SingleQubitGate(name GateName) (Matrix, bool) {
	m, ok := singleQubitGates[name]
	if !ok {
		return Matrix{}, false
	}
	return m.Clone(), true
}

// IsControlled reports whether the gate needs a control qubit.
func (g GateName) IsControlled() bool {
	return g == GateCNOT
}

// Valid reports whether the simulator knows the gate.
func (g GateName) Valid() bool {
	_, ok := singleQubitGates[g]
	return ok || g == GateCNOT
}

// ParseGateName maps user or QASM spelling onto a gate name.
// Matching is case-insensitive and "CX" is accepted for CNOT.
func ParseGateName(s string) (GateName, error) {
	name := GateName(strings.ToUpper(strings.TrimSpace(s)))
	if name == "CX" {
		name = GateCNOT
	}
	if !name.Valid() {
		return "", &InvalidGateError{Gate: s, Reason: "unsupported gate"}
	}
	return name, nil
}
