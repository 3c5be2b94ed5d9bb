package quantum

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// probabilityEpsilon hides basis states whose probability is numerical noise.
const probabilityEpsilon = 1e-10

// Outcome is one basis state that survives the epsilon cutoff.
type Outcome struct {
	Index       int
	Label       string
	Probability float64
}

// Percent formats the probability as a percentage with two decimals, e.g. "50.00%".
func (o Outcome) Percent() string {
	return strconv.FormatFloat(o.Probability*100, 'f', 2, 64) + "%"
}

// Outcomes returns every basis state with probability above 1e-10, in
// ascending index order. The state is not modified.
func (s *Simulator) Outcomes() []Outcome {
	var out []Outcome
	for i := range s.state.Len() {
		p := s.state.Probability(i)
		if p <= probabilityEpsilon {
			continue
		}
		out = append(out, Outcome{Index: i, Label: BasisLabel(i, s.numQubits), Probability: p})
	}
	return out
}

// Measure maps each ket label to its probability as a percentage string.
// Repeated calls return identical maps until the next ApplyGate.
func (s *Simulator) Measure() map[string]string {
	outcomes := s.Outcomes()
	probs := make(map[string]string, len(outcomes))
	for _, o := range outcomes {
		probs[o.Label] = o.Percent()
	}
	return probs
}

// TotalProbability returns the sum of |amplitude|² over the whole register.
func (s *Simulator) TotalProbability() float64 {
	probs := make([]float64, s.state.Len())
	for i := range probs {
		probs[i] = s.state.Probability(i)
	}
	return floats.Sum(probs)
}

// BasisLabel renders basis index i of an n-qubit register as a ket. The n-bit
// binary form of i is written most-significant first and then reversed, so the
// label reads the index bits least-significant first: 2 of 2 qubits is "|01⟩".
func BasisLabel(i, numQubits int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for k := range numQubits {
		if i>>k&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteString("⟩")
	return sb.String()
}
