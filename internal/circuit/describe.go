package circuit

import (
	"fmt"
	"strings"
)

// Describe renders the steps as plain text, one line per step:
//
//	Step 1: H gate on qubit Q0
//	Step 2: CNOT gate (control: Q0, target: Q1)
func Describe(c *Circuit) string {
	lines := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		if s.HasControl() {
			lines[i] = fmt.Sprintf("Step %d: %s gate (control: Q%d, target: Q%d)", i+1, s.Gate, s.Control, s.Target)
		} else {
			lines[i] = fmt.Sprintf("Step %d: %s gate on qubit Q%d", i+1, s.Gate, s.Target)
		}
	}
	return strings.Join(lines, "\n")
}
