package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*;?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*;?$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+\w+\[(\d+)\]\s*;?$`)
)

// ToQASM generates QASM 2.0 output from the circuit, ending with a measurement
// of every qubit.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for _, s := range c.Steps {
		if s.Gate == quantum.GateCNOT {
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", s.Control, s.Target)
			continue
		}
		fmt.Fprintf(&sb, "%s q[%d];\n", strings.ToLower(string(s.Gate)), s.Target)
	}

	if len(c.Steps) > 0 {
		sb.WriteString("\n")
	}
	for q := range numQubits {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
	}
	return sb.String()
}

// ParseQASM reads the h/x/y/z/cx subset of QASM 2.0. Headers, comments, creg,
// measure and barrier lines are skipped. Without a qreg declaration the qubit
// count is inferred from the highest index used.
func ParseQASM(qasm string) (*Circuit, error) {
	c := &Circuit{}
	declared := false
	highest := -1

	for n, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		lineNo := n + 1
		switch {
		case line == "",
			strings.HasPrefix(line, "//"),
			strings.HasPrefix(line, "OPENQASM"),
			strings.HasPrefix(line, "include"),
			strings.HasPrefix(line, "creg"),
			strings.HasPrefix(line, "measure"),
			strings.HasPrefix(line, "barrier"):
			continue
		case strings.HasPrefix(line, "qreg"):
			matches := qregRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("line %d: malformed qreg %q", lineNo, line)
			}
			size, err := strconv.Atoi(matches[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			c.NumQubits = size
			declared = true
			continue
		}

		// Two-qubit gate: "cx q[0], q[1];"
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gate, err := quantum.ParseGateName(matches[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !gate.IsControlled() {
				return nil, fmt.Errorf("line %d: %s takes one qubit", lineNo, matches[1])
			}
			control, _ := strconv.Atoi(matches[2])
			target, _ := strconv.Atoi(matches[3])
			c.Append(NewControlledStep(control, target))
			highest = max(highest, control, target)
			continue
		}

		// Single-qubit gate: "h q[0];"
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			gate, err := quantum.ParseGateName(matches[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if gate.IsControlled() {
				return nil, fmt.Errorf("line %d: %s needs a control and a target", lineNo, matches[1])
			}
			target, _ := strconv.Atoi(matches[2])
			c.Append(NewStep(gate, target))
			highest = max(highest, target)
			continue
		}

		return nil, fmt.Errorf("line %d: cannot parse %q", lineNo, line)
	}

	if !declared {
		c.NumQubits = max(highest+1, 1)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
