package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Gudvin82/quantum-simulator/internal/circuit"
	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

type fakeExplainer struct {
	text  string
	err   error
	calls int
	steps int
}

func (f *fakeExplainer) Explain(_ context.Context, c *circuit.Circuit) (string, error) {
	f.calls++
	f.steps = len(c.Steps)
	return f.text, f.err
}

func newTestModel(numQubits int, ex explainer) Model {
	return initialModel(numQubits, ex, log.New(io.Discard), "circuit.qasm")
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

// runCmd executes cmd and flattens any batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestAddHadamardAndRun(t *testing.T) {
	m := newTestModel(1, nil)
	m = press(t, m, "a", "enter")

	if len(m.circuit.Steps) != 1 || m.circuit.Steps[0].Gate != quantum.GateH {
		t.Fatalf("expected a single H step, got %+v", m.circuit.Steps)
	}
	if m.cursorStep != 1 {
		t.Fatalf("cursor should advance past the new step, got %d", m.cursorStep)
	}

	m = press(t, m, "r")
	want := map[string]string{"|0⟩": "50.00%", "|1⟩": "50.00%"}
	if len(m.percents) != len(want) {
		t.Fatalf("expected %v, got %v", want, m.percents)
	}
	for label, p := range want {
		if m.percents[label] != p {
			t.Errorf("%s: expected %s, got %s", label, p, m.percents[label])
		}
	}
}

func TestCNOTTargetSelection(t *testing.T) {
	m := newTestModel(2, nil)
	m = press(t, m, "a", "enter") // H on Q0

	m = press(t, m, "a", "down", "down", "down", "down", "enter")
	if m.focus != focusSelectTarget {
		t.Fatalf("expected target selection, got focus %d", m.focus)
	}
	if m.targetQubit != 1 {
		t.Fatalf("expected default target Q1, got Q%d", m.targetQubit)
	}

	m = press(t, m, "enter", "r")
	steps := m.circuit.Steps
	if len(steps) != 2 || steps[1] != circuit.NewControlledStep(0, 1) {
		t.Fatalf("expected H then CNOT(0→1), got %+v", steps)
	}
	if m.percents["|00⟩"] != "50.00%" || m.percents["|11⟩"] != "50.00%" || len(m.percents) != 2 {
		t.Fatalf("expected Bell distribution, got %v", m.percents)
	}
}

func TestCNOTNeedsTwoQubits(t *testing.T) {
	m := newTestModel(1, nil)
	m = press(t, m, "a", "down", "down", "down", "down", "enter")
	if m.focus != focusCircuit {
		t.Fatalf("expected to stay on the circuit, got focus %d", m.focus)
	}
	if !m.statusErr || len(m.circuit.Steps) != 0 {
		t.Fatalf("expected an error and no steps, got %q %+v", m.statusMsg, m.circuit.Steps)
	}
}

func TestBellPreset(t *testing.T) {
	m := newTestModel(5, nil)
	m = press(t, m, "b", "r")
	if m.circuit.NumQubits != 2 || len(m.circuit.Steps) != 2 {
		t.Fatalf("expected the 2-qubit Bell circuit, got %+v", m.circuit)
	}
	if len(m.outcomes) != 2 || m.outcomes[0].Label != "|00⟩" || m.outcomes[1].Label != "|11⟩" {
		t.Fatalf("unexpected outcomes %+v", m.outcomes)
	}
}

func TestQubitCountBounds(t *testing.T) {
	m := newTestModel(1, nil)
	m = press(t, m, "-")
	if m.circuit.NumQubits != 1 {
		t.Fatalf("qubit count must not drop below 1, got %d", m.circuit.NumQubits)
	}
	for range 20 {
		m = press(t, m, "+")
	}
	if m.circuit.NumQubits != quantum.MaxQubits {
		t.Fatalf("qubit count must stop at %d, got %d", quantum.MaxQubits, m.circuit.NumQubits)
	}
}

func TestShrinkingDropsSteps(t *testing.T) {
	m := newTestModel(3, nil)
	m = press(t, m, "down", "down", "a", "enter") // H on Q2
	m = press(t, m, "r", "-")
	if m.circuit.NumQubits != 2 || len(m.circuit.Steps) != 0 {
		t.Fatalf("expected the Q2 step to be dropped, got %+v", m.circuit)
	}
	if m.cursorQubit != 1 || m.cursorStep != 0 {
		t.Fatalf("cursor not clamped: qubit %d step %d", m.cursorQubit, m.cursorStep)
	}
	if m.percents != nil {
		t.Fatal("results should be cleared when the circuit changes")
	}
}

func TestDeleteAndClear(t *testing.T) {
	m := newTestModel(2, nil)
	m = press(t, m, "a", "enter", "a", "down", "enter") // H, X
	m = press(t, m, "left", "left", "backspace")
	if len(m.circuit.Steps) != 1 || m.circuit.Steps[0].Gate != quantum.GateX {
		t.Fatalf("expected only X to remain, got %+v", m.circuit.Steps)
	}

	m = press(t, m, "ctrl+r")
	if len(m.circuit.Steps) != 0 || m.cursorStep != 0 {
		t.Fatalf("clear should empty the circuit, got %+v", m.circuit.Steps)
	}
}

func TestReplaceStepAtCursor(t *testing.T) {
	m := newTestModel(1, nil)
	m = press(t, m, "a", "enter", "left", "a", "down", "enter")
	if len(m.circuit.Steps) != 1 || m.circuit.Steps[0].Gate != quantum.GateX {
		t.Fatalf("expected X to replace H, got %+v", m.circuit.Steps)
	}
}

func TestRightStopsAtAppendSlot(t *testing.T) {
	m := newTestModel(2, nil)
	m = press(t, m, "right", "right")
	if m.cursorStep != 0 {
		t.Fatalf("empty circuit has only the append slot, got step %d", m.cursorStep)
	}
}

func TestQASMEditing(t *testing.T) {
	m := newTestModel(2, nil)
	m = press(t, m, "tab")
	if m.focus != focusQASM {
		t.Fatalf("expected QASM focus, got %d", m.focus)
	}

	m.qasmEditor.SetValue("qreg q[3];\nx q[2];\ncx q[2], q[0];")
	m.parseQASMInput()
	want := []circuit.Step{
		circuit.NewStep(quantum.GateX, 2),
		circuit.NewControlledStep(2, 0),
	}
	if m.circuit.NumQubits != 3 || len(m.circuit.Steps) != len(want) {
		t.Fatalf("unexpected circuit %+v", m.circuit)
	}
	for i, s := range want {
		if m.circuit.Steps[i] != s {
			t.Errorf("step %d: expected %+v, got %+v", i, s, m.circuit.Steps[i])
		}
	}

	m.qasmEditor.SetValue("qreg q[3];\nfoo q[0];")
	m.parseQASMInput()
	if !m.statusErr {
		t.Fatal("expected a parse error status")
	}
	if len(m.circuit.Steps) != 2 {
		t.Fatalf("invalid text must not change the circuit, got %+v", m.circuit.Steps)
	}

	m = press(t, m, "esc")
	if m.focus != focusCircuit {
		t.Fatalf("esc should return to the circuit, got %d", m.focus)
	}
}

func TestSave(t *testing.T) {
	m := newTestModel(2, nil)
	m.savePath = filepath.Join(t.TempDir(), "bell.qasm")
	m = press(t, m, "b", "ctrl+s")
	if m.statusErr {
		t.Fatalf("save failed: %s", m.statusMsg)
	}
	data, err := os.ReadFile(m.savePath)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if !strings.Contains(string(data), "cx q[0], q[1];") {
		t.Fatalf("saved QASM missing cx line:\n%s", data)
	}
}

func TestExplain(t *testing.T) {
	fake := &fakeExplainer{text: "H makes a superposition."}
	m := newTestModel(2, fake)
	m = press(t, m, "b")

	next, cmd := m.Update(keyMsg("?"))
	m = next.(Model)
	if !m.explaining {
		t.Fatal("expected explaining to be set")
	}
	for _, msg := range runCmd(cmd) {
		next, _ = m.Update(msg)
		m = next.(Model)
	}

	if fake.calls != 1 || fake.steps != 2 {
		t.Fatalf("expected one call with 2 steps, got %d calls, %d steps", fake.calls, fake.steps)
	}
	if m.explaining || m.explanation != fake.text {
		t.Fatalf("expected explanation %q, got %q (explaining=%v)", fake.text, m.explanation, m.explaining)
	}
}

func TestExplainError(t *testing.T) {
	fake := &fakeExplainer{err: errors.New("rate limited")}
	m := newTestModel(1, fake)
	m = press(t, m, "a", "enter")

	next, cmd := m.Update(keyMsg("?"))
	m = next.(Model)
	for _, msg := range runCmd(cmd) {
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	if m.explainErr == nil || m.explanation != "" {
		t.Fatalf("expected an explain error, got err=%v text=%q", m.explainErr, m.explanation)
	}
}

func TestExplainRequiresClientAndSteps(t *testing.T) {
	m := newTestModel(2, nil)
	m = press(t, m, "b", "?")
	if !m.statusErr || m.explaining {
		t.Fatalf("expected an error without a client, got %q", m.statusMsg)
	}

	fake := &fakeExplainer{}
	m = newTestModel(2, fake)
	_, cmd := m.Update(keyMsg("?"))
	if cmd != nil || fake.calls != 0 {
		t.Fatal("empty circuit should not be sent for explanation")
	}
}

func TestViewRendersPanels(t *testing.T) {
	m := newTestModel(2, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m = next.(Model)
	m = press(t, m, "b", "r")

	view := m.View()
	for _, want := range []string{"Quantum Circuit", "QASM Editor", "Measurement", "Tutor", "Q0", "Q1", "●", "⊕", "|00⟩", "50.00%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(t, m, "a")
	if !strings.Contains(m.View(), "Add Gate") {
		t.Error("menu overlay not rendered")
	}
}

func TestCellAt(t *testing.T) {
	c := circuit.New(4)
	c.Append(circuit.NewControlledStep(3, 0))
	c.Append(circuit.NewStep(quantum.GateZ, 2))

	ctrl := cellAt(c, 0, 3)
	if !ctrl.isControl || !ctrl.vertAbove || ctrl.vertBelow {
		t.Errorf("control cell: %+v", ctrl)
	}
	tgt := cellAt(c, 0, 0)
	if !tgt.isTarget || tgt.vertAbove || !tgt.vertBelow {
		t.Errorf("target cell: %+v", tgt)
	}
	for _, q := range []int{1, 2} {
		if mid := cellAt(c, 0, q); !mid.passThrough || !mid.vertAbove || !mid.vertBelow {
			t.Errorf("qubit %d should be a pass-through: %+v", q, mid)
		}
	}
	if z := cellAt(c, 1, 2); z.step == nil || z.step.Gate != quantum.GateZ {
		t.Errorf("expected Z at step 2 qubit 2: %+v", z)
	}
	if empty := cellAt(c, 1, 0); empty.step != nil || empty.passThrough {
		t.Errorf("expected empty wire: %+v", empty)
	}
	if past := cellAt(c, 5, 0); past.step != nil {
		t.Errorf("columns past the end should be empty: %+v", past)
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qsim.log")
	logger, closeLog, err := newLogger(path, "debug")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Debug("hello", "qubits", 2)
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "qubits=2") {
		t.Fatalf("unexpected log output: %s", data)
	}

	if _, _, err := newLogger(path, "loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestResultsOverflowLineStandsAlone(t *testing.T) {
	m := newTestModel(4, nil)
	for q := range 4 {
		m.cursorQubit = q
		m = press(t, m, "a", "enter")
	}
	m = press(t, m, "r")
	if len(m.outcomes) != 16 {
		t.Fatalf("expected 16 outcomes, got %d", len(m.outcomes))
	}

	panel := m.renderResultsPanel(60, bottomH)
	if !strings.Contains(panel, "more") || !strings.Contains(panel, "total 100.00%") {
		t.Fatalf("expected an overflow line and a total line:\n%s", panel)
	}
	for _, line := range strings.Split(panel, "\n") {
		if strings.Contains(line, "more") && strings.Contains(line, "total") {
			t.Fatalf("overflow and total share a line: %q", line)
		}
	}
}

func TestCircuitChangeClearsExplanation(t *testing.T) {
	fake := &fakeExplainer{text: "Entangles both qubits."}
	m := newTestModel(2, fake)
	m = press(t, m, "b")

	next, cmd := m.Update(keyMsg("?"))
	m = next.(Model)
	for _, msg := range runCmd(cmd) {
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	if m.explanation != fake.text {
		t.Fatalf("expected explanation %q, got %q", fake.text, m.explanation)
	}

	for _, keys := range [][]string{{"a", "enter"}, {"b"}, {"+"}, {"ctrl+r"}} {
		m.explanation = fake.text
		m.explainErr = errors.New("old")
		m = press(t, m, keys...)
		if m.explanation != "" || m.explainErr != nil {
			t.Errorf("keys %v: explanation not cleared (%q, %v)", keys, m.explanation, m.explainErr)
		}
	}
}

func TestExplanationForOlderCircuitIsDropped(t *testing.T) {
	fake := &fakeExplainer{text: "About the Bell circuit."}
	m := newTestModel(2, fake)
	m = press(t, m, "b")

	next, cmd := m.Update(keyMsg("?"))
	m = next.(Model)
	msgs := runCmd(cmd)

	m = press(t, m, "ctrl+r")
	if m.explaining {
		t.Fatal("clearing the circuit should end the pending explanation")
	}
	for _, msg := range msgs {
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	if m.explanation != "" || m.explaining {
		t.Fatalf("reply for the old circuit was applied: %q (explaining=%v)", m.explanation, m.explaining)
	}
}
