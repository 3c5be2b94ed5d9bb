package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Gudvin82/quantum-simulator/internal/circuit"
	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
)

// Panel heights that do not depend on the terminal size.
const (
	controlsH = 4
	bottomH   = 10
)

// explainer turns a circuit into a plain-language explanation.
type explainer interface {
	Explain(ctx context.Context, c *circuit.Circuit) (string, error)
}

// explanationMsg delivers an explain result back to Update.
// gen is the circuit generation the request was made for.
type explanationMsg struct {
	gen  int
	text string
	err  error
}

// Model represents the TUI application state.
type Model struct {
	circuit     *circuit.Circuit
	cursorQubit int
	cursorStep  int // in [0, len(circuit.Steps)]; the last slot appends
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	statusMsg   string
	statusErr   bool
	savePath    string

	// Menu state
	menuItem int

	// Target-selection state (CNOT)
	pendingGate quantum.GateName
	targetQubit int

	// Last run, cleared whenever the circuit changes
	outcomes []quantum.Outcome
	percents map[string]string
	total    float64
	simOpts  []quantum.Option

	// Tutor state; circuitGen bumps on every circuit change so replies for an
	// older circuit are dropped
	circuitGen  int
	explainer   explainer
	explaining  bool
	explanation string
	explainErr  error
	spinner     spinner.Model

	logger *log.Logger
}

func initialModel(numQubits int, ex explainer, logger *log.Logger, savePath string, simOpts ...quantum.Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	m := Model{
		circuit:    circuit.New(numQubits),
		qasmEditor: ta,
		focus:      focusCircuit,
		savePath:   savePath,
		simOpts:    simOpts,
		explainer:  ex,
		spinner:    sp,
		logger:     logger,
	}

	m.syncFromCircuit()
	return m
}

// syncFromCircuit refreshes the QASM editor and drops stale results.
func (m *Model) syncFromCircuit() {
	qasm := m.circuit.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.circuitChanged()
}

// circuitChanged drops everything derived from the previous circuit.
func (m *Model) circuitChanged() {
	m.circuitGen++
	m.clampCursor()
	m.clearResults()
	m.explaining = false
	m.explanation = ""
	m.explainErr = nil
}

func (m *Model) clearResults() {
	m.outcomes = nil
	m.percents = nil
	m.total = 0
}

func (m *Model) clampCursor() {
	m.cursorQubit = min(m.cursorQubit, m.circuit.NumQubits-1)
	m.cursorStep = min(m.cursorStep, len(m.circuit.Steps))
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// parseQASMInput rebuilds the circuit from the editor when its text changed.
// Text that does not parse leaves the circuit as it was.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm

	c, err := circuit.ParseQASM(qasm)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.circuit = c
	m.circuitChanged()
}

// placeGate places a gate at the cursor step. For CNOT the cursor qubit is the
// control and target is the target; single-qubit gates ignore target.
func (m *Model) placeGate(gate quantum.GateName, target int) bool {
	defer func() { m.pendingGate = "" }()

	step := circuit.NewStep(gate, m.cursorQubit)
	if gate.IsControlled() {
		step = circuit.NewControlledStep(m.cursorQubit, target)
	}
	if err := step.Check(m.circuit.NumQubits); err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	if err := m.circuit.Set(m.cursorStep, step); err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	m.logger.Debug("placed gate", "gate", gate, "step", m.cursorStep+1, "target", step.Target, "control", step.Control)

	m.cursorStep++
	m.syncFromCircuit()
	return true
}

// run simulates the circuit from |0…0⟩ and stores the measured distribution.
func (m *Model) run() {
	sim, err := circuit.Simulate(m.circuit, m.simOpts...)
	if err != nil {
		m.clearResults()
		m.setStatus(err.Error(), true)
		m.logger.Error("run failed", "err", err)
		return
	}
	m.outcomes = sim.Outcomes()
	m.percents = sim.Measure()
	m.total = sim.TotalProbability()
	m.setStatus(fmt.Sprintf("Ran %d steps on %d qubits", len(m.circuit.Steps), m.circuit.NumQubits), false)
	m.logger.Info("circuit run", "qubits", m.circuit.NumQubits, "steps", len(m.circuit.Steps), "outcomes", len(m.outcomes))
}

func (m *Model) save() {
	if err := os.WriteFile(m.savePath, []byte(m.circuit.ToQASM()), 0o644); err != nil {
		m.setStatus(fmt.Sprintf("Save error: %v", err), true)
		return
	}
	m.setStatus("Saved "+m.savePath, false)
}

// startExplain asks the tutor about a snapshot of the circuit in the background.
func (m *Model) startExplain() tea.Cmd {
	switch {
	case m.explainer == nil:
		m.setStatus("Explanations need OPENROUTER_API_KEY", true)
		return nil
	case m.explaining:
		return nil
	case len(m.circuit.Steps) == 0:
		m.setStatus("Add a gate before asking for an explanation", true)
		return nil
	}

	m.explaining = true
	m.explanation = ""
	m.explainErr = nil

	c := m.circuit.Clone()
	ex := m.explainer
	gen := m.circuitGen
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := ex.Explain(context.Background(), c)
		return explanationMsg{gen: gen, text: text, err: err}
	})
}

// nextTarget moves the target selection one qubit in dir, skipping the control.
func (m *Model) nextTarget(dir int) {
	for next := m.targetQubit + dir; next >= 0 && next < m.circuit.NumQubits; next += dir {
		if next != m.cursorQubit {
			m.targetQubit = next
			return
		}
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		m.qasmEditor.SetHeight(max(topPanelHeight(msg.Height)-4, 4))

	case spinner.TickMsg:
		if m.explaining {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case explanationMsg:
		if msg.gen != m.circuitGen {
			m.logger.Debug("dropped stale explanation", "gen", msg.gen, "current", m.circuitGen)
			break
		}
		m.explaining = false
		if msg.err != nil {
			m.explainErr = msg.err
			m.logger.Error("explain failed", "err", msg.err)
		} else {
			m.explanation = msg.text
		}

	case tea.KeyMsg:
		key := msg.String()
		m.setStatus("", false)

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.circuit.Clear()
				m.cursorStep = 0
				m.syncFromCircuit()
			case "ctrl+s":
				m.save()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < len(m.circuit.Steps) {
					m.cursorStep++
				}
			case "+", "=":
				if m.circuit.NumQubits < quantum.MaxQubits {
					m.circuit.SetNumQubits(m.circuit.NumQubits + 1)
					m.syncFromCircuit()
				}
			case "-":
				if m.circuit.NumQubits > 1 {
					m.circuit.SetNumQubits(m.circuit.NumQubits - 1)
					m.syncFromCircuit()
				}
			case "a":
				m.focus = focusMenu
				m.menuItem = 0
			case "backspace", "delete":
				if m.cursorStep < len(m.circuit.Steps) {
					m.circuit.Remove(m.cursorStep)
					m.syncFromCircuit()
				}
			case "b":
				m.circuit = circuit.BellState()
				m.cursorQubit, m.cursorStep = 0, 0
				m.syncFromCircuit()
				m.setStatus("Loaded Bell state", false)
			case "r", "enter":
				m.run()
			case "?":
				cmds = append(cmds, m.startExplain())
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu)-1 {
					m.menuItem++
				}
			case "enter":
				item := gateMenu[m.menuItem]
				m.focus = focusCircuit
				if !item.needsTarget {
					m.placeGate(item.gate, -1)
					break
				}
				if m.circuit.NumQubits < 2 {
					m.setStatus(fmt.Sprintf("%s needs at least two qubits", item.gate), true)
					break
				}
				m.pendingGate = item.gate
				m.focus = focusSelectTarget
				m.targetQubit = m.cursorQubit + 1
				if m.targetQubit >= m.circuit.NumQubits {
					m.targetQubit = m.cursorQubit - 1
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.pendingGate = ""
			case "up", "k":
				m.nextTarget(-1)
			case "down", "j":
				m.nextTarget(1)
			case "enter":
				m.placeGate(m.pendingGate, m.targetQubit)
				m.focus = focusCircuit
			}

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// topPanelHeight is the inner height left for the circuit and QASM panels.
func topPanelHeight(height int) int {
	return max(height-controlsH-bottomH-6, 6)
}

// ──────────────────────────── View ────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	topH := topPanelHeight(m.height)

	circuitPanel := m.renderCircuitPanel(circuitWidth, topH)
	qasmPanel := m.renderQASMPanel(qasmWidth, topH)
	resultsPanel := m.renderResultsPanel(circuitWidth, bottomH)
	explainPanel := m.renderExplainPanel(qasmWidth, bottomH)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsH-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	midRow := lipgloss.JoinHorizontal(lipgloss.Top, resultsPanel, explainPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, midRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 4, 3)
	}
	return frame
}
