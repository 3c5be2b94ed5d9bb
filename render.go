package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gudvin82/quantum-simulator/internal/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	n := ansi.StringWidth(s)
	if n >= width {
		return ansi.Truncate(s, width, "")
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	step        *circuit.Step
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// cellAt returns rendering information for the cell at (col, qubit).
// Column i shows step i; columns past the last step are empty wire.
func cellAt(c *circuit.Circuit, col, qubit int) cellInfo {
	var info cellInfo
	if col < 0 || col >= len(c.Steps) {
		return info
	}
	s := &c.Steps[col]

	if !s.Gate.IsControlled() || !s.HasControl() {
		if s.Target == qubit {
			info.step = s
		}
		return info
	}

	lo, hi := min(s.Control, s.Target), max(s.Control, s.Target)
	if qubit < lo || qubit > hi {
		return info
	}
	info.vertAbove = qubit > lo
	info.vertBelow = qubit < hi
	switch qubit {
	case s.Control:
		info.step = s
		info.isControl = true
	case s.Target:
		info.step = s
		info.isTarget = true
	default:
		info.passThrough = true
	}
	return info
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell, each cellW columns wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	symbol := ""
	if info.step != nil {
		style := gateStyle(info.step.Gate)
		switch {
		case info.isControl:
			symbol = style.Render("●")
		case info.isTarget:
			symbol = style.Render("⊕")
		}
	}

	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")
		switch {
		case symbol != "":
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + symbol + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.step != nil:
			name := padCenter(string(info.step.Gate), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle(info.step.Gate).Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case symbol != "":
		mid = strings.Repeat("─", dashL) + symbol + strings.Repeat("─", dashR)
	case info.step != nil:
		style := gateStyle(info.step.Gate)
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(string(info.step.Gate), gateNameW)
		top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
	default:
		mid = strings.Repeat("─", cellW)
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n\n")

	// How many steps fit
	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= maxSteps {
		startStep = m.cursorStep - maxSteps + 1
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+maxSteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step+1), cellW))
	}
	sb.WriteString(header + "\n")

	for qubit := range m.circuit.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("Q%d", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+maxSteps; step++ {
			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit && m.focus != focusQASM {
				hl = hlCursor
			} else if step == m.cursorStep && qubit == m.targetQubit && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(cellAt(m.circuit, step, qubit), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s control Q%d", gateStyle(m.pendingGate).Render(string(m.pendingGate)), m.cursorQubit)
		sb.WriteString("  Select target qubit: ")
		sb.WriteString(targetSelectStyle.Render(fmt.Sprintf("Q%d", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep+1, m.cursorQubit)
		if m.statusMsg != "" {
			style := activeGateStyle
			if m.statusErr {
				style = errorStyle
			}
			fmt.Fprintf(&sb, "  │  %s", style.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel lists the measured basis states with a probability bar each.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Measurement"))
	sb.WriteString("\n")

	if m.percents == nil {
		sb.WriteString(dimStyle.Render("Press r to run the circuit"))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}

	rows := max(height-2, 1)
	labelW := m.circuit.NumQubits + 2
	for i, o := range m.outcomes {
		if i == rows-1 && len(m.outcomes) > rows {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("… and %d more", len(m.outcomes)-i)))
			sb.WriteString("\n")
			break
		}
		bar := strings.Repeat("█", int(math.Round(o.Probability*barW)))
		fmt.Fprintf(&sb, "%-*s %8s %s\n", labelW, o.Label, m.percents[o.Label], barStyle.Render(bar))
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf("total %.2f%%", m.total*100)))

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderExplainPanel shows the tutor's explanation of the current circuit.
func (m Model) renderExplainPanel(width, height int) string {
	var body string
	switch {
	case m.explainer == nil:
		body = dimStyle.Render("Set OPENROUTER_API_KEY to enable explanations")
	case m.explaining:
		body = m.spinner.View() + " Asking the tutor…"
	case m.explainErr != nil:
		body = errorStyle.Render(m.explainErr.Error())
	case m.explanation != "":
		body = m.explanation
	default:
		body = dimStyle.Render("Press ? to explain the circuit")
	}

	wrapped := lipgloss.NewStyle().Width(max(width-2, 10)).Render(body)
	lines := strings.Split(wrapped, "\n")
	if limit := max(height-1, 1); len(lines) > limit {
		lines = append(lines[:limit-1], dimStyle.Render("…"))
	}

	return explainStyle.Width(width).Height(height).Render(titleStyle.Render("Tutor") + "\n" + strings.Join(lines, "\n"))
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move step  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("r Run  b Bell state  ? Explain  Tab QASM  Bksp Delete  ^R Clear  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		line := bgLines[row]
		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(ovLine), "")
		bgLines[row] = left + ovLine + right
	}
	return strings.Join(bgLines, "\n")
}
