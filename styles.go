package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

// Layout constants
const (
	cellW        = 9 // width of each step column in characters
	labelVisualW = 7 // visual width of qubit label area
	gateNameW    = 3 // width of gate name inside box
	gateBoxW     = 5 // ┤ + gateNameW + ├ = 1 + 3 + 1
	barW         = 24
)

// Lipgloss styles used across the TUI.
var (
	circuitStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1)

	qasmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(1)

	resultsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e0af68")).
			Padding(0, 1)

	explainStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7dcfff")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	cursorBoxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff9e64")).
			Bold(true)

	targetSelectStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bb9af7")).
				Bold(true)

	activeGateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e"))

	qubitLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a"))

	menuBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff9e64")).
			Padding(0, 1)

	menuSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ff9e64"))

	menuNormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))
)

// gateColors follows the toolbar palette: H orange, X green, Y red, Z purple.
var gateColors = map[quantum.GateName]lipgloss.Color{
	quantum.GateH:    "#f59e0b",
	quantum.GateX:    "#10b981",
	quantum.GateY:    "#ef4444",
	quantum.GateZ:    "#8b5cf6",
	quantum.GateCNOT: "#f97316",
}

// gateStyle returns the bold colored style for a gate symbol.
func gateStyle(g quantum.GateName) lipgloss.Style {
	color, ok := gateColors[g]
	if !ok {
		color = "#3b82f6"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}
