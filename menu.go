package main

import (
	"fmt"
	"strings"

	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name        string
	gate        quantum.GateName
	symbol      string
	needsTarget bool
}

// gateMenu defines the gate picker items.
var gateMenu = []menuItem{
	{name: "Hadamard", gate: quantum.GateH, symbol: "H"},
	{name: "Pauli-X (NOT)", gate: quantum.GateX, symbol: "X"},
	{name: "Pauli-Y", gate: quantum.GateY, symbol: "Y"},
	{name: "Pauli-Z", gate: quantum.GateZ, symbol: "Z"},
	{name: "CNOT", gate: quantum.GateCNOT, symbol: "●─⊕", needsTarget: true},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 30)))
	sb.WriteString("\n")

	for i, item := range gateMenu {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
		}
		sb.WriteString(gateStyle(item.gate).Render(item.symbol))
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
