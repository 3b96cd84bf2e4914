package tui

import (
	"fmt"
	"strings"

	"qtermsim/circuit"
	"qtermsim/quantum"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name     string
	gateType string
	symbol   string
	example  string // parameter hint, empty for fixed gates
}

// needsTarget reports whether the gate acts on a second qubit besides the cursor.
func (it menuItem) needsTarget() bool {
	return quantum.Arity(it.gateType) >= 2
}

func (it menuItem) needsParams() bool {
	return quantum.Parameterized(it.gateType)
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", gateType: "h", symbol: "H"},
			{name: "Pauli-X (NOT)", gateType: "x", symbol: "X"},
			{name: "Pauli-Y", gateType: "y", symbol: "Y"},
			{name: "Pauli-Z", gateType: "z", symbol: "Z"},
			{name: "Phase (S)", gateType: "s", symbol: "S"},
			{name: "Phase Dagger (S†)", gateType: "sdg", symbol: "S†"},
			{name: "T Gate", gateType: "t", symbol: "T"},
			{name: "T Dagger (T†)", gateType: "tdg", symbol: "T†"},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", gateType: "rx", symbol: "RX", example: "pi/2"},
			{name: "Rotate Y", gateType: "ry", symbol: "RY", example: "pi/2"},
			{name: "Rotate Z", gateType: "rz", symbol: "RZ", example: "pi/2"},
			{name: "Phase Shift", gateType: "p", symbol: "P", example: "pi/4"},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", gateType: "cx", symbol: "●─⊕"},
			{name: "Controlled-Z", gateType: "cz", symbol: "●─●"},
			{name: "SWAP", gateType: "swap", symbol: "×─×"},
			{name: "Toffoli (CCX)", gateType: "ccx", symbol: "●─●─⊕"},
		},
	},
	{
		name: "Other",
		items: []menuItem{
			{name: "Measure", gateType: circuit.TypeMeasure, symbol: "M"},
			{name: "Reset", gateType: circuit.TypeReset, symbol: "|0⟩"},
			{name: "Barrier", gateType: circuit.TypeBarrier, symbol: "┃"},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget() {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.needsParams() {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.example)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
