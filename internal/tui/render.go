package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"qtermsim/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres s within width visible columns.
func padCenter(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// gateDisplayName returns a short display name for a gate.
func gateDisplayName(g *circuit.Gate) string {
	switch g.Type {
	case circuit.TypeMeasure:
		return "M"
	case circuit.TypeReset:
		return "|0⟩"
	case "sdg":
		return "S†"
	case "tdg":
		return "T†"
	}
	return strings.ToUpper(g.Type)
}

// controlSymbol returns the wire symbol for a control qubit.
func controlSymbol(gateType string) string {
	if gateType == "swap" {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target of a multi-qubit gate.
func targetSymbol(gateType string) string {
	switch gateType {
	case "cz":
		return "●"
	case "swap":
		return "×"
	default:
		return "⊕"
	}
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes what one (moment, qubit) cell of the grid shows.
type cellInfo struct {
	gate        *circuit.Gate
	isControl   bool
	isTarget    bool // target of a multi-qubit gate
	passThrough bool // a multi-qubit gate spans this qubit without touching it
	vertAbove   bool
	vertBelow   bool
}

// cellAt locates the gate drawn at (step, qubit). Gates touching the qubit
// win over gates merely spanning it.
func cellAt(c *circuit.Circuit, moments [][]int, step, qubit int) cellInfo {
	if step >= len(moments) {
		return cellInfo{}
	}
	var span cellInfo
	for _, i := range moments[step] {
		g := &c.Gates[i]
		qs := g.Qubits()
		lo, hi := slices.Min(qs), slices.Max(qs)
		if qubit < lo || qubit > hi {
			continue
		}
		info := cellInfo{gate: g, vertAbove: qubit > lo, vertBelow: qubit < hi}
		switch {
		case g.Target == qubit:
			info.isTarget = len(qs) > 1
			return info
		case slices.Contains(g.Controls, qubit):
			info.isControl = true
			return info
		default:
			span = cellInfo{passThrough: true, vertAbove: true, vertBelow: true}
		}
	}
	return span
}

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// wire draws a horizontal wire of width w with sym at its centre. An empty
// sym draws a bare wire.
func wire(sym string, w int) string {
	if sym == "" {
		return strings.Repeat("─", w)
	}
	left := (w - 1) / 2
	return strings.Repeat("─", left) + sym + strings.Repeat("─", w-left-1)
}

// wireSymbol is the mark drawn on the wire for controls, targets and spans.
func (info cellInfo) wireSymbol() string {
	switch {
	case info.isControl:
		return gateStyle.Render(controlSymbol(info.gate.Type))
	case info.isTarget:
		return gateStyle.Render(targetSymbol(info.gate.Type))
	case info.passThrough:
		return "┼"
	}
	return ""
}

// boxed reports whether the cell draws a gate box rather than a wire mark.
func (info cellInfo) boxed() bool {
	return info.gate != nil && !info.isControl && !info.isTarget
}

// renderCell returns the top, middle and bottom lines of one grid cell, each
// cellW columns wide. Highlighted cells are framed with a double border.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	name := ""
	if info.boxed() {
		name = padCenter(gateDisplayName(info.gate), gateNameW)
	}

	if hl != hlNone {
		frame := cursorBoxStyle
		if hl == hlTargetSelect {
			frame = targetSelectStyle
		}
		inner := cellW - 2
		body := wire(info.wireSymbol(), inner)
		if name != "" {
			body = "─┤" + gateStyle.Render(name) + "├─"
		}
		top = frame.Render("╔" + strings.Repeat("═", inner) + "╗")
		mid = frame.Render("║") + body + frame.Render("║")
		bot = frame.Render("╚" + strings.Repeat("═", inner) + "╝")
		return top, mid, bot
	}

	if name != "" {
		lm := (cellW - gateBoxW) / 2
		rm := cellW - lm - gateBoxW
		edge := strings.Repeat("─", gateNameW)
		top = strings.Repeat(" ", lm) + gateStyle.Render("┌"+edge+"┐") + strings.Repeat(" ", rm)
		mid = strings.Repeat("─", lm) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rm)
		bot = strings.Repeat(" ", lm) + gateStyle.Render("└"+edge+"┘") + strings.Repeat(" ", rm)
		return top, mid, bot
	}

	blank := strings.Repeat(" ", cellW)
	vert := strings.Repeat(" ", cellW/2) + "│" + strings.Repeat(" ", cellW-cellW/2-1)
	top, bot = blank, blank
	if info.vertAbove {
		top = vert
	}
	if info.vertBelow {
		bot = vert
	}
	return top, wire(info.wireSymbol(), cellW), bot
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the moment grid.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n")

	moments := m.circ.Moments()
	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= maxSteps {
		startStep = m.cursorStep - maxSteps + 1
	}
	displaySteps := min(maxSteps, max(len(moments)-startStep, 1))

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing moments %d–%d\n", startStep, startStep+displaySteps-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	selecting := m.focus == focusSelectTarget || m.focus == focusSelectControl
	for qubit := range m.circ.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit && m.focus != focusQASM {
				hl = hlCursor
			} else if step == m.cursorStep && qubit == m.targetQubit && selecting {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(cellAt(m.circ, moments, step, qubit), hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Classical register: one wire, ╩ marks the bit a moment writes.
	if m.circ.NumCbits > 0 {
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("c%d", m.circ.NumCbits))) + cbitWireStyle.Render("══")
		for step := startStep; step < startStep+displaySteps; step++ {
			cbit := -1
			if step < len(moments) {
				for _, i := range moments[step] {
					if m.circ.Gates[i].Type == circuit.TypeMeasure {
						cbit = m.circ.Gates[i].Cbit
						break
					}
				}
			}
			if cbit < 0 {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
				continue
			}
			bitLabel := fmt.Sprintf("%d", cbit)
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-1-len(bitLabel), 0)
			cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
				cbitConnectorStyle.Render("╩"+bitLabel) +
				cbitWireStyle.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(cbitLine + "\n")
	}

	if selecting {
		prompt := "Select target qubit: "
		if m.focus == focusSelectControl {
			prompt = "Select second control: "
		}
		fmt.Fprintf(&sb, "\n  %s  %s%s", activeGateStyle.Render(m.pendingGate), prompt,
			targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Moment %d, Qubit %d", m.cursorStep, m.cursorQubit)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderStatePanel shows the state after the moments up to the cursor.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("State"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  after %d gates, seed %d", m.snap.gates, m.seed)))
	sb.WriteString("\n")

	if m.snap.err != nil {
		sb.WriteString(errorStyle.Render(m.snap.err.Error()))
		return stateStyle.Width(width).Height(height).Render(sb.String())
	}
	if m.snap.bits != "" {
		fmt.Fprintf(&sb, "%s %s\n", cbitLabelStyle.Render("c ="), m.snap.bits)
	}

	for q, p := range m.snap.probs {
		filled := int(math.Round(p.Prob1 * barW))
		fmt.Fprintf(&sb, "%s %s%s %.3f\n",
			qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", q))),
			barFillStyle.Render(strings.Repeat("█", filled)),
			dimStyle.Render(strings.Repeat("░", barW-filled)),
			p.Prob1)
	}

	n := m.circ.NumQubits
	ketW := n + 2
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%-*s %-20s %7s %7s", ketW, "basis", "amplitude", "prob", "phase")))
	sb.WriteString("\n")
	for i, b := range m.snap.basis {
		if i == maxBasisRows {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(m.snap.basis)-maxBasisRows)))
			break
		}
		amp := fmt.Sprintf("%+.4f%+.4fi", real(b.Amplitude), imag(b.Amplitude))
		fmt.Fprintf(&sb, "%s %-20s %7.4f %+7.3f\n",
			padRight(b.Ket(n), ketW), amp, b.Probability, b.Phase)
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
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

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Moment  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate  ")
	sb.WriteString(activeGateStyle.Render("m"))
	sb.WriteString(" Measure\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("Tab Switch focus  Bksp Delete  r Reseed  ^R Clear  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites overlay on top of bg with its top-left corner at
// visible column x of line y. Escape sequences in bg are preserved.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		idx := y + i
		if idx < 0 || idx >= len(bgLines) {
			continue
		}
		line := bgLines[idx]
		left := ansi.Truncate(line, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(ovLine), "")
		bgLines[idx] = left + ovLine + right
	}
	return strings.Join(bgLines, "\n")
}
