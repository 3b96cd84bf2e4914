// Package tui is the interactive circuit inspector: a moment grid, a QASM
// editor and a live view of the simulated state at the cursor.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qtermsim/circuit"
	"qtermsim/quantum"
)

// maxQubits bounds the inspector so the state table stays readable.
const maxQubits = 10

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
	focusSelectControl
	focusInputParam
)

// Options configures the inspector.
type Options struct {
	Circuit      *circuit.Circuit // nil starts with an empty two-qubit circuit
	Path         string           // ctrl+s destination, default circuit.qasm
	Seed         uint64           // measurement seed, 0 picks one
	StateOptions []quantum.Option
	Logger       *slog.Logger
}

// snapshot is the simulated state after the moments up to the cursor.
type snapshot struct {
	gates int
	basis []quantum.BasisState
	probs []quantum.QubitProbability
	bits  string
	err   error
}

// Model represents the TUI application state.
type Model struct {
	circ      *circuit.Circuit
	path      string
	seed      uint64
	stateOpts []quantum.Option
	logger    *slog.Logger

	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	statusMsg   string // transient status message (e.g. save confirmation)
	snap        snapshot

	// Menu state
	menuCat  int
	menuItem int

	// Target-selection state (for multi-qubit gates)
	pendingGate  string
	targetQubit  int
	controlQubit int // second Toffoli control, -1 when unset
	paramInput   string
}

// New returns an inspector over opts.Circuit.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.KeyMap.InsertNewline.SetEnabled(true)

	c := opts.Circuit
	if c == nil {
		c = circuit.New(2)
	}
	if opts.Path == "" {
		opts.Path = "circuit.qasm"
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	m := Model{
		circ:         c,
		path:         opts.Path,
		seed:         opts.Seed,
		stateOpts:    opts.StateOptions,
		logger:       opts.Logger,
		qasmEditor:   ta,
		focus:        focusCircuit,
		controlQubit: -1,
	}
	m.sync()
	return m
}

// Circuit returns the circuit being edited.
func (m Model) Circuit() *circuit.Circuit { return m.circ }

// sync rewrites the QASM editor from the circuit and re-simulates.
func (m *Model) sync() {
	qasm := m.circ.QASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.clampCursor()
	m.simulate()
}

func (m *Model) parseQASMInput() {
	src := m.qasmEditor.Value()
	if src == m.lastQASM {
		return
	}
	m.lastQASM = src

	c, err := circuit.Parse(src)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	if c.NumQubits > maxQubits {
		m.statusMsg = fmt.Sprintf("the inspector shows at most %d qubits", maxQubits)
		return
	}
	m.circ = c
	m.clampCursor()
	m.simulate()
}

func (m *Model) clampCursor() {
	m.cursorQubit = max(0, min(m.cursorQubit, m.circ.NumQubits-1))
	m.cursorStep = max(0, min(m.cursorStep, m.circ.Depth()-1))
}

// simulate runs the moments up to the cursor on a fresh state. The same seed
// is used every time so measurements do not flicker while navigating.
func (m *Model) simulate() {
	prefix := m.circ.UpTo(m.cursorStep)
	opts := append(slices.Clone(m.stateOpts), quantum.WithSeed(m.seed))

	s, res, err := circuit.Simulate(context.Background(), prefix, opts...)
	if err != nil {
		m.logger.Debug("inspector simulation failed", "step", m.cursorStep, "error", err)
		m.snap = snapshot{gates: len(prefix.Gates), err: err}
		return
	}
	defer s.Close()

	probs, err := s.QubitProbabilities()
	m.snap = snapshot{
		gates: len(prefix.Gates),
		basis: s.Describe(),
		probs: probs,
		bits:  res.BitString(),
		err:   err,
	}
}

// momentOf returns the moment holding gate i, or -1 for barriers.
func (m *Model) momentOf(i int) int {
	for step, layer := range m.circ.Moments() {
		if slices.Contains(layer, i) {
			return step
		}
	}
	return -1
}

// placeGate appends the pending gate with the cursor qubit as its first
// operand and moves the cursor to the moment it landed in.
func (m *Model) placeGate(gateType string) bool {
	q := m.cursorQubit

	switch {
	case gateType == circuit.TypeMeasure:
		m.circ.AddMeasure(q, q)
	case gateType == circuit.TypeReset:
		m.circ.AddReset(q)
	case gateType == circuit.TypeBarrier:
		m.circ.AddBarrier()
	case gateType == "ccx":
		m.circ.AddGate(gateType, m.targetQubit, q, m.controlQubit)
	case quantum.Arity(gateType) == 2:
		m.circ.AddGate(gateType, m.targetQubit, q)
	case quantum.Parameterized(gateType):
		params := circuit.ParseAngles(m.paramInput)
		if len(params) != 1 {
			m.statusMsg = "Invalid parameter, use a number or a pi expression (e.g. pi/2, 3*pi/4)"
			return false
		}
		m.circ.AddParameterizedGate(gateType, q, params[0])
	default:
		m.circ.AddGate(gateType, q)
	}

	m.paramInput = ""
	m.controlQubit = -1
	m.pendingGate = ""

	if step := m.momentOf(len(m.circ.Gates) - 1); step >= 0 {
		m.cursorStep = step
	}
	m.sync()
	return true
}

// beginTarget starts target selection for a multi-qubit gate.
func (m *Model) beginTarget(gateType string) {
	if m.circ.NumQubits < quantum.Arity(gateType) {
		m.statusMsg = fmt.Sprintf("%s needs %d qubits", gateType, quantum.Arity(gateType))
		m.focus = focusCircuit
		return
	}
	if gateType == "ccx" {
		m.controlQubit = -1
		m.targetQubit = m.firstFree(m.cursorQubit)
		m.focus = focusSelectControl
		return
	}
	m.targetQubit = m.firstFree(m.cursorQubit)
	m.focus = focusSelectTarget
}

func (m *Model) firstFree(taken ...int) int {
	for q := range m.circ.NumQubits {
		if !slices.Contains(taken, q) {
			return q
		}
	}
	return 0
}

// moveSelection moves targetQubit by dir, skipping taken qubits.
func (m *Model) moveSelection(dir int, taken ...int) {
	for next := m.targetQubit + dir; next >= 0 && next < m.circ.NumQubits; next += dir {
		if !slices.Contains(taken, next) {
			m.targetQubit = next
			return
		}
	}
}

func (m *Model) cancelPending() {
	m.focus = focusCircuit
	m.paramInput = ""
	m.controlQubit = -1
	m.pendingGate = ""
}

func (m *Model) save() {
	if err := os.WriteFile(m.path, []byte(m.circ.QASM()), 0o644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
		return
	}
	m.statusMsg = "Saved " + m.path
	m.logger.Info("circuit saved", "path", m.path, "gates", len(m.circ.Gates))
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
		m.qasmEditor.SetHeight(max(msg.Height-12, 4))

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

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
				m.circ = circuit.New(m.circ.NumQubits)
				m.cursorStep = 0
				m.sync()
			case "ctrl+s":
				m.save()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circ.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					m.simulate()
				}
			case "right", "l":
				if m.cursorStep < m.circ.Depth()-1 {
					m.cursorStep++
					m.simulate()
				}
			case "+", "=":
				if m.circ.NumQubits < maxQubits {
					m.circ.NumQubits++
					m.sync()
				}
			case "-":
				if m.circ.NumQubits > 1 {
					m.circ.RemoveGatesOnQubit(m.circ.NumQubits - 1)
					m.circ.NumQubits--
					m.sync()
				}
			case "m":
				m.placeGate(circuit.TypeMeasure)
			case "r":
				m.seed = rand.Uint64()
				m.simulate()
				m.statusMsg = fmt.Sprintf("Reseeded (%d)", m.seed)
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				if i := m.circ.GateAt(m.cursorStep, m.cursorQubit); i >= 0 {
					m.circ.RemoveGate(i)
					m.sync()
				}
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
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pendingGate = item.gateType

				switch {
				case item.needsParams():
					m.paramInput = ""
					m.focus = focusInputParam
				case item.needsTarget():
					m.beginTarget(item.gateType)
				default:
					m.placeGate(item.gateType)
					m.focus = focusCircuit
				}
			}

		case focusSelectControl:
			switch key {
			case "esc":
				m.cancelPending()
			case "up", "k":
				m.moveSelection(-1, m.cursorQubit)
			case "down", "j":
				m.moveSelection(1, m.cursorQubit)
			case "enter":
				m.controlQubit = m.targetQubit
				m.targetQubit = m.firstFree(m.cursorQubit, m.controlQubit)
				m.focus = focusSelectTarget
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.cancelPending()
			case "up", "k":
				m.moveSelection(-1, m.cursorQubit, m.controlQubit)
			case "down", "j":
				m.moveSelection(1, m.cursorQubit, m.controlQubit)
			case "enter":
				if m.placeGate(m.pendingGate) {
					m.focus = focusCircuit
				}
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.cancelPending()
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				if m.placeGate(m.pendingGate) {
					m.focus = focusCircuit
				}
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'e' || ch == 'E' || ch == '+' ||
						ch == 'p' || ch == 'i' || ch == '*' || ch == '/' {
						m.paramInput += key
					}
				}
			}

		case focusQASM:
			switch key {
			case "tab":
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

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	leftWidth := m.width - qasmWidth - 4
	controlsHeight := 4
	mainHeight := max(m.height-controlsHeight-2, 12)
	circuitHeight := mainHeight / 2
	stateHeight := mainHeight - circuitHeight - 2

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCircuitPanel(leftWidth, circuitHeight),
		m.renderStatePanel(leftWidth, stateHeight),
	)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderQASMPanel(qasmWidth, mainHeight))
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, m.renderControlsPanel(m.width-4, controlsHeight-2))

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}

// renderParamInput renders parameter input overlay.
func (m Model) renderParamInput() string {
	var s string
	s += titleStyle.Render("Enter Angle for "+m.pendingGate) + "\n\n"
	s += fmt.Sprintf("Value: %s_", m.paramInput) + "\n\n"
	s += dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57")
	if m.statusMsg != "" {
		s += "\n" + errorStyle.Render(m.statusMsg)
	}
	return menuBorderStyle.Render(s)
}
