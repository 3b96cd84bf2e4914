package tui

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/circuit"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{Seed: 11, Path: filepath.Join(t.TempDir(), "out.qasm")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return next.(Model)
}

func TestViewBeforeResize(t *testing.T) {
	m := New(Options{Seed: 1})
	assert.Equal(t, "Loading...", m.View())
}

func TestAddHadamardAndCNOT(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a", "enter")
	require.Len(t, m.Circuit().Gates, 1)
	assert.Equal(t, "h", m.Circuit().Gates[0].Type)
	require.Len(t, m.snap.probs, 2)
	assert.InDelta(t, 0.5, m.snap.probs[0].Prob1, 1e-9)

	// Multi Qubit tab, CNOT, target defaults to q[1]
	m = press(t, m, "a", "right", "right", "enter")
	assert.Equal(t, focusSelectTarget, m.focus)
	assert.Equal(t, 1, m.targetQubit)
	m = press(t, m, "enter")

	require.Len(t, m.Circuit().Gates, 2)
	cx := m.Circuit().Gates[1]
	assert.Equal(t, "cx", cx.Type)
	assert.Equal(t, []int{0}, cx.Controls)
	assert.Equal(t, 1, cx.Target)
	assert.Equal(t, 1, m.cursorStep)

	require.Len(t, m.snap.basis, 2)
	assert.Equal(t, 0, m.snap.basis[0].Index)
	assert.Equal(t, 3, m.snap.basis[1].Index)

	view := m.View()
	assert.Contains(t, view, "Quantum Circuit")
	assert.Contains(t, view, "State")
}

func TestCursorStepReplaysPrefix(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "enter", "a", "right", "right", "enter", "enter")
	require.Equal(t, 1, m.cursorStep)

	m = press(t, m, "left")
	assert.Equal(t, 0, m.cursorStep)
	assert.Equal(t, 1, m.snap.gates)
	assert.InDelta(t, 0, m.snap.probs[1].Prob1, 1e-9)
}

func TestParameterInput(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a", "right", "enter")
	require.Equal(t, focusInputParam, m.focus)

	m = press(t, m, "e", "enter")
	assert.Equal(t, focusInputParam, m.focus)
	assert.Contains(t, m.statusMsg, "Invalid parameter")
	assert.Empty(t, m.Circuit().Gates)

	m = press(t, m, "backspace", "p", "i", "/", "2", "enter")
	assert.Equal(t, focusCircuit, m.focus)
	require.Len(t, m.Circuit().Gates, 1)
	g := m.Circuit().Gates[0]
	assert.Equal(t, "rx", g.Type)
	assert.InDelta(t, math.Pi/2, g.Params[0], 1e-12)
	assert.InDelta(t, 0.5, m.snap.probs[0].Prob1, 1e-9)
}

func TestToffoliSelection(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "+")
	require.Equal(t, 3, m.Circuit().NumQubits)

	m = press(t, m, "a", "right", "right", "down", "down", "down", "enter")
	require.Equal(t, focusSelectControl, m.focus)
	m = press(t, m, "enter")
	require.Equal(t, focusSelectTarget, m.focus)
	assert.Equal(t, 1, m.controlQubit)
	assert.Equal(t, 2, m.targetQubit)
	m = press(t, m, "enter")

	require.Len(t, m.Circuit().Gates, 1)
	g := m.Circuit().Gates[0]
	assert.Equal(t, "ccx", g.Type)
	assert.Equal(t, []int{0, 1}, g.Controls)
	assert.Equal(t, 2, g.Target)
}

func TestDeleteAndQubitCount(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "enter", "down", "m")
	require.Len(t, m.Circuit().Gates, 2)
	assert.Equal(t, 2, m.Circuit().NumCbits)

	m = press(t, m, "up", "left", "backspace")
	require.Len(t, m.Circuit().Gates, 1)
	assert.Equal(t, circuit.TypeMeasure, m.Circuit().Gates[0].Type)

	m = press(t, m, "-")
	assert.Equal(t, 1, m.Circuit().NumQubits)
	assert.Empty(t, m.Circuit().Gates)
}

func TestQASMEditing(t *testing.T) {
	m := newTestModel(t)

	m.qasmEditor.SetValue("OPENQASM 2.0;\nqreg q[3];\nx q[2];\n")
	m.parseQASMInput()
	require.Equal(t, 3, m.Circuit().NumQubits)
	assert.InDelta(t, 1, m.snap.probs[2].Prob1, 1e-12)

	m.qasmEditor.SetValue("OPENQASM 2.0;\nqreg q[3];\nfoo q[2];\n")
	m.parseQASMInput()
	assert.Contains(t, m.statusMsg, "line 3")
	assert.Equal(t, "x", m.Circuit().Gates[0].Type)
}

func TestSave(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "enter", "ctrl+s")
	assert.True(t, strings.HasPrefix(m.statusMsg, "Saved"))

	data, err := os.ReadFile(m.path)
	require.NoError(t, err)
	c, err := circuit.Parse(string(data))
	require.NoError(t, err)
	assert.Len(t, c.Gates, 1)
}

func TestOverlayAt(t *testing.T) {
	bg := "abcdef\nghijkl\nmnopqr"
	got := overlayAt(bg, "XY\nZW", 2, 1)
	assert.Equal(t, "abcdef\nghXYkl\nmnZWqr", got)

	got = overlayAt("ab", "XY", 4, 0)
	assert.Equal(t, "ab  XY", got)
}
