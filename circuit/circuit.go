// Package circuit describes gate sequences over a register and runs them on
// a quantum.State. Circuits are read from and written to a subset of
// OpenQASM 2.0.
package circuit

import (
	"slices"

	"qtermsim/quantum"
)

// Operation types that are not unitary gates.
const (
	TypeMeasure = "measure"
	TypeReset   = "reset"
	TypeBarrier = "barrier"
)

// Gate is one operation placed on the circuit.
type Gate struct {
	Type     string    // lower-case gate name or one of the Type constants
	Target   int       // -1 for barriers
	Controls []int     // control qubits, in order
	Params   []float64 // angle for parameterized gates
	Cbit     int       // classical destination of a measurement, -1 otherwise
	Line     int       // source line when parsed, 0 otherwise
}

// Qubits returns the qubits the gate touches, controls first.
func (g Gate) Qubits() []int {
	if g.Target < 0 {
		return nil
	}
	return append(slices.Clone(g.Controls), g.Target)
}

// Unitary reports whether the gate is applied through quantum.State.Apply.
func (g Gate) Unitary() bool {
	switch g.Type {
	case TypeMeasure, TypeReset, TypeBarrier:
		return false
	}
	return true
}

// Descriptor converts a unitary gate to the form quantum.State.Apply takes.
func (g Gate) Descriptor() quantum.Gate {
	d := quantum.Gate{Name: g.Type, Qubits: g.Qubits()}
	if len(g.Params) > 0 {
		d.Angle = g.Params[0]
	}
	return d
}

// references reports whether the gate touches qubit.
func (g Gate) references(qubit int) bool {
	return g.Target == qubit || slices.Contains(g.Controls, qubit)
}

// Circuit is an ordered list of gates over NumQubits qubits and NumCbits
// classical bits.
type Circuit struct {
	NumQubits int
	NumCbits  int
	Gates     []Gate
}

// New returns an empty circuit over numQubits qubits.
func New(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// AddGate appends a gate. Controls are listed before the target in QASM
// operand order.
func (c *Circuit) AddGate(gateType string, target int, controls ...int) *Circuit {
	c.Gates = append(c.Gates, Gate{
		Type:     gateType,
		Target:   target,
		Controls: controls,
		Cbit:     -1,
	})
	return c
}

// AddParameterizedGate appends a gate taking an angle.
func (c *Circuit) AddParameterizedGate(gateType string, target int, angle float64, controls ...int) *Circuit {
	c.Gates = append(c.Gates, Gate{
		Type:     gateType,
		Target:   target,
		Controls: controls,
		Params:   []float64{angle},
		Cbit:     -1,
	})
	return c
}

// AddMeasure appends a measurement of qubit into classical bit cbit, growing
// the classical register if needed.
func (c *Circuit) AddMeasure(qubit, cbit int) *Circuit {
	c.Gates = append(c.Gates, Gate{Type: TypeMeasure, Target: qubit, Cbit: cbit})
	c.NumCbits = max(c.NumCbits, cbit+1)
	return c
}

// AddReset appends a reset of qubit to |0⟩.
func (c *Circuit) AddReset(qubit int) *Circuit {
	c.Gates = append(c.Gates, Gate{Type: TypeReset, Target: qubit, Cbit: -1})
	return c
}

// AddBarrier appends a barrier across all qubits.
func (c *Circuit) AddBarrier() *Circuit {
	c.Gates = append(c.Gates, Gate{Type: TypeBarrier, Target: -1, Cbit: -1})
	return c
}

// Prefix returns a circuit holding the first n gates. It shares gate storage
// with c.
func (c *Circuit) Prefix(n int) *Circuit {
	n = max(0, min(n, len(c.Gates)))
	return &Circuit{NumQubits: c.NumQubits, NumCbits: c.NumCbits, Gates: c.Gates[:n]}
}

// RemoveGatesOnQubit removes every gate that touches qubit.
func (c *Circuit) RemoveGatesOnQubit(qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.references(qubit)
	})
}

// Moments groups gate indices into layers whose gates touch disjoint qubits.
// A gate lands in the layer after the latest layer used by any of its
// qubits; a barrier forces every qubit past the latest layer so far.
func (c *Circuit) Moments() [][]int {
	next := make([]int, c.NumQubits)
	var moments [][]int

	for i, g := range c.Gates {
		if g.Type == TypeBarrier {
			top := 0
			for _, n := range next {
				top = max(top, n)
			}
			for q := range next {
				next[q] = top
			}
			continue
		}

		qubits := g.Qubits()
		step := 0
		for _, q := range qubits {
			if q >= 0 && q < len(next) {
				step = max(step, next[q])
			}
		}
		for len(moments) <= step {
			moments = append(moments, nil)
		}
		moments[step] = append(moments[step], i)
		for _, q := range qubits {
			if q >= 0 && q < len(next) {
				next[q] = step + 1
			}
		}
	}
	return moments
}

// Depth is the number of moments.
func (c *Circuit) Depth() int {
	return len(c.Moments())
}

// UpTo returns a circuit holding the gates of moments 0 through moment, in
// their original order. Barriers are dropped.
func (c *Circuit) UpTo(moment int) *Circuit {
	out := &Circuit{NumQubits: c.NumQubits, NumCbits: c.NumCbits}
	var keep []int
	for step, layer := range c.Moments() {
		if step > moment {
			break
		}
		keep = append(keep, layer...)
	}
	slices.Sort(keep)
	for _, i := range keep {
		out.Gates = append(out.Gates, c.Gates[i])
	}
	return out
}

// GateAt returns the index of the gate in moment step that touches qubit,
// or -1.
func (c *Circuit) GateAt(step, qubit int) int {
	moments := c.Moments()
	if step < 0 || step >= len(moments) {
		return -1
	}
	for _, i := range moments[step] {
		if c.Gates[i].references(qubit) {
			return i
		}
	}
	return -1
}

// RemoveGate deletes the gate at index i.
func (c *Circuit) RemoveGate(i int) {
	if i >= 0 && i < len(c.Gates) {
		c.Gates = slices.Delete(c.Gates, i, i+1)
	}
}
