package quantum

import (
	"fmt"
	"strings"
)

// Gate names a transform and the qubits it acts on. Controls come first and
// the target last, so CNOT is Gate{Name: "cx", Qubits: []int{control, target}}.
type Gate struct {
	Name   string
	Qubits []int
	Angle  float64 // used by p, rx, ry and rz
}

// arity lists the qubit count of every gate Apply understands.
var arity = map[string]int{
	"x": 1, "y": 1, "z": 1, "h": 1,
	"s": 1, "sdg": 1, "t": 1, "tdg": 1,
	"p": 1, "rx": 1, "ry": 1, "rz": 1,
	"cx": 2, "cz": 2, "swap": 2,
	"ccx": 3,
}

// Parameterized reports whether the named gate takes an angle.
func Parameterized(name string) bool {
	switch strings.ToLower(name) {
	case "p", "rx", "ry", "rz":
		return true
	}
	return false
}

// Arity returns the number of qubits the named gate acts on, or 0 if unknown.
func Arity(name string) int {
	return arity[strings.ToLower(name)]
}

func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.Name)
	if Parameterized(g.Name) {
		fmt.Fprintf(&sb, "(%g)", g.Angle)
	}
	for i, q := range g.Qubits {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	return sb.String()
}

// Apply dispatches g to the matching Apply method. Names are case-insensitive.
func (s *State) Apply(g Gate) error {
	name := strings.ToLower(g.Name)
	n, ok := arity[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGate, g.Name)
	}
	if len(g.Qubits) != n {
		return fmt.Errorf("%s: %w: want %d, got %d", name, ErrGateArity, n, len(g.Qubits))
	}
	q := g.Qubits

	switch name {
	case "x":
		return s.ApplyX(q[0])
	case "y":
		return s.ApplyY(q[0])
	case "z":
		return s.ApplyZ(q[0])
	case "h":
		return s.ApplyHadamard(q[0])
	case "s":
		return s.ApplyS(q[0])
	case "sdg":
		return s.ApplySdg(q[0])
	case "t":
		return s.ApplyT(q[0])
	case "tdg":
		return s.ApplyTdg(q[0])
	case "p":
		return s.ApplyPhase(q[0], g.Angle)
	case "rx":
		return s.ApplyRX(q[0], g.Angle)
	case "ry":
		return s.ApplyRY(q[0], g.Angle)
	case "rz":
		return s.ApplyRZ(q[0], g.Angle)
	case "cx":
		return s.ApplyCNOT(q[0], q[1])
	case "cz":
		return s.ApplyCZ(q[0], q[1])
	case "swap":
		return s.ApplySwap(q[0], q[1])
	default: // ccx
		return s.ApplyToffoli(q[0], q[1], q[2])
	}
}
