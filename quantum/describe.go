package quantum

import (
	"fmt"
	"math/bits"
	"math/cmplx"
	"strings"
)

// DescribeThreshold is the smallest probability Describe reports.
const DescribeThreshold = 1e-6

// BasisState is one entry of Describe.
type BasisState struct {
	Index       int
	Amplitude   Complex
	Probability float64
	Phase       float64
	Hamming     int // number of qubits set in Index
}

// Describe lists, in index order, every basis state whose probability
// exceeds DescribeThreshold. It is meant for inspection only.
func (s *State) Describe() []BasisState {
	if s.amps == nil {
		return nil
	}
	states := make([]BasisState, 0, 8)
	for i, amp := range s.amps {
		prob := SquaredMagnitude(amp)
		if prob > DescribeThreshold {
			states = append(states, BasisState{
				Index:       i,
				Amplitude:   amp,
				Probability: prob,
				Phase:       cmplx.Phase(amp),
				Hamming:     bits.OnesCount(uint(i)),
			})
		}
	}
	return states
}

// Ket formats the index as a ket with qubit 0 rightmost, e.g. |011⟩.
func (b BasisState) Ket(numQubits int) string {
	return fmt.Sprintf("|%0*b⟩", numQubits, b.Index)
}

// String renders the state one basis entry per line.
func (s *State) String() string {
	if s.amps == nil {
		return "closed state"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "state (%d qubits):\n", s.numQubits)
	for _, b := range s.Describe() {
		fmt.Fprintf(&sb, "%s: %.6f%+.6fi (prob: %.6f)\n",
			b.Ket(s.numQubits), real(b.Amplitude), imag(b.Amplitude), b.Probability)
	}
	return sb.String()
}
