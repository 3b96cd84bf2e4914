package circuit

import (
	"context"
	"fmt"
	"strings"

	"qtermsim/quantum"
)

// Measurement records one measure operation executed by Run.
type Measurement struct {
	Qubit   int
	Cbit    int
	Outcome int
}

// Result is the classical outcome of a run.
type Result struct {
	Bits         []int // classical register, index 0 is c[0]
	Measurements []Measurement
}

// BitString renders the classical register with c[0] rightmost, the way
// QASM tools print counts.
func (r Result) BitString() string {
	var sb strings.Builder
	for i := len(r.Bits) - 1; i >= 0; i-- {
		sb.WriteByte('0' + byte(r.Bits[i]))
	}
	return sb.String()
}

// Run applies the circuit to s in order. The state must be at least as wide
// as the circuit. Reset measures the qubit and flips it back when it read 1.
// The context is checked between operations.
func (c *Circuit) Run(ctx context.Context, s *quantum.State) (Result, error) {
	res := Result{Bits: make([]int, c.NumCbits)}
	if c.NumQubits > s.NumQubits() {
		return res, fmt.Errorf("circuit needs %d qubits, state has %d: %w",
			c.NumQubits, s.NumQubits(), quantum.ErrInvalidQubitIndex)
	}

	for i, g := range c.Gates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := c.step(s, g, &res); err != nil {
			if g.Line > 0 {
				return res, fmt.Errorf("gate %d (line %d): %w", i, g.Line, err)
			}
			return res, fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return res, nil
}

func (c *Circuit) step(s *quantum.State, g Gate, res *Result) error {
	switch g.Type {
	case TypeBarrier:
		return nil
	case TypeMeasure:
		bit, err := s.Measure(g.Target)
		if err != nil {
			return err
		}
		if g.Cbit >= 0 && g.Cbit < len(res.Bits) {
			res.Bits[g.Cbit] = bit
		}
		res.Measurements = append(res.Measurements, Measurement{Qubit: g.Target, Cbit: g.Cbit, Outcome: bit})
		return nil
	case TypeReset:
		bit, err := s.Measure(g.Target)
		if err != nil {
			return err
		}
		if bit == 1 {
			return s.ApplyX(g.Target)
		}
		return nil
	default:
		return s.Apply(g.Descriptor())
	}
}

// Simulate runs c on a fresh state of c.NumQubits qubits and returns the
// final state with the classical result. The caller owns the state.
func Simulate(ctx context.Context, c *Circuit, opts ...quantum.Option) (*quantum.State, Result, error) {
	s, err := quantum.New(c.NumQubits, opts...)
	if err != nil {
		return nil, Result{}, err
	}
	res, err := c.Run(ctx, s)
	if err != nil {
		s.Close()
		return nil, res, err
	}
	return s, res, nil
}
