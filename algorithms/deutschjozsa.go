package algorithms

import (
	"fmt"

	"qtermsim/quantum"
)

// Oracle applies U_f|x⟩|y⟩ = |x⟩|y ⊕ f(x)⟩ with inputs on qubits [0, n) and
// the output on qubit ancilla.
type Oracle interface {
	Apply(s *quantum.State, n, ancilla int) error
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(s *quantum.State, n, ancilla int) error

func (f OracleFunc) Apply(s *quantum.State, n, ancilla int) error { return f(s, n, ancilla) }

// ConstantOracle returns an oracle for f(x) = bit.
func ConstantOracle(bit int) Oracle {
	return OracleFunc(func(s *quantum.State, _, ancilla int) error {
		if bit&1 == 0 {
			return nil
		}
		return s.ApplyX(ancilla)
	})
}

// BalancedParityOracle returns an oracle for f(x) = parity of x.
func BalancedParityOracle() Oracle {
	return OracleFunc(func(s *quantum.State, n, ancilla int) error {
		for q := range n {
			if err := s.ApplyCNOT(q, ancilla); err != nil {
				return err
			}
		}
		return nil
	})
}

// BalancedBitOracle returns an oracle for f(x) = bit q of x.
func BalancedBitOracle(q int) Oracle {
	return OracleFunc(func(s *quantum.State, n, ancilla int) error {
		if q < 0 || q >= n {
			return fmt.Errorf("balanced bit oracle: %w: %d", quantum.ErrInvalidQubitIndex, q)
		}
		return s.ApplyCNOT(q, ancilla)
	})
}

// Verdict is the answer of DeutschJozsa.
type Verdict int

const (
	Constant Verdict = iota
	Balanced
)

func (v Verdict) String() string {
	if v == Balanced {
		return "balanced"
	}
	return "constant"
}

// DeutschJozsa decides whether oracle computes a constant or a balanced
// function of n input bits with a single oracle call. It uses n+1 qubits,
// the last one as the phase-kickback ancilla. opts are passed to quantum.New.
func DeutschJozsa(n int, oracle Oracle, opts ...quantum.Option) (Verdict, error) {
	s, err := quantum.New(n+1, opts...)
	if err != nil {
		return Constant, err
	}
	defer s.Close()

	ancilla := n
	if err := s.ApplyX(ancilla); err != nil {
		return Constant, err
	}
	if err := PrepareUniform(s); err != nil {
		return Constant, err
	}
	if err := oracle.Apply(s, n, ancilla); err != nil {
		return Constant, fmt.Errorf("deutsch-jozsa: oracle: %w", err)
	}
	for q := range n {
		if err := s.ApplyHadamard(q); err != nil {
			return Constant, err
		}
	}

	for q := range n {
		bit, err := s.Measure(q)
		if err != nil {
			return Constant, fmt.Errorf("deutsch-jozsa: measure %d: %w", q, err)
		}
		if bit == 1 {
			return Balanced, nil
		}
	}
	return Constant, nil
}
