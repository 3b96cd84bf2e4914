package quantum

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// underflowEpsilon is the smallest outcome probability Measure renormalizes by.
const underflowEpsilon = 1e-24

// Probability returns the probability that measuring target yields value.
// The state is not modified.
func (s *State) Probability(target, value int) (float64, error) {
	if err := s.checkQubits("probability", target); err != nil {
		return 0, err
	}
	if value != 0 && value != 1 {
		return 0, fmt.Errorf("probability: %w: %d", ErrInvalidOutcome, value)
	}
	p0, p1 := s.marginals(target)
	if value == 1 {
		return p1, nil
	}
	return p0, nil
}

// marginals sums the squared magnitudes on each side of the target bit.
func (s *State) marginals(target int) (p0, p1 float64) {
	mask := 1 << target
	amps := s.amps
	return s.sumPair(func(sp span) (float64, float64) {
		var zero, one float64
		for i := sp.lo; i < sp.hi; i++ {
			p := SquaredMagnitude(amps[i])
			if i&mask != 0 {
				one += p
			} else {
				zero += p
			}
		}
		return zero, one
	})
}

// Measure performs a projective measurement of target and returns 0 or 1.
//
// A uniform r in [0,1) is drawn from the State's generator and the outcome is
// 1 exactly when r < P(1). Amplitudes consistent with the outcome are then
// renormalized and all others zeroed. If the outcome's probability is too
// small to divide by, Measure returns an error wrapping
// ErrRenormalizationUnderflow and leaves the state unmodified.
func (s *State) Measure(target int) (int, error) {
	start := time.Now()
	outcome, err := s.measure(target)
	s.observer.Measured(target, outcome, time.Since(start), err)
	return outcome, err
}

func (s *State) measure(target int) (int, error) {
	if err := s.checkQubits("measure", target); err != nil {
		return 0, err
	}

	p0, p1 := s.marginals(target)
	r := s.rng.Float64()
	outcome, p := 0, p0
	if r < p1 {
		outcome, p = 1, p1
	}

	if p < underflowEpsilon || math.IsNaN(p) {
		s.logger.Warn("measurement underflow", "qubit", target, "outcome", outcome, "probability", p)
		return outcome, &UnderflowError{Qubit: target, Outcome: outcome, Probability: p}
	}

	mask := 1 << target
	keep := 0
	if outcome == 1 {
		keep = mask
	}
	scale := complex(1/math.Sqrt(p), 0)
	s.inPlace(func(amps []Complex, sp span) {
		for i := sp.lo; i < sp.hi; i++ {
			if i&mask == keep {
				amps[i] *= scale
			} else {
				amps[i] = 0
			}
		}
	})

	s.logger.Debug("measured", "qubit", target, "outcome", outcome, "probability", p, "draw", r)
	return outcome, nil
}

// MeasureAll measures every qubit from 0 upwards and returns the basis index
// the register collapsed to. Qubits are collapsed one at a time: if a later
// qubit fails with ErrRenormalizationUnderflow, the qubits before it stay
// collapsed and the failing qubit and those after it are untouched.
func (s *State) MeasureAll() (int, error) {
	if s.amps == nil {
		return 0, ErrClosed
	}
	index := 0
	for q := range s.numQubits {
		bit, err := s.Measure(q)
		if err != nil {
			return 0, err
		}
		index |= bit << q
	}
	return index, nil
}

// QubitProbability holds the marginal probabilities of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginals of every qubit in a single pass.
func (s *State) QubitProbabilities() ([]QubitProbability, error) {
	if s.amps == nil {
		return nil, ErrClosed
	}
	nq := s.numQubits
	amps := s.amps
	partials := make([][]float64, len(s.spans))
	s.fanOut(func(k int, sp span) {
		ones := make([]float64, nq+1) // last slot holds the span total
		for i := sp.lo; i < sp.hi; i++ {
			p := SquaredMagnitude(amps[i])
			ones[nq] += p
			for q := range nq {
				if i&(1<<q) != 0 {
					ones[q] += p
				}
			}
		}
		partials[k] = ones
	})

	totals := make([]float64, nq+1)
	for _, part := range partials {
		for q, v := range part {
			totals[q] += v
		}
	}
	probs := make([]QubitProbability, nq)
	for q := range nq {
		probs[q] = QubitProbability{Prob0: totals[nq] - totals[q], Prob1: totals[q]}
	}
	return probs, nil
}

// Sample draws shots basis indices from the state's distribution without
// collapsing it and returns how often each index was drawn.
func (s *State) Sample(shots int) (map[int]int, error) {
	if s.amps == nil {
		return nil, ErrClosed
	}
	if shots < 1 {
		return nil, fmt.Errorf("sample: %w: %d", ErrInvalidShots, shots)
	}

	cdf := make([]float64, len(s.amps))
	var acc float64
	last := 0 // highest index with nonzero probability
	for i, a := range s.amps {
		if p := SquaredMagnitude(a); p != 0 {
			acc += p
			last = i
		}
		cdf[i] = acc
	}

	counts := make(map[int]int)
	for range shots {
		r := s.rng.Float64() * acc
		// First entry whose cumulative weight exceeds r; zero-probability
		// entries share their predecessor's value and are never chosen.
		idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] > r })
		if idx > last {
			idx = last
		}
		counts[idx]++
	}
	return counts, nil
}
