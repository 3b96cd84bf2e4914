// Package quantum implements a state-vector simulator.
//
// A State holds 2^n complex amplitudes for n qubits. Bit q of a basis index
// is the value of qubit q, with qubit 0 the least significant bit. Gates are
// applied in place with one full pass over the vector; passes over large
// states are split across goroutines.
//
// A State is not safe for concurrent use. Independent States are.
package quantum

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
)

// MaxQubits is the largest register New accepts.
const MaxQubits = 30

// NormTolerance is the allowed drift of the total probability from 1.
const NormTolerance = 1e-9

// State is a pure quantum state over NumQubits qubits.
type State struct {
	numQubits int
	amps      []Complex
	scratch   []Complex // snapshot buffer, swapped with amps by coupling gates
	spans     []span
	workers   int
	rng       *rand.Rand
	logger    *slog.Logger
	observer  Observer
}

// New returns the state |0…0⟩ over numQubits qubits.
func New(numQubits int, opts ...Option) (*State, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidQubitCount, numQubits, MaxQubits)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	n := 1 << numQubits
	need := requiredBytes(numQubits)
	limit := o.memoryLimit
	if limit == 0 {
		limit = totalMemory()
	}
	if limit != 0 && need > limit {
		return nil, fmt.Errorf("%w: %d qubits need %d bytes, limit is %d", ErrAllocationFailure, numQubits, need, limit)
	}

	amps, err := allocate(n)
	if err != nil {
		return nil, err
	}
	scratch, err := allocate(n)
	if err != nil {
		return nil, err
	}
	amps[0] = 1

	s := &State{
		numQubits: numQubits,
		amps:      amps,
		scratch:   scratch,
		spans:     partition(n, o.workers, o.threshold),
		workers:   o.workers,
		rng:       o.rng,
		logger:    o.logger,
		observer:  o.observer,
	}
	s.logger.Debug("state created", "qubits", numQubits, "states", n, "bytes", need, "spans", len(s.spans))
	return s, nil
}

// requiredBytes is the storage New allocates: the amplitudes and the snapshot buffer.
func requiredBytes(numQubits int) uint64 {
	return 2 * (uint64(1) << numQubits) * 16
}

func allocate(n int) (buf []Complex, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %v", ErrAllocationFailure, r)
		}
	}()
	return make([]Complex, n), nil
}

// Close releases the amplitude storage. Further operations return ErrClosed.
// Calling Close more than once is a no-op.
func (s *State) Close() {
	if s.amps == nil {
		return
	}
	s.amps = nil
	s.scratch = nil
	s.logger.Debug("state closed", "qubits", s.numQubits)
}

// Closed reports whether Close has been called.
func (s *State) Closed() bool { return s.amps == nil }

func (s *State) NumQubits() int { return s.numQubits }

func (s *State) NumStates() int { return 1 << s.numQubits }

// Amplitude returns the amplitude of basis state index.
func (s *State) Amplitude(index int) (Complex, error) {
	if err := s.checkBasis("amplitude", index); err != nil {
		return 0, err
	}
	return s.amps[index], nil
}

// Amplitudes returns a copy of the amplitude vector, or nil after Close.
func (s *State) Amplitudes() []Complex {
	if s.amps == nil {
		return nil
	}
	out := make([]Complex, len(s.amps))
	copy(out, s.amps)
	return out
}

// Clone returns an independent copy. The copy's generator is seeded from
// this State's generator, so seeded runs stay reproducible.
func (s *State) Clone() (*State, error) {
	if s.amps == nil {
		return nil, ErrClosed
	}
	amps, err := allocate(len(s.amps))
	if err != nil {
		return nil, err
	}
	scratch, err := allocate(len(s.amps))
	if err != nil {
		return nil, err
	}
	copy(amps, s.amps)
	return &State{
		numQubits: s.numQubits,
		amps:      amps,
		scratch:   scratch,
		spans:     s.spans,
		workers:   s.workers,
		rng:       rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64())),
		logger:    s.logger,
		observer:  s.observer,
	}, nil
}

// Reset returns the state to |0…0⟩.
func (s *State) Reset() error {
	if s.amps == nil {
		return ErrClosed
	}
	s.inPlace(func(amps []Complex, sp span) {
		clear(amps[sp.lo:sp.hi])
	})
	s.amps[0] = 1
	return nil
}

// Norm returns the sum of squared magnitudes, which is 1 for a valid state.
func (s *State) Norm() float64 {
	if s.amps == nil {
		return 0
	}
	amps := s.amps
	return s.sum(func(sp span) float64 {
		var acc float64
		for _, a := range amps[sp.lo:sp.hi] {
			acc += SquaredMagnitude(a)
		}
		return acc
	})
}

// Normalized reports whether Norm is within NormTolerance of 1.
func (s *State) Normalized() bool {
	return math.Abs(s.Norm()-1) <= NormTolerance
}

func (s *State) checkQubits(op string, qubits ...int) error {
	if s.amps == nil {
		return ErrClosed
	}
	for i, q := range qubits {
		if q < 0 || q >= s.numQubits {
			return &QubitError{Op: op, Qubit: q, NumQubits: s.numQubits}
		}
		for _, prev := range qubits[:i] {
			if prev == q {
				return &QubitError{Op: op, Qubit: q, NumQubits: s.numQubits, Duplicate: true}
			}
		}
	}
	return nil
}

func (s *State) checkBasis(op string, index int) error {
	if s.amps == nil {
		return ErrClosed
	}
	if index < 0 || index >= len(s.amps) {
		return fmt.Errorf("%s: %w: %d not in [0,%d)", op, ErrInvalidBasisIndex, index, len(s.amps))
	}
	return nil
}
