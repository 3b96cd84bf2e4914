package algorithms

import (
	"fmt"
	"math"

	"qtermsim/quantum"
)

// PrepareUniform puts every qubit of s into equal superposition.
func PrepareUniform(s *quantum.State) error {
	for q := range s.NumQubits() {
		if err := s.ApplyHadamard(q); err != nil {
			return err
		}
	}
	return nil
}

// OptimalIterations returns ⌊π/4·√N⌋ for an n-qubit search space, the
// iteration count textbook amplitude amplification peaks at. Counts outside
// [0, quantum.MaxQubits] return 0.
func OptimalIterations(numQubits int) int {
	if numQubits < 0 || numQubits > quantum.MaxQubits {
		return 0
	}
	return int(math.Floor(math.Pi / 4 * math.Sqrt(float64(uint64(1)<<numQubits))))
}

// Diffuse rescales every amplitude of s to twice the mean magnitude while
// keeping its phase, i.e. multiplies a by 2·mean/|a|. Amplitudes that are
// exactly zero stay zero.
//
// This is not the reflection about the mean used by textbook Grover search,
// and it does not conserve the norm of the state in general: after the call
// every nonzero amplitude has the same magnitude.
func Diffuse(s *quantum.State) error {
	mean, err := s.MeanMagnitude()
	if err != nil {
		return err
	}
	return s.RescaleMagnitudes(2 * mean)
}

// Grover runs iterations rounds of marking the basis state marked with a sign
// flip followed by Diffuse. The state is used as given; callers normally
// start from PrepareUniform.
func Grover(s *quantum.State, marked, iterations int) error {
	if iterations < 0 {
		return fmt.Errorf("grover: negative iteration count %d", iterations)
	}
	for range iterations {
		if err := s.FlipSign(marked); err != nil {
			return fmt.Errorf("grover: mark %d: %w", marked, err)
		}
		if err := Diffuse(s); err != nil {
			return fmt.Errorf("grover: diffuse: %w", err)
		}
	}
	return nil
}
