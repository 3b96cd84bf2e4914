package quantum

import (
	"math"
	"math/cmplx"
)

// Complex is the amplitude type. Go's complex128 already provides addition,
// multiplication and conjugation; the helpers below cover the rest.
type Complex = complex128

// SquaredMagnitude returns |a|², the measurement probability of an amplitude.
func SquaredMagnitude(a Complex) float64 {
	re, im := real(a), imag(a)
	return re*re + im*im
}

// Magnitude returns |a|.
func Magnitude(a Complex) float64 {
	return cmplx.Abs(a)
}

// Conj returns the complex conjugate of a.
func Conj(a Complex) Complex {
	return cmplx.Conj(a)
}

// unitPhase returns cos(angle) + i·sin(angle).
func unitPhase(angle float64) Complex {
	return complex(math.Cos(angle), math.Sin(angle))
}

func isFinite(a Complex) bool {
	return !cmplx.IsNaN(a) && !cmplx.IsInf(a)
}
