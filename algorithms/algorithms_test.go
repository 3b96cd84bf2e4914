package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/quantum"
)

func TestDeutschJozsa(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		oracle Oracle
		want   Verdict
	}{
		{"constant zero", 3, ConstantOracle(0), Constant},
		{"constant one", 3, ConstantOracle(1), Constant},
		{"parity", 3, BalancedParityOracle(), Balanced},
		{"bit 0", 4, BalancedBitOracle(0), Balanced},
		{"bit 2", 4, BalancedBitOracle(2), Balanced},
		{"single input constant", 1, ConstantOracle(1), Constant},
		{"single input balanced", 1, BalancedParityOracle(), Balanced},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for seed := range uint64(5) {
				got, err := DeutschJozsa(tc.n, tc.oracle, quantum.WithSeed(seed))
				require.NoError(t, err)
				assert.Equal(t, tc.want, got, "seed %d", seed)
			}
		})
	}
}

func TestDeutschJozsaErrors(t *testing.T) {
	_, err := DeutschJozsa(0, ConstantOracle(0))
	require.NoError(t, err)

	_, err = DeutschJozsa(quantum.MaxQubits, ConstantOracle(0))
	assert.ErrorIs(t, err, quantum.ErrInvalidQubitCount)

	_, err = DeutschJozsa(2, BalancedBitOracle(5))
	assert.ErrorIs(t, err, quantum.ErrInvalidQubitIndex)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "constant", Constant.String())
	assert.Equal(t, "balanced", Balanced.String())
}

func TestPrepareUniform(t *testing.T) {
	s, err := quantum.New(3)
	require.NoError(t, err)
	require.NoError(t, PrepareUniform(s))

	want := 1 / math.Sqrt(8)
	for _, a := range s.Amplitudes() {
		assert.InDelta(t, want, real(a), 1e-9)
		assert.InDelta(t, 0, imag(a), 1e-9)
	}
}

func TestOptimalIterations(t *testing.T) {
	assert.Equal(t, 1, OptimalIterations(2))
	assert.Equal(t, 2, OptimalIterations(3))
	assert.Equal(t, 3, OptimalIterations(4))
	assert.Equal(t, 25, OptimalIterations(10))

	assert.Zero(t, OptimalIterations(-1))
	assert.Zero(t, OptimalIterations(quantum.MaxQubits+1))
	assert.Zero(t, OptimalIterations(64))
}

func TestDiffuseIsMagnitudeMeanRescale(t *testing.T) {
	s, err := quantum.New(2)
	require.NoError(t, err)
	require.NoError(t, PrepareUniform(s))
	require.NoError(t, s.FlipSign(2))

	// Every magnitude is 1/2, so the mean is 1/2 and each amplitude is
	// rescaled to magnitude 1 with its sign kept. Norm becomes 4.
	require.NoError(t, Diffuse(s))
	amps := s.Amplitudes()
	assert.InDelta(t, 1.0, real(amps[0]), 1e-9)
	assert.InDelta(t, -1.0, real(amps[2]), 1e-9)
	assert.InDelta(t, 4.0, s.Norm(), 1e-9)
}

func TestDiffuseKeepsZeroAmplitudes(t *testing.T) {
	s, err := quantum.New(2)
	require.NoError(t, err)

	// Only |00⟩ is populated: mean magnitude is 1/4, so it becomes 1/2.
	require.NoError(t, Diffuse(s))
	amps := s.Amplitudes()
	assert.InDelta(t, 0.5, real(amps[0]), 1e-9)
	for _, a := range amps[1:] {
		assert.Equal(t, quantum.Complex(0), a)
	}
}

func TestDiffuseSubnormalAmplitudeStaysFinite(t *testing.T) {
	s, err := quantum.New(1)
	require.NoError(t, err)
	// RY(2θ) leaves sin θ ≈ 1e-310 on |1⟩, a subnormal magnitude.
	require.NoError(t, s.ApplyRY(0, 2e-310))
	amps := s.Amplitudes()
	require.NotZero(t, amps[1])
	require.Less(t, real(amps[1]), 2.2250738585072014e-308)

	// Mean magnitude is 1/2, so both amplitudes are rescaled to 1.
	require.NoError(t, Diffuse(s))
	for i, a := range s.Amplitudes() {
		assert.False(t, math.IsNaN(real(a)) || math.IsNaN(imag(a)), "index %d: %v", i, a)
		assert.False(t, math.IsInf(real(a), 0) || math.IsInf(imag(a), 0), "index %d: %v", i, a)
		assert.InDelta(t, 1.0, real(a), 1e-9, "index %d", i)
		assert.InDelta(t, 0.0, imag(a), 1e-9, "index %d", i)
	}
}

func TestGrover(t *testing.T) {
	s, err := quantum.New(3)
	require.NoError(t, err)
	require.NoError(t, PrepareUniform(s))

	const marked = 5
	require.NoError(t, Grover(s, marked, 2))

	// The literal diffusion flattens magnitudes, leaving the marked state's
	// sign as the only thing distinguishing it.
	amps := s.Amplitudes()
	for i, a := range amps {
		assert.InDelta(t, math.Abs(real(amps[0])), math.Abs(real(a)), 1e-9, "index %d", i)
	}
	assert.False(t, s.Normalized())

	assert.ErrorIs(t, Grover(s, 8, 1), quantum.ErrInvalidBasisIndex)
	assert.Error(t, Grover(s, 0, -1))
}

func TestGroverZeroIterationsIsNoop(t *testing.T) {
	s, err := quantum.New(2)
	require.NoError(t, err)
	require.NoError(t, PrepareUniform(s))
	before := s.Amplitudes()

	require.NoError(t, Grover(s, 1, 0))
	assert.Equal(t, before, s.Amplitudes())
}
