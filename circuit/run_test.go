package circuit

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/quantum"
)

func TestRunBellCorrelated(t *testing.T) {
	c, err := Parse(bellQASM)
	require.NoError(t, err)

	for seed := range uint64(50) {
		s, res, err := Simulate(context.Background(), c, quantum.WithSeed(seed))
		require.NoError(t, err)
		require.Len(t, res.Bits, 2)
		require.Len(t, res.Measurements, 2)
		assert.Equal(t, res.Bits[0], res.Bits[1], "seed %d", seed)
		assert.Contains(t, []string{"00", "11"}, res.BitString())
		assert.True(t, s.Normalized())
		s.Close()
	}
}

func TestRunMatchesDirectCalls(t *testing.T) {
	c := New(3)
	c.AddGate("h", 0).
		AddGate("cx", 1, 0).
		AddParameterizedGate("rz", 1, 0.3).
		AddGate("t", 2).
		AddGate("ccx", 2, 0, 1).
		AddParameterizedGate("p", 0, math.Pi/3)

	s, err := quantum.New(3)
	require.NoError(t, err)
	_, err = c.Run(context.Background(), s)
	require.NoError(t, err)

	want, err := quantum.New(3)
	require.NoError(t, err)
	require.NoError(t, want.ApplyHadamard(0))
	require.NoError(t, want.ApplyCNOT(0, 1))
	require.NoError(t, want.ApplyRZ(1, 0.3))
	require.NoError(t, want.ApplyT(2))
	require.NoError(t, want.ApplyToffoli(0, 1, 2))
	require.NoError(t, want.ApplyPhase(0, math.Pi/3))

	got, exp := s.Amplitudes(), want.Amplitudes()
	for i := range exp {
		assert.InDelta(t, real(exp[i]), real(got[i]), 1e-12, "index %d", i)
		assert.InDelta(t, imag(exp[i]), imag(got[i]), 1e-12, "index %d", i)
	}
}

func TestRunReset(t *testing.T) {
	c := New(2)
	c.AddGate("x", 0).AddGate("h", 1).AddReset(0).AddReset(1).AddMeasure(0, 0).AddMeasure(1, 1)

	for seed := range uint64(20) {
		s, res, err := Simulate(context.Background(), c, quantum.WithSeed(seed))
		require.NoError(t, err)
		assert.Equal(t, "00", res.BitString())
		a, err := s.Amplitude(0)
		require.NoError(t, err)
		assert.InDelta(t, 1, quantum.SquaredMagnitude(a), 1e-12)
		s.Close()
	}
}

func TestRunBitString(t *testing.T) {
	c := New(3)
	c.AddGate("x", 0).AddGate("x", 2).AddMeasure(0, 0).AddMeasure(1, 1).AddMeasure(2, 2)

	_, res, err := Simulate(context.Background(), c, quantum.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, res.Bits)
	assert.Equal(t, "101", res.BitString())
}

func TestRunErrors(t *testing.T) {
	wide := New(3).AddGate("h", 2)
	s, err := quantum.New(2)
	require.NoError(t, err)
	_, err = wide.Run(context.Background(), s)
	assert.ErrorIs(t, err, quantum.ErrInvalidQubitIndex)

	c, err := Parse("qreg q[2];\nh q[0];\ncx q[0], q[1];")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)

	s.Close()
	_, err = c.Run(context.Background(), s)
	assert.ErrorIs(t, err, quantum.ErrClosed)
	assert.ErrorContains(t, err, "line 2")
}

func TestRunPrefix(t *testing.T) {
	c, err := Parse(bellQASM)
	require.NoError(t, err)

	s, _, err := Simulate(context.Background(), c.Prefix(1))
	require.NoError(t, err)
	p, err := s.Probability(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)
	p, err = s.Probability(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, p, 1e-12)
}
