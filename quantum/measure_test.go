package quantum

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource makes every draw return the same value. Float64 uses the low
// 53 bits, so constSource(x * (1<<53)) draws x.
type constSource uint64

func (c constSource) Uint64() uint64 { return uint64(c) }

func TestProbabilityCompleteness(t *testing.T) {
	s, err := New(5)
	require.NoError(t, err)
	scramble(t, s)

	for q := range 5 {
		p0, err := s.Probability(q, 0)
		require.NoError(t, err)
		p1, err := s.Probability(q, 1)
		require.NoError(t, err)

		assert.InDelta(t, 1.0, p0+p1, tol, "qubit %d", q)
		assert.GreaterOrEqual(t, p0, 0.0)
		assert.LessOrEqual(t, p1, 1.0+tol)
	}
}

func TestProbabilityArguments(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	_, err = s.Probability(2, 0)
	assert.ErrorIs(t, err, ErrInvalidQubitIndex)
	_, err = s.Probability(0, 2)
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestQubitProbabilitiesMatchProbability(t *testing.T) {
	s, err := New(6, WithWorkers(3), WithParallelThreshold(1))
	require.NoError(t, err)
	scramble(t, s)

	probs, err := s.QubitProbabilities()
	require.NoError(t, err)
	require.Len(t, probs, 6)

	for q, qp := range probs {
		p0, err := s.Probability(q, 0)
		require.NoError(t, err)
		p1, err := s.Probability(q, 1)
		require.NoError(t, err)
		assert.InDelta(t, p0, qp.Prob0, tol)
		assert.InDelta(t, p1, qp.Prob1, tol)
	}
}

func TestMeasureCollapses(t *testing.T) {
	s, err := New(2, WithSeed(99))
	require.NoError(t, err)
	require.NoError(t, s.ApplyHadamard(0))
	require.NoError(t, s.ApplyCNOT(0, 1))

	outcome, err := s.Measure(0)
	require.NoError(t, err)
	require.Contains(t, []int{0, 1}, outcome)

	// The Bell pair is perfectly correlated.
	p, err := s.Probability(1, outcome)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, tol)
	assert.InDelta(t, 1.0, s.Norm(), tol)

	want := []Complex{1, 0, 0, 0}
	if outcome == 1 {
		want = []Complex{0, 0, 0, 1}
	}
	assertAmplitudesInDelta(t, want, s.Amplitudes(), tol)
}

func TestMeasureComparesAgainstProbabilityOfOne(t *testing.T) {
	// P(1) = 0.25. A draw of exactly 0.25 is not below it, so the outcome is 0.
	tests := []struct {
		name    string
		draw    float64
		outcome int
	}{
		{"draw below P(1)", 0.1, 1},
		{"draw at P(1)", 0.25, 0},
		{"draw above P(1)", 0.9, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(1, WithRand(rand.New(constSource(tc.draw*(1<<53)))))
			require.NoError(t, err)
			s.amps[0] = complex(math.Sqrt(0.75), 0)
			s.amps[1] = 0.5

			outcome, err := s.Measure(0)
			require.NoError(t, err)
			assert.Equal(t, tc.outcome, outcome)
		})
	}
}

func TestMeasureStatisticalConvergence(t *testing.T) {
	const trials = 10000
	s, err := New(1, WithSeed(2024))
	require.NoError(t, err)

	ones := 0
	for range trials {
		require.NoError(t, s.Reset())
		require.NoError(t, s.ApplyHadamard(0))
		outcome, err := s.Measure(0)
		require.NoError(t, err)
		ones += outcome
	}
	assert.InDelta(t, 0.5, float64(ones)/trials, 0.02)
}

func TestMeasureSeededRunsAreReproducible(t *testing.T) {
	run := func() []int {
		s, err := New(4, WithSeed(5))
		require.NoError(t, err)
		var out []int
		for range 20 {
			for q := range 4 {
				require.NoError(t, s.ApplyHadamard(q))
			}
			idx, err := s.MeasureAll()
			require.NoError(t, err)
			out = append(out, idx)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestMeasureUnderflowLeavesStateUnmodified(t *testing.T) {
	s, err := New(1, WithRand(rand.New(constSource(0))))
	require.NoError(t, err)

	// A draw of 0 selects outcome 1 even though its probability is 1e-40.
	s.amps[0] = 1
	s.amps[1] = 1e-20
	before := s.Amplitudes()

	outcome, err := s.Measure(0)
	assert.ErrorIs(t, err, ErrRenormalizationUnderflow)
	assert.Equal(t, 1, outcome)

	var ue *UnderflowError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 0, ue.Qubit)
	assert.InDelta(t, 1e-40, ue.Probability, 1e-45)
	assert.Equal(t, before, s.Amplitudes())
}

func TestMeasureAll(t *testing.T) {
	s, err := New(3, WithSeed(8))
	require.NoError(t, err)
	require.NoError(t, s.ApplyX(0))
	require.NoError(t, s.ApplyX(2))

	idx, err := s.MeasureAll()
	require.NoError(t, err)
	assert.Equal(t, 0b101, idx)
}

func TestMeasureAllUnderflowKeepsEarlierCollapse(t *testing.T) {
	// Every draw is 0, so each qubit reads 1 whenever P(1) > 0.
	s, err := New(2, WithRand(rand.New(constSource(0))))
	require.NoError(t, err)
	require.NoError(t, s.ApplyHadamard(0))
	require.NoError(t, s.ApplyRY(1, 2e-13)) // P(q1=1) ≈ 1e-26

	_, err = s.MeasureAll()
	require.ErrorIs(t, err, ErrRenormalizationUnderflow)

	amps := s.Amplitudes()
	assert.Zero(t, amps[0b00])
	assert.Zero(t, amps[0b10])
	assert.InDelta(t, 1.0, real(amps[0b01]), 1e-12)
	assert.InDelta(t, 1e-13, real(amps[0b11]), 1e-20)
}

func TestSample(t *testing.T) {
	s, err := New(2, WithSeed(17))
	require.NoError(t, err)
	require.NoError(t, s.ApplyHadamard(0))
	require.NoError(t, s.ApplyCNOT(0, 1))
	before := s.Amplitudes()

	counts, err := s.Sample(4000)
	require.NoError(t, err)

	assert.Equal(t, 4000, counts[0]+counts[3])
	assert.Zero(t, counts[1])
	assert.Zero(t, counts[2])
	assert.InDelta(t, 0.5, float64(counts[0])/4000, 0.05)
	assert.Equal(t, before, s.Amplitudes())

	_, err = s.Sample(0)
	assert.ErrorIs(t, err, ErrInvalidShots)
}

func TestSampleSkipsZeroProbabilityEntries(t *testing.T) {
	const n = 12
	last := 1<<n - 1

	// A zero draw must not land on the empty leading entries.
	s, err := New(n, WithRand(rand.New(constSource(0))))
	require.NoError(t, err)
	for q := range n {
		require.NoError(t, s.ApplyX(q))
	}
	counts, err := s.Sample(50)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{last: 50}, counts)

	// A draw at the top of [0,1) must not run past the last populated entry.
	s2, err := New(n, WithRand(rand.New(constSource(1<<53-1))))
	require.NoError(t, err)
	require.NoError(t, s2.ApplyX(0))
	require.NoError(t, s2.ApplyHadamard(1))
	counts, err = s2.Sample(10)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 10}, counts)
}
