package quantum

import (
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"
)

// DefaultParallelThreshold is the smallest state size that is split across workers.
const DefaultParallelThreshold = 1 << 12

// Observer receives timing and outcome notifications from a State.
// Implementations must be safe for use by independent States concurrently.
type Observer interface {
	GateApplied(gate string, elapsed time.Duration, err error)
	Measured(qubit, outcome int, elapsed time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) GateApplied(string, time.Duration, error) {}

func (noopObserver) Measured(int, int, time.Duration, error) {}

type options struct {
	workers     int
	threshold   int
	rng         *rand.Rand
	logger      *slog.Logger
	observer    Observer
	memoryLimit uint64
}

// Option configures a State at construction.
type Option func(*options)

func defaultOptions() options {
	return options{
		workers:   runtime.GOMAXPROCS(0),
		threshold: DefaultParallelThreshold,
		logger:    slog.New(slog.DiscardHandler),
		observer:  noopObserver{},
	}
}

// WithWorkers sets how many goroutines a single pass may fan out to.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithParallelThreshold sets the minimum number of amplitudes before a pass
// is split across workers. Smaller states are processed on the caller's goroutine.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.threshold = n
	}
}

// WithSeed makes measurement draws reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand hands the State an existing generator. The State becomes its only user.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithLogger sets the logger used for debug output. nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers an Observer for gate and measurement events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithMemoryLimit caps the bytes New may allocate for amplitude storage.
// Zero uses the total memory of the machine when it can be determined.
func WithMemoryLimit(bytes uint64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}
