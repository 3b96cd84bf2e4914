package quantum

import "golang.org/x/sync/errgroup"

// span is a half-open index range [lo, hi) handled by one worker.
type span struct {
	lo, hi int
}

// partition splits [0, n) into contiguous spans, one per worker, unless n is
// below threshold in which case a single span covers everything.
func partition(n, workers, threshold int) []span {
	if workers <= 1 || n < threshold {
		return []span{{0, n}}
	}
	size := (n + workers - 1) / workers
	spans := make([]span, 0, workers)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, span{lo, min(lo+size, n)})
	}
	return spans
}

// fanOut runs fn once per span and waits for all of them.
// fn receives the span's position so reductions can write a private partial.
func (s *State) fanOut(fn func(k int, sp span)) {
	if len(s.spans) == 1 {
		fn(0, s.spans[0])
		return
	}
	var g errgroup.Group
	g.SetLimit(s.workers)
	for k, sp := range s.spans {
		g.Go(func() error {
			fn(k, sp)
			return nil
		})
	}
	// Workers never fail; the group is only a bounded WaitGroup here.
	_ = g.Wait()
}

// sum reduces fn over all spans. Partials are merged in span order so the
// result does not depend on goroutine scheduling.
func (s *State) sum(fn func(sp span) float64) float64 {
	partials := make([]float64, len(s.spans))
	s.fanOut(func(k int, sp span) {
		partials[k] = fn(sp)
	})
	var total float64
	for _, p := range partials {
		total += p
	}
	return total
}

// sumPair is sum for reductions that accumulate two values in one pass.
func (s *State) sumPair(fn func(sp span) (float64, float64)) (float64, float64) {
	partials := make([][2]float64, len(s.spans))
	s.fanOut(func(k int, sp span) {
		a, b := fn(sp)
		partials[k] = [2]float64{a, b}
	})
	var ta, tb float64
	for _, p := range partials {
		ta += p[0]
		tb += p[1]
	}
	return ta, tb
}

// rewrite runs the snapshot-then-rewrite protocol: fn reads old and writes
// out for every index in its span, then the buffers swap. Every fn must write
// each output index exactly once across all spans.
func (s *State) rewrite(fn func(old, out []Complex, sp span)) {
	old, out := s.amps, s.scratch
	s.fanOut(func(_ int, sp span) {
		fn(old, out, sp)
	})
	s.amps, s.scratch = out, old
}

// inPlace runs fn over every span of the live amplitude buffer.
func (s *State) inPlace(fn func(amps []Complex, sp span)) {
	amps := s.amps
	s.fanOut(func(_ int, sp span) {
		fn(amps, sp)
	})
}
