package quantum

import (
	"fmt"
	"math"
	"time"
)

// gate validates the qubits, then runs body and reports to the observer.
// Nothing is mutated when validation fails.
func (s *State) gate(name string, body func(), qubits ...int) error {
	start := time.Now()
	err := s.checkQubits(name, qubits...)
	if err == nil {
		body()
	}
	s.observer.GateApplied(name, time.Since(start), err)
	return err
}

func checkAngle(name string, angle float64) error {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return fmt.Errorf("%s: %w: %v", name, ErrInvalidAngle, angle)
	}
	return nil
}

// ApplyX flips target: the amplitudes of each index pair differing in the
// target bit are exchanged.
func (s *State) ApplyX(target int) error {
	return s.gate("x", func() {
		mask := 1 << target
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				out[i^mask] = old[i]
			}
		})
	}, target)
}

// ApplyY is a bit flip combined with a phase of +i on |0⟩→|1⟩ and -i on |1⟩→|0⟩.
func (s *State) ApplyY(target int) error {
	return s.gate("y", func() {
		mask := 1 << target
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&mask == 0 {
					out[i^mask] = old[i] * 1i
				} else {
					out[i^mask] = old[i] * -1i
				}
			}
		})
	}, target)
}

// ApplyZ negates every amplitude whose target bit is 1.
func (s *State) ApplyZ(target int) error {
	return s.gate("z", func() {
		s.phaseOnBit(target, -1)
	}, target)
}

// ApplyHadamard puts target into equal superposition:
// |0⟩ → (|0⟩+|1⟩)/√2, |1⟩ → (|0⟩-|1⟩)/√2.
func (s *State) ApplyHadamard(target int) error {
	return s.gate("h", func() {
		mask := 1 << target
		f := complex(1/math.Sqrt2, 0)
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&mask == 0 {
					out[i] = f*old[i^mask] + f*old[i]
				} else {
					out[i] = f*old[i^mask] - f*old[i]
				}
			}
		})
	}, target)
}

// ApplyPhase multiplies every amplitude whose target bit is 1 by e^{i·angle}.
func (s *State) ApplyPhase(target int, angle float64) error {
	if err := checkAngle("p", angle); err != nil {
		return err
	}
	return s.gate("p", func() {
		s.phaseOnBit(target, unitPhase(angle))
	}, target)
}

func (s *State) ApplyS(target int) error { return s.namedPhase("s", target, math.Pi/2) }

func (s *State) ApplySdg(target int) error { return s.namedPhase("sdg", target, -math.Pi/2) }

func (s *State) ApplyT(target int) error { return s.namedPhase("t", target, math.Pi/4) }

func (s *State) ApplyTdg(target int) error { return s.namedPhase("tdg", target, -math.Pi/4) }

func (s *State) namedPhase(name string, target int, angle float64) error {
	return s.gate(name, func() {
		s.phaseOnBit(target, unitPhase(angle))
	}, target)
}

// phaseOnBit multiplies amplitudes whose target bit is 1 by factor. No snapshot
// is needed since each index only reads itself.
func (s *State) phaseOnBit(target int, factor Complex) {
	mask := 1 << target
	s.inPlace(func(amps []Complex, sp span) {
		for i := sp.lo; i < sp.hi; i++ {
			if i&mask != 0 {
				amps[i] *= factor
			}
		}
	})
}

// ApplyRX rotates target about the X axis by angle.
func (s *State) ApplyRX(target int, angle float64) error {
	if err := checkAngle("rx", angle); err != nil {
		return err
	}
	return s.gate("rx", func() {
		mask := 1 << target
		c := complex(math.Cos(angle/2), 0)
		js := complex(0, -math.Sin(angle/2))
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				out[i] = c*old[i] + js*old[i^mask]
			}
		})
	}, target)
}

// ApplyRY rotates target about the Y axis by angle.
func (s *State) ApplyRY(target int, angle float64) error {
	if err := checkAngle("ry", angle); err != nil {
		return err
	}
	return s.gate("ry", func() {
		mask := 1 << target
		c := complex(math.Cos(angle/2), 0)
		sn := complex(math.Sin(angle/2), 0)
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&mask == 0 {
					out[i] = c*old[i] - sn*old[i^mask]
				} else {
					out[i] = sn*old[i^mask] + c*old[i]
				}
			}
		})
	}, target)
}

// ApplyRZ rotates target about the Z axis by angle.
func (s *State) ApplyRZ(target int, angle float64) error {
	if err := checkAngle("rz", angle); err != nil {
		return err
	}
	return s.gate("rz", func() {
		mask := 1 << target
		one := unitPhase(angle / 2)
		zero := Conj(one)
		s.inPlace(func(amps []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&mask != 0 {
					amps[i] *= one
				} else {
					amps[i] *= zero
				}
			}
		})
	}, target)
}

// ApplyCNOT flips target on the subspace where control is 1.
func (s *State) ApplyCNOT(control, target int) error {
	return s.gate("cx", func() {
		cmask, mask := 1<<control, 1<<target
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&cmask != 0 {
					out[i^mask] = old[i]
				} else {
					out[i] = old[i]
				}
			}
		})
	}, control, target)
}

// ApplyToffoli flips target on the subspace where both c1 and c2 are 1.
func (s *State) ApplyToffoli(c1, c2, target int) error {
	return s.gate("ccx", func() {
		cmask, mask := 1<<c1|1<<c2, 1<<target
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&cmask == cmask {
					out[i^mask] = old[i]
				} else {
					out[i] = old[i]
				}
			}
		})
	}, c1, c2, target)
}

// ApplyCZ negates amplitudes where both qubits are 1. It is symmetric in its arguments.
func (s *State) ApplyCZ(control, target int) error {
	return s.gate("cz", func() {
		both := 1<<control | 1<<target
		s.inPlace(func(amps []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if i&both == both {
					amps[i] = -amps[i]
				}
			}
		})
	}, control, target)
}

// ApplySwap exchanges the values of qubits a and b.
func (s *State) ApplySwap(a, b int) error {
	return s.gate("swap", func() {
		ma, mb := 1<<a, 1<<b
		s.rewrite(func(old, out []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				if (i&ma == 0) != (i&mb == 0) {
					out[i^(ma|mb)] = old[i]
				} else {
					out[i] = old[i]
				}
			}
		})
	}, a, b)
}

// FlipSign negates the amplitude of a single basis state. Search oracles use
// it to mark the state being looked for.
func (s *State) FlipSign(index int) error {
	start := time.Now()
	err := s.checkBasis("flip", index)
	if err == nil {
		s.amps[index] = -s.amps[index]
	}
	s.observer.GateApplied("flip", time.Since(start), err)
	return err
}
