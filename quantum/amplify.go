package quantum

import (
	"fmt"
	"math"
	"time"
)

// MeanMagnitude returns the average of |a| over all amplitudes. It is an
// unsigned mean: phases do not cancel.
func (s *State) MeanMagnitude() (float64, error) {
	if s.amps == nil {
		return 0, ErrClosed
	}
	amps := s.amps
	total := s.sum(func(sp span) float64 {
		var acc float64
		for _, a := range amps[sp.lo:sp.hi] {
			acc += Magnitude(a)
		}
		return acc
	})
	return total / float64(len(amps)), nil
}

// RescaleMagnitudes multiplies every nonzero amplitude a by target/|a|, so
// each ends up with magnitude target and its original phase. Zero
// amplitudes have no phase and are left at zero.
//
// The result is generally not normalized; this is the diffusion step of the
// search driver, kept as that driver defines it.
func (s *State) RescaleMagnitudes(target float64) error {
	start := time.Now()
	var err error
	switch {
	case s.amps == nil:
		err = ErrClosed
	case math.IsNaN(target) || math.IsInf(target, 0) || target < 0:
		err = fmt.Errorf("rescale: invalid magnitude %v", target)
	default:
		s.inPlace(func(amps []Complex, sp span) {
			for i := sp.lo; i < sp.hi; i++ {
				a := amps[i]
				// target/mag overflows for subnormal magnitudes; scale the
				// unit components instead.
				if mag := Magnitude(a); mag != 0 {
					amps[i] = complex(target*(real(a)/mag), target*(imag(a)/mag))
				}
			}
		})
	}
	s.observer.GateApplied("diffuse", time.Since(start), err)
	return err
}
