// Package irs implements the modified IRS send filter (ITU-T P.48 /
// G.191) used to band-limit speech to the telephone channel before
// perceptual quality work. The filter is a cascade of second-order
// sections designed for 8 kHz material.
package irs

import (
	"errors"
	"fmt"
)

// SampleRate is the only rate the coefficient set is valid at.
const SampleRate = 8000

// ErrUnsupportedRate is returned for input at any other sample rate;
// resampling is the caller's concern.
var ErrUnsupportedRate = errors.New("irs: filter is defined at 8 kHz only")

// section is one biquad with a0 normalized to 1, run in transposed
// direct form II.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (s *section) apply(x []float64) {
	var z1, z2 float64
	for i, v := range x {
		y := s.b0*v + z1
		z1 = s.b1*v - s.a1*y + z2
		z2 = s.b2*v - s.a2*y
		x[i] = y
	}
}

// Modified IRS send characteristic at 8 kHz, per the ITU-T G.191
// software tools library: a first-order high-pass followed by a
// resonant section. Both poles sit inside the unit circle.
var sendSections = []section{
	{b0: 1, b1: -1, b2: 0, a1: -0.9375, a2: 0},
	{b0: 1, b1: 0.4375, b2: 0, a1: -1.4375, a2: 0.53125},
}

// Send runs the modified IRS send filter over a copy of x. The input is
// never modified.
func Send(x []float64, sampleRate int) ([]float64, error) {
	if sampleRate != SampleRate {
		return nil, fmt.Errorf("%w: got %d Hz", ErrUnsupportedRate, sampleRate)
	}
	out := make([]float64, len(x))
	copy(out, x)
	for i := range sendSections {
		sec := sendSections[i]
		sec.apply(out)
	}
	return out, nil
}
