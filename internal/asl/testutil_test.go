package asl

import "math"

// lcg is a small deterministic random source for test signals, so test
// inputs never depend on process-wide random state.
type lcg struct{ state uint32 }

// next returns a value in [-1, 1).
func (l *lcg) next() float64 {
	// LCG parameters from Numerical Recipes
	l.state = l.state*1664525 + 1013904223
	return (float64(l.state)/float64(0xFFFFFFFF))*2.0 - 1.0
}

// noiseSignal generates n samples of deterministic white noise with the
// given peak amplitude.
func noiseSignal(n int, amp float64, seed uint32) []float64 {
	rng := lcg{state: seed}
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * rng.next()
	}
	return out
}

// toneSignal generates a sine wave.
func toneSignal(n, sampleRate int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

// gatedToneSignal generates a sine wave switched on and off with the
// given period and duty cycle, approximating utterances with pauses.
func gatedToneSignal(n, sampleRate int, freq, amp, periodSecs, duty float64) []float64 {
	out := toneSignal(n, sampleRate, freq, amp)
	period := int(periodSecs * float64(sampleRate))
	on := int(float64(period) * duty)
	for i := range out {
		if i%period >= on {
			out[i] = 0
		}
	}
	return out
}
