// Package mixer blends noise into clean speech at a controlled
// signal-to-noise ratio, scaling noise against the P.56 active speech
// power when a measurement is available.
package mixer

import (
	"errors"
	"math"
	"math/rand"

	"github.com/linuxmatters/noisemix/internal/asl"
)

var (
	// ErrEmptySpeech is returned for a zero-length speech signal.
	ErrEmptySpeech = errors.New("mixer: empty speech signal")

	// ErrEmptyNoise is returned for a zero-length noise signal.
	ErrEmptyNoise = errors.New("mixer: empty noise signal")

	// ErrZeroPowerNoise is returned when the length-matched noise
	// carries no energy, leaving no way to reach any SNR.
	ErrZeroPowerNoise = errors.New("mixer: noise signal has zero power")
)

// Result describes one completed mix.
type Result struct {
	Mixed    []float64 // speech plus scaled noise, rescued from clipping
	Gain     float64   // linear gain applied to the noise before summing
	Peak     float64   // largest absolute sample of the raw sum
	Rescaled bool      // true when the raw sum exceeded full scale and was scaled back
}

// Mix sums speech with noise scaled so that the ratio of speech power
// to noise power equals targetSNRdB. The speech power is the active
// speech power when level carries one, and the whole-signal mean square
// otherwise (a valid, less accurate fallback). Noise shorter than the
// speech is tiled; noise longer than the speech is cut at a window
// chosen by rng, so the caller controls reproducibility (a nil rng
// always takes the leading window).
//
// If the raw sum exceeds full scale it is rescaled to peak at 1.0,
// which moves the achieved SNR slightly off target; Result.Rescaled
// flags that case for callers that need the exact ratio.
//
// Neither input slice is modified.
func Mix(speech, noise []float64, targetSNRdB float64, level *asl.Result, rng *rand.Rand) (Result, error) {
	if len(speech) == 0 {
		return Result{}, ErrEmptySpeech
	}
	if len(noise) == 0 {
		return Result{}, ErrEmptyNoise
	}
	matched := matchLength(noise, len(speech), rng)

	speechPower := meanSquare(speech)
	if level != nil && level.Active() {
		speechPower = level.Level * level.Level
	}

	noisePower := meanSquare(matched)
	if noisePower <= 0 {
		return Result{}, ErrZeroPowerNoise
	}

	gain := math.Sqrt(speechPower / (noisePower * math.Pow(10, targetSNRdB/10)))

	mixed := make([]float64, len(speech))
	var peak float64
	for i, s := range speech {
		v := s + gain*matched[i]
		mixed[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	res := Result{Mixed: mixed, Gain: gain, Peak: peak}
	if peak > 1.0 {
		inv := 1.0 / peak
		for i := range mixed {
			mixed[i] *= inv
		}
		res.Rescaled = true
	}
	return res, nil
}

// matchLength returns a noise segment of exactly n samples: shorter
// noise is tiled and truncated, longer noise is cut at a random offset.
func matchLength(noise []float64, n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	if len(noise) >= n {
		start := 0
		if len(noise) > n && rng != nil {
			start = rng.Intn(len(noise) - n + 1)
		}
		copy(out, noise[start:start+n])
		return out
	}
	for i := 0; i < n; i += len(noise) {
		copy(out[i:], noise)
	}
	return out
}

func meanSquare(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum / float64(len(x))
}
