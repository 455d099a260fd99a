// Package asl measures the active speech level of a digitized speech
// signal following ITU-T Recommendation P.56 Method B.
//
// The measurement runs in four stages: the rectified signal is smoothed
// into a slowly varying envelope, the envelope is widened by a hangover
// window so short pauses inside an utterance stay "active", a geometric
// ladder of candidate thresholds is swept to profile activity, and the
// active level is read off where the level-over-threshold margin first
// collapses to the P.56 margin constant.
package asl

import (
	"errors"
	"fmt"
	"math"
)

// P.56 Method B parameters. All defaults are the values mandated by the
// Recommendation for full-band measurement.
const (
	// DefaultTimeConstant is the envelope smoothing time constant T in
	// seconds.
	DefaultTimeConstant = 0.03

	// DefaultHangover is the hangover time H in seconds. Envelope dips
	// shorter than this never end detected activity.
	DefaultHangover = 0.2

	// DefaultMarginDB is the margin M between the active level and the
	// activity threshold, in dB.
	DefaultMarginDB = 15.9

	// DefaultLadderRatio is the geometric step between consecutive
	// activity thresholds.
	DefaultLadderRatio = 2.0

	// DefaultLevels is the number of rungs in the threshold ladder.
	DefaultLevels = 30
)

// tinyEps guards logarithms and divisions against exact zeros without
// disturbing any representable measurement.
const tinyEps = 1e-300

var (
	// ErrEmptySignal is returned for a zero-length input signal.
	ErrEmptySignal = errors.New("asl: empty signal")

	// ErrInvalidInput is returned for non-finite samples, a
	// non-positive sample rate, or unusable options.
	ErrInvalidInput = errors.New("asl: invalid input")
)

// Options tunes the estimator. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	TimeConstant float64 // envelope smoothing time constant (s)
	Hangover     float64 // hangover window (s)
	MarginDB     float64 // margin between active level and threshold (dB)
	LadderRatio  float64 // geometric ratio between consecutive thresholds
	Levels       int     // number of thresholds in the ladder
}

// DefaultOptions returns the P.56 mandated parameter set.
func DefaultOptions() Options {
	return Options{
		TimeConstant: DefaultTimeConstant,
		Hangover:     DefaultHangover,
		MarginDB:     DefaultMarginDB,
		LadderRatio:  DefaultLadderRatio,
		Levels:       DefaultLevels,
	}
}

func (o Options) validate() error {
	switch {
	case o.TimeConstant <= 0:
		return fmt.Errorf("%w: time constant %v", ErrInvalidInput, o.TimeConstant)
	case o.Hangover < 0:
		return fmt.Errorf("%w: hangover %v", ErrInvalidInput, o.Hangover)
	case o.MarginDB <= 0:
		return fmt.Errorf("%w: margin %v dB", ErrInvalidInput, o.MarginDB)
	case o.LadderRatio <= 1:
		return fmt.Errorf("%w: ladder ratio %v", ErrInvalidInput, o.LadderRatio)
	case o.Levels < 2:
		return fmt.Errorf("%w: %d threshold levels", ErrInvalidInput, o.Levels)
	}
	return nil
}

// Outcome tags how a measurement concluded. Anything other than
// OutcomeActive means the signal carried no measurable active speech;
// those are valid results, not errors, so batch pipelines can count and
// skip them.
type Outcome int

const (
	// OutcomeActive means an active level was found.
	OutcomeActive Outcome = iota

	// OutcomeZeroEnergy means the signal mean-square energy is zero.
	OutcomeZeroEnergy

	// OutcomeNoEnvelope means the smoothed envelope never rose above
	// zero, so no threshold ladder could be built.
	OutcomeNoEnvelope

	// OutcomeNoCrossing means the margin condition held at no rung of
	// the ladder.
	OutcomeNoCrossing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeActive:
		return "active"
	case OutcomeZeroEnergy:
		return "zero energy"
	case OutcomeNoEnvelope:
		return "no envelope energy"
	case OutcomeNoCrossing:
		return "no crossing"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is one active speech level measurement.
type Result struct {
	LevelDB    float64 // active level in dB relative to full scale; -Inf when inactive
	Level      float64 // active level as linear RMS amplitude
	Activity   float64 // fraction of samples judged active, 0..1
	Threshold  float64 // activity threshold the level was read at
	MeanSquare float64 // whole-signal mean-square energy
	Outcome    Outcome
}

// Active reports whether the measurement found active speech.
func (r Result) Active() bool { return r.Outcome == OutcomeActive }

// Estimate measures the active speech level of a mono signal with
// samples nominally in [-1, 1]. The call is pure: it never modifies x,
// keeps no state between calls, and identical inputs produce identical
// results.
func Estimate(x []float64, sampleRate int, opts Options) (Result, error) {
	if len(x) == 0 {
		return Result{}, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return Result{}, fmt.Errorf("%w: sample rate %d", ErrInvalidInput, sampleRate)
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	var sum float64
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: non-finite sample at index %d", ErrInvalidInput, i)
		}
		sum += v * v
	}
	meanSquare := sum / float64(len(x))

	inactive := Result{LevelDB: math.Inf(-1), MeanSquare: meanSquare}
	if meanSquare == 0 {
		inactive.Outcome = OutcomeZeroEnergy
		return inactive, nil
	}

	env := envelope(x, sampleRate, opts.TimeConstant)
	window := int(math.Ceil(opts.Hangover * float64(sampleRate)))
	smoothed := slidingMax(env, window)

	thresholds, ok := thresholdLadder(smoothed, opts.LadderRatio, opts.Levels)
	if !ok {
		inactive.Outcome = OutcomeNoEnvelope
		return inactive, nil
	}
	activity := activityProfile(smoothed, thresholds)

	return solveCrossing(meanSquare, thresholds, activity, opts.MarginDB), nil
}
