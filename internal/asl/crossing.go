package asl

import "math"

// solveCrossing locates the activity threshold at which the candidate
// active level sits exactly marginDB above the threshold. Working in
// natural log turns the geometric ladder into a straight line, so the
// crossing can be found by a linear scan and refined by linear
// interpolation between the bracketing rungs.
//
// For every rung j with non-zero activity a[j]:
//
//	A[j] = ln(meanSquare / a[j])   candidate active power
//	C[j] = 2*ln(c[j])              threshold as a power
//	Δ[j] = A[j] - C[j]
//
// Δ decreases with j; the crossing is the first rung where Δ drops to
// the margin or below. The scan stops at the first rung with zero
// activity, since nothing above it can be active either.
func solveCrossing(meanSquare float64, thresholds, activity []float64, marginDB float64) Result {
	margin := math.Pow(10, marginDB/10)
	marginLn := math.Log(margin)

	res := Result{
		LevelDB:    math.Inf(-1),
		MeanSquare: meanSquare,
		Outcome:    OutcomeNoCrossing,
	}

	var prevDelta, prevA float64
	for j := range thresholds {
		if activity[j] == 0 {
			break
		}
		a := math.Log(meanSquare / math.Max(activity[j], tinyEps))
		c := 2 * math.Log(math.Max(thresholds[j], tinyEps))
		delta := a - c

		if delta > marginLn {
			prevDelta = delta
			prevA = a
			continue
		}

		if j == 0 {
			// The crossing lies at or before the lowest rung: no
			// bracketing interval exists, read the level off directly.
			level := math.Exp(a / 2)
			res.Level = level
			res.LevelDB = 20 * math.Log10(level+tinyEps)
			res.Threshold = thresholds[j]
			res.Activity = activity[j]
			res.Outcome = OutcomeActive
			return res
		}

		// Crossing sits between rungs j-1 and j: interpolate on Δ and
		// carry the weight over to A.
		alpha := (marginLn - prevDelta) / (delta - prevDelta + tinyEps)
		level := math.Exp((prevA + alpha*(a-prevA)) / 2)
		threshold := level / math.Sqrt(margin)

		res.Level = level
		res.LevelDB = 20 * math.Log10(level+tinyEps)
		res.Threshold = threshold
		// The interpolated threshold matches none of the sampled
		// fractions, so recompute activity from it (P.56 Eq. 17).
		res.Activity = meanSquare / (margin*threshold*threshold + tinyEps)
		res.Outcome = OutcomeActive
		return res
	}
	return res
}
