package asl

import "math"

// thresholdLadder builds the geometric sequence of candidate activity
// thresholds: levels rungs with the given ratio, anchored so the top
// rung lands on the peak of the hangover-smoothed envelope. The second
// return is false when the envelope carries no energy, in which case no
// ladder exists.
func thresholdLadder(smoothed []float64, ratio float64, levels int) ([]float64, bool) {
	var peak float64
	for _, v := range smoothed {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return nil, false
	}

	thresholds := make([]float64, levels)
	for j := range thresholds {
		thresholds[j] = peak * math.Pow(ratio, float64(j-levels+1))
	}
	return thresholds, true
}

// activityProfile computes, for every threshold, the fraction of
// smoothed envelope samples at or above it. Because the thresholds rise
// monotonically the fractions are non-increasing. The ladder is short
// (tens of rungs), so the O(N*levels) sweep stays linear in practice.
func activityProfile(smoothed, thresholds []float64) []float64 {
	total := float64(len(smoothed))
	profile := make([]float64, len(thresholds))
	for j, c := range thresholds {
		count := 0
		for _, v := range smoothed {
			if v >= c {
				count++
			}
		}
		profile[j] = float64(count) / total
	}
	return profile
}
