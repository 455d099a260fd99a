package asl

import "math"

// envelope runs the rectified signal through two cascaded first-order
// exponential smoothers with time constant tc, producing the P.56
// signal envelope q. The filter is strictly causal and stable: its pole
// g = exp(-1/(fs*tc)) sits inside the unit circle for any positive tc.
// Both smoother states start at zero.
func envelope(x []float64, sampleRate int, tc float64) []float64 {
	g := math.Exp(-1.0 / (float64(sampleRate) * tc))
	q := make([]float64, len(x))

	var p, qPrev float64
	for i, v := range x {
		p = g*p + (1-g)*math.Abs(v)
		qPrev = g*qPrev + (1-g)*p
		q[i] = qPrev
	}
	return q
}
