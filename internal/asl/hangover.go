package asl

// slidingMax implements the P.56 hangover: every envelope sample is
// replaced by the maximum envelope value seen within the trailing
// window samples, so short dips inside an utterance do not end detected
// activity. A window below one sample leaves the envelope unchanged.
//
// The pass is O(N) overall via a monotonic deque of (value, index)
// pairs: entries at the back that are no larger than the incoming
// sample can never again be a window maximum and are discarded, and the
// front entry is evicted once its index ages out of the window. The
// window maximum is always the front entry.
func slidingMax(env []float64, window int) []float64 {
	out := make([]float64, len(env))
	if window < 1 {
		copy(out, env)
		return out
	}

	type entry struct {
		value float64
		index int
	}
	deque := make([]entry, 0, window)
	front := 0

	for i, v := range env {
		for len(deque) > front && deque[len(deque)-1].value <= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, entry{value: v, index: i})
		// The index advances one per iteration, so at most one front
		// entry can expire here.
		if deque[front].index < i-window+1 {
			front++
		}
		out[i] = deque[front].value
	}
	return out
}
