package asl

import (
	"math"
	"testing"
)

// naiveSlidingMax is the O(N*window) reference the deque implementation
// is checked against.
func naiveSlidingMax(env []float64, window int) []float64 {
	out := make([]float64, len(env))
	if window < 1 {
		copy(out, env)
		return out
	}
	for i := range env {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		max := math.Inf(-1)
		for j := lo; j <= i; j++ {
			if env[j] > max {
				max = env[j]
			}
		}
		out[i] = max
	}
	return out
}

func TestSlidingMaxKnownInput(t *testing.T) {
	env := []float64{1, 3, 2, 5, 4, 1, 1, 1, 6, 0}

	tests := []struct {
		name   string
		window int
		want   []float64
	}{
		{
			name:   "window three",
			window: 3,
			want:   []float64{1, 3, 3, 5, 5, 5, 4, 1, 6, 6},
		},
		{
			name:   "window one is identity",
			window: 1,
			want:   []float64{1, 3, 2, 5, 4, 1, 1, 1, 6, 0},
		},
		{
			name:   "window covering everything holds the running max",
			window: len(env),
			want:   []float64{1, 3, 3, 5, 5, 5, 5, 5, 6, 6},
		},
		{
			name:   "window below one is a no-op",
			window: 0,
			want:   []float64{1, 3, 2, 5, 4, 1, 1, 1, 6, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slidingMax(env, tt.window)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("slidingMax[%d] = %g, want %g", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSlidingMaxMatchesNaiveReference(t *testing.T) {
	// An off-by-one in the window boundary corrupts every downstream
	// threshold, so sweep lengths and window sizes against the naive
	// implementation on deterministic random envelopes.
	lengths := []int{1, 2, 7, 100, 1000, 4097}
	windows := []int{1, 2, 3, 16, 99, 1000, 5000}

	seed := uint32(1)
	for _, n := range lengths {
		for _, w := range windows {
			rng := lcg{state: seed}
			seed++
			env := make([]float64, n)
			for i := range env {
				env[i] = math.Abs(rng.next())
			}

			got := slidingMax(env, w)
			want := naiveSlidingMax(env, w)
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("n=%d window=%d: slidingMax[%d] = %g, want %g", n, w, i, got[i], want[i])
				}
			}
		}
	}
}

func TestSlidingMaxDoesNotMutateInput(t *testing.T) {
	env := []float64{3, 1, 2}
	slidingMax(env, 2)
	if env[0] != 3 || env[1] != 1 || env[2] != 2 {
		t.Errorf("input envelope mutated: %v", env)
	}
}
