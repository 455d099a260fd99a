package asl

import (
	"math"
	"testing"
)

func TestSolveCrossingFirstRung(t *testing.T) {
	// A signal so quiet relative to the lowest threshold that the
	// margin condition already holds at rung 0: the level is read off
	// directly, without interpolation.
	meanSquare := 1e-6
	thresholds := []float64{0.01, 0.02, 0.04}
	activity := []float64{1.0, 0.5, 0.25}

	res := solveCrossing(meanSquare, thresholds, activity, DefaultMarginDB)

	if res.Outcome != OutcomeActive {
		t.Fatalf("outcome = %v, want active", res.Outcome)
	}
	wantLevel := math.Sqrt(meanSquare) // sqrt(Ex / a0) with a0 = 1
	if math.Abs(res.Level-wantLevel) > 1e-12 {
		t.Errorf("level = %g, want %g", res.Level, wantLevel)
	}
	if res.Threshold != thresholds[0] {
		t.Errorf("threshold = %g, want first rung %g", res.Threshold, thresholds[0])
	}
	if res.Activity != activity[0] {
		t.Errorf("activity = %g, want %g", res.Activity, activity[0])
	}
}

func TestSolveCrossingInterpolated(t *testing.T) {
	// Constant envelope: activity is 1 at every rung, so the candidate
	// active power ln(Ex/a) is flat and the interpolated level must be
	// exactly sqrt(Ex) regardless of where the crossing lands.
	meanSquare := 0.5
	smoothed := make([]float64, 100)
	for i := range smoothed {
		smoothed[i] = 0.6366
	}
	thresholds, ok := thresholdLadder(smoothed, DefaultLadderRatio, DefaultLevels)
	if !ok {
		t.Fatal("thresholdLadder reported no envelope energy")
	}
	activity := activityProfile(smoothed, thresholds)

	res := solveCrossing(meanSquare, thresholds, activity, DefaultMarginDB)

	if res.Outcome != OutcomeActive {
		t.Fatalf("outcome = %v, want active", res.Outcome)
	}
	wantLevel := math.Sqrt(meanSquare)
	if math.Abs(res.Level-wantLevel) > 1e-9 {
		t.Errorf("level = %g, want %g", res.Level, wantLevel)
	}
	margin := math.Pow(10, DefaultMarginDB/10)
	wantThreshold := wantLevel / math.Sqrt(margin)
	if math.Abs(res.Threshold-wantThreshold) > 1e-9 {
		t.Errorf("threshold = %g, want %g", res.Threshold, wantThreshold)
	}
	// Eq. 17 activity for a fully active signal is 1.
	if math.Abs(res.Activity-1.0) > 1e-9 {
		t.Errorf("activity = %g, want 1.0", res.Activity)
	}
	wantDB := 20 * math.Log10(wantLevel)
	if math.Abs(res.LevelDB-wantDB) > 1e-9 {
		t.Errorf("level = %g dB, want %g dB", res.LevelDB, wantDB)
	}
}

func TestSolveCrossingNoCrossing(t *testing.T) {
	tests := []struct {
		name       string
		meanSquare float64
		thresholds []float64
		activity   []float64
	}{
		{
			// Thresholds far below the level: the margin condition
			// never holds anywhere on the ladder.
			name:       "margin never reached",
			meanSquare: 1.0,
			thresholds: []float64{1e-12, 2e-12, 4e-12, 8e-12},
			activity:   []float64{1, 1, 1, 1},
		},
		{
			name:       "no activity at the lowest rung",
			meanSquare: 1.0,
			thresholds: []float64{0.5, 1.0},
			activity:   []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := solveCrossing(tt.meanSquare, tt.thresholds, tt.activity, DefaultMarginDB)
			if res.Outcome != OutcomeNoCrossing {
				t.Fatalf("outcome = %v, want no crossing", res.Outcome)
			}
			if !math.IsInf(res.LevelDB, -1) {
				t.Errorf("level = %g dB, want -Inf", res.LevelDB)
			}
			if res.Activity != 0 {
				t.Errorf("activity = %g, want 0", res.Activity)
			}
		})
	}
}
