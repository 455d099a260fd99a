// Package batch builds a noisy-speech corpus: every speech file is
// mixed against every noise file at every requested SNR, in parallel,
// with a skip-and-continue policy so one bad file never aborts a run.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/linuxmatters/noisemix/internal/asl"
)

var (
	// ErrNoSpeechFiles is returned when the speech directory holds no
	// WAV files.
	ErrNoSpeechFiles = errors.New("batch: no speech files found")

	// ErrNoNoiseFiles is returned when the noise directory holds no
	// WAV files.
	ErrNoNoiseFiles = errors.New("batch: no noise files found")

	// ErrNoSNRs is returned when no target SNRs are configured.
	ErrNoSNRs = errors.New("batch: no target SNRs configured")
)

// Config controls one corpus run.
type Config struct {
	SpeechDir string
	NoiseDir  string
	OutputDir string
	SNRs      []float64 // target SNRs in dB

	Workers int   // concurrent mix jobs; 0 means one per CPU
	Seed    int64 // seeds the per-job noise-window choice

	UseActiveSpeech bool // scale noise against P.56 active power instead of mean power
	ApplyIRS        bool // band-limit speech with the IRS send filter (8 kHz input only)

	Estimator asl.Options
}

// DefaultConfig returns a config with the P.56 estimator defaults,
// active-speech scaling on, and one worker per CPU.
func DefaultConfig() Config {
	return Config{
		SNRs:            []float64{0, 5, 10, 15},
		Workers:         runtime.NumCPU(),
		UseActiveSpeech: true,
		Estimator:       asl.DefaultOptions(),
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Job is one (speech, noise, SNR) triple. Index is stable across runs
// with the same inputs and seeds the job's noise-window choice.
type Job struct {
	Index      int
	SpeechPath string
	NoisePath  string
	SNRdB      float64
}

// OutputName returns the file name a completed job is written under:
// <speech>__<noise>__<snr>dB.wav.
func (j Job) OutputName() string {
	return fmt.Sprintf("%s__%s__%sdB.wav", stem(j.SpeechPath), stem(j.NoisePath), formatSNR(j.SNRdB))
}

// OutputPath returns the job's destination inside outputDir, grouped by
// SNR.
func (j Job) OutputPath(outputDir string) string {
	return filepath.Join(outputDir, formatSNR(j.SNRdB)+"dB", j.OutputName())
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func formatSNR(snr float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%g", snr), ".", "_")
}

// SkipReason codes why a job was skipped. Skips are reported, counted,
// and never abort the run.
type SkipReason string

const (
	SkipUnreadableSpeech SkipReason = "unreadable speech"
	SkipUnreadableNoise  SkipReason = "unreadable noise"
	SkipRateMismatch     SkipReason = "sample-rate mismatch"
	SkipSilentSpeech     SkipReason = "silent speech"
	SkipInactiveSpeech   SkipReason = "no active speech"
	SkipZeroPowerNoise   SkipReason = "zero-power noise"
	SkipFilterFailed     SkipReason = "band-limit filter failed"
	SkipWriteFailed      SkipReason = "output write failed"
	SkipCancelled        SkipReason = "cancelled"
)

// JobResult records one finished or skipped job.
type JobResult struct {
	Job        Job
	OutputPath string

	// Measurement and mix diagnostics, valid for completed jobs.
	LevelDB  float64 // active speech level of the clean speech (dB re FS)
	Activity float64 // speech activity fraction
	Gain     float64 // linear gain applied to the noise
	Rescaled bool    // clipping rescue triggered; achieved SNR deviates

	Skipped bool
	Reason  SkipReason
	Err     error // underlying cause of a skip, when one exists
}

// Summary aggregates a finished run.
type Summary struct {
	Completed int
	Skipped   int
	Results   []JobResult // one per job, in job order
}

// SkipCounts tallies skipped jobs by reason.
func (s *Summary) SkipCounts() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, r := range s.Results {
		if r.Skipped {
			counts[r.Reason]++
		}
	}
	return counts
}

// listWAVs returns the sorted full paths of the WAV files directly
// inside dir.
func listWAVs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: failed to read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
