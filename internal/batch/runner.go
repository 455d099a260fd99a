package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/noisemix/internal/asl"
	"github.com/linuxmatters/noisemix/internal/audio"
	"github.com/linuxmatters/noisemix/internal/irs"
	"github.com/linuxmatters/noisemix/internal/mixer"
)

// Runner executes the job grid for one corpus run.
type Runner struct {
	cfg  Config
	jobs []Job

	speechFiles []string
	levels      map[string]*speechLevel
}

// speechLevel caches the per-file P.56 measurement so each speech file
// is analyzed once, not once per job.
type speechLevel struct {
	result asl.Result
	err    error
}

// New lists both directories and lays out the speech-major job grid.
// The grid order is stable, so job indices (and with them the per-job
// noise windows) do not change between runs over the same inputs.
func New(cfg Config) (*Runner, error) {
	if len(cfg.SNRs) == 0 {
		return nil, ErrNoSNRs
	}
	speechFiles, err := listWAVs(cfg.SpeechDir)
	if err != nil {
		return nil, err
	}
	if len(speechFiles) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSpeechFiles, cfg.SpeechDir)
	}
	noiseFiles, err := listWAVs(cfg.NoiseDir)
	if err != nil {
		return nil, err
	}
	if len(noiseFiles) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoNoiseFiles, cfg.NoiseDir)
	}

	jobs := make([]Job, 0, len(speechFiles)*len(noiseFiles)*len(cfg.SNRs))
	for _, speech := range speechFiles {
		for _, noise := range noiseFiles {
			for _, snr := range cfg.SNRs {
				jobs = append(jobs, Job{
					Index:      len(jobs),
					SpeechPath: speech,
					NoisePath:  noise,
					SNRdB:      snr,
				})
			}
		}
	}

	return &Runner{
		cfg:         cfg,
		jobs:        jobs,
		speechFiles: speechFiles,
		levels:      make(map[string]*speechLevel, len(speechFiles)),
	}, nil
}

// Jobs returns the full job grid in execution order.
func (r *Runner) Jobs() []Job { return r.jobs }

// Run executes every job on a bounded worker pool. onStart and onDone,
// when non-nil, are called from worker goroutines as each job begins
// and finishes. Cancelling ctx stops further jobs from being submitted;
// jobs already in flight finish normally and the rest are recorded as
// cancelled skips. Run only fails outright for setup problems (output
// directories, unusable estimator options); per-job trouble becomes a
// skip in the summary.
func (r *Runner) Run(ctx context.Context, onStart func(Job), onDone func(JobResult)) (*Summary, error) {
	for _, snr := range r.cfg.SNRs {
		dir := filepath.Join(r.cfg.OutputDir, formatSNR(snr)+"dB")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("batch: failed to create %s: %w", dir, err)
		}
	}

	if r.cfg.UseActiveSpeech {
		if err := r.measureSpeechLevels(ctx); err != nil {
			return nil, err
		}
	}

	results := make([]JobResult, len(r.jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.workers())

	for _, job := range r.jobs {
		job := job
		if egCtx.Err() != nil {
			results[job.Index] = JobResult{Job: job, Skipped: true, Reason: SkipCancelled, Err: egCtx.Err()}
			continue
		}
		eg.Go(func() error {
			if onStart != nil {
				onStart(job)
			}
			res := r.runJob(job)
			results[job.Index] = res
			if onDone != nil {
				onDone(res)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Results: results}
	for _, res := range results {
		if res.Skipped {
			summary.Skipped++
		} else {
			summary.Completed++
		}
	}
	return summary, nil
}

// measureSpeechLevels analyzes each speech file once, in parallel.
// Failures are cached too: every job touching that file will skip with
// the underlying cause.
func (r *Runner) measureSpeechLevels(ctx context.Context) error {
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.workers())

	for _, path := range r.speechFiles {
		path := path
		entry := &speechLevel{}
		r.levels[path] = entry
		eg.Go(func() error {
			clip, err := audio.ReadMono(path)
			if err != nil {
				entry.err = err
				return nil
			}
			samples := clip.Samples
			if r.cfg.ApplyIRS {
				if samples, err = irs.Send(samples, clip.SampleRate); err != nil {
					entry.err = err
					return nil
				}
			}
			entry.result, entry.err = asl.Estimate(samples, clip.SampleRate, r.cfg.Estimator)
			return nil
		})
	}
	return eg.Wait()
}

func silent(x []float64) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}

func (r *Runner) runJob(job Job) JobResult {
	res := JobResult{Job: job}
	skip := func(reason SkipReason, err error) JobResult {
		res.Skipped = true
		res.Reason = reason
		res.Err = err
		return res
	}

	speechClip, err := audio.ReadMono(job.SpeechPath)
	if err != nil {
		return skip(SkipUnreadableSpeech, err)
	}
	noiseClip, err := audio.ReadMono(job.NoisePath)
	if err != nil {
		return skip(SkipUnreadableNoise, err)
	}
	if speechClip.SampleRate != noiseClip.SampleRate {
		return skip(SkipRateMismatch,
			fmt.Errorf("speech %d Hz, noise %d Hz", speechClip.SampleRate, noiseClip.SampleRate))
	}

	speech := speechClip.Samples
	if r.cfg.ApplyIRS {
		if speech, err = irs.Send(speech, speechClip.SampleRate); err != nil {
			return skip(SkipFilterFailed, err)
		}
	}

	var level *asl.Result
	if r.cfg.UseActiveSpeech {
		entry := r.levels[job.SpeechPath]
		switch {
		case entry == nil:
			// Should not happen; treat like a failed measurement.
			return skip(SkipSilentSpeech, nil)
		case entry.err != nil:
			return skip(SkipUnreadableSpeech, entry.err)
		case !entry.result.Active():
			// Degenerate or crossing-free speech is a valid
			// measurement but a useless training pair.
			if entry.result.Outcome == asl.OutcomeZeroEnergy {
				return skip(SkipSilentSpeech, nil)
			}
			return skip(SkipInactiveSpeech, fmt.Errorf("measurement outcome: %s", entry.result.Outcome))
		default:
			lv := entry.result
			level = &lv
			res.LevelDB = lv.LevelDB
			res.Activity = lv.Activity
		}
	} else {
		res.LevelDB = math.Inf(-1)
		if silent(speech) {
			return skip(SkipSilentSpeech, nil)
		}
	}

	// Each job gets its own generator derived from the run seed and the
	// job's stable index, so worker scheduling cannot change which
	// noise window a job draws.
	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(job.Index)))

	mix, err := mixer.Mix(speech, noiseClip.Samples, job.SNRdB, level, rng)
	if err != nil {
		if errors.Is(err, mixer.ErrZeroPowerNoise) {
			return skip(SkipZeroPowerNoise, err)
		}
		return skip(SkipUnreadableNoise, err)
	}
	res.Gain = mix.Gain
	res.Rescaled = mix.Rescaled

	outPath := job.OutputPath(r.cfg.OutputDir)
	if err := audio.WriteMono(outPath, mix.Mixed, speechClip.SampleRate); err != nil {
		return skip(SkipWriteFailed, err)
	}
	res.OutputPath = outPath
	return res
}
