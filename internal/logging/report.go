// Package logging generates run reports for corpus mixing runs.

package logging

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/linuxmatters/noisemix/internal/batch"
)

// ReportData contains everything needed to generate a run report.
type ReportData struct {
	Config    batch.Config
	Summary   *batch.Summary
	StartTime time.Time
	EndTime   time.Time
}

// WriteReport creates a plain-text run report at path.
//
// Report structure:
// 1. Header - run timestamp and totals
// 2. Run Configuration - directories, SNRs, seed, toggles
// 3. Speech Level Measurements - per speech file, with interpretation
// 4. Mixing Gains - per SNR gain range
// 5. Skipped Jobs - counts by reason, then per-job detail
func WriteReport(path string, data ReportData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeRunConfiguration(f, data.Config)
	if data.Summary != nil {
		writeSpeechLevelTable(f, data.Config, data.Summary)
		writeGainTable(f, data.Summary)
		writeSkippedJobs(f, data.Summary)
	}
	return nil
}

// writeSection writes a section header with title and dashed underline.
func writeSection(f *os.File, title string) {
	fmt.Fprintln(f, title)
	fmt.Fprintln(f, strings.Repeat("-", len(title)))
}

func writeReportHeader(f *os.File, data ReportData) {
	fmt.Fprintln(f, "Noisemix Run Report")
	fmt.Fprintln(f, "===================")
	fmt.Fprintf(f, "Finished: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(f, "Elapsed:  %s\n", formatDuration(data.EndTime.Sub(data.StartTime)))
	if data.Summary != nil {
		fmt.Fprintf(f, "Jobs:     %d completed, %d skipped\n",
			data.Summary.Completed, data.Summary.Skipped)
	}
	fmt.Fprintln(f, "")
}

func writeRunConfiguration(f *os.File, cfg batch.Config) {
	writeSection(f, "Run Configuration")

	fmt.Fprintf(f, "Speech dir:  %s\n", cfg.SpeechDir)
	fmt.Fprintf(f, "Noise dir:   %s\n", cfg.NoiseDir)
	fmt.Fprintf(f, "Output dir:  %s\n", cfg.OutputDir)

	snrs := make([]string, len(cfg.SNRs))
	for i, snr := range cfg.SNRs {
		snrs[i] = fmt.Sprintf("%g", snr)
	}
	fmt.Fprintf(f, "Target SNRs: %s dB\n", strings.Join(snrs, ", "))
	fmt.Fprintf(f, "Workers:     %d\n", cfg.Workers)
	fmt.Fprintf(f, "Seed:        %d\n", cfg.Seed)
	fmt.Fprintf(f, "Scaling:     %s\n", scalingModeString(cfg.UseActiveSpeech))
	fmt.Fprintf(f, "IRS filter:  %s\n", enabledString(cfg.ApplyIRS))
	fmt.Fprintln(f, "")
}

// writeSpeechLevelTable outputs the per-speech-file measurement table.
// Each speech file is measured once, so the first completed job touching
// it carries the numbers.
func writeSpeechLevelTable(f *os.File, cfg batch.Config, summary *batch.Summary) {
	writeSection(f, "Speech Level Measurements")

	if !cfg.UseActiveSpeech {
		fmt.Fprintln(f, "Active speech measurement disabled; noise scaled against whole-file power")
		fmt.Fprintln(f, "")
		return
	}

	type levelEntry struct {
		levelDB  float64
		activity float64
	}
	levels := make(map[string]levelEntry)
	var order []string
	for _, res := range summary.Results {
		if res.Skipped {
			continue
		}
		name := filepath.Base(res.Job.SpeechPath)
		if _, seen := levels[name]; !seen {
			levels[name] = levelEntry{levelDB: res.LevelDB, activity: res.Activity}
			order = append(order, name)
		}
	}
	sort.Strings(order)

	if len(order) == 0 {
		fmt.Fprintln(f, "No speech files completed a job")
		fmt.Fprintln(f, "")
		return
	}

	table := NewMetricTable("Level dB", "Activity %")
	for _, name := range order {
		entry := levels[name]
		table.AddRow(name,
			[]string{
				formatMetricDB(entry.levelDB, 1),
				formatMetricPercent(entry.activity, 1),
			},
			"", interpretActivity(entry.activity))
	}
	fmt.Fprint(f, table.String())
	fmt.Fprintln(f, "")
}

// writeGainTable outputs per-SNR gain ranges across completed jobs,
// flagging SNRs where any job needed a clipping rescue.
func writeGainTable(f *os.File, summary *batch.Summary) {
	writeSection(f, "Mixing Gains")

	type gainRange struct {
		min, max float64
		count    int
		rescued  int
	}
	ranges := make(map[float64]*gainRange)
	var snrs []float64
	for _, res := range summary.Results {
		if res.Skipped {
			continue
		}
		gr, ok := ranges[res.Job.SNRdB]
		if !ok {
			gr = &gainRange{min: math.Inf(1), max: math.Inf(-1)}
			ranges[res.Job.SNRdB] = gr
			snrs = append(snrs, res.Job.SNRdB)
		}
		gr.count++
		gr.min = math.Min(gr.min, res.Gain)
		gr.max = math.Max(gr.max, res.Gain)
		if res.Rescaled {
			gr.rescued++
		}
	}
	sort.Float64s(snrs)

	if len(snrs) == 0 {
		fmt.Fprintln(f, "No jobs completed")
		fmt.Fprintln(f, "")
		return
	}

	table := NewMetricTable("Jobs", "Gain min", "Gain max")
	for _, snr := range snrs {
		gr := ranges[snr]
		interp := ""
		if gr.rescued > 0 {
			interp = fmt.Sprintf("%d peak-rescued (achieved SNR deviates)", gr.rescued)
		}
		table.AddRow(fmt.Sprintf("%g dB", snr),
			[]string{
				fmt.Sprintf("%d", gr.count),
				formatMetric(gr.min, 4),
				formatMetric(gr.max, 4),
			},
			"", interp)
	}
	fmt.Fprint(f, table.String())
	fmt.Fprintln(f, "")
}

// writeSkippedJobs outputs skip counts by reason, then a per-job detail
// line for each skip.
func writeSkippedJobs(f *os.File, summary *batch.Summary) {
	writeSection(f, "Skipped Jobs")

	if summary.Skipped == 0 {
		fmt.Fprintln(f, "None")
		fmt.Fprintln(f, "")
		return
	}

	counts := summary.SkipCounts()
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(f, "%-24s %d\n", reason+":", counts[batch.SkipReason(reason)])
	}
	fmt.Fprintln(f, "")

	for _, res := range summary.Results {
		if !res.Skipped {
			continue
		}
		line := fmt.Sprintf("  %s + %s @ %g dB: %s",
			filepath.Base(res.Job.SpeechPath), filepath.Base(res.Job.NoisePath),
			res.Job.SNRdB, res.Reason)
		if res.Err != nil {
			line += fmt.Sprintf(" (%v)", res.Err)
		}
		fmt.Fprintln(f, line)
	}
	fmt.Fprintln(f, "")
}

// interpretActivity describes a speech activity fraction. Continuous
// read speech typically measures 0.75-0.95; conversational turns with
// pauses lower; values near 1.0 suggest the file has no pauses at all.
func interpretActivity(activity float64) string {
	switch {
	case activity <= 0:
		return "no active speech"
	case activity < 0.3:
		return "sparse speech, mostly silence"
	case activity < 0.6:
		return "conversational, long pauses"
	case activity < 0.95:
		return "typical read speech"
	default:
		return "continuous, no pauses"
	}
}

func scalingModeString(useActiveSpeech bool) string {
	if useActiveSpeech {
		return "active speech level (P.56)"
	}
	return "whole-file power"
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
