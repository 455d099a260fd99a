package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/noisemix/internal/batch"
	"github.com/linuxmatters/noisemix/internal/cli"
	"github.com/linuxmatters/noisemix/internal/logging"
	"github.com/linuxmatters/noisemix/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool `short:"v" help:"Show version information"`

	Speech string `short:"s" type:"existingdir" help:"Directory of clean speech WAV files" default:"speech"`
	Noise  string `short:"n" type:"existingdir" help:"Directory of noise WAV files" default:"noise"`
	Output string `short:"o" type:"path" help:"Output directory for the mixed corpus" default:"noisy"`

	SNR []float64 `help:"Target SNRs in dB, repeatable or comma-separated" default:"0,5,10,15"`

	Seed       int64 `help:"Seed for the per-job noise window choice" default:"0"`
	Workers    int   `short:"j" help:"Concurrent mix jobs (0 = one per CPU)" default:"0"`
	WholePower bool  `help:"Scale noise against whole-file speech power instead of the active speech level"`
	IRS        bool  `help:"Band-limit speech with the IRS send filter (8 kHz input only)"`

	Logs  bool `help:"Save a run report next to the output directory"`
	NoTUI bool `help:"Print plain progress lines instead of the full-screen UI"`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("noisemix"),
		kong.Description("Noisy speech corpus builder"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	cfg := batch.DefaultConfig()
	cfg.SpeechDir = cliArgs.Speech
	cfg.NoiseDir = cliArgs.Noise
	cfg.OutputDir = cliArgs.Output
	cfg.SNRs = cliArgs.SNR
	cfg.Seed = cliArgs.Seed
	cfg.Workers = cliArgs.Workers
	cfg.UseActiveSpeech = !cliArgs.WholePower
	cfg.ApplyIRS = cliArgs.IRS

	runner, err := batch.New(cfg)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	startTime := time.Now()
	var summary *batch.Summary
	if cliArgs.NoTUI {
		summary, err = runPlain(runner)
	} else {
		summary, err = runTUI(runner)
	}
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	fmt.Printf("Completed %d jobs, skipped %d (%s)\n",
		summary.Completed, summary.Skipped, time.Since(startTime).Round(time.Millisecond))

	if cliArgs.Logs {
		reportPath := filepath.Join(cfg.OutputDir, "noisemix-run.log")
		reportData := logging.ReportData{
			Config:    cfg,
			Summary:   summary,
			StartTime: startTime,
			EndTime:   time.Now(),
		}
		if err := logging.WriteReport(reportPath, reportData); err != nil {
			cli.PrintError(fmt.Sprintf("Failed to write report: %v", err))
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", reportPath)
	}
}

// runTUI drives the run behind the Bubbletea program, feeding it job
// events from the worker pool.
func runTUI(runner *batch.Runner) (*batch.Summary, error) {
	model := ui.NewModel(len(runner.Jobs()))
	p := tea.NewProgram(model, tea.WithAltScreen())

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type runOutcome struct {
		summary *batch.Summary
		err     error
	}
	done := make(chan runOutcome, 1)

	go func() {
		summary, err := runner.Run(runCtx,
			func(job batch.Job) { p.Send(ui.JobStartMsg{Job: job}) },
			func(res batch.JobResult) { p.Send(ui.JobDoneMsg{Result: res}) })
		p.Send(ui.RunDoneMsg{Summary: summary, Err: err})
		done <- runOutcome{summary: summary, err: err}
	}()

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("UI error: %w", err)
	}
	// Quitting the UI early (q / ctrl+c) cancels the run; in-flight jobs
	// still finish, so wait for the pool to drain.
	cancel()
	outcome := <-done
	return outcome.summary, outcome.err
}

// runPlain drives the run with one log line per finished job.
func runPlain(runner *batch.Runner) (*batch.Summary, error) {
	return runner.Run(context.Background(), nil, func(res batch.JobResult) {
		label := fmt.Sprintf("%s + %s @ %g dB",
			filepath.Base(res.Job.SpeechPath), filepath.Base(res.Job.NoisePath), res.Job.SNRdB)
		if res.Skipped {
			line := fmt.Sprintf("skip %s: %s", label, res.Reason)
			if res.Err != nil {
				line += fmt.Sprintf(" (%v)", res.Err)
			}
			fmt.Println(line)
			return
		}
		fmt.Printf("done %s (gain %.4f)\n", label, res.Gain)
	})
}
