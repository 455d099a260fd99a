// Package ui provides the Bubbletea terminal user interface for corpus
// mixing runs.
package ui

import (
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/noisemix/internal/batch"
)

// recentLimit bounds the finished-job list kept on screen.
const recentLimit = 8

// Model is the Bubbletea model for a corpus run.
type Model struct {
	// Job bookkeeping
	TotalJobs int
	Started   int
	Completed int
	Skipped   int

	// In-flight jobs by index, rendered in index order.
	Active map[int]batch.Job

	// Most recently finished jobs, newest first.
	Recent []batch.JobResult

	// Final state
	Summary *batch.Summary
	Err     error
	Done    bool

	StartTime time.Time

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a UI model for a run of totalJobs jobs.
func NewModel(totalJobs int) Model {
	return Model{
		TotalJobs: totalJobs,
		Active:    make(map[int]batch.Job),
		StartTime: time.Now(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case JobStartMsg:
		m.Started++
		m.Active[msg.Job.Index] = msg.Job

	case JobDoneMsg:
		delete(m.Active, msg.Result.Job.Index)
		if msg.Result.Skipped {
			m.Skipped++
		} else {
			m.Completed++
		}
		m.Recent = append([]batch.JobResult{msg.Result}, m.Recent...)
		if len(m.Recent) > recentLimit {
			m.Recent = m.Recent[:recentLimit]
		}

	case RunDoneMsg:
		m.Summary = msg.Summary
		m.Err = msg.Err
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model.
func (m Model) View() string {
	if m.Done {
		return renderCompletionView(m)
	}
	return renderRunView(m)
}

// activeJobs returns the in-flight jobs sorted by index for a stable
// render order.
func (m Model) activeJobs() []batch.Job {
	jobs := make([]batch.Job, 0, len(m.Active))
	for _, job := range m.Active {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Index < jobs[j].Index })
	return jobs
}

// jobLabel renders a short "speech + noise @ SNR" description.
func jobLabel(job batch.Job) string {
	return filepath.Base(job.SpeechPath) + " + " + filepath.Base(job.NoisePath)
}
