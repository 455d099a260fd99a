package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/noisemix/internal/batch"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#005F87"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAAA"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#005F87")).
			Padding(0, 1)
)

// renderRunView renders the live view while jobs are in flight.
func renderRunView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// In-flight jobs
	for _, job := range m.activeJobs() {
		icon := activeStyle.Render("⚙")
		b.WriteString(fmt.Sprintf(" %s %s @ %g dB\n", icon, jobLabel(job), job.SNRdB))
	}
	if len(m.Active) == 0 {
		b.WriteString(subtitleStyle.Render(" waiting for jobs..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Recently finished jobs
	for _, res := range m.Recent {
		b.WriteString(renderResultLine(res))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderOverallProgress(m))
	return b.String()
}

// renderHeader renders the application header.
func renderHeader(m Model) string {
	title := titleStyle.Render("Noisemix 🔊 - Noisy Speech Corpus Builder")
	subtitle := subtitleStyle.Render(fmt.Sprintf("Mixing %d speech/noise pairs", m.TotalJobs))
	return title + "\n" + subtitle
}

// renderResultLine renders one finished job.
func renderResultLine(res batch.JobResult) string {
	label := fmt.Sprintf("%s @ %g dB", jobLabel(res.Job), res.Job.SNRdB)

	if res.Skipped {
		icon := skipStyle.Render("⊘")
		line := fmt.Sprintf(" %s %s — skipped: %s", icon, label, res.Reason)
		if res.Err != nil {
			line += fmt.Sprintf(" (%v)", res.Err)
		}
		return line
	}

	icon := okStyle.Render("✓")
	detail := fmt.Sprintf("level %.1f dB | activity %.0f%% | gain %.4f", res.LevelDB, res.Activity*100, res.Gain)
	if res.Rescaled {
		detail += " | " + skipStyle.Render("peak rescued")
	}
	return fmt.Sprintf(" %s %s — %s", icon, label, detail)
}

// renderOverallProgress renders the progress footer.
func renderOverallProgress(m Model) string {
	finished := m.Completed + m.Skipped
	progress := 0.0
	if m.TotalJobs > 0 {
		progress = float64(finished) / float64(m.TotalJobs)
	}

	var content strings.Builder
	content.WriteString(renderProgressBar(progress, 40))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("Done: %d/%d | Skipped: %d | In flight: %d",
		finished, m.TotalJobs, m.Skipped, len(m.Active)))

	return boxStyle.Render(content.String())
}

// renderProgressBar renders a progress bar.
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d%%", bar, int(progress*100))
}

// renderCompletionView renders the final summary once the run is done.
func renderCompletionView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf(" ✗ Run failed: %v", m.Err)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(okStyle.Render(fmt.Sprintf(" ✓ %d pairs written in %s",
		m.Completed, time.Since(m.StartTime).Round(time.Millisecond))))
	b.WriteString("\n")
	if m.Skipped > 0 && m.Summary != nil {
		b.WriteString(skipStyle.Render(fmt.Sprintf(" ⊘ %d pairs skipped", m.Skipped)))
		b.WriteString("\n")
		for reason, count := range m.Summary.SkipCounts() {
			b.WriteString(fmt.Sprintf("   %s: %d\n", reason, count))
		}
	}
	return b.String()
}
