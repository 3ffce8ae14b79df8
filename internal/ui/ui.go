// Package ui renders the live migration view.
//
// The model never drives the pipeline: it polls [tasks.Aggregator] and
// [tasks.Registry] snapshots on a tick while the engine runs in its own
// goroutine, and quits once the run result arrives.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soundlift/soundlift/internal/report"
	"github.com/soundlift/soundlift/internal/tasks"
)

const (
	pollInterval   = 100 * time.Millisecond
	maxVisibleRows = 10
)

type tickMsg time.Time

// RunOutcome is the engine's final result, delivered to the view when the
// run finishes.
type RunOutcome struct {
	Result *tasks.RunResult
	Err    error
}

// Model is the live progress view.
type Model struct {
	agg  *tasks.Aggregator
	reg  *tasks.Registry
	done <-chan RunOutcome

	bar  progress.Model
	spin spinner.Model

	snap   tasks.Snapshot
	active []tasks.TaskView
	hidden int

	result *tasks.RunResult
	err    error
	width  int
}

// NewModel creates a live view over the engine's shared state. The done
// channel must receive exactly one [RunOutcome] when the run finishes.
func NewModel(agg *tasks.Aggregator, reg *tasks.Registry, done <-chan RunOutcome) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		agg:  agg,
		reg:  reg,
		done: done,
		bar:  progress.New(progress.WithDefaultGradient()),
		spin: sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick(), m.waitForResult())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForResult() tea.Cmd {
	return func() tea.Msg {
		return <-m.done
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 20
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// The run itself is not cancellable mid-flight; this only
			// abandons the view.
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.snap = m.agg.Snapshot()
		m.active, m.hidden = m.reg.ListActive(maxVisibleRows)
		return m, tick()

	case RunOutcome:
		m.result = msg.Result
		m.err = msg.Err
		m.snap = m.agg.Snapshot()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n", m.err))
	}
	if m.result != nil {
		var b strings.Builder
		report.WriteSummary(&b, m.result)
		return b.String()
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Migrating audio files"))
	b.WriteString("\n")

	pct := float64(0)
	if m.snap.TotalFiles > 0 {
		pct = float64(m.snap.CompletedFiles) / float64(m.snap.TotalFiles)
	}
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString(fmt.Sprintf(" %d/%d files\n", m.snap.CompletedFiles, m.snap.TotalFiles))
	b.WriteString(fmt.Sprintf("%s of %s • %s/s\n\n",
		report.FormatBytes(m.snap.BytesTransferred),
		report.FormatBytes(m.snap.TotalBytes),
		report.FormatBytes(int64(m.snap.Throughput())),
	))

	for _, task := range m.active {
		b.WriteString(m.renderTask(task))
		b.WriteString("\n")
	}
	if m.hidden > 0 {
		b.WriteString(styles.help.Render(fmt.Sprintf("… and %d more", m.hidden)))
		b.WriteString("\n")
	}

	b.WriteString(styles.help.Render("\nctrl+c to detach"))
	return b.String()
}

func (m *Model) renderTask(t tasks.TaskView) string {
	label := fmt.Sprintf("%-11s", t.Phase.String())
	switch t.Phase {
	case tasks.Done:
		label = styles.ok.Render("✓ done     ")
	case tasks.Errored:
		label = styles.err.Render("✗ error    ")
	case tasks.Duplicate:
		label = styles.warn.Render("≡ duplicate")
	default:
		label = m.spin.View() + label
	}
	return fmt.Sprintf("%s %3d%%  %s", label, t.Percent, t.Name)
}
