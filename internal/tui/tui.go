// Package tui provides a Bubble Tea live dashboard for the tracker: current
// task, elapsed time, idle countdown and recent history.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/punchclock/internal/ledger"
	"github.com/fakeyudi/punchclock/internal/report"
	"github.com/fakeyudi/punchclock/internal/store"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Section heading
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	degradedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the dashboard's Bubble Tea model. All task state lives in the
// ledger; the model only reads snapshots, so the monitor and the dashboard
// never disagree.
type Model struct {
	ledger    *ledger.Ledger
	degraded  func() bool
	threshold time.Duration

	history viewport.Model
	width   int
	height  int
	notice  string
	ready   bool
}

// New builds the dashboard model. degraded may be nil.
func New(l *ledger.Ledger, degraded func() bool, threshold time.Duration) Model {
	return Model{ledger: l, degraded: degraded, threshold: threshold}
}

// Run starts the dashboard and blocks until the user quits.
func Run(l *ledger.Ledger, degraded func() bool, threshold time.Duration) error {
	p := tea.NewProgram(New(l, degraded, threshold), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		historyHeight := m.height - 12
		if historyHeight < 3 {
			historyHeight = 3
		}
		if !m.ready {
			m.history = viewport.New(m.width-4, historyHeight)
			m.ready = true
		} else {
			m.history.Width = m.width - 4
			m.history.Height = historyHeight
		}
		m.history.SetContent(m.historyContent())
		return m, nil

	case tickMsg:
		m.history.SetContent(m.historyContent())
		return m, tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			rec, err := m.ledger.Stop()
			switch {
			case err != nil:
				m.notice = degradedStyle.Render("stop failed: " + err.Error())
			case rec == nil:
				m.notice = dimStyle.Render("nothing to stop")
			default:
				m.notice = fmt.Sprintf("stopped %q after %s", rec.Name, report.FormatDuration(rec.DurationSeconds))
			}
			m.history.SetContent(m.historyContent())
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		default:
			// Any other keypress counts as working on the task.
			m.ledger.Touch()
			return m, nil
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("punchclock"))
	if m.degraded != nil && m.degraded() {
		b.WriteString("  ")
		b.WriteString(degradedStyle.Render("⚠ local-only (remote unavailable)"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.currentBox())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionHeader.Render("Recent tasks"))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.history.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("s stop · ↑/↓ scroll · q quit · any key marks activity"))
	return b.String()
}

// currentBox renders the running-task panel, or an idle placeholder.
func (m Model) currentBox() string {
	running := m.ledger.Current()
	if running == nil {
		return boxStyle.Render(dimStyle.Render("No active task. Run 'punchclock start <name>'"))
	}

	rec := running.Record
	elapsed := int64(time.Since(rec.StartTime) / time.Second)
	idleFor := time.Since(running.LastActivity)
	remaining := m.threshold - idleFor
	if remaining < 0 {
		remaining = 0
	}

	catStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rec.Category.Color()))
	lines := []string{
		labelStyle.Render("Task:     ") + runningStyle.Render(rec.Name),
		labelStyle.Render("Category: ") + catStyle.Render(string(rec.Category)),
		labelStyle.Render("Elapsed:  ") + report.FormatDuration(elapsed),
		labelStyle.Render("Auto-close in: ") + remaining.Round(time.Second).String(),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// historyContent renders the completed records, newest first.
func (m Model) historyContent() string {
	recs := m.ledger.Completed()
	if len(recs) == 0 {
		return dimStyle.Render("(no completed tasks yet)")
	}
	var lines []string
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		catStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Category.Color()))
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			r.StartTime.Format(store.TimeLayout),
			report.FormatDuration(r.DurationSeconds),
			catStyle.Render(fmt.Sprintf("%-8s", r.Category)),
			r.Name,
		))
	}
	return strings.Join(lines, "\n")
}
