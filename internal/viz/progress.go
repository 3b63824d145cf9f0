package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/quadbench/internal/bench"
)

type progressMsg bench.Progress

type doneMsg struct{}

type tickMsg time.Time

// ProgressModel follows a running benchmark. It quits once the updates
// channel is closed.
type ProgressModel struct {
	total   int
	updates <-chan bench.Progress

	done     int
	recent   []bench.Measurement
	means    []float64
	started  time.Time
	now      time.Time
	frame    int
	theme    Theme
	finished bool
	Aborted  bool
}

func NewProgressModel(total int, updates <-chan bench.Progress) ProgressModel {
	now := time.Now()
	return ProgressModel{
		total:   total,
		updates: updates,
		started: now,
		now:     now,
		theme:   ThemeCyberpunk,
	}
}

func (m ProgressModel) WithTheme(t Theme) ProgressModel {
	m.theme = t
	return m
}

func (m ProgressModel) Done() int { return m.done }

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.wait(), tick())
}

func (m ProgressModel) wait() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.updates
		if !ok {
			return doneMsg{}
		}
		return progressMsg(p)
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Aborted = true
			return m, tea.Quit
		case "t", "T":
			m.theme = nextTheme(m.theme)
		}
		return m, nil
	case progressMsg:
		m.done = msg.Done
		if msg.Total > 0 {
			m.total = msg.Total
		}
		m.recent = append(m.recent, msg.Last)
		if len(m.recent) > 6 {
			m.recent = m.recent[len(m.recent)-6:]
		}
		m.means = append(m.means, float64(msg.Last.Mean))
		return m, m.wait()
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		m.frame++
		if m.finished {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}

	var b strings.Builder
	head := titleStyle(m.theme).Render("quadbench")
	if !m.finished {
		head = lipgloss.NewStyle().Foreground(m.theme.Accent).Render(spinners[m.frame%len(spinners)]) + " " + head
	}
	b.WriteString(head + "\n\n")
	fmt.Fprintf(&b, "%s %s %s\n", ProgressBar(pct, 40),
		MetricValue.Render(fmt.Sprintf("%d/%d", m.done, m.total)),
		MetricLabel.Render(m.now.Sub(m.started).Truncate(100*time.Millisecond).String()))
	fmt.Fprintf(&b, "%s %s\n\n", MetricLabel.Render("means"), Sparkline(m.means, 40))

	mode := lipgloss.NewStyle().Foreground(m.theme.Primary)
	for _, r := range m.recent {
		fmt.Fprintf(&b, "%-10s %s %s\n",
			mode.Render(string(r.Mode)),
			MetricLabel.Render(fmt.Sprintf("n=%-10d", r.NIter)),
			MetricValue.Render(formatDuration(r.Mean)))
	}
	b.WriteString("\n" + KeyHint.Render("q abort · t theme"))
	return b.String()
}
