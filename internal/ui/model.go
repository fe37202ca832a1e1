package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"makerbot/internal/domain"
	"makerbot/internal/eventbus"
)

const recentLines = 6

// Model is the live view of a running batch
type Model struct {
	source string
	total  int
	done   int
	failed int

	current  string
	recent   []string
	summary  *domain.BatchSummary
	quitting bool
	cancel   func()

	progress progress.Model
	spinner  spinner.Model
	styles   *Styles
}

// NewModel creates the progress view. cancel is called when the user asks
// to stop; the view stays up until the batch reports completion.
func NewModel(source string, total int, cancel func()) *Model {
	if cancel == nil {
		cancel = func() {}
	}
	return &Model{
		source:   source,
		total:    total,
		cancel:   cancel,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   NewStyles(),
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 12
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		m.progress.Width = w
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.quitting {
				m.quitting = true
				m.cancel()
			}
			if m.summary != nil {
				return m, tea.Quit
			}
		}
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch ev := e.(type) {
	case eventbus.BatchStartedEvent:
		m.source = ev.Source
		m.total = ev.Total

	case eventbus.PlacementStartedEvent:
		m.current = fmt.Sprintf("%s at %s", ev.Placement.Name, ev.Placement.Point())

	case eventbus.ObjectPlacedEvent:
		m.done++
		m.current = ""
		m.addRecent(fmt.Sprintf("placed %s at %s", ev.Placement.Name, ev.Placement.Point()))

	case eventbus.PlacementFailedEvent:
		m.done++
		m.failed++
		m.current = ""
		m.addRecent(m.styles.StatusError.Render(
			fmt.Sprintf("skipped %s: %v", ev.Placement.Name, ev.Err)))

	case eventbus.ErrorEvent:
		m.addRecent(m.styles.StatusError.Render(fmt.Sprintf("%s: %v", ev.Message, ev.Err)))

	case eventbus.BatchCompletedEvent:
		summary := ev.Summary
		m.summary = &summary
		return tea.Quit
	}
	return nil
}

func (m *Model) addRecent(line string) {
	m.recent = append(m.recent, line)
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
}

// Percent is the share of records processed so far
func (m *Model) Percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

// Summary returns the batch summary once the batch completed
func (m *Model) Summary() *domain.BatchSummary {
	return m.summary
}

// View renders the model
func (m *Model) View() string {
	if m.summary != nil {
		return RenderSummary(*m.summary, m.styles)
	}

	var b strings.Builder

	title := "Placing " + m.source
	if m.quitting {
		title = "Stopping after the current record"
	}
	fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), m.styles.Title.Render(title))
	fmt.Fprintf(&b, "%s  %d/%d", m.progress.ViewAs(m.Percent()), m.done, m.total)
	if m.failed > 0 {
		b.WriteString(m.styles.StatusWarning.Render(fmt.Sprintf("  %d skipped", m.failed)))
	}
	b.WriteString("\n")

	if m.current != "" {
		fmt.Fprintf(&b, "%s %s\n", m.styles.Highlight.Render(">"), m.current)
	}
	for _, line := range m.recent {
		b.WriteString(m.styles.Dim.Render("  "+line) + "\n")
	}
	if !m.quitting {
		b.WriteString("\n" + m.styles.Dim.Render("q to stop") + "\n")
	}
	return b.String()
}
