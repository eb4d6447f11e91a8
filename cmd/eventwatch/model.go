package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/screenlink/engine-bridge/events"
)

const maxLines = 200

type eventMsg struct {
	ev events.Event
}

type readyMsg struct{}

type startupFailedMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bodyStyle  = lipgloss.NewStyle().Faint(true)
)

type model struct {
	spin     spinner.Model
	filter   string
	ready    bool
	startErr error
	lines    []string
	count    int
}

func newModel(filter string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{spin: s, filter: filter}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case readyMsg:
		m.ready = true
		return m, nil
	case startupFailedMsg:
		m.startErr = msg.err
		return m, nil
	case eventMsg:
		m.count++
		line := fmt.Sprintf("%s %s",
			nameStyle.Render(msg.ev.Name),
			bodyStyle.Render(string(msg.ev.Raw)))
		m.lines = append(m.lines, line)
		if len(m.lines) > maxLines {
			m.lines = m.lines[len(m.lines)-maxLines:]
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	switch {
	case m.startErr != nil:
		b.WriteString(errStyle.Render("bridge startup failed: " + m.startErr.Error()))
		b.WriteString("\n")
	case !m.ready:
		b.WriteString(m.spin.View())
		b.WriteString(" waiting for bridge...\n")
	default:
		scope := "fallback stream"
		if m.filter != "" {
			scope = "event " + m.filter
		}
		b.WriteString(titleStyle.Render(fmt.Sprintf("eventwatch — %s (%d events)", scope, m.count)))
		b.WriteString("\n\n")
	}

	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(bodyStyle.Render("\nq to quit"))
	return b.String()
}
