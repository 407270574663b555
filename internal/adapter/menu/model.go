// Package menu is the terminal front-end: the original tray menu expressed
// as a Bubble Tea list. Picking an entry triggers one independent
// invocation; several may be in flight at once.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gucli/internal/domain"
	"gucli/internal/usecase/runner"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	resultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
	historyHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Invoker runs one command definition to completion.
type Invoker interface {
	Invoke(ctx context.Context, def domain.CommandDefinition) runner.Report
}

// HistoryReader lists recent log entries, newest first.
type HistoryReader interface {
	Entries() ([]domain.LogEntry, error)
}

// Deps are dependencies injected into the menu model.
type Deps struct {
	Definitions []domain.CommandDefinition
	Invoker     Invoker
	History     HistoryReader
	Logger      *slog.Logger
}

// resultMsg carries a finished invocation back into the update loop.
type resultMsg struct {
	report runner.Report
}

// Model is the root Bubble Tea model for the command menu.
type Model struct {
	deps Deps

	cursor      int
	running     map[string]bool // commands currently in flight
	lastReport  *runner.Report
	showHistory bool
	width       int
	quitting    bool
}

// New creates the menu model.
func New(deps Deps) Model {
	return Model{deps: deps, running: make(map[string]bool)}
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles keys: enter runs, h toggles history, q quits.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case resultMsg:
		report := msg.report
		delete(m.running, report.Result.Command)
		m.lastReport = &report
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.showHistory {
				m.showHistory = false
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.deps.Definitions)-1 {
				m.cursor++
			}
		case "h":
			m.showHistory = !m.showHistory
		case "enter":
			if m.showHistory || len(m.deps.Definitions) == 0 {
				return m, nil
			}
			def := m.deps.Definitions[m.cursor]
			if m.running[def.Command] {
				return m, nil
			}
			m.running[def.Command] = true
			return m, m.invoke(def)
		}
	}
	return m, nil
}

// invoke runs the definition off the update loop; each invocation is an
// independent unit of work.
func (m Model) invoke(def domain.CommandDefinition) tea.Cmd {
	return func() tea.Msg {
		report := m.deps.Invoker.Invoke(context.Background(), def)
		return resultMsg{report: report}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHistory {
		return m.historyView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("gucli") + "\n\n")

	for i, def := range m.deps.Definitions {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		label := def.Command
		if def.Icon != "" {
			label = def.Icon + "  " + label
		}
		if m.running[def.Command] {
			label += runningStyle.Render("  [running]")
		}
		b.WriteString(cursor + label + "\n")
	}
	if len(m.deps.Definitions) == 0 {
		b.WriteString(hintStyle.Render("  no commands configured") + "\n")
	}

	if m.lastReport != nil {
		b.WriteString("\n" + m.renderReport(*m.lastReport) + "\n")
	}

	b.WriteString("\n" + hintStyle.Render("enter: run  h: history  j/k: move  q: quit"))
	return b.String()
}

func (m Model) renderReport(report runner.Report) string {
	line := fmt.Sprintf("%s → %s", report.Result.Command, report.Formatted.Body)
	if report.Result.IsError() {
		return errorStyle.Render(line)
	}
	return resultStyle.Render(line)
}

func (m Model) historyView() string {
	var b strings.Builder
	b.WriteString(historyHeader.Render("recent executions") + "\n\n")

	entries, err := m.deps.History.Entries()
	if err != nil {
		b.WriteString(errorStyle.Render("cannot read history: "+err.Error()) + "\n")
	} else if len(entries) == 0 {
		b.WriteString(hintStyle.Render("  nothing yet") + "\n")
	} else {
		for _, e := range entries {
			b.WriteString(fmt.Sprintf("%s  %s  %s\n",
				hintStyle.Render(e.Timestamp.Format("15:04:05")),
				e.Command,
				resultStyle.Render(e.Summary),
			))
		}
	}

	b.WriteString("\n" + hintStyle.Render("esc/h: back  q: quit"))
	return b.String()
}
