package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/syncer"
)

func (m Model) View() string {
	if m.State == constants.StateConfirmDelete {
		return m.confirmView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	switch m.State {
	case constants.StateAddHabit:
		b.WriteString("New habit (optional emoji first):\n\n")
		b.WriteString(m.input.View())
	case constants.StateAddTodo:
		b.WriteString("New todo for " + m.Date() + ":\n\n")
		b.WriteString(m.input.View())
	case constants.StateEditLog:
		b.WriteString("Log for " + m.Date() + ":\n\n")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.panelView())
	}

	if m.status != "" {
		b.WriteString("\n\n" + warningStyle.Render(m.status))
	}
	b.WriteString("\n\n" + m.help.View(helpKeys{panel: m.panelKeys(), global: m.keys}))

	return docStyle.Render(b.String())
}

func (m Model) headerView() string {
	day := m.date.Format("Mon, Jan 2 2006")
	if m.isToday() {
		day += " (today)"
	}
	mode := "offline"
	if m.sync.Authenticated() {
		mode = "synced"
	}

	title := titleStyle.Render(constants.AppName) + "  " + day + "  " + inactiveTabStyle.Render(mode)
	quote := quoteStyle.Render(syncer.DailyQuote(m.date))
	rate := m.sync.CompletionRate(m.Date())
	return lipgloss.JoinVertical(lipgloss.Left, title, quote, Bar(rate, 30))
}

func (m Model) tabsView() string {
	names := map[constants.SessionState]string{
		constants.StateHabits: "Habits",
		constants.StateTodos:  "Todos",
		constants.StateLog:    "Log",
	}
	tabs := make([]string, 0, len(panels))
	for _, p := range panels {
		if p == m.focus {
			tabs = append(tabs, activeTabStyle.Render(names[p]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(names[p]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) panelView() string {
	switch m.focus {
	case constants.StateTodos:
		return m.todos.View()
	case constants.StateLog:
		text, ok := m.sync.Log(m.Date())
		if !ok || text == "" {
			return "Nothing logged. Press 'e' to write a line about the day."
		}
		return text
	default:
		return m.habits.View()
	}
}

func (m Model) panelKeys() []key.Binding {
	switch m.focus {
	case constants.StateTodos:
		return m.todos.ShortHelp()
	case constants.StateLog:
		return []key.Binding{m.keys.EditLog}
	default:
		return m.habits.ShortHelp()
	}
}

func (m Model) confirmView() string {
	kind := "habit"
	if m.pending.kind == constants.StateTodos {
		kind = "todo"
	}
	question := fmt.Sprintf("Delete %s %q?", kind, m.pending.label)
	content := lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render(question),
		"",
		"[y] Yes    [n] No",
	)
	if m.width == 0 || m.height == 0 {
		return docStyle.Render(content)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
