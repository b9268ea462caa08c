package tui

import (
	"context"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/tui/components/habits"
	"github.com/julianstephens/ordiaa/internal/tui/components/todos"
	"github.com/julianstephens/ordiaa/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case stateMsg:
		m.refresh()
		return m, waitForState(m.updates)

	case addedMsg:
		if !msg.ok {
			m.status = "Could not add " + msg.what + ". The server rejected it or is unreachable."
		}
		return m, nil

	case habits.AddHabitMsg:
		return m, m.openInput(constants.StateAddHabit, "🏃 Morning run", "")

	case habits.ToggleHabitMsg:
		m.sync.ToggleHabit(msg.ID, m.Date())
		return m, nil

	case habits.DeleteHabitMsg:
		m.pending = pendingDelete{kind: constants.StateHabits, id: msg.ID, label: msg.Name}
		m.State = constants.StateConfirmDelete
		return m, nil

	case todos.AddTodoMsg:
		return m, m.openInput(constants.StateAddTodo, "What needs doing?", "")

	case todos.ToggleTodoMsg:
		m.sync.ToggleTodo(m.Date(), msg.ID)
		return m, nil

	case todos.CycleStatusMsg:
		m.sync.UpdateTodo(m.Date(), msg.ID, models.TodoPatch{Status: models.Ptr(msg.Status)})
		return m, nil

	case todos.CyclePriorityMsg:
		m.sync.UpdateTodo(m.Date(), msg.ID, models.TodoPatch{Priority: models.Ptr(msg.Priority)})
		return m, nil

	case todos.DeleteTodoMsg:
		m.pending = pendingDelete{kind: constants.StateTodos, id: msg.ID, label: msg.Text}
		m.State = constants.StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.State {
	case constants.StateConfirmDelete:
		return m.handleConfirm(msg)
	case constants.StateAddHabit, constants.StateAddTodo, constants.StateEditLog:
		return m.handleInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextPanel):
		m.cyclePanel(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevPanel):
		m.cyclePanel(-1)
		return m, nil
	case key.Matches(msg, m.keys.PrevDay):
		m.moveDay(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextDay):
		m.moveDay(1)
		return m, nil
	case key.Matches(msg, m.keys.Today):
		m.date = utils.StartOfDay(m.sync.Today())
		m.moveDay(0)
		return m, nil
	case key.Matches(msg, m.keys.EditLog):
		text, _ := m.sync.Log(m.Date())
		m.focus = constants.StateLog
		return m, m.openInput(constants.StateEditLog, "How did today go?", text)
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateHabits:
		m.habits, cmd = m.habits.Update(msg)
	case constants.StateTodos:
		m.todos, cmd = m.todos.Update(msg)
	case constants.StateLog:
		if msg.Type == tea.KeyEnter {
			text, _ := m.sync.Log(m.Date())
			return m, m.openInput(constants.StateEditLog, "How did today go?", text)
		}
	}
	return m, cmd
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		switch m.pending.kind {
		case constants.StateHabits:
			m.sync.DeleteHabit(m.pending.id)
		case constants.StateTodos:
			m.sync.DeleteTodo(m.Date(), m.pending.id)
		}
		m.pending = pendingDelete{}
		m.State = m.focus
	case "n", "esc", "q":
		m.pending = pendingDelete{}
		m.State = m.focus
	}
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		state := m.State
		date := m.Date()
		m.closeInput()
		return m, m.submit(state, date, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies the entered text. Adds run as commands since they may wait
// on the server for an id.
func (m Model) submit(state constants.SessionState, date, value string) tea.Cmd {
	s := m.sync
	switch state {
	case constants.StateEditLog:
		s.UpdateLog(date, strings.TrimSpace(value))
		return nil
	case constants.StateAddTodo:
		text := strings.TrimSpace(value)
		if text == "" {
			return nil
		}
		return func() tea.Msg {
			_, ok := s.AddTodo(context.Background(), date, text)
			return addedMsg{what: "todo", ok: ok}
		}
	case constants.StateAddHabit:
		name, emoji := splitHabitInput(value)
		if name == "" {
			return nil
		}
		return func() tea.Msg {
			_, ok := s.AddHabit(context.Background(), name, emoji)
			return addedMsg{what: "habit", ok: ok}
		}
	}
	return nil
}

// splitHabitInput reads a leading emoji off "🏃 Morning run". Without one the
// placeholder is used.
func splitHabitInput(s string) (name, emoji string) {
	s = strings.TrimSpace(s)
	first, rest, ok := strings.Cut(s, " ")
	rest = strings.TrimSpace(rest)
	if ok && rest != "" && !strings.ContainsFunc(first, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) {
		return rest, first
	}
	return s, constants.PlaceholderEmoji
}
