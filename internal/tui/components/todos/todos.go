package todos

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ordiaa/internal/models"
)

type AddTodoMsg struct{}

type ToggleTodoMsg struct {
	ID string
}

type CycleStatusMsg struct {
	ID     string
	Status models.TodoStatus
}

type CyclePriorityMsg struct {
	ID       string
	Priority models.TodoPriority
}

type DeleteTodoMsg struct {
	ID   string
	Text string
}

type Item struct {
	Todo models.TodoItem
}

func (i Item) Title() string {
	mark := "[ ]"
	switch i.Todo.Status {
	case models.StatusDone:
		mark = "[x]"
	case models.StatusInProgress:
		mark = "[~]"
	}
	return fmt.Sprintf("%s %s", mark, i.Todo.Text)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s priority", i.Todo.Status, i.Todo.Priority)
}

func (i Item) FilterValue() string { return i.Todo.Text }

// nextPriority cycles low -> medium -> high -> low
func nextPriority(p models.TodoPriority) models.TodoPriority {
	switch p {
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Status   key.Binding
	Priority key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter", "x"),
			key.WithHelp("space", "done"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Todos"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{list: l, keys: DefaultKeyMap()}
}

func (m *Model) SetTodos(todos []models.TodoItem) {
	rows := make([]list.Item, len(todos))
	for i, t := range todos {
		rows[i] = Item{Todo: t}
	}
	m.list.SetItems(rows)
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Toggle, m.keys.Status, m.keys.Priority, m.keys.Add, m.keys.Delete}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddTodoMsg{} }
		}

		i, selected := m.Selected()
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if selected {
				return m, func() tea.Msg { return ToggleTodoMsg{ID: i.Todo.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Status):
			if selected {
				return m, func() tea.Msg {
					return CycleStatusMsg{ID: i.Todo.ID, Status: i.Todo.Status.Next()}
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Priority):
			if selected {
				return m, func() tea.Msg {
					return CyclePriorityMsg{ID: i.Todo.ID, Priority: nextPriority(i.Todo.Priority)}
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if selected {
				return m, func() tea.Msg { return DeleteTodoMsg{ID: i.Todo.ID, Text: i.Todo.Text} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Len() == 0 {
		return "Nothing planned. Press 'a' to add a todo."
	}
	return m.list.View()
}
