package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/syncer"
	"github.com/julianstephens/ordiaa/internal/tui/components/habits"
	"github.com/julianstephens/ordiaa/internal/tui/components/todos"
	"github.com/julianstephens/ordiaa/internal/utils"
)

// stateMsg signals that the synchronizer committed a new state.
type stateMsg struct{}

// addedMsg reports the outcome of an add that may have waited on the server.
type addedMsg struct {
	what string
	ok   bool
}

type pendingDelete struct {
	kind  constants.SessionState
	id    string
	label string
}

var panels = []constants.SessionState{constants.StateHabits, constants.StateTodos, constants.StateLog}

type Model struct {
	sync        *syncer.Synchronizer
	keys        KeyMap
	help        help.Model
	State       constants.SessionState
	focus       constants.SessionState
	date        time.Time
	habits      habits.Model
	todos       todos.Model
	input       textinput.Model
	pending     pendingDelete
	status      string
	updates     chan struct{}
	unsubscribe func()
	width       int
	height      int
}

func NewModel(s *syncer.Synchronizer) Model {
	updates := make(chan struct{}, 1)
	unsubscribe := s.Subscribe(func(models.State) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	ti := textinput.New()
	ti.CharLimit = 280

	m := Model{
		sync:        s,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		State:       constants.StateHabits,
		focus:       constants.StateHabits,
		date:        utils.StartOfDay(s.Today()),
		habits:      habits.New(0, 0),
		todos:       todos.New(0, 0),
		input:       ti,
		updates:     updates,
		unsubscribe: unsubscribe,
	}
	m.refresh()
	return m
}

// Close stops listening for state changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return waitForState(m.updates)
}

func waitForState(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return stateMsg{}
	}
}

// Date is the selected calendar day (YYYY-MM-DD).
func (m Model) Date() string {
	return utils.FormatDate(m.date)
}

func (m Model) isToday() bool {
	return m.Date() == utils.FormatDate(m.sync.Today())
}

// refresh rebuilds the panels from the synchronizer for the selected day.
func (m *Model) refresh() {
	date := m.Date()
	state := m.sync.Snapshot()

	items := make([]habits.Item, len(state.Habits))
	for i, h := range state.Habits {
		items[i] = habits.Item{
			Habit:  h,
			Done:   state.Completions.IsCompleted(h.ID, date),
			Streak: m.sync.Streak(h.ID),
		}
	}
	m.habits.SetItems(items)
	m.todos.SetTodos(state.TodosFor(date))
}

func (m *Model) resize() {
	// header (3), tabs (2), footer (2) and padding
	h := max(m.height-11, 3)
	w := max(m.width-4, 20)
	m.habits.SetSize(w, h)
	m.todos.SetSize(w, h)
	m.input.Width = max(w-4, 10)
	m.help.Width = w
}

func (m *Model) moveDay(n int) {
	m.date = utils.AddDays(m.date, n)
	m.status = ""
	m.refresh()
}

func (m *Model) cyclePanel(step int) {
	idx := 0
	for i, p := range panels {
		if p == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(panels)) % len(panels)
	m.focus = panels[idx]
	m.State = m.focus
}

func (m *Model) openInput(state constants.SessionState, placeholder, value string) tea.Cmd {
	m.State = state
	m.status = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.State = m.focus
}
