package todos

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ordiaa/internal/models"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNextPriority(t *testing.T) {
	tests := []struct {
		in   models.TodoPriority
		want models.TodoPriority
	}{
		{models.PriorityLow, models.PriorityMedium},
		{models.PriorityMedium, models.PriorityHigh},
		{models.PriorityHigh, models.PriorityLow},
		{"", models.PriorityLow},
	}
	for _, tt := range tests {
		if got := nextPriority(tt.in); got != tt.want {
			t.Errorf("nextPriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusKeyEmitsNextStatus(t *testing.T) {
	m := New(40, 10)
	m.SetTodos([]models.TodoItem{{ID: "1", Text: "write", Status: models.StatusInProgress, Priority: models.PriorityLow}})

	_, cmd := m.Update(keyMsg("s"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(CycleStatusMsg)
	if !ok {
		t.Fatalf("expected CycleStatusMsg, got %T", cmd())
	}
	if msg.ID != "1" || msg.Status != models.StatusDone {
		t.Errorf("got %+v", msg)
	}
}

func TestKeysWithoutSelection(t *testing.T) {
	m := New(40, 10)

	if _, cmd := m.Update(keyMsg("d")); cmd != nil {
		t.Error("delete on an empty list should do nothing")
	}
	_, cmd := m.Update(keyMsg("a"))
	if cmd == nil {
		t.Fatal("add should work on an empty list")
	}
	if _, ok := cmd().(AddTodoMsg); !ok {
		t.Error("expected AddTodoMsg")
	}
}

func TestItemTitle(t *testing.T) {
	tests := []struct {
		status models.TodoStatus
		want   string
	}{
		{models.StatusTodo, "[ ] plan"},
		{models.StatusInProgress, "[~] plan"},
		{models.StatusDone, "[x] plan"},
	}
	for _, tt := range tests {
		i := Item{Todo: models.TodoItem{Text: "plan", Status: tt.status}}
		if got := i.Title(); got != tt.want {
			t.Errorf("Title() = %q, want %q", got, tt.want)
		}
	}
}
