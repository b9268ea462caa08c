package models

import "fmt"

type TodoStatus string

const (
	StatusTodo       TodoStatus = "todo"
	StatusInProgress TodoStatus = "in-progress"
	StatusDone       TodoStatus = "done"
)

// Statuses lists the board columns in display order
var Statuses = []TodoStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TodoStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next cycles todo -> in-progress -> done -> todo
func (s TodoStatus) Next() TodoStatus {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

func ParseTodoStatus(s string) (TodoStatus, error) {
	st := TodoStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (expected todo, in-progress or done)", s)
	}
	return st, nil
}

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ParseTodoPriority(s string) (TodoPriority, error) {
	p := TodoPriority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (expected low, medium or high)", s)
	}
	return p, nil
}

// TodoItem is a dated task. Completed mirrors Status == done.
type TodoItem struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Completed bool         `json:"completed"`
	Status    TodoStatus   `json:"status"`
	Priority  TodoPriority `json:"priority"`
	CreatedAt string       `json:"createdAt"` // YYYY-MM-DD format
}

// Normalize fills fields absent from older snapshots: a missing status is derived
// from the completed flag, a missing priority defaults to medium. The completed flag
// is then re-derived from the status.
func (t TodoItem) Normalize() TodoItem {
	if !t.Status.Valid() {
		if t.Completed {
			t.Status = StatusDone
		} else {
			t.Status = StatusTodo
		}
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	t.Completed = t.Status == StatusDone
	return t
}

// TodoPatch is a partial update; nil fields are left untouched.
type TodoPatch struct {
	Text      *string
	Completed *bool
	Status    *TodoStatus
	Priority  *TodoPriority
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Text == nil && p.Completed == nil && p.Status == nil && p.Priority == nil
}

// Apply merges the patch into t, last write wins per field. An explicit status
// decides the completed flag; otherwise an explicit completed flag moves the status
// to done, or back to todo when it was done.
func (p TodoPatch) Apply(t TodoItem) TodoItem {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	switch {
	case p.Status != nil:
		t.Status = *p.Status
	case p.Completed != nil && *p.Completed:
		t.Status = StatusDone
	case p.Completed != nil && t.Status == StatusDone:
		t.Status = StatusTodo
	}
	t.Completed = t.Status == StatusDone
	return t
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
