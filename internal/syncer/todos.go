package syncer

import (
	"context"
	"strconv"

	"github.com/julianstephens/ordiaa/internal/api"
	"github.com/julianstephens/ordiaa/internal/models"
)

type todoOptions struct {
	priority models.TodoPriority
	status   models.TodoStatus
}

type TodoOption func(*todoOptions)

func WithPriority(p models.TodoPriority) TodoOption {
	return func(o *todoOptions) { o.priority = p }
}

func WithStatus(st models.TodoStatus) TodoOption {
	return func(o *todoOptions) { o.status = st }
}

// Todos returns the todo sequence for date.
func (s *Synchronizer) Todos(date string) []models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TodosFor(date)
}

// TodosByStatus groups date's todos into board columns. Every status in
// models.Statuses has an entry, possibly empty.
func (s *Synchronizer) TodosByStatus(date string) map[models.TodoStatus][]models.TodoItem {
	columns := make(map[models.TodoStatus][]models.TodoItem, len(models.Statuses))
	for _, st := range models.Statuses {
		columns[st] = []models.TodoItem{}
	}
	for _, item := range s.Todos(date) {
		item = item.Normalize()
		columns[item.Status] = append(columns[item.Status], item)
	}
	return columns
}

// AddTodo appends a todo to date. With a session the server assigns the id
// and the call blocks on it; ok is false when that create fails and nothing
// is added.
func (s *Synchronizer) AddTodo(ctx context.Context, date, text string, opts ...TodoOption) (models.TodoItem, bool) {
	o := todoOptions{priority: models.PriorityMedium, status: models.StatusTodo}
	for _, opt := range opts {
		opt(&o)
	}

	item := models.TodoItem{
		Text:      text,
		Status:    o.status,
		Priority:  o.priority,
		Completed: o.status == models.StatusDone,
		CreatedAt: date,
	}

	if s.Authenticated() {
		created, err := s.remote.CreateTodo(ctx, api.TodoCreate{
			Title:       text,
			IsCompleted: item.Completed,
			Priority:    string(o.priority),
			Status:      string(o.status),
		})
		if err != nil {
			s.logRemoteFailure("add_todo", err)
			return models.TodoItem{}, false
		}
		item.ID = strconv.FormatInt(created.ID, 10)
		item.Text = created.Title
		if created.Status != nil {
			item.Status = models.TodoStatus(*created.Status)
		}
		if created.Priority != nil {
			item.Priority = models.TodoPriority(*created.Priority)
		}
		item.Completed = created.IsCompleted
		item = item.Normalize()
	} else {
		item.ID = s.nextLocalID()
	}

	s.commit(func(next *models.State) bool {
		next.Todos[date] = append(next.Todos[date], item)
		return true
	})
	return item, true
}

// ToggleTodo flips the todo between done and todo. A missing id is a no-op.
func (s *Synchronizer) ToggleTodo(date, id string) (models.TodoItem, bool) {
	var updated models.TodoItem
	found := s.commit(func(next *models.State) bool {
		i := indexOf(next.Todos[date], id)
		if i < 0 {
			return false
		}
		items := next.Todos[date]
		item := items[i]
		item.Completed = !item.Completed
		if item.Completed {
			item.Status = models.StatusDone
		} else {
			item.Status = models.StatusTodo
		}
		items[i] = item
		updated = item
		return true
	})
	if !found {
		return models.TodoItem{}, false
	}

	if rid, ok := s.remoteID("toggle_todo", id); ok {
		completed := updated.Completed
		s.propagate("toggle_todo", func(ctx context.Context) error {
			_, err := s.remote.UpdateTodo(ctx, rid, api.TodoUpdate{IsCompleted: &completed})
			return err
		})
	}
	return updated, true
}

// UpdateTodo merges patch into the todo. Completion always follows the merged
// status. A missing id is a no-op.
func (s *Synchronizer) UpdateTodo(date, id string, patch models.TodoPatch) (models.TodoItem, bool) {
	if patch.Empty() {
		return models.TodoItem{}, false
	}

	var updated models.TodoItem
	found := s.commit(func(next *models.State) bool {
		i := indexOf(next.Todos[date], id)
		if i < 0 {
			return false
		}
		items := next.Todos[date]
		updated = patch.Apply(items[i])
		items[i] = updated
		return true
	})
	if !found {
		return models.TodoItem{}, false
	}

	if rid, ok := s.remoteID("update_todo", id); ok {
		body := remoteUpdate(patch, updated)
		s.propagate("update_todo", func(ctx context.Context) error {
			_, err := s.remote.UpdateTodo(ctx, rid, body)
			return err
		})
	}
	return updated, true
}

// remoteUpdate maps the patched fields to the server's names. The completion
// flag is sent whenever status or completion changed, always matching the
// merged status.
func remoteUpdate(patch models.TodoPatch, merged models.TodoItem) api.TodoUpdate {
	var body api.TodoUpdate
	if patch.Text != nil {
		body.Title = models.Ptr(merged.Text)
	}
	if patch.Priority != nil {
		body.Priority = models.Ptr(string(merged.Priority))
	}
	if patch.Status != nil || patch.Completed != nil {
		body.Status = models.Ptr(string(merged.Status))
		body.IsCompleted = models.Ptr(merged.Completed)
	}
	return body
}

// DeleteTodo removes the todo from date. A missing id leaves the sequence unchanged.
func (s *Synchronizer) DeleteTodo(date, id string) bool {
	removed := s.commit(func(next *models.State) bool {
		items := next.Todos[date]
		i := indexOf(items, id)
		if i < 0 {
			return false
		}
		next.Todos[date] = append(items[:i:i], items[i+1:]...)
		return true
	})
	if !removed {
		return false
	}

	if rid, ok := s.remoteID("delete_todo", id); ok {
		s.propagate("delete_todo", func(ctx context.Context) error {
			return s.remote.DeleteTodo(ctx, rid)
		})
	}
	return true
}

func indexOf(items []models.TodoItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
