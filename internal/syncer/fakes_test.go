package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/ordiaa/internal/api"
	apperrors "github.com/julianstephens/ordiaa/internal/errors"
	"github.com/julianstephens/ordiaa/internal/models"
)

type call struct {
	op   string
	id   int64
	date string
	body any
}

// fakeRemote records calls and serves canned list results
type fakeRemote struct {
	mu    sync.Mutex
	calls []call

	habits      []api.Habit
	completions []api.Completion
	todos       []api.Todo
	logs        []api.DailyLog

	listErr   error
	createErr error
	nextID    int64
}

func (f *fakeRemote) record(c call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeRemote) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeRemote) ListHabits(ctx context.Context) ([]api.Habit, error) {
	return f.habits, nil
}

func (f *fakeRemote) ListCompletions(ctx context.Context) ([]api.Completion, error) {
	return f.completions, nil
}

func (f *fakeRemote) ListTodos(ctx context.Context) ([]api.Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.todos, nil
}

func (f *fakeRemote) ListLogs(ctx context.Context) ([]api.DailyLog, error) {
	return f.logs, nil
}

func (f *fakeRemote) CreateHabit(ctx context.Context, name, description string) (api.Habit, error) {
	f.record(call{op: "create_habit", body: name})
	if f.createErr != nil {
		return api.Habit{}, f.createErr
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()
	return api.Habit{ID: id, Name: name}, nil
}

func (f *fakeRemote) DeleteHabit(ctx context.Context, id int64) error {
	f.record(call{op: "delete_habit", id: id})
	return nil
}

func (f *fakeRemote) ToggleHabit(ctx context.Context, id int64, date string) ([]api.Completion, error) {
	f.record(call{op: "toggle_habit", id: id, date: date})
	return nil, nil
}

func (f *fakeRemote) CreateTodo(ctx context.Context, in api.TodoCreate) (api.Todo, error) {
	f.record(call{op: "create_todo", body: in})
	if f.createErr != nil {
		return api.Todo{}, f.createErr
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()
	return api.Todo{ID: id, Title: in.Title, IsCompleted: in.IsCompleted, Priority: &in.Priority, Status: &in.Status}, nil
}

func (f *fakeRemote) UpdateTodo(ctx context.Context, id int64, in api.TodoUpdate) (api.Todo, error) {
	f.record(call{op: "update_todo", id: id, body: in})
	return api.Todo{ID: id}, nil
}

func (f *fakeRemote) DeleteTodo(ctx context.Context, id int64) error {
	f.record(call{op: "delete_todo", id: id})
	return nil
}

func (f *fakeRemote) SaveLog(ctx context.Context, date, content, mood string) (api.DailyLog, error) {
	f.record(call{op: "save_log", date: date, body: content})
	return api.DailyLog{}, fmt.Errorf("%w: connection refused", apperrors.ErrTransport)
}

// memoryStore is a storage.Provider that keeps every saved state
type memoryStore struct {
	mu     sync.Mutex
	loaded models.State
	saves  []models.State
}

func (m *memoryStore) Load() models.State { return m.loaded.Clone() }

func (m *memoryStore) Save(state models.State) {
	m.mu.Lock()
	m.saves = append(m.saves, state.Clone())
	m.mu.Unlock()
}

func (m *memoryStore) Last() models.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[len(m.saves)-1]
}

func (m *memoryStore) Location() string { return "memory" }
func (m *memoryStore) Close() error     { return nil }
