package syncer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/ordiaa/internal/api"
	"github.com/julianstephens/ordiaa/internal/clock"
	"github.com/julianstephens/ordiaa/internal/constants"
	apperrors "github.com/julianstephens/ordiaa/internal/errors"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/session"
	"github.com/julianstephens/ordiaa/internal/storage"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local)

const today = "2024-03-15"

func baseState() models.State {
	st := models.NewState()
	st.Habits = []models.Habit{
		{ID: "1", Name: "Stretch", Emoji: "🧘"},
		{ID: "2", Name: "Read", Emoji: "📚"},
	}
	st.Todos[today] = []models.TodoItem{
		{ID: "10", Text: "Numeric", Status: models.StatusTodo, Priority: models.PriorityMedium, CreatedAt: today},
		{ID: "demo2", Text: "Local only", Status: models.StatusTodo, Priority: models.PriorityMedium, CreatedAt: today},
	}
	return st
}

type fixture struct {
	sync    *Synchronizer
	remote  *fakeRemote
	store   *memoryStore
	session *session.Session
	clock   *clock.FakeClock
}

func newFixture(t *testing.T, state models.State, token string) fixture {
	t.Helper()
	remote := &fakeRemote{nextID: 100}
	store := &memoryStore{loaded: state}
	sess := session.New(session.NewMemoryTokenStore(token))
	clk := clock.NewFakeClock(testNow)
	s := New(store, remote, sess, WithClock(clk))
	t.Cleanup(s.Wait)
	return fixture{sync: s, remote: remote, store: store, session: sess, clock: clk}
}

func TestToggleHabitTwiceRestores(t *testing.T) {
	tests := []struct {
		habitID string
		date    string
		initial bool
	}{
		{"1", today, false},
		{"1", today, true},
		{"2", "2024-02-29", false},
		{"unknown-habit", "2023-12-31", true},
	}

	for _, tt := range tests {
		t.Run(tt.habitID+"/"+tt.date, func(t *testing.T) {
			st := baseState()
			if tt.initial {
				st.Completions[models.CompletionKey{HabitID: tt.habitID, Date: tt.date}] = true
			}
			f := newFixture(t, st, "")

			before := f.sync.Snapshot().Completions
			assert.Equal(t, !tt.initial, f.sync.ToggleHabit(tt.habitID, tt.date))
			assert.Equal(t, !tt.initial, f.sync.IsHabitCompleted(tt.habitID, tt.date))
			f.sync.ToggleHabit(tt.habitID, tt.date)
			assert.Equal(t, before, f.sync.Snapshot().Completions)
		})
	}
}

func TestCompletionRate(t *testing.T) {
	t.Run("zero habits", func(t *testing.T) {
		f := newFixture(t, models.NewState(), "")
		for _, date := range []string{today, "1999-01-01", ""} {
			assert.Equal(t, 0, f.sync.CompletionRate(date))
		}
	})

	t.Run("one of two", func(t *testing.T) {
		st := baseState()
		st.Completions[models.CompletionKey{HabitID: "1", Date: today}] = true
		f := newFixture(t, st, "")
		assert.Equal(t, 50, f.sync.CompletionRate(today))
		assert.Equal(t, 0, f.sync.CompletionRate("2024-03-14"))
	})

	t.Run("rounds to nearest", func(t *testing.T) {
		st := models.NewState()
		st.Habits = []models.Habit{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		st.Completions[models.CompletionKey{HabitID: "a", Date: today}] = true
		st.Completions[models.CompletionKey{HabitID: "b", Date: today}] = true
		f := newFixture(t, st, "")
		assert.Equal(t, 67, f.sync.CompletionRate(today))
	})

	t.Run("completions of deleted habits do not count", func(t *testing.T) {
		st := baseState()
		st.Completions[models.CompletionKey{HabitID: "gone", Date: today}] = true
		f := newFixture(t, st, "")
		assert.Equal(t, 0, f.sync.CompletionRate(today))
	})
}

func TestCompletionHistory(t *testing.T) {
	st := baseState()
	st.Completions[models.CompletionKey{HabitID: "1", Date: today}] = true
	st.Completions[models.CompletionKey{HabitID: "2", Date: today}] = true
	st.Completions[models.CompletionKey{HabitID: "1", Date: "2024-03-14"}] = true
	f := newFixture(t, st, "")

	for _, n := range []int{1, 7, 30, 400} {
		points := f.sync.CompletionHistory(n)
		require.Len(t, points, n)
		assert.Equal(t, today, points[n-1].Date)
		for i := 1; i < n; i++ {
			prev, err := time.Parse(constants.DateFormat, points[i-1].Date)
			require.NoError(t, err)
			cur, err := time.Parse(constants.DateFormat, points[i].Date)
			require.NoError(t, err)
			assert.Equal(t, 24*time.Hour, cur.Sub(prev), "points %d and %d", i-1, i)
		}
	}

	points := f.sync.CompletionHistory(3)
	assert.Equal(t, []HistoryPoint{
		{Label: "Mar 13", Date: "2024-03-13", Rate: 0},
		{Label: "Mar 14", Date: "2024-03-14", Rate: 50},
		{Label: "Mar 15", Date: "2024-03-15", Rate: 100},
	}, points)

	assert.Empty(t, f.sync.CompletionHistory(0))
}

func TestUpdateTodoKeepsCompletionInStep(t *testing.T) {
	f := newFixture(t, baseState(), "")

	item, ok := f.sync.UpdateTodo(today, "10", models.TodoPatch{Status: models.Ptr(models.StatusDone)})
	require.True(t, ok)
	assert.True(t, item.Completed)

	item, ok = f.sync.ToggleTodo(today, "10")
	require.True(t, ok)
	assert.Equal(t, models.StatusTodo, item.Status)
	assert.False(t, item.Completed)

	item, ok = f.sync.UpdateTodo(today, "10", models.TodoPatch{Status: models.Ptr(models.StatusInProgress)})
	require.True(t, ok)
	assert.False(t, item.Completed)

	item, ok = f.sync.UpdateTodo(today, "10", models.TodoPatch{Completed: models.Ptr(true)})
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, item.Status)

	for _, todo := range f.sync.Todos(today) {
		assert.Equal(t, todo.Status == models.StatusDone, todo.Completed, "todo %s", todo.ID)
	}
}

func TestMissingTodoIsNoop(t *testing.T) {
	f := newFixture(t, baseState(), "token")
	before := f.sync.Todos(today)

	assert.False(t, f.sync.DeleteTodo(today, "nope"))
	_, ok := f.sync.ToggleTodo(today, "nope")
	assert.False(t, ok)
	_, ok = f.sync.UpdateTodo(today, "nope", models.TodoPatch{Text: models.Ptr("x")})
	assert.False(t, ok)
	assert.False(t, f.sync.DeleteTodo("2000-01-01", "10"))

	assert.Equal(t, before, f.sync.Todos(today))
	assert.Empty(t, f.store.saves, "no-ops must not persist")
	f.sync.Wait()
	assert.Empty(t, f.remote.Calls(), "no-ops must not reach the server")
}

func TestDeleteTodo(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	require.True(t, f.sync.DeleteTodo(today, "10"))
	todos := f.sync.Todos(today)
	require.Len(t, todos, 1)
	assert.Equal(t, "demo2", todos[0].ID)

	f.sync.Wait()
	assert.Equal(t, []call{{op: "delete_todo", id: 10}}, f.remote.Calls())
}

func TestFreshUnauthenticatedState(t *testing.T) {
	clk := clock.NewFakeClock(testNow)
	store := storage.NewLocalStore(storage.NewFileSlot(filepath.Join(t.TempDir(), "ordiaa.json")), storage.WithClock(clk))
	remote := &fakeRemote{}
	s := New(store, remote, session.New(session.NewMemoryTokenStore("")), WithClock(clk))

	state := s.Snapshot()
	require.Len(t, state.Habits, 5)
	require.Len(t, state.Todos[today], 3)

	item, ok := s.AddTodo(context.Background(), today, "Buy milk")
	require.True(t, ok)

	todos := s.Todos(today)
	require.Len(t, todos, 4)
	last := todos[3]
	assert.Equal(t, item, last)
	assert.Equal(t, "Buy milk", last.Text)
	assert.Equal(t, models.StatusTodo, last.Status)
	assert.Equal(t, models.PriorityMedium, last.Priority)
	assert.False(t, last.Completed)
	assert.Equal(t, today, last.CreatedAt)

	s.Wait()
	assert.Empty(t, remote.Calls())

	// The addition survives a reload from disk
	reloaded := New(store, remote, session.New(session.NewMemoryTokenStore("")), WithClock(clk))
	assert.Len(t, reloaded.Todos(today), 4)
}

func TestLocalIDsStrictlyIncrease(t *testing.T) {
	f := newFixture(t, models.NewState(), "")

	first, ok := f.sync.AddTodo(context.Background(), today, "a")
	require.True(t, ok)
	second, _ := f.sync.AddTodo(context.Background(), today, "b")
	habit, _ := f.sync.AddHabit(context.Background(), "c", "🌱")

	assert.Equal(t, strconv.FormatInt(testNow.UnixMilli(), 10), first.ID, "id is the clock's millisecond timestamp")

	ids := []string{first.ID, second.ID, habit.ID}
	for i := 1; i < len(ids); i++ {
		prev, err := strconv.ParseInt(ids[i-1], 10, 64)
		require.NoError(t, err)
		cur, err := strconv.ParseInt(ids[i], 10, 64)
		require.NoError(t, err)
		assert.Greater(t, cur, prev)
	}
}

func TestSyncTransformsRemoteData(t *testing.T) {
	st := baseState()
	f := newFixture(t, st, "token")
	f.remote.habits = []api.Habit{{ID: 1, Name: "Stretch"}, {ID: 7, Name: "New on server"}}
	f.remote.completions = []api.Completion{
		{HabitID: 1, CompletedAt: "2024-03-01T08:00:00"},
		{HabitID: 1, CompletedAt: "2024-03-01T21:00:00"},
		{HabitID: 7, CompletedAt: "2024-03-02 07:00:00"},
	}
	f.remote.todos = []api.Todo{
		{ID: 5, Title: "Done on server", IsCompleted: true, CreatedAt: "2024-03-01T10:00:00Z"},
		{ID: 6, Title: "Open", IsCompleted: false, CreatedAt: "2024-03-01T11:00:00Z", Priority: models.Ptr("high"), Status: models.Ptr("in-progress")},
	}
	f.remote.logs = []api.DailyLog{{Date: "2024-03-01T00:00:00", Content: "calm"}}

	require.NoError(t, f.sync.Sync(context.Background()))
	state := f.sync.Snapshot()

	assert.Equal(t, []models.Habit{
		{ID: "1", Name: "Stretch", Emoji: "🧘"},
		{ID: "7", Name: "New on server", Emoji: constants.PlaceholderEmoji},
	}, state.Habits)

	assert.Len(t, state.Completions, 2)
	assert.True(t, state.Completions.IsCompleted("1", "2024-03-01"))
	assert.True(t, state.Completions.IsCompleted("7", "2024-03-02"))

	todos := state.Todos["2024-03-01"]
	require.Len(t, todos, 2)
	assert.Equal(t, models.TodoItem{
		ID: "5", Text: "Done on server", Completed: true, Status: models.StatusDone,
		Priority: models.PriorityMedium, CreatedAt: "2024-03-01",
	}, todos[0])
	assert.Equal(t, models.StatusTodo, todos[1].Status, "in-progress collapses to todo")
	assert.Equal(t, models.PriorityHigh, todos[1].Priority)
	assert.NotContains(t, state.Todos, today, "local todos are replaced by the server's")

	assert.Equal(t, map[string]string{"2024-03-01": "calm"}, state.Logs)
	assert.Equal(t, state, f.store.Last(), "synced state is persisted")
}

func TestSyncFailureLeavesState(t *testing.T) {
	f := newFixture(t, baseState(), "token")
	f.remote.listErr = errors.New("boom")

	before := f.sync.Snapshot()
	assert.Error(t, f.sync.Sync(context.Background()))
	assert.Equal(t, before, f.sync.Snapshot())
	assert.Empty(t, f.store.saves)
}

func TestSyncWithoutSessionDoesNothing(t *testing.T) {
	f := newFixture(t, baseState(), "")
	f.remote.habits = []api.Habit{{ID: 99, Name: "x"}}

	require.NoError(t, f.sync.Sync(context.Background()))
	assert.Equal(t, baseState(), f.sync.Snapshot())
}

func TestPropagation(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	f.sync.ToggleHabit("1", today)
	f.sync.ToggleTodo(today, "10")
	f.sync.ToggleTodo(today, "demo2")
	f.sync.DeleteHabit("2")
	f.sync.Wait()

	calls := f.remote.Calls()
	assert.Equal(t, []call{
		{op: "toggle_habit", id: 1, date: today},
		{op: "update_todo", id: 10, body: api.TodoUpdate{IsCompleted: models.Ptr(true)}},
		{op: "delete_habit", id: 2},
	}, calls, "numeric ids are sent in call order; non-numeric todo ids are not")
}

func TestPropagationKeepsCallOrder(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	var want []any
	for i := 0; i < 20; i++ {
		text := "entry " + strconv.Itoa(i)
		f.sync.UpdateLog(today, text)
		want = append(want, text)
	}
	f.sync.UpdateTodo(today, "10", models.TodoPatch{Status: models.Ptr(models.StatusInProgress)})
	f.sync.UpdateTodo(today, "10", models.TodoPatch{Status: models.Ptr(models.StatusDone)})
	f.sync.Wait()

	calls := f.remote.Calls()
	require.Len(t, calls, 22)

	var got []any
	for _, c := range calls[:20] {
		got = append(got, c.body)
	}
	assert.Equal(t, want, got)

	text, _ := f.sync.Log(today)
	assert.Equal(t, text, calls[19].body, "the server's last log write is the local value")

	assert.Equal(t, api.TodoUpdate{Status: models.Ptr("in-progress"), IsCompleted: models.Ptr(false)}, calls[20].body)
	assert.Equal(t, api.TodoUpdate{Status: models.Ptr("done"), IsCompleted: models.Ptr(true)}, calls[21].body)
}

func TestWaitTimeoutDrainsQueue(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	f.sync.ToggleHabit("1", today)
	f.sync.ToggleHabit("2", today)
	assert.True(t, f.sync.WaitTimeout(time.Second))
	assert.Len(t, f.remote.Calls(), 2)
}

func TestNoPropagationWithoutSession(t *testing.T) {
	f := newFixture(t, baseState(), "")

	f.sync.ToggleHabit("1", today)
	f.sync.ToggleTodo(today, "10")
	f.sync.UpdateLog(today, "hi")
	f.sync.DeleteHabit("1")
	f.sync.Wait()

	assert.Empty(t, f.remote.Calls())
	assert.Len(t, f.store.saves, 4, "every mutation is still persisted")
}

func TestUpdateTodoRemoteBody(t *testing.T) {
	tests := []struct {
		name  string
		patch models.TodoPatch
		want  api.TodoUpdate
	}{
		{
			name:  "text only",
			patch: models.TodoPatch{Text: models.Ptr("renamed")},
			want:  api.TodoUpdate{Title: models.Ptr("renamed")},
		},
		{
			name:  "status done sets the completion flag",
			patch: models.TodoPatch{Status: models.Ptr(models.StatusDone)},
			want:  api.TodoUpdate{Status: models.Ptr("done"), IsCompleted: models.Ptr(true)},
		},
		{
			name:  "priority and in-progress",
			patch: models.TodoPatch{Priority: models.Ptr(models.PriorityLow), Status: models.Ptr(models.StatusInProgress)},
			want:  api.TodoUpdate{Priority: models.Ptr("low"), Status: models.Ptr("in-progress"), IsCompleted: models.Ptr(false)},
		},
		{
			name:  "completed flag carries derived status",
			patch: models.TodoPatch{Completed: models.Ptr(true)},
			want:  api.TodoUpdate{Status: models.Ptr("done"), IsCompleted: models.Ptr(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, baseState(), "token")
			_, ok := f.sync.UpdateTodo(today, "10", tt.patch)
			require.True(t, ok)
			f.sync.Wait()
			assert.Equal(t, []call{{op: "update_todo", id: 10, body: tt.want}}, f.remote.Calls())
		})
	}
}

func TestAddTodoAuthenticated(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	item, ok := f.sync.AddTodo(context.Background(), today, "Call mom", WithPriority(models.PriorityHigh))
	require.True(t, ok)
	assert.Equal(t, "101", item.ID, "server assigns the id")
	assert.Equal(t, models.PriorityHigh, item.Priority)
	assert.Equal(t, models.StatusTodo, item.Status)

	todos := f.sync.Todos(today)
	assert.Equal(t, item, todos[len(todos)-1])
	assert.Equal(t, api.TodoCreate{Title: "Call mom", Priority: "high", Status: "todo"}, f.remote.Calls()[0].body)
}

func TestAddFailsWhenServerRejects(t *testing.T) {
	f := newFixture(t, baseState(), "token")
	f.remote.createErr = &apperrors.APIError{Status: http.StatusUnprocessableEntity, Message: "field required"}

	_, ok := f.sync.AddTodo(context.Background(), today, "x")
	assert.False(t, ok)
	_, ok = f.sync.AddHabit(context.Background(), "y", "🌱")
	assert.False(t, ok)

	assert.Equal(t, baseState(), f.sync.Snapshot(), "nothing is added")
}

func TestAddHabitKeepsEmoji(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	habit, ok := f.sync.AddHabit(context.Background(), "Meditate", "🧠")
	require.True(t, ok)
	assert.Equal(t, models.Habit{ID: "101", Name: "Meditate", Emoji: "🧠"}, habit)

	// A later sync keeps the emoji for the surviving id
	f.remote.habits = []api.Habit{{ID: 101, Name: "Meditate"}}
	require.NoError(t, f.sync.Sync(context.Background()))
	assert.Equal(t, []models.Habit{habit}, f.sync.Habits())
}

func TestUpdateLog(t *testing.T) {
	f := newFixture(t, baseState(), "token")

	f.sync.UpdateLog(today, "good day")
	f.sync.UpdateLog(today, "")
	f.sync.Wait()

	text, ok := f.sync.Log(today)
	assert.True(t, ok, "an empty entry is still an entry")
	assert.Equal(t, "", text)

	// SaveLog fails in the fake; the local value still stands
	assert.Len(t, f.remote.Calls(), 2)
	assert.Equal(t, "", f.store.Last().Logs[today])
}

func TestForbiddenInvalidatesSession(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"detail": "Could not validate credentials"}`)
	}))
	defer srv.Close()

	tokens := session.NewMemoryTokenStore("stale-token")
	sess := session.New(tokens)
	reasons := make(chan string, 1)
	sess.OnInvalidate(func(reason string) { reasons <- reason })

	client := api.New(srv.URL, sess)
	s := New(&memoryStore{loaded: baseState()}, client, sess, WithClock(clock.NewFakeClock(testNow)))

	item, ok := s.ToggleTodo(today, "10")
	require.True(t, ok)
	s.Wait()

	assert.Equal(t, session.ReasonExpired, <-reasons)
	assert.False(t, s.Authenticated())
	stored, _ := tokens.Load()
	assert.Empty(t, stored, "stored credential is cleared")

	// The optimistic change stands
	assert.Equal(t, item, s.Todos(today)[0])
	assert.True(t, item.Completed)

	// Later mutations stay local
	s.ToggleHabit("1", today)
	s.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t, baseState(), "")

	var got []models.State
	cancel := f.sync.Subscribe(func(st models.State) { got = append(got, st) })

	f.sync.ToggleHabit("1", today)
	f.sync.UpdateLog(today, "x")
	cancel()
	f.sync.UpdateLog(today, "y")

	require.Len(t, got, 2)
	assert.True(t, got[0].Completions.IsCompleted("1", today))
	assert.Equal(t, "x", got[1].Logs[today])
}

func TestSubscriberMayUnsubscribeFromCallback(t *testing.T) {
	f := newFixture(t, baseState(), "")

	calls := 0
	var cancel func()
	cancel = f.sync.Subscribe(func(models.State) {
		calls++
		cancel()
		f.sync.Subscribe(func(models.State) {})
	})

	done := make(chan struct{})
	go func() {
		f.sync.ToggleHabit("1", today)
		f.sync.ToggleHabit("1", today)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commit blocked on a subscriber that re-entered Subscribe")
	}
	assert.Equal(t, 1, calls)
}

func TestSnapshotIsACopy(t *testing.T) {
	f := newFixture(t, baseState(), "")

	snap := f.sync.Snapshot()
	snap.Habits[0].Name = "mutated"
	snap.Logs[today] = "mutated"
	snap.Todos[today][0].Text = "mutated"

	assert.Equal(t, baseState(), f.sync.Snapshot())
}

func TestStreak(t *testing.T) {
	st := baseState()
	for _, d := range []string{"2024-03-14", "2024-03-13", "2024-03-12", "2024-03-10"} {
		st.Completions[models.CompletionKey{HabitID: "1", Date: d}] = true
	}
	f := newFixture(t, st, "")

	assert.Equal(t, 3, f.sync.Streak("1"), "today not done yet counts from yesterday")
	f.sync.ToggleHabit("1", today)
	assert.Equal(t, 4, f.sync.Streak("1"))
	assert.Equal(t, 0, f.sync.Streak("2"))
}

func TestTodosByStatus(t *testing.T) {
	st := baseState()
	st.Todos[today] = append(st.Todos[today],
		models.TodoItem{ID: "11", Text: "Working", Status: models.StatusInProgress, Priority: models.PriorityLow},
		models.TodoItem{ID: "12", Text: "Legacy done", Completed: true},
	)
	f := newFixture(t, st, "")

	board := f.sync.TodosByStatus(today)
	require.Len(t, board, 3)
	assert.Len(t, board[models.StatusTodo], 2)
	require.Len(t, board[models.StatusInProgress], 1)
	assert.Equal(t, "11", board[models.StatusInProgress][0].ID)
	require.Len(t, board[models.StatusDone], 1)
	assert.Equal(t, "12", board[models.StatusDone][0].ID)

	empty := f.sync.TodosByStatus("1999-01-01")
	for _, status := range models.Statuses {
		assert.NotNil(t, empty[status])
		assert.Empty(t, empty[status])
	}
}

func TestDailyQuote(t *testing.T) {
	jan1 := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, constants.DailyQuotes[1], DailyQuote(jan1))

	next := DailyQuote(jan1.AddDate(0, 0, 1))
	assert.Equal(t, constants.DailyQuotes[2], next)
	assert.Equal(t, DailyQuote(jan1), DailyQuote(jan1.Add(10*time.Hour)), "stable within a day")
}
