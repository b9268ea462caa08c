package syncer

import (
	"strconv"

	"github.com/julianstephens/ordiaa/internal/api"
	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/utils"
)

// remoteData is the result of the four list calls.
type remoteData struct {
	habits      []api.Habit
	completions []api.Completion
	todos       []api.Todo
	logs        []api.DailyLog
}

// fromRemote rebuilds the local state from server records. The server keeps
// no emoji, so habits get the placeholder unless the previous state already
// had one for the same id. Todo status collapses to done/todo because the
// server only stores a completion flag.
func fromRemote(data remoteData, previous models.State) models.State {
	state := models.NewState()

	emoji := make(map[string]string, len(previous.Habits))
	for _, h := range previous.Habits {
		emoji[h.ID] = h.Emoji
	}
	for _, h := range data.habits {
		id := strconv.FormatInt(h.ID, 10)
		e, ok := emoji[id]
		if !ok || e == "" {
			e = constants.PlaceholderEmoji
		}
		state.Habits = append(state.Habits, models.Habit{ID: id, Name: h.Name, Emoji: e})
	}

	for _, c := range data.completions {
		key := models.CompletionKey{
			HabitID: strconv.FormatInt(c.HabitID, 10),
			Date:    utils.DatePart(c.CompletedAt),
		}
		state.Completions[key] = true
	}

	for _, t := range data.todos {
		date := utils.DatePart(t.CreatedAt)
		state.Todos[date] = append(state.Todos[date], todoFromRemote(t, date))
	}

	for _, l := range data.logs {
		state.Logs[utils.DatePart(l.Date)] = l.Content
	}
	return state
}

func todoFromRemote(t api.Todo, date string) models.TodoItem {
	item := models.TodoItem{
		ID:        strconv.FormatInt(t.ID, 10),
		Text:      t.Title,
		Completed: t.IsCompleted,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: date,
	}
	if t.IsCompleted {
		item.Status = models.StatusDone
	}
	if t.Priority != nil {
		if p := models.TodoPriority(*t.Priority); p.Valid() {
			item.Priority = p
		}
	}
	return item
}
