package storage

import (
	"time"

	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/utils"
)

var demoLogPhrases = []string{
	"Felt energetic today! ✨",
	"Tough morning but pushed through",
	"Made progress on the book",
	"Quiet day, needed rest",
	"Great walk in the park",
}

// DefaultHabits are the habits a first run starts with.
func DefaultHabits() []models.Habit {
	return []models.Habit{
		{ID: "1", Name: "Morning stretch", Emoji: "🧘"},
		{ID: "2", Name: "Read 10 pages", Emoji: "📚"},
		{ID: "3", Name: "Drink water", Emoji: "💧"},
		{ID: "4", Name: "Walk outside", Emoji: "🚶"},
		{ID: "5", Name: "Journal", Emoji: "✍️"},
	}
}

// DemoTodos returns the three sample todos dated today.
func DemoTodos(today time.Time) map[string][]models.TodoItem {
	date := utils.FormatDate(today)
	return map[string][]models.TodoItem{
		date: {
			{ID: "demo1", Text: "Review project requirements", Completed: true, Status: models.StatusDone, Priority: models.PriorityHigh, CreatedAt: date},
			{ID: "demo2", Text: "Send email to team", Status: models.StatusTodo, Priority: models.PriorityMedium, CreatedAt: date},
			{ID: "demo3", Text: "Prepare for meeting", Status: models.StatusTodo, Priority: models.PriorityMedium, CreatedAt: date},
		},
	}
}

// DemoCompletions marks each habit done on each of the last days (today
// inclusive) with the configured probability.
func DemoCompletions(habits []models.Habit, today time.Time, chance func() float64) models.Completions {
	out := models.Completions{}
	for i := 0; i < constants.DemoCompletionDays; i++ {
		date := utils.FormatDate(utils.AddDays(today, -i))
		for _, h := range habits {
			if chance() < constants.DemoCompletionProbability {
				out[models.CompletionKey{HabitID: h.ID, Date: date}] = true
			}
		}
	}
	return out
}

// DemoLogs writes one phrase every other day going back from today.
func DemoLogs(today time.Time) map[string]string {
	out := make(map[string]string, constants.DemoLogEntries)
	for i := 0; i < constants.DemoLogEntries; i++ {
		date := utils.FormatDate(utils.AddDays(today, -i*constants.DemoLogSpacingDays))
		out[date] = demoLogPhrases[i%len(demoLogPhrases)]
	}
	return out
}

func (s *LocalStore) today() time.Time {
	return s.clock.Now()
}

func (s *LocalStore) seed() models.State {
	today := s.today()
	habits := DefaultHabits()
	return models.State{
		Habits:      habits,
		Completions: DemoCompletions(habits, today, s.rand.Float64),
		Logs:        DemoLogs(today),
		Todos:       DemoTodos(today),
	}
}
