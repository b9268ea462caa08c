package syncer

import (
	"context"
	"strconv"

	"github.com/julianstephens/ordiaa/internal/models"
)

// ToggleHabit flips the completion of habitID on date and returns the new value.
// Toggling off removes the entry, so a round trip restores the original map.
func (s *Synchronizer) ToggleHabit(habitID, date string) bool {
	var completed bool
	s.commit(func(next *models.State) bool {
		key := models.CompletionKey{HabitID: habitID, Date: date}
		completed = !next.Completions[key]
		if completed {
			next.Completions[key] = true
		} else {
			delete(next.Completions, key)
		}
		return true
	})

	if id, ok := s.remoteID("toggle_habit", habitID); ok {
		s.propagate("toggle_habit", func(ctx context.Context) error {
			_, err := s.remote.ToggleHabit(ctx, id, date)
			return err
		})
	}
	return completed
}

// IsHabitCompleted reports whether habitID is marked done on date.
func (s *Synchronizer) IsHabitCompleted(habitID, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Completions.IsCompleted(habitID, date)
}

// Habits returns the habit list in display order.
func (s *Synchronizer) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Habit, len(s.state.Habits))
	copy(out, s.state.Habits)
	return out
}

// AddHabit appends a habit. With a session the server assigns the id and the
// call blocks on it; ok is false when that create fails. The emoji is kept
// locally only.
func (s *Synchronizer) AddHabit(ctx context.Context, name, emoji string) (models.Habit, bool) {
	habit := models.Habit{Name: name, Emoji: emoji}

	if s.Authenticated() {
		created, err := s.remote.CreateHabit(ctx, name, "")
		if err != nil {
			s.logRemoteFailure("add_habit", err)
			return models.Habit{}, false
		}
		habit.ID = strconv.FormatInt(created.ID, 10)
		habit.Name = created.Name
	} else {
		habit.ID = s.nextLocalID()
	}

	s.commit(func(next *models.State) bool {
		next.Habits = append(next.Habits, habit)
		return true
	})
	return habit, true
}

// DeleteHabit removes the habit. Its completions stay in the map but no
// longer count toward any rate. Unknown ids are a no-op.
func (s *Synchronizer) DeleteHabit(habitID string) bool {
	removed := s.commit(func(next *models.State) bool {
		kept := next.Habits[:0]
		for _, h := range next.Habits {
			if h.ID != habitID {
				kept = append(kept, h)
			}
		}
		if len(kept) == len(next.Habits) {
			return false
		}
		next.Habits = kept
		return true
	})
	if !removed {
		return false
	}

	if id, ok := s.remoteID("delete_habit", habitID); ok {
		s.propagate("delete_habit", func(ctx context.Context) error {
			return s.remote.DeleteHabit(ctx, id)
		})
	}
	return true
}

// Streak counts consecutive completed days ending today, or ending yesterday
// when today is not done yet.
func (s *Synchronizer) Streak(habitID string) int {
	s.mu.Lock()
	completions := s.state.Completions
	s.mu.Unlock()

	day := s.Today()
	if !completions.IsCompleted(habitID, formatDay(day)) {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for completions.IsCompleted(habitID, formatDay(day)) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
