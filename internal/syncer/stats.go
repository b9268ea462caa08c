package syncer

import (
	"math"
	"time"

	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/utils"
)

// HistoryPoint is one day of the completion chart.
type HistoryPoint struct {
	Label string // e.g. "Mar 1"
	Date  string // YYYY-MM-DD
	Rate  int    // percent
}

func formatDay(t time.Time) string {
	return utils.FormatDate(t)
}

// CompletionRate is the rounded percentage of habits done on date, 0 with no habits.
func (s *Synchronizer) CompletionRate(date string) int {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	return completionRate(state, date)
}

func completionRate(state models.State, date string) int {
	if len(state.Habits) == 0 {
		return 0
	}
	done := 0
	for _, h := range state.Habits {
		if state.Completions.IsCompleted(h.ID, date) {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(state.Habits)) * 100))
}

// CompletionHistory returns one point per calendar day, oldest first, the
// last being today.
func (s *Synchronizer) CompletionHistory(days int) []HistoryPoint {
	if days <= 0 {
		return []HistoryPoint{}
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	today := utils.StartOfDay(s.Today())
	points := make([]HistoryPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := utils.AddDays(today, -i)
		date := formatDay(day)
		points = append(points, HistoryPoint{
			Label: day.Format(constants.HistoryLabelFormat),
			Date:  date,
			Rate:  completionRate(state, date),
		})
	}
	return points
}

// DailyQuote picks the quote for day, rotating by day of year.
func DailyQuote(day time.Time) string {
	return constants.DailyQuotes[utils.DayOfYear(day)%len(constants.DailyQuotes)]
}
