package syncer

import (
	"context"

	"github.com/julianstephens/ordiaa/internal/models"
)

// UpdateLog overwrites the log line for date. Empty text is stored as an
// empty entry, not removed.
func (s *Synchronizer) UpdateLog(date, text string) {
	s.commit(func(next *models.State) bool {
		next.Logs[date] = text
		return true
	})

	s.propagate("update_log", func(ctx context.Context) error {
		_, err := s.remote.SaveLog(ctx, date, text, "")
		return err
	})
}

// Log returns the log line for date and whether one was written.
func (s *Synchronizer) Log(date string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.state.Logs[date]
	return text, ok
}
