package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/ordiaa/internal/api"
	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/logger"
	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/session"
	"github.com/julianstephens/ordiaa/internal/storage"
	"github.com/julianstephens/ordiaa/internal/syncer"
	"github.com/julianstephens/ordiaa/internal/utils"
)

type Context struct {
	Sync      *syncer.Synchronizer
	Store     storage.Provider
	Client    *api.Client
	Session   *session.Session
	ConfigDir string
}

// SyncIfAuthenticated replaces local state with the server's when a session
// exists. A failed sync keeps local state and is reported, not returned.
func (c *Context) SyncIfAuthenticated() {
	if c.Sync == nil || !c.Sync.Authenticated() {
		return
	}
	if err := c.Sync.Sync(context.Background()); err != nil {
		logger.Warn("Initial sync failed, using local data", "error", err)
		fmt.Fprintf(os.Stderr, "⚠ Could not sync with %s, showing local data.\n", c.Client.BaseURL())
	}
}

// ResolveDate turns a --date value into YYYY-MM-DD. Empty and "today" mean
// the synchronizer's current day; "yesterday" and "tomorrow" are relative to it.
func ResolveDate(value string, today time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return utils.FormatDate(today), nil
	case "yesterday":
		return utils.FormatDate(utils.AddDays(today, -1)), nil
	case "tomorrow":
		return utils.FormatDate(utils.AddDays(today, 1)), nil
	}
	if !utils.ValidateDate(value) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", value)
	}
	return value, nil
}

// FindHabit looks a habit up by id, then by case-insensitive name.
func FindHabit(habits []models.Habit, ref string) (models.Habit, error) {
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}

// Checkbox renders a completion flag the way list output shows it.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// StatusMark renders a todo status as a three-character box.
func StatusMark(st models.TodoStatus) string {
	switch st {
	case models.StatusDone:
		return "[x]"
	case models.StatusInProgress:
		return "[~]"
	}
	return "[ ]"
}

func addFailed(what string) error {
	return fmt.Errorf("failed to add %s: the server rejected it or is unreachable (see %s log)", what, constants.AppName)
}
