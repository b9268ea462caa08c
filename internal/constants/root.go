package constants

import "time"

// SessionState represents the current focus of the TUI dashboard
type SessionState int

const (
	AppName = "ordiaa"
	Version = "v0.1.0"

	// Keyring entries
	KeyringTokenUser   = "session-token"
	DefaultKeyringUser = "database-connection"

	// Storage
	StorageKey        = "ordiaa-data"
	DefaultConfigDir  = "~/.config/ordiaa"
	DefaultStorePath  = "~/.config/ordiaa/ordiaa.json"
	DefaultConfigFile = "~/.config/ordiaa/config.yaml"
	LockfileName      = "ordiaa.lock"

	// Remote API
	DefaultAPIURL   = "http://localhost:8000"
	RequestIDHeader = "X-Request-ID"

	// DateFormat is the calendar date format used for every persisted and wire date (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// HistoryLabelFormat renders completion history labels, e.g. "Mar 1"
	HistoryLabelFormat = "Jan 2"

	// PlaceholderEmoji marks habits that come from the server, which does not store one
	PlaceholderEmoji = "✨"

	// Demo seeding
	DemoCompletionDays        = 14
	DemoCompletionProbability = 0.6
	DemoLogEntries            = 5
	DemoLogSpacingDays        = 2

	// Defaults
	DefaultHistoryDays = 30
	WaitTimeout        = 10 * time.Second
)

// Dashboard focus
const (
	StateHabits SessionState = iota
	StateTodos
	StateLog
	StateEditLog
	StateAddTodo
	StateAddHabit
	StateConfirmDelete
)

// DailyQuotes rotate by day of year on the dashboard header
var DailyQuotes = []string{
	"Small steps lead to big changes.",
	"Progress, not perfection.",
	"Every day is a fresh start.",
	"Consistency is the key to mastery.",
	"Be gentle with yourself today.",
	"One habit at a time.",
	"You're doing better than you think.",
	"Trust the process.",
	"Growth happens slowly, then suddenly.",
	"Show up for yourself today.",
}
