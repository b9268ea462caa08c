package models

import (
	"fmt"
	"time"
)

// Habit represents a monthly goal tracked per calendar day
type Habit struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// CompletionKey identifies one habit on one calendar day (YYYY-MM-DD).
// It serializes as "{habitId}-{date}", the key shape of the persisted snapshot.
type CompletionKey struct {
	HabitID string
	Date    string
}

// dateLen is len("2006-01-02")
const dateLen = 10

func (k CompletionKey) String() string {
	return k.HabitID + "-" + k.Date
}

func (k CompletionKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the date from the end of the key, so habit ids may contain dashes.
func (k *CompletionKey) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) < dateLen+2 || s[len(s)-dateLen-1] != '-' {
		return fmt.Errorf("invalid completion key %q", s)
	}
	date := s[len(s)-dateLen:]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid completion key %q: %w", s, err)
	}
	k.HabitID = s[:len(s)-dateLen-1]
	k.Date = date
	return nil
}

// Completions is a sparse presence map; a missing key means "not completed".
type Completions map[CompletionKey]bool

// IsCompleted reports whether habitID was completed on date.
func (c Completions) IsCompleted(habitID, date string) bool {
	return c[CompletionKey{HabitID: habitID, Date: date}]
}

// Clone returns an independent copy.
func (c Completions) Clone() Completions {
	out := make(Completions, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
