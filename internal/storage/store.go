// Package storage persists the dashboard state as one JSON snapshot in a
// user-scoped slot.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/ordiaa/internal/clock"
	"github.com/julianstephens/ordiaa/internal/constants"
	apperrors "github.com/julianstephens/ordiaa/internal/errors"
	"github.com/julianstephens/ordiaa/internal/logger"
	"github.com/julianstephens/ordiaa/internal/models"
)

// Provider is what the synchronizer persists through.
type Provider interface {
	Load() models.State
	Save(models.State)
	Location() string
	Close() error
}

// LocalStore reads and writes the full snapshot under constants.StorageKey.
// It never returns an error from Load or Save; failures are logged and the
// caller keeps its in-memory state.
type LocalStore struct {
	slot  Slot
	clock clock.Clock
	rand  *rand.Rand
	log   *log.Logger
}

type Option func(*LocalStore)

// WithClock sets the "today" used when seeding demo data.
func WithClock(c clock.Clock) Option {
	return func(s *LocalStore) { s.clock = c }
}

// WithRand sets the source used to pick demo completions.
func WithRand(r *rand.Rand) Option {
	return func(s *LocalStore) { s.rand = r }
}

func NewLocalStore(slot Slot, opts ...Option) *LocalStore {
	s := &LocalStore{
		slot:  slot,
		clock: clock.RealClock{},
		rand:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:   logger.With("component", "storage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// snapshot mirrors models.State with optional fields so an older snapshot's
// missing collections can be told apart from empty ones.
type snapshot struct {
	Habits      *[]models.Habit               `json:"habits"`
	Completions map[string]bool               `json:"completions"`
	Logs        map[string]string             `json:"logs"`
	Todos       *map[string][]models.TodoItem `json:"todos"`
}

// Load returns the persisted state. A missing or unreadable snapshot yields a
// freshly seeded demo state; a snapshot without todos gets the demo todos.
func (s *LocalStore) Load() models.State {
	data, err := s.slot.Read(constants.StorageKey)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			s.log.Warn("Failed to read local snapshot", "error", fmt.Errorf("%w: %v", apperrors.ErrPersistence, err), "location", s.slot.Location())
		}
		return s.seed()
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("Local snapshot is malformed, starting from demo data", "error", err, "location", s.slot.Location())
		return s.seed()
	}
	if snap.Habits == nil && snap.Completions == nil && snap.Logs == nil && snap.Todos == nil {
		return s.seed()
	}

	state := models.NewState()
	if snap.Habits != nil {
		state.Habits = append(state.Habits, *snap.Habits...)
	} else {
		state.Habits = DefaultHabits()
	}
	for raw, done := range snap.Completions {
		var key models.CompletionKey
		if err := key.UnmarshalText([]byte(raw)); err != nil {
			s.log.Debug("Dropping unreadable completion key", "key", raw)
			continue
		}
		if done {
			state.Completions[key] = true
		}
	}
	for date, text := range snap.Logs {
		state.Logs[date] = text
	}
	if snap.Todos == nil {
		state.Todos = DemoTodos(s.today())
	} else {
		for date, items := range *snap.Todos {
			normalized := make([]models.TodoItem, len(items))
			for i, item := range items {
				normalized[i] = item.Normalize()
			}
			state.Todos[date] = normalized
		}
	}
	return state
}

// Save replaces the snapshot with state.
func (s *LocalStore) Save(state models.State) {
	data, err := Encode(state)
	if err != nil {
		s.log.Error("Failed to encode snapshot", "error", err)
		return
	}
	if err := s.slot.Write(constants.StorageKey, data); err != nil {
		s.log.Error("Failed to persist snapshot", "error", fmt.Errorf("%w: %v", apperrors.ErrPersistence, err), "location", s.slot.Location())
	}
}

func (s *LocalStore) Location() string { return s.slot.Location() }

// Check reads the snapshot and reports whether it could be read and decoded.
// An empty slot is healthy; Load will seed it.
func (s *LocalStore) Check() error {
	data, err := s.slot.Read(constants.StorageKey)
	if errors.Is(err, ErrSlotEmpty) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: snapshot at %s is not valid JSON", apperrors.ErrPersistence, s.slot.Location())
	}
	return nil
}

func (s *LocalStore) Close() error { return s.slot.Close() }

// Encode renders state the way it is persisted. Map keys come out sorted, so
// equal states encode to equal bytes.
func Encode(state models.State) ([]byte, error) {
	state = ensureAllocated(state)
	return json.Marshal(state)
}

func ensureAllocated(state models.State) models.State {
	if state.Habits == nil {
		state.Habits = []models.Habit{}
	}
	if state.Completions == nil {
		state.Completions = models.Completions{}
	}
	if state.Logs == nil {
		state.Logs = map[string]string{}
	}
	if state.Todos == nil {
		state.Todos = map[string][]models.TodoItem{}
	}
	return state
}
