package models

// State is the aggregate the dashboard renders from: habits, their per-day
// completions, one log line per date and the todo sequence of each date.
type State struct {
	Habits      []Habit               `json:"habits"`
	Completions Completions           `json:"completions"`
	Logs        map[string]string     `json:"logs"`
	Todos       map[string][]TodoItem `json:"todos"`
}

// NewState returns an empty state with every collection allocated.
func NewState() State {
	return State{
		Habits:      []Habit{},
		Completions: Completions{},
		Logs:        map[string]string{},
		Todos:       map[string][]TodoItem{},
	}
}

// Clone returns a deep copy; mutating it never affects s.
func (s State) Clone() State {
	out := State{
		Habits:      make([]Habit, len(s.Habits)),
		Completions: s.Completions.Clone(),
		Logs:        make(map[string]string, len(s.Logs)),
		Todos:       make(map[string][]TodoItem, len(s.Todos)),
	}
	copy(out.Habits, s.Habits)
	for k, v := range s.Logs {
		out.Logs[k] = v
	}
	for k, v := range s.Todos {
		items := make([]TodoItem, len(v))
		copy(items, v)
		out.Todos[k] = items
	}
	return out
}

// Habit looks up a habit by id.
func (s State) Habit(id string) (Habit, bool) {
	for _, h := range s.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// TodosFor returns a copy of the todo sequence for date, empty when none.
func (s State) TodosFor(date string) []TodoItem {
	items := s.Todos[date]
	out := make([]TodoItem, len(items))
	copy(out, items)
	return out
}

// LogFor returns the log line for date, empty when none.
func (s State) LogFor(date string) string {
	return s.Logs[date]
}
