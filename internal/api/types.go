package api

// Habit is the server's habit record; it has no emoji.
type Habit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	UserID      int64   `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
}

// Completion records one habit done at a timestamp.
type Completion struct {
	ID          int64  `json:"id"`
	HabitID     int64  `json:"habit_id"`
	CompletedAt string `json:"completed_at"`
}

// Todo only distinguishes done / not done; priority and status are optional
// columns older servers do not return.
type Todo struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	IsCompleted bool    `json:"is_completed"`
	UserID      int64   `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

type TodoCreate struct {
	Title       string  `json:"title"`
	IsCompleted bool    `json:"is_completed"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date,omitempty"`
}

// TodoUpdate is a partial update; nil fields are omitted from the body.
type TodoUpdate struct {
	Title       *string `json:"title,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Empty reports whether the update has no fields to send.
func (u TodoUpdate) Empty() bool {
	return u.Title == nil && u.IsCompleted == nil && u.Priority == nil && u.Status == nil
}

type DailyLog struct {
	ID      int64   `json:"id"`
	UserID  int64   `json:"user_id"`
	Date    string  `json:"date"`
	Content string  `json:"content"`
	Mood    *string `json:"mood,omitempty"`
}

type DailyLogCreate struct {
	Date    string `json:"date"` // ISO datetime
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
