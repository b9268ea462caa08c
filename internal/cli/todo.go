package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/ordiaa/internal/models"
	"github.com/julianstephens/ordiaa/internal/syncer"
)

type TodoCmd struct {
	Add    TodoAddCmd    `cmd:"" help:"Add a todo for a day."`
	List   TodoListCmd   `cmd:"" help:"List a day's todos."`
	Toggle TodoToggleCmd `cmd:"" help:"Toggle a todo between done and not done."`
	Edit   TodoEditCmd   `cmd:"" help:"Change a todo's text, status, priority or completion."`
	Delete TodoDeleteCmd `cmd:"" help:"Delete a todo."`
}

type TodoAddCmd struct {
	Text     string `arg:"" help:"What needs doing."`
	Date     string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Priority string `help:"Priority (low, medium, high)." enum:"low,medium,high" default:"medium"`
	Status   string `help:"Initial status (todo, in-progress, done)." enum:"todo,in-progress,done" default:"todo"`
}

func (c *TodoAddCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}
	priority, err := models.ParseTodoPriority(c.Priority)
	if err != nil {
		return err
	}
	status, err := models.ParseTodoStatus(c.Status)
	if err != nil {
		return err
	}

	item, ok := ctx.Sync.AddTodo(context.Background(), date, c.Text,
		syncer.WithPriority(priority), syncer.WithStatus(status))
	if !ok {
		return addFailed("todo")
	}

	fmt.Printf("Added todo for %s: %s (id %s)\n", date, item.Text, item.ID)
	return nil
}

type TodoListCmd struct {
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Board bool   `help:"Group todos by status."`
}

func (c *TodoListCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	todos := ctx.Sync.Todos(date)
	if len(todos) == 0 {
		fmt.Printf("No todos for %s.\n", date)
		return nil
	}

	if c.Board {
		board := ctx.Sync.TodosByStatus(date)
		for _, st := range models.Statuses {
			fmt.Printf("%s (%d)\n", st, len(board[st]))
			for _, t := range board[st] {
				fmt.Printf("  %s  [%s] (id %s)\n", t.Text, t.Priority, t.ID)
			}
		}
		return nil
	}

	fmt.Printf("Todos for %s\n", date)
	for _, t := range todos {
		fmt.Printf("  %s %s  [%s] (id %s)\n", StatusMark(t.Status), t.Text, t.Priority, t.ID)
	}
	return nil
}

type TodoToggleCmd struct {
	ID   string `arg:"" help:"Todo id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *TodoToggleCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	item, ok := ctx.Sync.ToggleTodo(date, c.ID)
	if !ok {
		return fmt.Errorf("todo %q not found on %s", c.ID, date)
	}
	fmt.Printf("%s %s\n", StatusMark(item.Status), item.Text)
	return nil
}

type TodoEditCmd struct {
	ID        string `arg:"" help:"Todo id."`
	Date      string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Text      string `help:"New text." default:""`
	Status    string `help:"New status (todo, in-progress, done)." default:""`
	Priority  string `help:"New priority (low, medium, high)." default:""`
	Completed string `help:"Mark completed (true or false)." default:""`
}

// Patch builds the partial update from the flags that were given.
func (c *TodoEditCmd) Patch() (models.TodoPatch, error) {
	var patch models.TodoPatch
	if c.Text != "" {
		patch.Text = models.Ptr(c.Text)
	}
	if c.Status != "" {
		st, err := models.ParseTodoStatus(c.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &st
	}
	if c.Priority != "" {
		p, err := models.ParseTodoPriority(c.Priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if c.Completed != "" {
		done, err := strconv.ParseBool(c.Completed)
		if err != nil {
			return patch, fmt.Errorf("invalid --completed value %q", c.Completed)
		}
		patch.Completed = &done
	}
	if patch.Empty() {
		return patch, errors.New("nothing to change: pass --text, --status, --priority or --completed")
	}
	return patch, nil
}

func (c *TodoEditCmd) Run(ctx *Context) error {
	patch, err := c.Patch()
	if err != nil {
		return err
	}

	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	item, ok := ctx.Sync.UpdateTodo(date, c.ID, patch)
	if !ok {
		return fmt.Errorf("todo %q not found on %s", c.ID, date)
	}
	fmt.Printf("Updated: %s %s [%s]\n", StatusMark(item.Status), item.Text, item.Priority)
	return nil
}

type TodoDeleteCmd struct {
	ID   string `arg:"" help:"Todo id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *TodoDeleteCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	if !ctx.Sync.DeleteTodo(date, c.ID) {
		return fmt.Errorf("todo %q not found on %s", c.ID, date)
	}
	fmt.Printf("Deleted todo %s\n", c.ID)
	return nil
}
