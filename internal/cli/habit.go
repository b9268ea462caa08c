package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/ordiaa/internal/constants"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits and their completion for a day."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
	Streak HabitStreakCmd `cmd:"" help:"Show a habit's current streak."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Emoji string `help:"Emoji shown next to the habit." default:"✨"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	emoji := c.Emoji
	if emoji == "" {
		emoji = constants.PlaceholderEmoji
	}
	habit, ok := ctx.Sync.AddHabit(context.Background(), c.Name, emoji)
	if !ok {
		return addFailed("habit")
	}

	fmt.Printf("Added habit: %s %s (id %s)\n", habit.Emoji, habit.Name, habit.ID)
	return nil
}

type HabitListCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	habits := ctx.Sync.Habits()
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("Habits for %s (%d%% complete)\n", date, ctx.Sync.CompletionRate(date))
	for _, h := range habits {
		done := ctx.Sync.IsHabitCompleted(h.ID, date)
		fmt.Printf("  %s %s %s  (id %s, streak %d)\n", Checkbox(done), h.Emoji, h.Name, h.ID, ctx.Sync.Streak(h.ID))
	}
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	habit, err := FindHabit(ctx.Sync.Habits(), c.Habit)
	if err != nil {
		return err
	}
	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	if ctx.Sync.ToggleHabit(habit.ID, date) {
		fmt.Printf("Marked %s as done for %s\n", habit.Name, date)
	} else {
		fmt.Printf("Unmarked %s for %s\n", habit.Name, date)
	}
	return nil
}

type HabitStreakCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitStreakCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	habit, err := FindHabit(ctx.Sync.Habits(), c.Habit)
	if err != nil {
		return err
	}

	streak := ctx.Sync.Streak(habit.ID)
	unit := "days"
	if streak == 1 {
		unit = "day"
	}
	fmt.Printf("%s %s: %d %s\n", habit.Emoji, habit.Name, streak, unit)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	habit, err := FindHabit(ctx.Sync.Habits(), c.Habit)
	if err != nil {
		return err
	}
	ctx.Sync.DeleteHabit(habit.ID)

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
