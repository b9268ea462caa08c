package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/ordiaa/internal/utils"
)

type LogCmd struct {
	Set  LogSetCmd  `cmd:"" help:"Write the log line for a day."`
	Show LogShowCmd `cmd:"" help:"Show the log line for a day."`
}

type LogSetCmd struct {
	Text string `arg:"" help:"One line about the day (empty clears it)."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *LogSetCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}
	ctx.Sync.UpdateLog(date, c.Text)

	fmt.Printf("Saved log for %s\n", date)
	return nil
}

type LogShowCmd struct {
	Date   string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Remote bool   `help:"Fetch the entry from the server instead of local data."`
}

func (c *LogShowCmd) Run(ctx *Context) error {
	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}

	if c.Remote {
		return c.showRemote(ctx, date)
	}

	ctx.SyncIfAuthenticated()
	text, ok := ctx.Sync.Log(date)
	if !ok || text == "" {
		fmt.Printf("No log for %s.\n", date)
		return nil
	}
	fmt.Printf("%s: %s\n", date, text)
	return nil
}

func (c *LogShowCmd) showRemote(ctx *Context, date string) error {
	if !ctx.Session.Authenticated() {
		return errors.New("not logged in: run 'ordiaa login' first")
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	entry, err := ctx.Client.GetLog(reqCtx, date)
	if err != nil {
		return fmt.Errorf("failed to fetch log: %w", err)
	}
	if entry == nil {
		fmt.Printf("No log for %s on the server.\n", date)
		return nil
	}

	fmt.Printf("%s: %s\n", utils.DatePart(entry.Date), entry.Content)
	if entry.Mood != nil && *entry.Mood != "" {
		fmt.Printf("  mood: %s\n", *entry.Mood)
	}
	return nil
}
