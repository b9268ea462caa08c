package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/ordiaa/internal/cli"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if !ctx.Session.Authenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	ctx.Session.Logout()
	fmt.Println("✓ Logged out. Local data is kept.")
	return nil
}

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	if !ctx.Sync.Authenticated() {
		return errors.New("not logged in: run 'ordiaa login' first")
	}
	if err := ctx.Sync.Sync(context.Background()); err != nil {
		return fmt.Errorf("sync failed, local data unchanged: %w", err)
	}

	state := ctx.Sync.Snapshot()
	todos := 0
	for _, items := range state.Todos {
		todos += len(items)
	}
	fmt.Printf("✓ Synced %d habits, %d completions, %d todos and %d logs\n",
		len(state.Habits), len(state.Completions), todos, len(state.Logs))
	return nil
}
