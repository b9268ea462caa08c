package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/ordiaa/internal/cli"
	"github.com/julianstephens/ordiaa/internal/storage"
)

type DebugCmd struct {
	StorePath DebugStorePathCmd `cmd:"" help:"Show where local data is stored."`
	Dump      DebugDumpCmd      `cmd:"" help:"Dump the local snapshot as JSON."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"store":  ctx.Store.Location(),
		"config": ctx.ConfigDir,
		"api":    ctx.Client.BaseURL(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

// DebugDumpCmd prints the snapshot in its persisted shape.
type DebugDumpCmd struct {
	Date string `help:"Only dump the todos and log of this date (YYYY-MM-DD)." default:""`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	state := ctx.Sync.Snapshot()

	if cmd.Date != "" {
		date, err := cli.ResolveDate(cmd.Date, ctx.Sync.Today())
		if err != nil {
			return err
		}
		out := map[string]any{
			"date":  date,
			"todos": state.TodosFor(date),
			"log":   state.LogFor(date),
		}
		jsonBytes, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	raw, err := storage.Encode(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	var pretty any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	jsonBytes, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
