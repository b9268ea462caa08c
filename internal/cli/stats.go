package cli

import (
	"fmt"

	"github.com/julianstephens/ordiaa/internal/syncer"
	"github.com/julianstephens/ordiaa/internal/tui"
	"github.com/julianstephens/ordiaa/internal/utils"
)

type StatsCmd struct {
	Days int    `help:"Number of days of history to show." default:"${history_days}"`
	Date string `help:"Day to report the completion rate for (default: today)." default:""`
}

func (c *StatsCmd) Run(ctx *Context) error {
	ctx.SyncIfAuthenticated()

	date, err := ResolveDate(c.Date, ctx.Sync.Today())
	if err != nil {
		return err
	}
	if c.Days < 0 {
		return fmt.Errorf("--days must not be negative, got %d", c.Days)
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return err
	}

	fmt.Printf("%q\n\n", syncer.DailyQuote(day))
	fmt.Printf("Completion on %s: %s\n", date, tui.Bar(ctx.Sync.CompletionRate(date), 30))

	history := ctx.Sync.CompletionHistory(c.Days)
	if len(history) == 0 {
		return nil
	}

	fmt.Printf("\nLast %d days\n", len(history))
	for _, p := range history {
		fmt.Printf("  %-6s %s\n", p.Label, tui.Bar(p.Rate, 20))
	}
	return nil
}
