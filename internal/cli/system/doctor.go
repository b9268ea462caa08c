package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/ordiaa/internal/cli"
	"github.com/julianstephens/ordiaa/internal/instance"
	"github.com/julianstephens/ordiaa/internal/keyring"
)

// healthTimeout bounds the API reachability probe
const healthTimeout = 5 * time.Second

type DoctorCmd struct{}

// storeChecker is implemented by stores that can verify their snapshot.
type storeChecker interface {
	Check() error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: local store readable
	if err := checkStore(ctx); err != nil {
		fmt.Printf("❌ Local store: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local store: OK (%s)\n", ctx.Store.Location())
	}

	// Check 2: OS keyring (warning only, the session falls back to memory)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Not available; sessions will not survive a restart. Use --no-keyring to silence this.\n")
	}

	// Check 3: API reachable (warning only, ordiaa works offline)
	if err := checkAPI(ctx); err != nil {
		fmt.Printf("⚠ API reachable: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ API reachable: OK (%s)\n", ctx.Client.BaseURL())
	}

	// Check 4: session
	if ctx.Session != nil && ctx.Session.Authenticated() {
		fmt.Printf("✓ Session: logged in, changes sync to the server\n")
	} else {
		fmt.Printf("ℹ Session: not logged in, changes stay local\n")
	}

	// Check 5: other running instance
	if holder, err := checkInstance(ctx); err != nil {
		fmt.Printf("⚠ Other instances: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else if holder != nil {
		fmt.Printf("⚠ Other instances: WARNING\n")
		fmt.Printf("   %s (pid %d) has been running since %s; concurrent writes to the same store will race\n",
			holder.Executable, holder.PID, holder.Since.Format(time.Kitchen))
	} else {
		fmt.Printf("✓ Other instances: none\n")
	}

	// Check 6: clock sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK (%s)\n", time.Now().Location())
	}

	fmt.Println()
	if hasError {
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkStore(ctx *cli.Context) error {
	if ctx.Store == nil {
		return errors.New("no local store configured")
	}
	if c, ok := ctx.Store.(storeChecker); ok {
		return c.Check()
	}
	return nil
}

func checkAPI(ctx *cli.Context) error {
	if ctx.Client == nil {
		return errors.New("no API client configured")
	}
	reqCtx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	if err := ctx.Client.Health(reqCtx); err != nil {
		return fmt.Errorf("%s is not reachable: %w", ctx.Client.BaseURL(), err)
	}
	return nil
}

func checkInstance(ctx *cli.Context) (*instance.Holder, error) {
	if ctx.ConfigDir == "" {
		return nil, nil
	}
	return instance.Check(instance.Path(ctx.ConfigDir))
}

func checkClockTimezone() error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
