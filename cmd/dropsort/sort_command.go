package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dropsort/internal/categories"
	"dropsort/internal/history"
	"dropsort/internal/logging"
	"dropsort/internal/notifications"
	"dropsort/internal/sorter"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Trigger a sort cycle now",
		Long: "Trigger a sort cycle now. When the daemon is running the cycle is " +
			"kicked over its control socket; otherwise (or with --local) the cycle " +
			"runs in this process.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			if !local {
				if client, err := ctx.dialClient(); err == nil {
					defer client.Close()
					resp, callErr := client.SortNow()
					if callErr != nil {
						return callErr
					}
					if resp.Triggered {
						fmt.Fprintln(stdout, "Sort cycle triggered")
						return nil
					}
					fmt.Fprintf(stdout, "Daemon declined: %s; sorting locally\n", resp.Message)
				}
			}
			return runLocalSort(cmd, ctx)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Sort in this process instead of asking the daemon")
	return cmd
}

func runLocalSort(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	ws, err := ctx.resolveWorkspace()
	if err != nil {
		return err
	}
	if err := ws.Ensure(); err != nil {
		return err
	}

	hist, err := history.Open(ws.StateDir())
	if err != nil {
		return fmt.Errorf("open history journal: %w", err)
	}
	defer hist.Close()

	source := categories.NewStore(ws.StateDir(), cfg.Sorter.FallbackCategory)
	engine := sorter.NewEngineWithDependencies(cfg, source, hist, notifications.NewService(cfg), logging.NewNop())

	stdout := cmd.OutOrStdout()
	interactive := shouldColorize(stdout)
	progress := func(completed, total int) {
		if !interactive || total == 0 {
			return
		}
		fmt.Fprintf(stdout, "\rMoving %d/%d", completed, total)
		if completed == total {
			fmt.Fprintln(stdout)
		}
	}

	result, err := engine.SortFolder(cmd.Context(), ws.DropDir(), ws.SortedDir(), progress)
	if err != nil {
		return err
	}

	if result.Planned == 0 {
		fmt.Fprintln(stdout, "Nothing to sort")
		return nil
	}
	fmt.Fprintf(stdout, "Moved %d of %d entries in %s\n", result.Moved, result.Planned, result.Duration.Round(time.Millisecond))
	for _, fe := range result.Errors {
		fmt.Fprintf(stdout, "  failed: %s (%s)\n", fe.Path, fe.Err)
	}
	return nil
}
