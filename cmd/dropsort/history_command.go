package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dropsort/internal/history"
	"dropsort/internal/ipc"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sort cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Prefer the daemon's view; fall back to reading the journal
			// directly when no daemon is listening.
			if client, err := ctx.dialClient(); err == nil {
				defer client.Close()
				resp, callErr := client.History(limit)
				if callErr != nil {
					return callErr
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				renderHistory(cmd, resp)
				return nil
			}
			return localHistory(cmd, ctx, limit, asJSON)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of cycles to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit history as JSON")
	return cmd
}

func renderHistory(cmd *cobra.Command, resp *ipc.HistoryResponse) {
	stdout := cmd.OutOrStdout()
	if len(resp.Cycles) == 0 {
		fmt.Fprintln(stdout, "No sort cycles recorded yet")
		return
	}
	rows := make([][]string, 0, len(resp.Cycles))
	for _, cycle := range resp.Cycles {
		rows = append(rows, []string{
			cycle.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", cycle.Planned),
			fmt.Sprintf("%d", cycle.Moved),
			fmt.Sprintf("%d", cycle.Failed),
			(time.Duration(cycle.DurationMS) * time.Millisecond).String(),
			cycle.ErrorSummary,
		})
	}
	fmt.Fprintln(stdout, renderTable(
		[]string{"Started", "Planned", "Moved", "Failed", "Duration", "Errors"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(stdout, "Lifetime: %d cycles, %d moved, %d failed\n",
		resp.TotalCycles, resp.TotalMoved, resp.TotalFailed)
}

func localHistory(cmd *cobra.Command, ctx *commandContext, limit int, asJSON bool) error {
	ws, err := ctx.resolveWorkspace()
	if err != nil {
		return err
	}
	store, err := history.Open(ws.StateDir())
	if err != nil {
		return fmt.Errorf("open history journal: %w", err)
	}
	defer store.Close()

	records, err := store.RecentCycles(context.Background(), limit)
	if err != nil {
		return err
	}
	stats, err := store.TotalStats(context.Background())
	if err != nil {
		return err
	}

	resp := &ipc.HistoryResponse{
		TotalCycles: stats.Cycles,
		TotalMoved:  stats.Moved,
		TotalFailed: stats.Failed,
	}
	for _, rec := range records {
		resp.Cycles = append(resp.Cycles, ipc.CycleSummary{
			ID:           rec.ID,
			StartedAt:    rec.StartedAt,
			DurationMS:   rec.Duration.Milliseconds(),
			Planned:      rec.Planned,
			Moved:        rec.Moved,
			Failed:       rec.Failed,
			ErrorSummary: rec.ErrorSummary,
		})
	}
	if asJSON {
		return writeJSON(cmd, resp)
	}
	renderHistory(cmd, resp)
	return nil
}
