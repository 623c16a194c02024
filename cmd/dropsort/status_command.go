package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dropsort/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and scheduler status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status)
				}

				rows := [][]string{
					{"Running", yesNo(status.Running)},
					{"State", status.State},
					{"Workspace", status.WorkspaceRoot},
					{"Watcher", yesNo(status.WatcherActive)},
					{"Cycles completed", fmt.Sprintf("%d", status.CyclesCompleted)},
					{"Last cycle", formatCycleTime(status.LastCycleAt)},
					{"Last moved", fmt.Sprintf("%d", status.LastMoved)},
					{"Last failed", fmt.Sprintf("%d", status.LastFailed)},
					{"PID", fmt.Sprintf("%d", status.PID)},
				}
				if status.Running && !status.NextDue.IsZero() {
					rows = append(rows, []string{"Next cycle", formatCycleTime(status.NextDue)})
				}
				if status.LastError != "" {
					rows = append(rows, []string{"Last error", status.LastError})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Field", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit status as JSON")
	return cmd
}

func formatCycleTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
