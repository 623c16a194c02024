package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dropsort/internal/workspace"
)

func newWorkspaceCommand(ctx *commandContext) *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage the sorting workspace",
	}
	workspaceCmd.AddCommand(newWorkspaceShowCommand(ctx))
	workspaceCmd.AddCommand(newWorkspaceSetCommand(ctx))
	workspaceCmd.AddCommand(newWorkspaceRecentCommand(ctx))
	return workspaceCmd
}

func newWorkspaceShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active workspace layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.resolveWorkspace()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			fmt.Fprintln(stdout, renderTable(
				[]string{"Directory", "Path"},
				[][]string{
					{"Workspace", ws.Root},
					{"Drop", ws.DropDir()},
					{"Sorted", ws.SortedDir()},
					{"State", ws.StateDir()},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newWorkspaceSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <path>",
		Short: "Select the workspace root and create its folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := workspace.DefaultManager()
			if err != nil {
				return err
			}
			ws, err := manager.SetRoot(args[0])
			if err != nil {
				return err
			}
			if err := ws.Ensure(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workspace set to %s\n", ws.Root)
			fmt.Fprintf(cmd.OutOrStdout(), "Drop files into %s\n", ws.DropDir())
			return nil
		},
	}
}

func newWorkspaceRecentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently used workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := workspace.DefaultManager()
			if err != nil {
				return err
			}
			recent, err := manager.Recent()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			if len(recent) == 0 {
				fmt.Fprintln(stdout, "No recent workspaces")
				return nil
			}
			for i, root := range recent {
				fmt.Fprintf(stdout, "%d. %s\n", i+1, root)
			}
			return nil
		},
	}
}
