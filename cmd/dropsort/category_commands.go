package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dropsort/internal/categories"
	"dropsort/internal/config"
)

func newCategoryCommand(ctx *commandContext) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage extension-to-category mappings",
	}
	categoryCmd.AddCommand(newCategoryListCommand(ctx))
	categoryCmd.AddCommand(newCategoryAddCommand(ctx))
	categoryCmd.AddCommand(newCategoryRemoveCommand(ctx))
	categoryCmd.AddCommand(newExtensionAddCommand(ctx))
	categoryCmd.AddCommand(newExtensionRemoveCommand(ctx))
	categoryCmd.AddCommand(newCategoryResetCommand(ctx))
	return categoryCmd
}

func (c *commandContext) categoryStore() (*categories.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	ws, err := c.resolveWorkspace()
	if err != nil {
		return nil, err
	}
	if err := ws.Ensure(); err != nil {
		return nil, err
	}
	return categories.NewStore(ws.StateDir(), fallbackName(cfg)), nil
}

func fallbackName(cfg *config.Config) string {
	if cfg == nil || strings.TrimSpace(cfg.Sorter.FallbackCategory) == "" {
		return "Other"
	}
	return cfg.Sorter.FallbackCategory
}

// displayCategoryName title-cases all-lowercase names for table output so
// user categories line up with the built-in set ("music" renders as
// "Music"). Stored keys are never touched; commands always take the key as
// typed.
func displayCategoryName(name string) string {
	if name == strings.ToLower(name) {
		return cases.Title(language.Und).String(name)
	}
	return name
}

func newCategoryListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show categories and their extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.categoryStore()
			if err != nil {
				return err
			}
			mapping, err := store.Load()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, mapping)
			}

			rows := make([][]string, 0, len(mapping))
			for _, name := range mapping.Categories() {
				exts := mapping.Extensions(name)
				label := displayCategoryName(name)
				if name == store.Fallback() {
					label += " (fallback)"
				}
				rows = append(rows, []string{
					label,
					fmt.Sprintf("%d", len(exts)),
					strings.Join(exts, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Category", "Count", "Extensions"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the mapping as JSON")
	return cmd
}

func newCategoryAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "add <name>",
		Aliases: []string{"add-cat"},
		Short:   "Create a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.categoryStore()
			if err != nil {
				return err
			}
			mapping, err := store.AddCategory(args[0])
			if err != nil {
				return err
			}
			name, _ := categories.ValidateCategoryName(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q (%d categories total)\n", name, len(mapping))
			return nil
		},
	}
}

func newCategoryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"remove-cat"},
		Short:   "Remove a category and its extensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.categoryStore()
			if err != nil {
				return err
			}
			if _, err := store.RemoveCategory(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed category %q\n", args[0])
			return nil
		},
	}
}

func newExtensionAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-ext <category> <extension>",
		Short: "Map an extension to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.categoryStore()
			if err != nil {
				return err
			}
			if _, err := store.AddExtension(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mapped .%s to %q\n", strings.TrimPrefix(strings.ToLower(strings.TrimSpace(args[1])), "."), args[0])
			return nil
		},
	}
}

func newExtensionRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-ext <category> <extension>",
		Short: "Unmap an extension from a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.categoryStore()
			if err != nil {
				return err
			}
			if _, err := store.RemoveExtension(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unmapped .%s from %q\n", strings.TrimPrefix(strings.ToLower(strings.TrimSpace(args[1])), "."), args[0])
			return nil
		},
	}
}

func newCategoryResetCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard user overrides and restore the built-in mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("reset discards all user category overrides; re-run with --yes to confirm")
			}
			store, err := ctx.categoryStore()
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category mapping reset to built-in defaults")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm the reset")
	return cmd
}
