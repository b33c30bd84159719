package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/quizpilot/internal/domain"
)

func newShortcutCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Manage the answer trigger shortcut",
	}

	cmd.AddCommand(
		newShortcutSetCmd(app),
		newShortcutShowCmd(app),
		newShortcutClearCmd(app),
	)

	return cmd
}

func newShortcutSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <combination>",
		Short: "Set the trigger shortcut, e.g. Ctrl+Shift+K",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortcut, err := domain.ParseShortcut(args[0])
			if err != nil {
				return err
			}

			if err := app.store.Shortcuts().Save(cmd.Context(), shortcut); err != nil {
				return fmt.Errorf("save shortcut: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Shortcut set to %s\n", shortcut.Display)
			return nil
		},
	}
}

func newShortcutShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured trigger shortcut",
		RunE: func(cmd *cobra.Command, _ []string) error {
			shortcut, err := app.store.Shortcuts().Get(cmd.Context())
			if errors.Is(err, domain.ErrShortcutNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No shortcut configured")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read shortcut: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), shortcut.Display)
			return nil
		},
	}
}

func newShortcutClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the configured trigger shortcut",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.store.Shortcuts().Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear shortcut: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Shortcut cleared")
			return nil
		},
	}
}
