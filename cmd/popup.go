package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/quizpilot/internal/adapters/render/popup"
)

func newPopupCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "popup",
		Short: "Open the interactive session popup",
		Long:  "popup opens the interactive session view: login, registration, OTP verification, credit balance, and the rate-limit countdown. State changes made elsewhere show up live.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			changes, err := app.store.Watch(ctx)
			if err != nil {
				return fmt.Errorf("watch state store: %w", err)
			}

			return popup.Run(ctx, app.newSessionController(), changes, app.logger)
		},
	}
}
