package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/quizpilot/internal/domain"
)

func newCreditsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Refresh and show the remaining credit balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller := app.newSessionController()

			credits, err := controller.RefreshCredits(cmd.Context())
			if errors.Is(err, domain.ErrUnauthorized) {
				return errors.New("session expired, run `qp login` to sign in again")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Remaining credits: %d\n", credits)
			return nil
		},
	}
}
