package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/quizpilot/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the shared session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller := app.newSessionController()

			session, err := controller.Login(cmd.Context(), email, password)
			if errors.Is(err, domain.ErrRateLimited) {
				seconds, remainErr := controller.CountdownRemaining(cmd.Context())
				if remainErr == nil && seconds > 0 {
					return fmt.Errorf("rate limited, retry in %ds", seconds)
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d credits)\n",
				session.User.Name, session.Credits())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
