package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyOTPCmd(app *app) *cobra.Command {
	var (
		email string
		code  string
	)

	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Verify a registration code and store the shared session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller := app.newSessionController()

			session, err := controller.VerifyOTP(cmd.Context(), email, code)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account verified. Logged in as %s (%d credits)\n",
				session.User.Name, session.Credits())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "one-time verification code")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
