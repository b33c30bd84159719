package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd(app *app) *cobra.Command {
	var (
		name     string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and request a verification code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller := app.newSessionController()

			if err := controller.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Verification code sent to %s. Run `qp verify-otp --code <code>` to finish.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
