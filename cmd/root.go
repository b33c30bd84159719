package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qp",
		Short:         "QuizPilot: send selected text to an answer service",
		Long:          "qp is the coordination core of the QuizPilot extension: it manages the shared session, the answer request flow, credit balance, the rate-limit countdown, and the configured trigger shortcut.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newPopupCmd(app),
		newLoginCmd(app),
		newRegisterCmd(app),
		newVerifyOTPCmd(app),
		newAnswerCmd(app),
		newCreditsCmd(app),
		newShortcutCmd(app),
	)

	return rootCmd
}
