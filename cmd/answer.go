package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/quizpilot/internal/adapters/bus"
	"github.com/bnema/quizpilot/internal/adapters/menu"
	"github.com/bnema/quizpilot/internal/application"
	"github.com/bnema/quizpilot/internal/protocol"
)

func newAnswerCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "answer [text]",
		Short: "Request an AI answer for the given text",
		Long:  "answer sends the given text (or stdin when no argument is passed) through the request flow: session check, length check, credit check, then the answer call.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := answerText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			orchestrator := application.NewOrchestrator(
				app.store.Sessions(),
				app.store.RateLimits(),
				app.api,
				menu.NewHost(),
				app.newPresenter(cmd.OutOrStdout()),
				app.clock,
				app.logger,
			)

			router := bus.NewRouter(app.logger)
			router.Register(contextBackground, orchestrator)
			defer router.Unregister(contextBackground)

			response, err := router.To(contextBackground).Send(cmd.Context(),
				protocol.AnswerRequested{Text: text})
			if err != nil {
				return fmt.Errorf("request answer: %w", err)
			}
			if !response.OK {
				return errors.New(response.Error)
			}

			return nil
		},
	}
}

func answerText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read text from stdin: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", errors.New("no text given: pass an argument or pipe text on stdin")
	}

	return text, nil
}
