// Package present implements the Presenter over a plain writer, used by the
// daemon and one-shot CLI commands.
package present

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/adapters/render/answer"
	"github.com/bnema/quizpilot/internal/domain"
	"github.com/bnema/quizpilot/internal/ports"
)

type Console struct {
	out    io.Writer
	logger *zap.Logger
}

var _ ports.Presenter = (*Console)(nil)

func NewConsole(out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Console{out: out, logger: logger}
}

func (c *Console) ShowLoginPrompt(ctx context.Context) error {
	return c.writeLine("Login required. Run `qp login` to sign in.")
}

func (c *Console) ShowNoCreditsPrompt(ctx context.Context) error {
	return c.writeLine("No credits remaining. Run `qp credits` to check your balance.")
}

func (c *Console) ShowAnswer(ctx context.Context, result domain.AnswerResult) error {
	rendered, err := answer.Render(result)
	if err != nil {
		return fmt.Errorf("render answer: %w", err)
	}

	return c.writeLine(rendered)
}

func (c *Console) Notify(ctx context.Context, message string, kind ports.NoticeKind) error {
	c.logger.Debug("notice", zap.String("kind", string(kind)), zap.String("message", message))

	if kind == ports.NoticeError {
		return c.writeLine("error: " + message)
	}
	return c.writeLine(message)
}

func (c *Console) writeLine(line string) error {
	if _, err := fmt.Fprintln(c.out, line); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}
