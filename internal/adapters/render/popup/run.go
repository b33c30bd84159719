package popup

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bnema/quizpilot/internal/adapters/state"
	"github.com/bnema/quizpilot/internal/application"
)

// Run opens the popup and blocks until it closes.
func Run(ctx context.Context, controller *application.SessionController, changes <-chan state.ChangeEvent, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(controller, changes, logger), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run popup: %w", err)
	}

	return nil
}
