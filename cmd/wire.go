package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apiclient "github.com/bnema/quizpilot/internal/adapters/api"
	"github.com/bnema/quizpilot/internal/adapters/present"
	"github.com/bnema/quizpilot/internal/adapters/state"
	"github.com/bnema/quizpilot/internal/application"
	"github.com/bnema/quizpilot/internal/ports"
)

const (
	contextBackground = "background"
	contextPopup      = "popup"
)

type app struct {
	store  *state.Store
	api    ports.AnswerAPI
	clock  ports.Clock
	logger *zap.Logger
}

func wireApp() (*app, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	store, err := state.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire state store: %w", err)
	}

	client := &apiclient.Client{
		BaseURL: envOrDefault("QP_API_BASE", "https://api.quizpilot.dev/api/v1"),
	}

	return &app{
		store:  store,
		api:    client,
		clock:  ports.SystemClock{},
		logger: logger,
	}, nil
}

func newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if os.Getenv("QP_DEBUG") != "" {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

func (a *app) newSessionController() *application.SessionController {
	return application.NewSessionController(
		a.store.Sessions(),
		a.store.RateLimits(),
		a.api,
		a.clock,
		a.logger,
	)
}

func (a *app) newPresenter(out io.Writer) ports.Presenter {
	return present.NewConsole(out, a.logger)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
