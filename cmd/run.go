package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/quizpilot/internal/adapters/bus"
	"github.com/bnema/quizpilot/internal/adapters/menu"
	"github.com/bnema/quizpilot/internal/adapters/selection"
	"github.com/bnema/quizpilot/internal/application"
)

func newRunCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the background orchestrator until interrupted",
		Long:  "run hosts the orchestrator. Lines on stdin act as selection updates: each line becomes the current selection, an empty line clears it, and the context menu follows.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			presenter := app.newPresenter(cmd.OutOrStdout())
			orchestrator := application.NewOrchestrator(
				app.store.Sessions(),
				app.store.RateLimits(),
				app.api,
				menu.NewHost(),
				presenter,
				app.clock,
				app.logger,
			)

			// Menu state never survives a restart; always rebuild from scratch.
			if err := orchestrator.Start(ctx); err != nil {
				return fmt.Errorf("start orchestrator: %w", err)
			}

			router := bus.NewRouter(app.logger)
			router.Register(contextBackground, orchestrator)
			defer router.Unregister(contextBackground)

			changes, err := app.store.Watch(ctx)
			if err != nil {
				return fmt.Errorf("watch state store: %w", err)
			}

			source := selection.New()
			monitor := application.NewSelectionMonitor(
				source,
				app.store.Shortcuts(),
				router.To(contextBackground),
				presenter,
				0,
				app.logger,
			)

			app.logger.Info("orchestrator running")

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return source.Run(ctx, cmd.InOrStdin(), monitor.HandleSelectionChange)
			})
			group.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case event, ok := <-changes:
						if !ok {
							return nil
						}
						app.logger.Debug("state partition changed",
							zap.String("partition", string(event.Partition)))
					}
				}
			})

			return group.Wait()
		},
	}
}
