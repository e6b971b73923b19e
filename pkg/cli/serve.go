package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/opsdesk/demandflow/pkg/cli/config"
	httpctrl "github.com/opsdesk/demandflow/pkg/controller/http"
	"github.com/opsdesk/demandflow/pkg/usecase"
	"github.com/opsdesk/demandflow/pkg/utils/logging"
	"github.com/opsdesk/demandflow/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var workflowCfg config.Workflow
	var repoCfg config.Repository
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("DEMANDFLOW_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, workflowCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := sentryCfg.Configure(c.Root().Version); err != nil {
				return goerr.Wrap(err, "failed to configure error reporting")
			}

			// Load workflow configuration
			workflow, err := workflowCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load workflow configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// The memory backend starts empty, so the roster comes from the
			// workflow configuration.
			if repoCfg.Backend() == "memory" && len(workflow.Members) > 0 {
				if err := workflow.SeedMembers(ctx, repo); err != nil {
					return goerr.Wrap(err, "failed to seed roster members")
				}
				logging.Default().Info("Seeded roster members from workflow configuration",
					"count", len(workflow.Members))
			}

			// Configure Slack notifications
			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack notifier")
			}

			uc := usecase.New(repo,
				usecase.WithNotifier(notifier),
				usecase.WithCommitteeThreshold(workflow.CommitteeThreshold),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"committee_threshold", workflow.CommitteeThreshold)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
