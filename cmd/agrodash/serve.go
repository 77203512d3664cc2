package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agrodash/internal/app"
	"agrodash/pkg/contracts/domain"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the spreadsheet once and serve the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				c.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return sourceError(c.logger, err)
			}
			return a.Run(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "HTTP port (overrides server.port)")
	return cmd
}

// sourceError turns a failed load into the single message shown to the
// user. The session cannot continue without data.
func sourceError(logger *slog.Logger, err error) error {
	if errors.Is(err, domain.ErrSourceUnavailable) {
		logger.ErrorContext(context.Background(), "Data source unavailable", slog.String("error", err.Error()))
		return fmt.Errorf("não foi possível carregar a planilha de dados: %w", err)
	}
	return err
}
