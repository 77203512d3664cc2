// agrodash serves the commodity and dollar-rate dashboard and exports its
// reports from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"agrodash/internal/app"
	"agrodash/internal/config"
	"agrodash/internal/infrastructure"
)

// Build-time variables (set via -ldflags).
var (
	commit = "unknown"
	date   = "unknown"
)

func main() {
	if app.BuildTime == "" {
		app.BuildTime = date
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries what PersistentPreRunE prepares for the subcommands.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         config.AppTitle,
		Long:          "Painel de variações dos preços de soja, milho e trigo e da cotação do dólar.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return infrastructure.CloseLogFile()
		},
	}

	root.PersistentFlags().String("config", "", "config file path (default: ./agrodash.yaml or ./configs/agrodash.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().String("source", "", "spreadsheet location override (file path, URL or sheets:<id>)")

	root.AddCommand(
		newServeCmd(c),
		newExportCmd(c),
		newSummaryCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	var err error
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		c.cfg, err = config.LoadFile(path)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		c.cfg.Logging.Level = level
	}
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		c.cfg.Source.Location = source
		c.cfg.Source.Kind = ""
	}

	// Only the server logs to stdout; the other commands print results there
	if cmd.Name() != "serve" && c.cfg.Logging.Output == "console" {
		c.logger = infrastructure.NewLogger(cmd.ErrOrStderr(), c.cfg.Logging.Level)
		return nil
	}
	c.logger, err = infrastructure.InitializeLogger(c.cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", config.AppName, config.AppVersion)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
