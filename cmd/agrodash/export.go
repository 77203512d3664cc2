package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"agrodash/internal/app"
	"agrodash/internal/exporter"
)

func newExportCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every report and chart to the output directory",
		Long: `Load the spreadsheet, run every visualization mode over the selected
filters and write the reports in the requested formats, plus the SVG charts,
under the output directory. When pdf is among the formats the charts are
also written as PDF. Reports with no data are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, _ := cmd.Flags().GetStringSlice("formats")
			formats := make([]exporter.Format, 0, len(names))
			for _, name := range names {
				f, err := exporter.ParseFormat(name)
				if err != nil {
					return err
				}
				formats = append(formats, f)
			}
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				c.cfg.Paths.OutputDir = out
			}

			ctx := cmd.Context()
			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return sourceError(c.logger, err)
			}
			defer a.Telemetry.Shutdown(ctx)

			criteria, err := a.Dashboard.Criteria(criteriaRequest(cmd))
			if err != nil {
				return fmt.Errorf("invalid filters: %w", err)
			}

			paths, err := a.Dashboard.ExportArtifacts(ctx, criteria, formats)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			c.logger.InfoContext(ctx, "Export complete",
				slog.Int("artifacts", len(paths)),
				slog.String("output_dir", a.Paths.OutputDir))
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	addCriteriaFlags(cmd)
	cmd.Flags().StringSlice("formats", []string{"csv", "pdf", "xlsx"}, "report formats")
	cmd.Flags().String("out", "", "output directory (overrides paths.output_dir)")
	return cmd
}
