package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agrodash/internal/app"
	"agrodash/internal/exporter"
	"agrodash/internal/services"
	"agrodash/pkg/contracts/domain"
)

func newSummaryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the monthly averages, dollar average and trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pipeline, err := app.LoadPipeline(ctx, c.cfg.Source, nil, c.logger)
			if err != nil {
				return sourceError(c.logger, err)
			}
			svc := services.NewDashboardService(pipeline, nil, nil, c.logger)

			criteria, err := svc.Criteria(criteriaRequest(cmd))
			if err != nil {
				return fmt.Errorf("invalid filters: %w", err)
			}
			monthly, err := svc.Monthly(ctx, criteria)
			if err != nil {
				return err
			}
			dollar, err := svc.DollarAverage(ctx, criteria)
			if err != nil {
				return err
			}
			trend, err := svc.Trend(ctx, criteria, "", "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := pipeline.Stats()
			fmt.Fprintf(out, "Registros: %d de %d linhas (falhas de conversão: %d)\n\n",
				stats.Records, stats.Rows, stats.ParseFailures)
			if err := printMonthly(out, monthly); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nMédia %s: %s (%d cotações)\n", dollar.Column, cellText(dollar.Overall), dollar.Count)
			if trend.Available {
				m := trend.Model
				fmt.Fprintf(out, "Tendência %s x %s: y = %s·x + %s, R² = %s\n",
					m.YColumn, m.XColumn,
					exporter.FormatNumber(m.Slope), exporter.FormatNumber(m.Intercept),
					cellText(m.RSquared))
			} else {
				fmt.Fprintf(out, "Tendência indisponível: %s\n", trend.Reason)
			}
			return nil
		},
	}
	addCriteriaFlags(cmd)
	return cmd
}

func printMonthly(out io.Writer, s domain.MonthlySummary) error {
	if len(s.Buckets) == 0 {
		_, err := fmt.Fprintln(out, "Nenhum registro no período selecionado.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", domain.ColumnMonth, strings.Join(s.Columns, "\t"))
	for _, b := range s.Buckets {
		cells := make([]string, 0, len(s.Columns))
		for _, col := range s.Columns {
			cells = append(cells, cellText(b.Values[col]))
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", b.Label(), strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cellText(v domain.Value) string {
	if !v.Valid {
		return "-"
	}
	return exporter.FormatNumber(v.Float64)
}
