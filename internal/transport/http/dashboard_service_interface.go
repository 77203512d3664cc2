package http

import (
	"context"
	"io"
	"os"

	"agrodash/internal/charts"
	"agrodash/internal/exporter"
	"agrodash/internal/files"
	"agrodash/internal/services"
	"agrodash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handler
// exposes.
type DashboardServiceInterface interface {
	Meta(ctx context.Context) services.Meta
	Criteria(req services.CriteriaRequest) (domain.FilterCriteria, error)
	Records(ctx context.Context, c domain.FilterCriteria) (domain.View, error)
	Monthly(ctx context.Context, c domain.FilterCriteria) (domain.MonthlySummary, error)
	DollarAverage(ctx context.Context, c domain.FilterCriteria) (domain.DollarAverage, error)
	Correlation(ctx context.Context, c domain.FilterCriteria) (domain.CorrelationMatrix, error)
	Trend(ctx context.Context, c domain.FilterCriteria, xColumn, yColumn string) (services.TrendResult, error)
	Chart(ctx context.Context, w io.Writer, c domain.FilterCriteria, mode domain.VisualizationMode, f charts.Format) (string, error)
	Export(ctx context.Context, w io.Writer, c domain.FilterCriteria, mode domain.VisualizationMode, f exporter.Format) (string, error)
	Artifacts(ctx context.Context) ([]files.FileInfo, error)
	OpenArtifact(ctx context.Context, name string) (*os.File, files.FileInfo, error)
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)
