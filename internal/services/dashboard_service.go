package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"agrodash/internal/charts"
	"agrodash/internal/config"
	"agrodash/internal/dataprocessing"
	"agrodash/internal/exporter"
	"agrodash/internal/files"
	"agrodash/pkg/contracts/domain"
)

// DashboardService answers the dashboard views over the record set loaded
// at startup. It is safe for concurrent use.
type DashboardService struct {
	pipeline *dataprocessing.Pipeline
	exporter *exporter.Exporter
	paths    *config.Paths
	outputs  *files.Discovery
	validate *validator.Validate
	chartCfg charts.Config
	logger   *slog.Logger
}

// NewDashboardService wires the service. paths may be nil when artifacts
// are never written to disk.
func NewDashboardService(p *dataprocessing.Pipeline, exp *exporter.Exporter, paths *config.Paths, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		pipeline: p,
		exporter: exp,
		paths:    paths,
		validate: NewValidator(),
		chartCfg: charts.DefaultConfig(),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
	if paths != nil {
		s.outputs = files.NewDiscovery(paths.OutputDir)
	}
	return s
}

// ModeOption is one entry of the visualization selector.
type ModeOption struct {
	Slug  domain.VisualizationMode `json:"slug"`
	Label string                   `json:"label"`
}

// Meta describes what the loaded source offers to the filter widgets.
type Meta struct {
	Commodities []string                      `json:"commodities"`
	DateFrom    *time.Time                    `json:"date_from,omitempty"`
	DateTo      *time.Time                    `json:"date_to,omitempty"`
	RateKinds   []domain.RateKind             `json:"rate_kinds"`
	Modes       []ModeOption                  `json:"modes"`
	Formats     []exporter.Format             `json:"formats"`
	Stats       dataprocessing.NormalizeStats `json:"stats"`
}

// TrendResult is the trend view. A trend that cannot be fitted is
// reported with Available false and a Reason.
type TrendResult struct {
	Available bool               `json:"available"`
	Model     *domain.TrendModel `json:"model,omitempty"`
	Reason    string             `json:"reason,omitempty"`
}

// Meta returns the selector options and source summary.
func (s *DashboardService) Meta(ctx context.Context) Meta {
	m := Meta{
		Commodities: s.pipeline.Commodities(),
		RateKinds:   []domain.RateKind{domain.RateBuy, domain.RateSell},
		Formats:     []exporter.Format{exporter.FormatCSV, exporter.FormatPDF, exporter.FormatXLSX},
		Stats:       s.pipeline.Stats(),
	}
	if from, to, ok := s.pipeline.DateBounds(); ok {
		m.DateFrom, m.DateTo = &from, &to
	}
	for _, mode := range domain.Modes() {
		m.Modes = append(m.Modes, ModeOption{Slug: mode, Label: mode.Label()})
	}
	return m
}

// Criteria resolves a client request against the loaded source.
func (s *DashboardService) Criteria(req CriteriaRequest) (domain.FilterCriteria, error) {
	return ResolveCriteria(s.validate, req, s.pipeline)
}

// Records returns the filtered view.
func (s *DashboardService) Records(ctx context.Context, c domain.FilterCriteria) (domain.View, error) {
	if err := ctx.Err(); err != nil {
		return domain.View{}, err
	}
	return s.pipeline.Filter(ctx, c), nil
}

// Run executes the pipeline for mode.
func (s *DashboardService) Run(ctx context.Context, c domain.FilterCriteria, mode domain.VisualizationMode) (*dataprocessing.Result, error) {
	return s.pipeline.Run(ctx, c, mode)
}

// Monthly returns the monthly averages of the filtered view.
func (s *DashboardService) Monthly(ctx context.Context, c domain.FilterCriteria) (domain.MonthlySummary, error) {
	res, err := s.pipeline.Run(ctx, c, domain.ModeMonthlyAverages)
	if err != nil {
		return domain.MonthlySummary{}, err
	}
	return *res.Monthly, nil
}

// DollarAverage returns the average of the selected rate.
func (s *DashboardService) DollarAverage(ctx context.Context, c domain.FilterCriteria) (domain.DollarAverage, error) {
	res, err := s.pipeline.Run(ctx, c, domain.ModeDollarAverage)
	if err != nil {
		return domain.DollarAverage{}, err
	}
	return *res.Dollar, nil
}

// Correlation returns the correlation matrix of the filtered view.
func (s *DashboardService) Correlation(ctx context.Context, c domain.FilterCriteria) (domain.CorrelationMatrix, error) {
	res, err := s.pipeline.Run(ctx, c, domain.ModeCorrelation)
	if err != nil {
		return domain.CorrelationMatrix{}, err
	}
	return *res.Correlation, nil
}

// Trend fits yColumn on xColumn over the filtered view. Empty names take
// the selected rate and the first selected commodity.
func (s *DashboardService) Trend(ctx context.Context, c domain.FilterCriteria, xColumn, yColumn string) (TrendResult, error) {
	view, err := s.Records(ctx, c)
	if err != nil {
		return TrendResult{}, err
	}
	m, err := dataprocessing.TrendFromView(view, xColumn, yColumn)
	if errors.Is(err, domain.ErrInsufficientData) {
		s.logger.DebugContext(ctx, "Trend unavailable", slog.String("reason", err.Error()))
		return TrendResult{Reason: err.Error()}, nil
	}
	if err != nil {
		return TrendResult{}, err
	}
	return TrendResult{Available: true, Model: &m}, nil
}

// Chart writes the chart of mode in format f to w and returns its file
// name.
func (s *DashboardService) Chart(ctx context.Context, w io.Writer, c domain.FilterCriteria, mode domain.VisualizationMode, f charts.Format) (string, error) {
	name, err := charts.Filename(mode, f)
	if err != nil {
		return "", err
	}
	res, err := s.pipeline.Run(ctx, c, mode)
	if err != nil {
		return "", err
	}
	if err := charts.Write(w, res, s.chartCfg, f); err != nil {
		return "", fmt.Errorf("chart %s as %s: %w", mode, f, err)
	}
	return name, nil
}

// Export writes the report of mode in format f to w and returns the
// artifact name. Nothing is written when the report is empty.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, c domain.FilterCriteria, mode domain.VisualizationMode, f exporter.Format) (string, error) {
	res, err := s.pipeline.Run(ctx, c, mode)
	if err != nil {
		return "", err
	}
	if err := s.exporter.Write(ctx, w, exporter.ReportTable(res), f); err != nil {
		return "", fmt.Errorf("export %s as %s: %w", mode, f, err)
	}
	return exporter.Filename(mode, f), nil
}

// ExportArtifacts writes every report in every format, plus the SVG
// charts, under the output directory. Chart PDFs are added when formats
// includes PDF. Reports that come out empty are skipped and logged.
// Artifacts are rendered concurrently.
func (s *DashboardService) ExportArtifacts(ctx context.Context, c domain.FilterCriteria, formats []exporter.Format) ([]string, error) {
	if s.paths == nil {
		return nil, errors.New("no output directory configured")
	}

	results := make(map[domain.VisualizationMode]*dataprocessing.Result, len(domain.Modes()))
	for _, mode := range domain.Modes() {
		res, err := s.pipeline.Run(ctx, c, mode)
		if err != nil {
			return nil, err
		}
		results[mode] = res
	}

	type artifact struct {
		path string
		ok   bool
	}
	var jobs []func(context.Context) (artifact, error)
	for _, mode := range domain.Modes() {
		res := results[mode]
		table := exporter.ReportTable(res)
		for _, f := range formats {
			jobs = append(jobs, func(ctx context.Context) (artifact, error) {
				path, err := s.exporter.WriteFile(ctx, mode, f, table)
				if errors.Is(err, domain.ErrEmptyInput) {
					s.logger.WarnContext(ctx, "Skipping empty report",
						slog.String("mode", string(mode)), slog.String("format", string(f)))
					return artifact{}, nil
				}
				return artifact{path: path, ok: err == nil}, err
			})
		}
		if _, err := charts.Filename(mode, charts.FormatSVG); err != nil {
			continue
		}
		for _, f := range chartFormats(formats) {
			jobs = append(jobs, func(ctx context.Context) (artifact, error) {
				path, err := s.writeChart(res, f)
				return artifact{path: path, ok: err == nil}, err
			})
		}
	}

	out := make([]artifact, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, job := range jobs {
		g.Go(func() error {
			a, err := job(gctx)
			out[i] = a
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var paths []string
	for _, a := range out {
		if a.ok {
			paths = append(paths, a.path)
		}
	}
	return paths, nil
}

// chartFormats returns the chart formats written next to reports in formats.
func chartFormats(formats []exporter.Format) []charts.Format {
	out := []charts.Format{charts.FormatSVG}
	if slices.Contains(formats, exporter.FormatPDF) {
		out = append(out, charts.FormatPDF)
	}
	return out
}

func (s *DashboardService) writeChart(res *dataprocessing.Result, f charts.Format) (string, error) {
	name, err := charts.Filename(res.Mode, f)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := charts.Write(&buf, res, s.chartCfg, f); err != nil {
		return "", err
	}
	path := s.paths.GetOutputPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Artifacts lists the reports and charts left in the output directory by
// earlier exports, newest first.
func (s *DashboardService) Artifacts(ctx context.Context) ([]files.FileInfo, error) {
	if s.outputs == nil {
		return []files.FileInfo{}, nil
	}
	return s.outputs.FindArtifacts()
}

// OpenArtifact opens an artifact of the output directory by file name. The
// caller closes the file.
func (s *DashboardService) OpenArtifact(ctx context.Context, name string) (*os.File, files.FileInfo, error) {
	if s.outputs == nil {
		return nil, files.FileInfo{}, fmt.Errorf("artifact %s: %w", name, fs.ErrNotExist)
	}
	info, err := s.outputs.Stat(name)
	if err != nil {
		return nil, files.FileInfo{}, err
	}
	f, err := os.Open(info.Path)
	if err != nil {
		return nil, files.FileInfo{}, err
	}
	return f, info, nil
}
