package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"agrodash/internal/config"
	"agrodash/internal/infrastructure"
	"agrodash/pkg/contracts/domain"
)

// Exporter renders tables in every supported format and saves report
// artifacts under the configured output directory.
type Exporter struct {
	paths   *config.Paths
	cfg     config.ExportConfig
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// New creates an Exporter. metrics may be nil.
func New(paths *config.Paths, cfg config.ExportConfig, metrics *infrastructure.Metrics, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		paths:   paths,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "exporter")),
	}
}

// Write renders t to w. The CSV BOM is never written here; see WriteFile.
func (e *Exporter) Write(ctx context.Context, w io.Writer, t domain.Table, f Format) error {
	return e.write(ctx, w, t, f, false)
}

func (e *Exporter) write(ctx context.Context, w io.Writer, t domain.Table, f Format, bom bool) error {
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(w, t, bom)
	case FormatPDF:
		opts := DefaultPDFOptions()
		opts.Author = e.cfg.Author
		opts.DocumentID = infrastructure.GetTraceID(ctx)
		err = WritePDF(w, t, opts)
	case FormatXLSX:
		err = WriteXLSX(w, t)
	default:
		err = fmt.Errorf("unsupported export format %q", f)
	}
	if err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.RecordExport(ctx, string(f))
	}
	return nil
}

// WriteFile renders the report of mode in format f and saves it under the
// output directory with its deterministic name. Nothing is written when
// rendering fails, so an empty table never leaves a partial file behind.
func (e *Exporter) WriteFile(ctx context.Context, mode domain.VisualizationMode, f Format, t domain.Table) (string, error) {
	var buf bytes.Buffer
	if err := e.write(ctx, &buf, t, f, e.cfg.CSVBOM); err != nil {
		return "", err
	}

	path := e.paths.GetOutputPath(Filename(mode, f))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	e.logger.InfoContext(ctx, "Export written",
		slog.String("path", path),
		slog.String("format", string(f)),
		slog.Int("rows", len(t.Rows)))
	return path, nil
}
