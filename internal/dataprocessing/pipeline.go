package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"agrodash/internal/infrastructure"
	"agrodash/pkg/contracts/domain"
)

// Result is the outcome of one pipeline run. Only the part matching Mode
// is filled; View is always present.
type Result struct {
	Mode        domain.VisualizationMode  `json:"mode"`
	View        domain.View               `json:"view"`
	Monthly     *domain.MonthlySummary    `json:"monthly,omitempty"`
	Correlation *domain.CorrelationMatrix `json:"correlation,omitempty"`
	Dollar      *domain.DollarAverage     `json:"dollar_average,omitempty"`
	Trend       *domain.TrendModel        `json:"trend,omitempty"`
	// TrendUnavailable explains why no trend line could be fitted.
	TrendUnavailable string `json:"trend_unavailable,omitempty"`
}

// Pipeline holds the record set loaded at startup and runs the
// filter-aggregate stages over it. The record set is never modified, so a
// Pipeline is safe for concurrent use.
type Pipeline struct {
	records   []domain.Record
	stats     NormalizeStats
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewPipeline wraps an already normalized record set.
func NewPipeline(records []domain.Record, stats NormalizeStats, tel *infrastructure.Telemetry, logger *slog.Logger) *Pipeline {
	if tel == nil {
		tel = infrastructure.NewNoopTelemetry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		records:   records,
		stats:     stats,
		telemetry: tel,
		logger:    logger.With(slog.String("component", "pipeline")),
	}
}

// LoadPipeline reads src once and normalizes it. Any load failure is
// returned wrapped in ErrSourceUnavailable.
func LoadPipeline(ctx context.Context, src Source, n *Normalizer, tel *infrastructure.Telemetry, logger *slog.Logger) (*Pipeline, error) {
	if tel == nil {
		tel = infrastructure.NewNoopTelemetry()
	}
	ctx, span := tel.Tracer.Start(ctx, "pipeline.load")
	defer span.End()

	start := time.Now()
	table, err := src.Load(ctx)
	tel.Metrics.RecordStage(ctx, "load", time.Since(start))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		return nil, err
	}

	start = time.Now()
	records, stats := n.Normalize(table)
	tel.Metrics.RecordStage(ctx, "normalize", time.Since(start))
	tel.Metrics.RecordsNormalized.Add(ctx, int64(stats.Records))
	tel.Metrics.ParseFailures.Add(ctx, int64(stats.ParseFailures))

	span.SetAttributes(
		attribute.Int("records", stats.Records),
		attribute.Int("parse_failures", stats.ParseFailures))

	if len(stats.Unmapped) > 0 && logger != nil {
		logger.WarnContext(ctx, "Ignoring unmapped source columns", slog.Any("columns", stats.Unmapped))
	}
	return NewPipeline(records, stats, tel, logger), nil
}

// Records returns the full record set. Callers must not modify it.
func (p *Pipeline) Records() []domain.Record {
	return p.records
}

// Stats returns the normalization summary of the loaded source.
func (p *Pipeline) Stats() NormalizeStats {
	return p.stats
}

// Commodities returns the commodity columns present in the source.
func (p *Pipeline) Commodities() []string {
	return append([]string(nil), p.stats.Commodities...)
}

// DateBounds returns the earliest and latest record dates.
func (p *Pipeline) DateBounds() (from, to time.Time, ok bool) {
	for _, r := range p.records {
		if !r.HasDate {
			continue
		}
		d := r.Day()
		if !ok || d.Before(from) {
			from = d
		}
		if !ok || d.After(to) {
			to = d
		}
		ok = true
	}
	return from, to, ok
}

// DefaultCriteria selects the whole date range, every commodity and the
// buy rate.
func (p *Pipeline) DefaultCriteria() domain.FilterCriteria {
	from, to, _ := p.DateBounds()
	return domain.FilterCriteria{
		DateFrom:    from,
		DateTo:      to,
		Commodities: p.Commodities(),
		RateKind:    domain.RateBuy,
	}
}

// Filter applies criteria to the record set.
func (p *Pipeline) Filter(ctx context.Context, criteria domain.FilterCriteria) domain.View {
	var view domain.View
	p.stage(ctx, "filter", func(context.Context) {
		view = Filter(p.records, criteria)
	})
	p.telemetry.Metrics.RecordsFiltered.Record(ctx, int64(view.Len()))
	return view
}

// Run filters the record set and computes what mode displays. A trend that
// cannot be fitted is reported in Result.TrendUnavailable, not as an error.
func (p *Pipeline) Run(ctx context.Context, criteria domain.FilterCriteria, mode domain.VisualizationMode) (res *Result, err error) {
	ctx, span := p.telemetry.Tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("mode", string(mode))))
	defer func() {
		p.telemetry.Metrics.RecordRun(ctx, string(mode), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if mode.Label() == "" {
		return nil, fmt.Errorf("unknown visualization mode %q", mode)
	}

	res = &Result{Mode: mode, View: p.Filter(ctx, criteria)}

	switch mode {
	case domain.ModeCorrelation:
		p.stage(ctx, "correlation", func(context.Context) {
			m := Correlate(res.View)
			res.Correlation = &m
		})
	case domain.ModeMonthlyAverages:
		p.stage(ctx, "aggregate", func(context.Context) {
			s := Summarize(res.View)
			res.Monthly = &s
		})
	case domain.ModeDollarAverage:
		p.stage(ctx, "dollar_average", func(context.Context) {
			d := DollarAverageOf(res.View)
			res.Dollar = &d
		})
	case domain.ModeTrends:
		p.stage(ctx, "trend", func(ctx context.Context) {
			m, err := TrendFromView(res.View, "", "")
			if err != nil {
				res.TrendUnavailable = err.Error()
				p.logger.DebugContext(ctx, "Trend unavailable", slog.String("reason", err.Error()))
				return
			}
			res.Trend = &m
		})
	}

	p.logger.DebugContext(ctx, "Pipeline run complete",
		slog.String("mode", string(mode)),
		slog.Int("records", res.View.Len()))
	return res, nil
}

// stage runs fn inside a span and records its duration.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := p.telemetry.Tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	fn(ctx)
	p.telemetry.Metrics.RecordStage(ctx, name, time.Since(start))
}
