package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"agrodash/internal/config"
)

// InstrumentationName identifies tracers and meters created by agrodash.
const InstrumentationName = "agrodash"

// Telemetry bundles the tracer, meter and dashboard metrics. The zero
// exporters ("none") yield no-op implementations so callers never need
// nil checks.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *Metrics

	// MetricsHandler serves the Prometheus scrape endpoint, nil when the
	// metric exporter is disabled.
	MetricsHandler http.Handler

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Metrics are the instruments recorded by the pipeline and HTTP layer.
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	PipelineRuns          metric.Int64Counter
	PipelineStageDuration metric.Float64Histogram
	RecordsNormalized     metric.Int64Counter
	RecordsFiltered       metric.Int64Histogram
	ParseFailures         metric.Int64Counter

	ExportArtifacts metric.Int64Counter
}

// NewNoopTelemetry returns telemetry whose instruments discard everything.
func NewNoopTelemetry() *Telemetry {
	meter := metricnoop.NewMeterProvider().Meter(InstrumentationName)
	m, _ := NewMetrics(meter)
	return &Telemetry{
		Tracer:  tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:   meter,
		Metrics: m,
	}
}

// InitializeTelemetry configures the global OpenTelemetry providers from
// cfg and creates the dashboard metrics.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	t := NewNoopTelemetry()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(config.AppVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
			attribute.String("service.instance.id", GenerateTraceID()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		)
		otel.SetTracerProvider(t.tracerProvider)
		t.Tracer = t.tracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		otel.SetMeterProvider(t.meterProvider)
		t.Meter = t.meterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))
		t.MetricsHandler = promhttp.Handler()

		m, err := NewMetrics(t.Meter)
		if err != nil {
			return nil, err
		}
		t.Metrics = m
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return t, nil
}

// NewMetrics creates the dashboard instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("http_requests_total: %w", err)
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("http_request_duration_seconds: %w", err)
	}
	if m.PipelineRuns, err = meter.Int64Counter("pipeline_runs_total",
		metric.WithDescription("Pipeline runs by visualization mode and outcome"),
		metric.WithUnit("{run}")); err != nil {
		return nil, fmt.Errorf("pipeline_runs_total: %w", err)
	}
	if m.PipelineStageDuration, err = meter.Float64Histogram("pipeline_stage_duration_seconds",
		metric.WithDescription("Duration of each pipeline stage in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("pipeline_stage_duration_seconds: %w", err)
	}
	if m.RecordsNormalized, err = meter.Int64Counter("pipeline_records_normalized_total",
		metric.WithDescription("Rows turned into normalized records"),
		metric.WithUnit("{record}")); err != nil {
		return nil, fmt.Errorf("pipeline_records_normalized_total: %w", err)
	}
	if m.RecordsFiltered, err = meter.Int64Histogram("pipeline_records_filtered",
		metric.WithDescription("Records left in a view after filtering"),
		metric.WithUnit("{record}")); err != nil {
		return nil, fmt.Errorf("pipeline_records_filtered: %w", err)
	}
	if m.ParseFailures, err = meter.Int64Counter("pipeline_parse_failures_total",
		metric.WithDescription("Cells that could not be parsed and became absent"),
		metric.WithUnit("{cell}")); err != nil {
		return nil, fmt.Errorf("pipeline_parse_failures_total: %w", err)
	}
	if m.ExportArtifacts, err = meter.Int64Counter("export_artifacts_total",
		metric.WithDescription("Export artifacts produced by format"),
		metric.WithUnit("{artifact}")); err != nil {
		return nil, fmt.Errorf("export_artifacts_total: %w", err)
	}

	return &m, nil
}

// RecordStage records the duration of one pipeline stage.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	m.PipelineStageDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRun counts a pipeline run for mode.
func (m *Metrics) RecordRun(ctx context.Context, mode string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.PipelineRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status)))
}

// RecordExport counts a produced export artifact.
func (m *Metrics) RecordExport(ctx context.Context, format string) {
	m.ExportArtifacts.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status))
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, d.Seconds(), attrs)
}

// Shutdown flushes and stops the providers created by InitializeTelemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RecordError marks the span in ctx as failed.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
