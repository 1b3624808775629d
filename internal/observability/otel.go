// Package observability wires OpenTelemetry tracing and metrics for
// the screening client.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"smarthire/internal/config"
)

// Metrics holds all custom metrics for the screening client
type Metrics struct {
	ScreeningsRun      metric.Int64Counter
	CandidatesScreened metric.Int64Counter
	AIDrafts           metric.Int64Counter
	RedactionsApplied  metric.Int64Counter
	ShortlistAdds      metric.Int64Counter
	ExportsGenerated   metric.Int64Counter
	RequestDuration    metric.Float64Histogram
}

// ObservabilityManager manages OpenTelemetry setup
type ObservabilityManager struct {
	config         config.ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewObservabilityManager creates a new observability manager. When
// disabled, all instruments are nil-safe no-ops.
func NewObservabilityManager(cfg config.ObservabilityConfig) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: cfg}
	if !cfg.Enabled {
		return om, nil
	}

	res, err := om.createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := om.initTracing(res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

func (om *ObservabilityManager) createResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("deployment.environment", om.config.Environment),
		),
	)
}

func (om *ObservabilityManager) initTracing(res *resource.Resource) error {
	var exporter trace.SpanExporter
	var err error

	switch om.config.ExporterType {
	case "otlp":
		exporter, err = otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpointURL(om.config.OTLPEndpoint))
	case "stdout":
		exporter, err = stdouttrace.New()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

func (om *ObservabilityManager) initMetrics(res *resource.Resource) error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.initCustomMetrics()
}

func (om *ObservabilityManager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	switch om.config.ExporterType {
	case "stdout":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(15*time.Second)))
	case "otlp":
		exporter, err := otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpointURL(om.config.OTLPEndpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(15*time.Second)))
	case "prometheus":
		reader, err := SetupPrometheusExporter()
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
		if err := StartPrometheusServer(om.config.PrometheusPort); err != nil {
			return nil, err
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	om.metrics = &Metrics{}
	var err error

	om.metrics.ScreeningsRun, err = meter.Int64Counter(
		"smarthire_screenings_total",
		metric.WithDescription("Total number of screening runs submitted"),
	)
	if err != nil {
		return fmt.Errorf("failed to create screenings metric: %w", err)
	}

	om.metrics.CandidatesScreened, err = meter.Int64Counter(
		"smarthire_candidates_screened_total",
		metric.WithDescription("Total number of candidates scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create candidates metric: %w", err)
	}

	om.metrics.AIDrafts, err = meter.Int64Counter(
		"smarthire_ai_drafts_total",
		metric.WithDescription("Total number of AI generations requested"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI drafts metric: %w", err)
	}

	om.metrics.RedactionsApplied, err = meter.Int64Counter(
		"smarthire_redactions_total",
		metric.WithDescription("Total number of blind screening redactions applied"),
	)
	if err != nil {
		return fmt.Errorf("failed to create redactions metric: %w", err)
	}

	om.metrics.ShortlistAdds, err = meter.Int64Counter(
		"smarthire_shortlist_adds_total",
		metric.WithDescription("Total number of candidates added to the shortlist"),
	)
	if err != nil {
		return fmt.Errorf("failed to create shortlist metric: %w", err)
	}

	om.metrics.ExportsGenerated, err = meter.Int64Counter(
		"smarthire_exports_total",
		metric.WithDescription("Total number of exports generated"),
	)
	if err != nil {
		return fmt.Errorf("failed to create exports metric: %w", err)
	}

	om.metrics.RequestDuration, err = meter.Float64Histogram(
		"smarthire_backend_request_duration_seconds",
		metric.WithDescription("Duration of backend API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// Tracer returns a tracer for the service
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// CountScreening records a screening run and its candidate count
func (m *Metrics) CountScreening(ctx context.Context, candidates int, success bool) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	if m.ScreeningsRun != nil {
		m.ScreeningsRun.Add(ctx, 1, attrs)
	}
	if m.CandidatesScreened != nil && success {
		m.CandidatesScreened.Add(ctx, int64(candidates), attrs)
	}
}

// CountAIDraft records one AI generation by operation name
func (m *Metrics) CountAIDraft(ctx context.Context, operation string, success bool) {
	if m.AIDrafts == nil {
		return
	}
	m.AIDrafts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	))
}

// CountRedaction records one blind screening redaction
func (m *Metrics) CountRedaction(ctx context.Context) {
	if m.RedactionsApplied != nil {
		m.RedactionsApplied.Add(ctx, 1)
	}
}

// CountShortlistAdd records a candidate added to the shortlist
func (m *Metrics) CountShortlistAdd(ctx context.Context, auto bool) {
	if m.ShortlistAdds != nil {
		m.ShortlistAdds.Add(ctx, 1, metric.WithAttributes(attribute.Bool("auto", auto)))
	}
}

// CountExport records an export by kind (csv, report, contacts)
func (m *Metrics) CountExport(ctx context.Context, kind string, success bool) {
	if m.ExportsGenerated != nil {
		m.ExportsGenerated.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.Bool("success", success),
		))
	}
}

// RecordRequestDuration records one backend request's wall time
func (m *Metrics) RecordRequestDuration(ctx context.Context, path string, seconds float64, success bool) {
	if m.RequestDuration != nil {
		m.RequestDuration.Record(ctx, seconds, metric.WithAttributes(
			attribute.String("path", path),
			attribute.Bool("success", success),
		))
	}
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}
