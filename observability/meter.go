package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func initMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(TracerName)
}

// Metrics holds the module's instruments.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	passDuration    metric.Float64Histogram
	crawlRequests   metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Handled HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}

	passDuration, err := meter.Float64Histogram("compiler.pass.duration",
		metric.WithDescription("Compiler pass duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating compiler.pass.duration histogram: %w", err)
	}

	crawlRequests, err := meter.Int64Counter("crawl.requests",
		metric.WithDescription("Crawler requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crawl.requests counter: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		passDuration:    passDuration,
		crawlRequests:   crawlRequests,
	}, nil
}

// MustMetrics returns instruments on the global meter. Instrument creation
// only fails for invalid names, so a failure is a programming error.
func MustMetrics() *Metrics {
	m, err := NewMetrics(Meter())
	if err != nil {
		panic(err)
	}
	return m
}

// RecordRequest records a finished HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordPass records one compiler pass run.
func (m *Metrics) RecordPass(ctx context.Context, pass string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.passDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("pass", pass),
		attribute.String("outcome", outcome),
	))
}

// RecordCrawl counts a crawled URL by outcome ("ok", "failed").
func (m *Metrics) RecordCrawl(ctx context.Context, outcome string) {
	m.crawlRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
