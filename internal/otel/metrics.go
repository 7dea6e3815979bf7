// Package otel records OpenTelemetry metrics for a single check run,
// and exports them over OTLP/HTTP when the run ends.
package otel

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const name = "github.com/tzrikka/ownergate/internal/otel"

// InitMetrics initializes the global meter provider based on the "otlp-*"
// CLI flags, and returns a shutdown function that flushes the collected
// metrics. When OTLP export is disabled (the default), both are no-ops.
func InitMetrics(ctx context.Context, cmd *cli.Command) (func(context.Context) error, error) {
	if cmd.Bool("otlp-disabled") {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(cmd.String("otlp-endpoint")),
		otlpmetrichttp.WithTimeout(time.Duration(cmd.Int64("otlp-timeout-ms")) * time.Millisecond),
	}
	if cmd.String("otlp-compression") == "gzip" {
		opts = append(opts, otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression))
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName("ownergate"))
	provider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithResource(res),
	)

	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}

// IncrementCounter increments a metric counter. Attributes are optional.
func IncrementCounter(ctx context.Context, counterName string, incr int64, attrs map[string]string) {
	meter := otel.GetMeterProvider().Meter(name)
	counter, err := meter.Int64Counter(counterName)
	if err != nil {
		slog.Warn("failed to create metric counter",
			slog.Any("error", err), slog.String("name", counterName))
		return
	}

	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		if v == "" {
			continue
		}
		kvs = append(kvs, attribute.String(k, v))
	}

	counter.Add(ctx, incr, otelmetric.WithAttributes(kvs...))
}
