package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// meterName identifies the instrumentation scope for all meters in this module.
const meterName = "github.com/spacebridge/connsync-server"

// Provider owns the OpenTelemetry meter provider lifecycle.
// A disabled provider hands out no-op meters and shuts down cleanly.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
}

// NewProvider initializes metrics export based on the given configuration.
// When telemetry is disabled (or cfg is nil), the returned provider is a no-op.
func NewProvider(ctx context.Context, cfg *Config, serviceVersion string) (*Provider, error) {
	if !cfg.IsEnabled() {
		return &Provider{}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.GetEndpoint()),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	version := cfg.ServiceVersion
	if version == "" {
		version = serviceVersion
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.GetServiceName()),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	slog.Info("Telemetry metrics enabled",
		"service", cfg.GetServiceName(),
		"endpoint", cfg.GetEndpoint())

	return &Provider{meterProvider: mp}, nil
}

// Meter returns a meter for instrumenting this module.
func (p *Provider) Meter() metric.Meter {
	if p == nil || p.meterProvider == nil {
		return noop.NewMeterProvider().Meter(meterName)
	}
	return p.meterProvider.Meter(meterName)
}

// Shutdown flushes pending metrics and releases exporter resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
