package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	exportInterval = 15 * time.Second
	exportTimeout  = 5 * time.Second
)

type Config struct {
	ServiceName string
	// OTLP gRPC collector address; empty keeps the global no-op provider
	Endpoint string
}

// Init installs a global MeterProvider exporting over OTLP/gRPC and returns
// its shutdown func.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.namespace", "readtogether"),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, errors.New("creating otel resource error: " + err.Error())
	}
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(trimScheme(cfg.Endpoint)),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.New("creating metric exporter error: " + err.Error())
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(exportInterval),
				sdkmetric.WithTimeout(exportTimeout),
			),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return func(c context.Context) error {
		ctx, cancel := context.WithTimeout(c, exportTimeout)
		defer cancel()
		if err := mp.Shutdown(ctx); err != nil {
			return errors.New("meter provider shutdown error: " + err.Error())
		}
		return nil
	}, nil
}

// grpc exporter wants host:port
func trimScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimPrefix(endpoint, "https://")
}
