package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const defaultServiceName = "edge-event-service"

// Config describes the running service for its trace resource.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// DBDriver is the store backend, "sqlite" or "postgres".
	DBDriver         string
	RequireSessionID bool
	// Stdout, when set, receives pretty-printed spans as each one ends.
	Stdout io.Writer
}

// Init installs the global tracer provider. Spans are dropped unless
// cfg.Stdout is set.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	res, err := sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithHost(),
		sdkresource.WithAttributes(serviceAttributes(cfg)...),
	)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.Stdout != nil {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(cfg.Stdout), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithSyncer(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func serviceAttributes(cfg Config) []attribute.KeyValue {
	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(name),
		attribute.Bool("edge_events.require_session_id", cfg.RequireSessionID),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	switch cfg.DBDriver {
	case "sqlite":
		attrs = append(attrs, semconv.DBSystemSqlite)
	case "postgres":
		attrs = append(attrs, semconv.DBSystemPostgreSQL)
	}
	return attrs
}
