package store

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PratikDhanave/edge-event-service/internal/models"
)

var tracer = otel.Tracer("github.com/PratikDhanave/edge-event-service/internal/store")

// Store is the durable persistence layer for events. Implementations own a
// connection pool; every call acquires a connection and releases it before
// returning.
type Store interface {
	// InsertEvent persists ev and returns the id the database generated for it.
	InsertEvent(ctx context.Context, ev models.Event) (int64, error)
	// ListEvents returns all events matching f, most recent first.
	ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error)
	// EnsureSchema creates the events table and its indexes. Safe to run multiple times.
	EnsureSchema(ctx context.Context) error
	// Ping is used by the readiness endpoint to validate DB connectivity.
	Ping(ctx context.Context) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the store selected by driver. dsn is a file path for
// sqlite and a connection URL for postgres.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(dsn)
	case DriverPostgres:
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// startSpan opens a span for a store operation.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
