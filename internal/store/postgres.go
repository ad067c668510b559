package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/edge-event-service/internal/models"
)

// postgresSchemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema_postgres.sql
var postgresSchemaSQL string

// PostgresStore is the durable persistence layer for events on Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema_postgres.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func encodePostgresTime(t time.Time) any {
	return t.UTC()
}

// InsertEvent persists an event and returns the identity value assigned to it.
func (p *PostgresStore) InsertEvent(ctx context.Context, ev models.Event) (id int64, err error) {
	ctx, span := startSpan(ctx, "store.postgres.InsertEvent")
	defer func() { endSpan(span, err) }()

	err = p.pool.QueryRow(ctx, insertSQL(dollar, true), insertArgs(ev, encodePostgresTime)...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// ListEvents returns every event matching f, most recent first. The rows are
// released before returning, whether or not collection succeeded.
func (p *PostgresStore) ListEvents(ctx context.Context, f models.EventFilter) (events []models.Event, err error) {
	ctx, span := startSpan(ctx, "store.postgres.ListEvents")
	defer func() { endSpan(span, err) }()

	query, args := buildListQuery(f, dollar, encodePostgresTime)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Event])
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for i := range events {
		events[i].Time = events[i].Time.UTC()
	}
	return events, nil
}
