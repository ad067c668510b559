package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/PratikDhanave/edge-event-service/internal/models"
)

//go:embed schema_sqlite.sql
var sqliteSchemaSQL string

// sqliteTimeLayout is fixed-width so that text order equals time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// sqlitePragmas are applied to every pooled connection through the DSN.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// SQLiteStore keeps events in a local SQLite file. It is the default backend
// for single-site deployments.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database file at path.
// ":memory:" gives a private in-memory database limited to one connection.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	memory := path == ":memory:"
	if !memory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if memory {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	params := make([]string, len(sqlitePragmas))
	for i, p := range sqlitePragmas {
		params[i] = "_pragma=" + p
	}
	return path + "?" + strings.Join(params, "&")
}

func encodeSQLiteTime(t time.Time) any {
	return t.UTC().Format(sqliteTimeLayout)
}

// EnsureSchema applies schema_sqlite.sql.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertEvent persists ev. The id comes from the AUTOINCREMENT rowid, which
// SQLite never reuses.
func (s *SQLiteStore) InsertEvent(ctx context.Context, ev models.Event) (id int64, err error) {
	ctx, span := startSpan(ctx, "store.sqlite.InsertEvent")
	defer func() { endSpan(span, err) }()

	res, err := s.db.ExecContext(ctx, insertSQL(questionMark, false), insertArgs(ev, encodeSQLiteTime)...)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert event: reading id: %w", err)
	}
	return id, nil
}

// sqliteEventRow mirrors the events table; time is stored as text.
type sqliteEventRow struct {
	ID              int64   `db:"id"`
	Time            string  `db:"time"`
	JetsonID        int64   `db:"jetson_id"`
	CameraID        string  `db:"camera_id"`
	SessionID       *string `db:"session_id"`
	TrackID         int64   `db:"track_id"`
	EntityID        string  `db:"entity_id"`
	EntityType      *string `db:"entity_type"`
	EventType       string  `db:"event_type"`
	EventKind       string  `db:"event_kind"`
	CurrentCount    *int64  `db:"current_count"`
	CumulativeCount *int64  `db:"cumulative_count"`
	DwellMs         *int64  `db:"dwell_ms"`
	Coords          *string `db:"coords"`
}

func (r sqliteEventRow) event() (models.Event, error) {
	ts, err := time.Parse(sqliteTimeLayout, r.Time)
	if err != nil {
		return models.Event{}, fmt.Errorf("event %d: parsing stored time %q: %w", r.ID, r.Time, err)
	}
	return models.Event{
		ID:              r.ID,
		Time:            ts,
		JetsonID:        r.JetsonID,
		CameraID:        r.CameraID,
		SessionID:       r.SessionID,
		TrackID:         r.TrackID,
		EntityID:        r.EntityID,
		EntityType:      r.EntityType,
		EventType:       models.EventType(r.EventType),
		EventKind:       models.EventKind(r.EventKind),
		CurrentCount:    r.CurrentCount,
		CumulativeCount: r.CumulativeCount,
		DwellMs:         r.DwellMs,
		Coords:          r.Coords,
	}, nil
}

// ListEvents returns every event matching f, most recent first. There is no
// row limit.
func (s *SQLiteStore) ListEvents(ctx context.Context, f models.EventFilter) (events []models.Event, err error) {
	ctx, span := startSpan(ctx, "store.sqlite.ListEvents")
	defer func() { endSpan(span, err) }()

	query, args := buildListQuery(f, questionMark, encodeSQLiteTime)

	var rows []sqliteEventRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events = make([]models.Event, 0, len(rows))
	for _, r := range rows {
		ev, err := r.event()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
