package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/PratikDhanave/edge-event-service/internal/models"
)

// eventColumns lists the events columns in the order they are selected and
// inserted (id excluded from inserts).
const eventColumns = `id, time, jetson_id, camera_id, session_id, track_id, entity_id,
	entity_type, event_type, event_kind, current_count, cumulative_count, dwell_ms, coords`

// placeholder renders the n-th (1-based) bind parameter for a dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

// encodeTime converts a bound time value into what the column stores.
type encodeTime func(time.Time) any

// buildListQuery assembles the filtered read. Only fixed column fragments
// reach the SQL text; every filter value is returned as a bind argument.
func buildListQuery(f models.EventFilter, ph placeholder, enc encodeTime) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(fragment string, v any) {
		args = append(args, v)
		where = append(where, fragment+" "+ph(len(args)))
	}

	if f.Start != nil {
		add("time >=", enc(*f.Start))
	}
	if f.End != nil {
		add("time <=", enc(*f.End))
	}
	if f.EventKind != nil {
		add("event_kind =", *f.EventKind)
	}
	if f.EventType != nil {
		add("event_type =", *f.EventType)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(eventColumns)
	sb.WriteString("\nFROM events")
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("\nORDER BY time DESC")

	return sb.String(), args
}

// insertArgs returns the bind arguments for an insert, in eventColumns order
// without id.
func insertArgs(ev models.Event, enc encodeTime) []any {
	return []any{
		enc(ev.Time),
		ev.JetsonID,
		ev.CameraID,
		ev.SessionID,
		ev.TrackID,
		ev.EntityID,
		ev.EntityType,
		string(ev.EventType),
		string(ev.EventKind),
		ev.CurrentCount,
		ev.CumulativeCount,
		ev.DwellMs,
		ev.Coords,
	}
}

// insertSQL builds the INSERT statement for a dialect.
func insertSQL(ph placeholder, returning bool) string {
	marks := make([]string, 13)
	for i := range marks {
		marks[i] = ph(i + 1)
	}
	q := `INSERT INTO events (time, jetson_id, camera_id, session_id, track_id, entity_id,
	entity_type, event_type, event_kind, current_count, cumulative_count, dwell_ms, coords)
VALUES (` + strings.Join(marks, ", ") + ")"
	if returning {
		q += "\nRETURNING id"
	}
	return q
}
