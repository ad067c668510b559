package models

import (
	"time"
)

// EventType is the action an edge device observed.
type EventType string

const (
	EventTypeZoneEnter EventType = "zone_enter"
	EventTypeZoneExit  EventType = "zone_exit"
	EventTypeLineCross EventType = "line_cross"
)

// Valid reports whether t is one of the recognized event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeZoneEnter, EventTypeZoneExit, EventTypeLineCross:
		return true
	}
	return false
}

// EventKind is the spatial construct that produced the event.
type EventKind string

const (
	EventKindZone EventKind = "zone"
	EventKindLine EventKind = "line"
)

func (k EventKind) Valid() bool {
	return k == EventKindZone || k == EventKindLine
}

// Event is a single persisted detection record. Records are immutable once
// inserted; ID is assigned by the store. Nil pointers are stored as NULL and
// serialized as JSON null.
type Event struct {
	ID              int64     `json:"id" db:"id"`
	Time            time.Time `json:"time" db:"time"`
	JetsonID        int64     `json:"jetson_id" db:"jetson_id"`
	CameraID        string    `json:"camera_id" db:"camera_id"`
	SessionID       *string   `json:"session_id" db:"session_id"`
	TrackID         int64     `json:"track_id" db:"track_id"`
	EntityID        string    `json:"entity_id" db:"entity_id"`
	EntityType      *string   `json:"entity_type" db:"entity_type"`
	EventType       EventType `json:"event_type" db:"event_type"`
	EventKind       EventKind `json:"event_kind" db:"event_kind"`
	CurrentCount    *int64    `json:"current_count" db:"current_count"`
	CumulativeCount *int64    `json:"cumulative_count" db:"cumulative_count"`
	DwellMs         *int64    `json:"dwell_ms" db:"dwell_ms"`
	Coords          *string   `json:"coords" db:"coords"`
}

// EventIngestResponse is returned by POST /api/event.
type EventIngestResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// EventFilter narrows a read. Nil fields do not constrain the result; present
// fields combine with AND. Bounds are inclusive.
type EventFilter struct {
	Start     *time.Time
	End       *time.Time
	EventKind *string
	EventType *string
}

// FilterEcho repeats the raw query parameters a read was made with.
type FilterEcho struct {
	Start     *string `json:"start"`
	End       *string `json:"end"`
	EventKind *string `json:"event_kind"`
	EventType *string `json:"event_type"`
}

// EventQueryResponse is returned by GET /api/event.
type EventQueryResponse struct {
	Message string     `json:"message"`
	Count   int        `json:"count"`
	Filters FilterEcho `json:"filters"`
	Events  []Event    `json:"events"`
}
