package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EventIngestRequest is the POST /api/event payload as sent by edge devices.
// Required numeric fields use plain integers: zero counts as missing.
type EventIngestRequest struct {
	Time            string          `json:"time"`
	JetsonID        int64           `json:"jetson_id"`
	CameraID        string          `json:"camera_id"`
	SessionID       *string         `json:"session_id"`
	TrackID         int64           `json:"track_id"`
	EntityID        string          `json:"entity_id"`
	EntityType      *string         `json:"entity_type"`
	EventType       string          `json:"event_type"`
	EventKind       string          `json:"event_kind"`
	CurrentCount    *int64          `json:"current_count"`
	CumulativeCount *int64          `json:"cumulative_count"`
	DwellMs         *int64          `json:"dwell_ms"`
	Coords          json.RawMessage `json:"coords"`
}

// ValidationRules holds the ingestion checks that are deployment decisions
// rather than fixed by the schema.
type ValidationRules struct {
	// RequireSessionID rejects events without a session_id. The column itself
	// is nullable, so turning this off stores such events with a NULL session.
	RequireSessionID bool
}

// DefaultValidationRules matches what deployed edge devices have always been
// held to.
func DefaultValidationRules() ValidationRules {
	return ValidationRules{RequireSessionID: true}
}

// ValidationError is a client-caused rejection. Message is safe to return as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks the payload and converts it into an Event ready to insert.
// Checks run in a fixed order and the first failure is returned.
func (r *EventIngestRequest) Validate(rules ValidationRules) (Event, error) {
	sessionID := optionalString(r.SessionID)

	if r.Time == "" || r.JetsonID == 0 || r.CameraID == "" ||
		r.TrackID == 0 || r.EntityID == "" || r.EventType == "" || r.EventKind == "" ||
		(rules.RequireSessionID && sessionID == nil) {
		return Event{}, invalid("missing required fields")
	}

	eventType := EventType(r.EventType)
	if !eventType.Valid() {
		return Event{}, invalid("invalid event type %s", r.EventType)
	}

	eventKind := EventKind(r.EventKind)
	if !eventKind.Valid() {
		return Event{}, invalid("invalid event kind %s", r.EventKind)
	}

	ts, err := ParseTimestamp(r.Time)
	if err != nil {
		return Event{}, invalid("invalid time format, use ISO 8601")
	}

	return Event{
		Time:            ts,
		JetsonID:        r.JetsonID,
		CameraID:        r.CameraID,
		SessionID:       sessionID,
		TrackID:         r.TrackID,
		EntityID:        r.EntityID,
		EntityType:      optionalString(r.EntityType),
		EventType:       eventType,
		EventKind:       eventKind,
		CurrentCount:    r.CurrentCount,
		CumulativeCount: r.CumulativeCount,
		DwellMs:         r.DwellMs,
		Coords:          coordsText(r.Coords),
	}, nil
}

// optionalString maps nil and "" to nil so empty strings never reach storage.
func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// coordsText keeps a JSON string verbatim and any other JSON value as its
// compact text. The payload is opaque beyond that; raw has already been
// accepted by the JSON decoder.
func coordsText(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if trimmed[0] == '"' && json.Unmarshal(trimmed, &s) == nil {
		return optionalString(&s)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		s = string(trimmed)
	} else {
		s = buf.String()
	}
	return &s
}
