package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/edge-event-service/internal/models"
	"github.com/PratikDhanave/edge-event-service/internal/requestid"
	"github.com/PratikDhanave/edge-event-service/internal/store"
)

////////////////////////////////////////////////////////////////////////////////
// END-TO-END SUITE
//
//   Client → HTTP API → handler → SQLite → query → response
//
// Every test gets its own database file, so ids start at 1.
////////////////////////////////////////////////////////////////////////////////

type queryResponse struct {
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Filters map[string]any    `json:"filters"`
	Events  []json.RawMessage `json:"events"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	require.NoError(t, st.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(st, models.DefaultValidationRules(), logger))
	t.Cleanup(srv.Close)
	return srv
}

// httpGet performs a GET request and returns status and body.
func httpGet(t *testing.T, srv *httptest.Server, path string) (int, []byte) {
	t.Helper()

	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err, "GET %s", path)
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

// postJSON performs a POST with a JSON body.
func postJSON(t *testing.T, srv *httptest.Server, path string, payload any) (int, []byte) {
	t.Helper()

	b, _ := json.Marshal(payload)
	resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err, "POST %s", path)
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func event(ts string, typ, kind string) map[string]any {
	return map[string]any{
		"time":       ts,
		"jetson_id":  1,
		"camera_id":  "cam1",
		"session_id": "s1",
		"track_id":   5,
		"entity_id":  "zoneA",
		"event_type": typ,
		"event_kind": kind,
	}
}

func postEvent(t *testing.T, srv *httptest.Server, payload map[string]any) int64 {
	t.Helper()
	s, b := postJSON(t, srv, "/api/event", payload)
	require.Equal(t, http.StatusCreated, s, string(b))

	var r models.EventIngestResponse
	require.NoError(t, json.Unmarshal(b, &r))
	return r.ID
}

func query(t *testing.T, srv *httptest.Server, rawQuery string) queryResponse {
	t.Helper()
	path := "/api/event"
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	s, b := httpGet(t, srv, path)
	require.Equal(t, http.StatusOK, s, string(b))

	var r queryResponse
	require.NoError(t, json.Unmarshal(b, &r))
	return r
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH & READINESS
////////////////////////////////////////////////////////////////////////////////

func TestHealth_ReturnsOK(t *testing.T) {
	srv := newTestServer(t)
	s, _ := httpGet(t, srv, "/health")
	assert.Equal(t, http.StatusOK, s)
}

func TestReady_ReturnsOK(t *testing.T) {
	srv := newTestServer(t)
	s, _ := httpGet(t, srv, "/ready")
	assert.Equal(t, http.StatusOK, s)
}

type downStore struct{ store.Store }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestReady_StoreDown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(downStore{}, models.DefaultValidationRules(), logger))
	defer srv.Close()

	s, b := httpGet(t, srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, s)
	assert.NotContains(t, string(b), "refused")
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(requestid.Header))
}

////////////////////////////////////////////////////////////////////////////////
// EVENT CONTRACT
////////////////////////////////////////////////////////////////////////////////

func TestScenario_PostThenQueryByKind(t *testing.T) {
	srv := newTestServer(t)

	s, b := postJSON(t, srv, "/api/event", event("2024-01-01T00:00:00Z", "zone_enter", "zone"))
	require.Equal(t, http.StatusCreated, s)
	assert.JSONEq(t, `{"message":"zone_enter event successfully inserted.","id":1}`, string(b))

	r := query(t, srv, "event_kind=zone")
	assert.Equal(t, 1, r.Count)
	require.Len(t, r.Events, 1)
	assert.JSONEq(t, `{
		"id": 1,
		"time": "2024-01-01T00:00:00Z",
		"jetson_id": 1,
		"camera_id": "cam1",
		"session_id": "s1",
		"track_id": 5,
		"entity_id": "zoneA",
		"entity_type": null,
		"event_type": "zone_enter",
		"event_kind": "zone",
		"current_count": null,
		"cumulative_count": null,
		"dwell_ms": null,
		"coords": null
	}`, string(r.Events[0]))
	assert.Equal(t, map[string]any{"start": nil, "end": nil, "event_kind": "zone", "event_type": nil}, r.Filters)
}

func TestIDs_StrictlyIncreasing(t *testing.T) {
	srv := newTestServer(t)

	var last int64
	for i := 0; i < 5; i++ {
		ts := time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC).Format(time.RFC3339)
		id := postEvent(t, srv, event(ts, "line_cross", "line"))
		assert.Greater(t, id, last)
		last = id
	}
}

func TestRejectedPostsPersistNothing(t *testing.T) {
	srv := newTestServer(t)
	postEvent(t, srv, event("2024-01-01T00:00:00Z", "zone_enter", "zone"))

	missing := event("2024-01-01T00:01:00Z", "zone_exit", "zone")
	delete(missing, "entity_id")
	s, _ := postJSON(t, srv, "/api/event", missing)
	assert.Equal(t, http.StatusBadRequest, s)

	s, b := postJSON(t, srv, "/api/event", event("2024-01-01T00:02:00Z", "zone_dance", "zone"))
	assert.Equal(t, http.StatusBadRequest, s)
	assert.Contains(t, string(b), "zone_dance")

	assert.Equal(t, 1, query(t, srv, "").Count)
}

func TestQuery_OrderedNewestFirstAndWindowed(t *testing.T) {
	srv := newTestServer(t)

	for _, ts := range []string{
		"2024-01-01T01:00:00Z",
		"2024-01-01T03:00:00Z",
		"2024-01-01T00:00:00Z",
		"2024-01-01T02:00:00Z",
	} {
		postEvent(t, srv, event(ts, "zone_enter", "zone"))
	}

	times := func(r queryResponse) []string {
		var out []string
		for _, raw := range r.Events {
			var ev struct {
				Time string `json:"time"`
			}
			require.NoError(t, json.Unmarshal(raw, &ev))
			out = append(out, ev.Time)
		}
		return out
	}

	all := query(t, srv, "")
	assert.Equal(t, []string{
		"2024-01-01T03:00:00Z",
		"2024-01-01T02:00:00Z",
		"2024-01-01T01:00:00Z",
		"2024-01-01T00:00:00Z",
	}, times(all))

	window := query(t, srv, "start=2024-01-01T01:00:00Z&end=2024-01-01T02:00:00Z")
	assert.Equal(t, []string{"2024-01-01T02:00:00Z", "2024-01-01T01:00:00Z"}, times(window))
	assert.Equal(t, 2, window.Count)
}

func TestQuery_BadBounds(t *testing.T) {
	srv := newTestServer(t)

	s, b := httpGet(t, srv, "/api/event?start=not-a-date")
	assert.Equal(t, http.StatusBadRequest, s)
	assert.Contains(t, string(b), "start")

	s, _ = httpGet(t, srv, "/api/event?start=2024-01-02T00:00:00Z&end=2024-01-01T00:00:00Z")
	assert.Equal(t, http.StatusBadRequest, s)
}

func TestRoundTrip_OptionalFieldsAbsentAreNull(t *testing.T) {
	srv := newTestServer(t)

	payload := event("2024-01-01T00:00:00Z", "line_cross", "line")
	payload["entity_type"] = ""
	postEvent(t, srv, payload)

	r := query(t, srv, "event_type=line_cross")
	require.Len(t, r.Events, 1)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(r.Events[0], &ev))
	for _, k := range []string{"entity_type", "current_count", "cumulative_count", "dwell_ms", "coords"} {
		v, ok := ev[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
}

func TestRoundTrip_OptionalFieldsPresent(t *testing.T) {
	srv := newTestServer(t)

	payload := event("2024-01-01T00:00:00.5Z", "zone_exit", "zone")
	payload["entity_type"] = "checkout"
	payload["current_count"] = 3
	payload["cumulative_count"] = 12
	payload["dwell_ms"] = 5400
	payload["coords"] = []any{[]any{10, 20}, []any{30, 40}}
	postEvent(t, srv, payload)

	r := query(t, srv, "")
	require.Len(t, r.Events, 1)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(r.Events[0], &ev))
	assert.Equal(t, "2024-01-01T00:00:00.5Z", ev["time"])
	assert.Equal(t, "checkout", ev["entity_type"])
	assert.Equal(t, float64(3), ev["current_count"])
	assert.Equal(t, float64(12), ev["cumulative_count"])
	assert.Equal(t, float64(5400), ev["dwell_ms"])
	assert.Equal(t, "[[10,20],[30,40]]", ev["coords"])
}
