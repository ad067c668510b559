package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestInit_StdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	shutdown, err := Init(ctx, Config{
		ServiceName:      "edge-event-service-test",
		ServiceVersion:   "1.2.3",
		DBDriver:         "sqlite",
		RequireSessionID: true,
		Stdout:           &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "store.sqlite.InsertEvent")
	span.End()

	require.NoError(t, shutdown(ctx))
	out := buf.String()
	assert.Contains(t, out, "store.sqlite.InsertEvent")
	assert.Contains(t, out, "edge-event-service-test")
	assert.Contains(t, out, "edge_events.require_session_id")
	assert.Contains(t, out, "db.system")
	assert.NotContains(t, out, "library.language")
}

func TestInit_WithoutExporter(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestServiceAttributes(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want map[attribute.Key]string
	}{
		{
			name: "defaults",
			cfg:  Config{},
			want: map[attribute.Key]string{
				"service.name":                   "edge-event-service",
				"edge_events.require_session_id": "false",
			},
		},
		{
			name: "postgres deployment",
			cfg:  Config{ServiceVersion: "v0.3.0", DBDriver: "postgres", RequireSessionID: true},
			want: map[attribute.Key]string{
				"service.name":                   "edge-event-service",
				"service.version":                "v0.3.0",
				"db.system":                      "postgresql",
				"edge_events.require_session_id": "true",
			},
		},
		{
			name: "sqlite deployment",
			cfg:  Config{ServiceName: "edge-events-lab", DBDriver: "sqlite"},
			want: map[attribute.Key]string{
				"service.name":                   "edge-events-lab",
				"db.system":                      "sqlite",
				"edge_events.require_session_id": "false",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[attribute.Key]string{}
			for _, kv := range serviceAttributes(tt.cfg) {
				got[kv.Key] = kv.Value.Emit()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
