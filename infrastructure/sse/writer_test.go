package sse_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksnll/mithrilforge/infrastructure/sse"
)

func TestWriteEvent(t *testing.T) {
	tests := []struct {
		name  string
		event sse.Event
		want  string
	}{
		{
			name:  "typed with id",
			event: sse.Event{Type: "WebsiteAdded", ID: "7", Data: map[string]int{"website_id": 1}},
			want:  "event: WebsiteAdded\nid: 7\ndata: {\"website_id\":1}\n\n",
		},
		{
			name:  "raw json passes through",
			event: sse.Event{Data: json.RawMessage(`{"type":"Lagged","missed":3}`)},
			want:  "data: {\"type\":\"Lagged\",\"missed\":3}\n\n",
		},
		{
			name:  "retry",
			event: sse.Event{Type: "x", Retry: 500, Data: "y"},
			want:  "event: x\nretry: 500\ndata: \"y\"\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, sse.WriteEvent(rec, tt.event))
			assert.Equal(t, tt.want, rec.Body.String())
			assert.True(t, rec.Flushed)
		})
	}
}

func TestWriteEvent_MarshalError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := sse.WriteEvent(rec, sse.Event{Data: make(chan int)})
	assert.Error(t, err)
}

func TestWriteHeartbeatAndHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	sse.SetHeaders(rec)
	require.NoError(t, sse.WriteHeartbeat(rec))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), ": heartbeat "))
}
