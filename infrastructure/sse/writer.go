package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type flusher interface {
	Flush()
}

// SetHeaders sets the event-stream headers and disables proxy buffering.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// WriteEvent writes one frame and flushes when the writer supports it.
func WriteEvent(w io.Writer, event Event) error {
	if event.Type != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
			return fmt.Errorf("write event type: %w", err)
		}
	}
	if event.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", event.ID); err != nil {
			return fmt.Errorf("write event id: %w", err)
		}
	}
	if event.Retry > 0 {
		if _, err := fmt.Fprintf(w, "retry: %d\n", event.Retry); err != nil {
			return fmt.Errorf("write retry: %w", err)
		}
	}

	data, ok := event.Data.(json.RawMessage)
	if !ok {
		var err error
		if data, err = json.Marshal(event.Data); err != nil {
			return fmt.Errorf("marshal event data: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event data: %w", err)
	}

	flush(w)
	return nil
}

// WriteConnected writes the initial connected frame.
func WriteConnected(w io.Writer) error {
	return WriteEvent(w, Event{
		Type: EventTypeConnected,
		Data: map[string]string{"timestamp": time.Now().UTC().Format(time.RFC3339)},
	})
}

// WriteHeartbeat writes a comment frame to keep the connection alive.
func WriteHeartbeat(w io.Writer) error {
	if _, err := fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write heartbeat: %w", err)
	}
	flush(w)
	return nil
}

func flush(w io.Writer) {
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
}
