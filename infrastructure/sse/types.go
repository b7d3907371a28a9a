// Package sse writes Server-Sent Events frames to HTTP responses.
package sse

import "time"

// DefaultHeartbeatInterval is how often idle streams get a comment frame.
const DefaultHeartbeatInterval = 15 * time.Second

// Event is one SSE frame: "event: <Type>\nid: <ID>\ndata: <JSON>\n\n".
type Event struct {
	Type string
	ID   string
	// Retry is the client reconnect delay in milliseconds. Zero omits it.
	Retry int
	// Data must be JSON-serializable, or a json.RawMessage written as is.
	Data any
}

// EventTypeConnected is sent once when a stream opens.
const EventTypeConnected = "connected"
