// Package context holds shared timeout helpers.
package context

import (
	"context"
	"time"
)

const (
	// DefaultPingTimeout bounds connectivity checks against backing services.
	DefaultPingTimeout = 5 * time.Second
)

// WithPingTimeout derives a context for a ping from parent.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}
