package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/infrastructure/sse"
)

const sseLaggedEvent = "lagged"

// Stream handles GET /api/events/stream.
func (h *EventsHandler) Stream(c *gin.Context) {
	h.stream(c, sse.DefaultHeartbeatInterval)
}

func (h *EventsHandler) stream(c *gin.Context, heartbeat time.Duration) {
	sub := h.service.Subscribe()
	defer sub.Close()

	log := logger.FromContext(c.Request.Context(), h.logger)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sse.SetHeaders(c.Writer)
	c.Status(http.StatusOK)
	if err := sse.WriteConnected(c.Writer); err != nil {
		log.Debug("SSE connect write failed", logger.Error(err))
		return
	}

	frames := make(chan frame)
	go func() {
		defer close(frames)
		for {
			next, done, err := nextFrame(ctx, sub)
			if err != nil {
				log.Error("Encode event failed", logger.Error(err))
				continue
			}
			if done {
				return
			}
			select {
			case frames <- next:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case next, ok := <-frames:
			if !ok {
				return
			}
			if err := sse.WriteEvent(c.Writer, sse.Event{
				Type: sseEventType(next),
				Data: json.RawMessage(next.payload),
			}); err != nil {
				log.Debug("SSE write failed", logger.Error(err))
				return
			}
		case <-ticker.C:
			if err := sse.WriteHeartbeat(c.Writer); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// sseEventType names the SSE event for f. Lag notices use the lagged event.
func sseEventType(f frame) string {
	if f.eventType == lagNoticeType {
		return sseLaggedEvent
	}
	return f.eventType
}
