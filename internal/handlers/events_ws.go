package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/internal/events"
)

const wsWriteTimeout = 10 * time.Second

const lagNoticeType = "Lagged"

// lagNotice tells a client it missed events and should re-list.
type lagNotice struct {
	Type   string `json:"type"`
	Missed uint64 `json:"missed"`
}

// EventsHandler streams lifecycle events over websocket and SSE.
type EventsHandler struct {
	service  WebsiteService
	logger   logger.Logger
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a handler. Origins are not checked: callers are
// already authenticated by token.
func NewEventsHandler(svc WebsiteService, log logger.Logger) *EventsHandler {
	return &EventsHandler{
		service: svc,
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// WebSocket handles GET /api/events.
func (h *EventsHandler) WebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	sub := h.service.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Reads only detect the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	log := logger.FromContext(c.Request.Context(), h.logger)
	log.Debug("Websocket client connected", logger.String("remote_addr", c.ClientIP()))

	for {
		next, done, recvErr := nextFrame(ctx, sub)
		if recvErr != nil {
			log.Error("Encode event failed", logger.Error(recvErr))
			continue
		}
		if done {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteTimeout))
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err = conn.WriteMessage(websocket.TextMessage, next.payload); err != nil {
			log.Debug("Websocket write failed", logger.Error(err))
			return
		}
	}
}

// frame is one encoded message for a client. eventType is the lifecycle
// event type, or lagNoticeType for a lag notice.
type frame struct {
	eventType string
	payload   []byte
}

// nextFrame waits for the next event and encodes it. done reports that the
// stream is over.
func nextFrame(ctx context.Context, sub *events.Subscription) (f frame, done bool, err error) {
	ev, err := sub.Recv(ctx)
	var lagged *events.LaggedError
	switch {
	case err == nil:
		f.eventType = ev.EventType()
		f.payload, err = events.Marshal(ev)
		return f, false, err
	case errors.As(err, &lagged):
		f.eventType = lagNoticeType
		f.payload, err = json.Marshal(lagNotice{Type: lagNoticeType, Missed: lagged.Missed})
		return f, false, err
	default:
		return frame{}, true, nil
	}
}
