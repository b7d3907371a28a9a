package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
)

// DefaultStreamName is the redis stream lifecycle events are mirrored to.
const DefaultStreamName = "mithrilforge:website-events"

const xaddTimeout = 5 * time.Second

// Envelope is the JSON stored under the "event" field of each stream entry.
type Envelope struct {
	EventID   uuid.UUID       `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// StreamMirror copies every bus event to a redis stream so consumers outside
// the process can follow lifecycle changes.
type StreamMirror struct {
	client redis.Cmdable
	stream string
	sub    *Subscription
	log    logger.Logger
}

// NewStreamMirror subscribes to bus immediately, so events published after
// construction are mirrored even before Run starts.
func NewStreamMirror(bus *Bus, client redis.Cmdable, stream string, log logger.Logger) *StreamMirror {
	if stream == "" {
		stream = DefaultStreamName
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &StreamMirror{
		client: client,
		stream: stream,
		sub:    bus.Subscribe(),
		log:    log.With(logger.String("stream", stream)),
	}
}

// Run mirrors events until ctx is done or the bus closes.
func (m *StreamMirror) Run(ctx context.Context) error {
	defer m.sub.Close()

	m.log.Info("Event stream mirror started")
	for {
		ev, err := m.sub.Recv(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrLagged):
			m.log.Warn("Event stream mirror lagged", logger.Error(err))
			continue
		case errors.Is(err, ErrClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			m.log.Info("Event stream mirror stopped")
			return nil
		default:
			return fmt.Errorf("receive event: %w", err)
		}

		if err = m.publish(ctx, ev); err != nil {
			m.log.Error("Failed to mirror event",
				logger.String("event_type", ev.EventType()),
				logger.Error(err),
			)
		}
	}
}

func (m *StreamMirror) publish(ctx context.Context, ev LifecycleEvent) error {
	payload, err := Marshal(ev)
	if err != nil {
		return err
	}

	envelope, err := json.Marshal(Envelope{
		EventID:   uuid.New(),
		EventType: ev.EventType(),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	xctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), xaddTimeout)
	defer cancel()

	id, err := m.client.XAdd(xctx, &redis.XAddArgs{
		Stream: m.stream,
		Values: map[string]any{"event": string(envelope)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}

	m.log.Debug("Mirrored event",
		logger.String("event_type", ev.EventType()),
		logger.String("stream_id", id),
	)
	return nil
}
