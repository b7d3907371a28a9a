package bootstrap

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	infraredis "github.com/ksnll/mithrilforge/infrastructure/redis"
	"github.com/ksnll/mithrilforge/internal/config"
	"github.com/ksnll/mithrilforge/internal/events"
)

// Events is the bus and, when redis is enabled and reachable, its stream mirror.
type Events struct {
	Bus    *events.Bus
	Mirror *events.StreamMirror

	redis *redis.Client
}

// Close releases the redis client. The bus is closed by the run loop.
func (e *Events) Close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
}

// SetupEvents creates the bus. The mirror is optional: redis being disabled
// or unavailable only logs.
func SetupEvents(ctx context.Context, cfg *config.Config, metrics events.Metrics, log infralogger.Logger) *Events {
	bus := events.NewBus(
		events.WithCapacity(cfg.Events.Capacity),
		events.WithLogger(log),
		events.WithMetrics(metrics),
	)
	out := &Events{Bus: bus}

	client, err := infraredis.NewEventsClient(ctx, cfg.Redis)
	if errors.Is(err, infraredis.ErrEventsDisabled) {
		return out
	}
	if err != nil {
		log.Warn("Redis not available, event mirror disabled", infralogger.Error(err))
		return out
	}

	log.Info("Event mirror initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
		infralogger.String("stream", cfg.Redis.Stream),
	)
	out.redis = client
	out.Mirror = events.NewStreamMirror(bus, client, cfg.Redis.Stream, log)
	return out
}
