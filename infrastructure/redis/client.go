// Package redis connects to the redis instance that carries the website
// event stream.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	infracontext "github.com/ksnll/mithrilforge/infrastructure/context"
)

// Config holds the connection settings and the event stream they feed.
type Config struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"` //nolint:gosec // connection config
	DB       int    `env:"REDIS_DB"       yaml:"db"`

	// EventsEnabled turns on mirroring of lifecycle events to Stream.
	EventsEnabled bool   `env:"REDIS_EVENTS_ENABLED" yaml:"events_enabled"`
	Stream        string `env:"REDIS_EVENTS_STREAM"  yaml:"stream"`
}

var (
	// ErrEmptyAddress is returned when no address is configured.
	ErrEmptyAddress = errors.New("redis address is required")
	// ErrEventsDisabled is returned by NewEventsClient when mirroring is off.
	ErrEventsDisabled = errors.New("redis event stream is disabled")
	// ErrEmptyStream is returned when mirroring is on without a stream name.
	ErrEmptyStream = errors.New("redis event stream name is required")
)

const clientName = "mithrilforge"

// NewClient connects to Redis and pings it before returning.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Address,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: clientName,
	})

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewEventsClient connects only when the event stream is enabled and named.
func NewEventsClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.EventsEnabled {
		return nil, ErrEventsDisabled
	}
	if cfg.Stream == "" {
		return nil, ErrEmptyStream
	}
	return NewClient(ctx, cfg)
}
