package events

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
)

// DefaultCapacity is the per-subscriber queue size.
const DefaultCapacity = 10

// ErrNoSubscribers is returned by Publish when nobody is listening.
var ErrNoSubscribers = errors.New("no subscribers")

// Metrics receives bus instrumentation.
type Metrics interface {
	EventPublished(eventType string)
	EventsDropped(n int)
	SetSubscribers(n int)
}

type nopMetrics struct{}

func (nopMetrics) EventPublished(string) {}
func (nopMetrics) EventsDropped(int)     {}
func (nopMetrics) SetSubscribers(int)    {}

// Bus fans lifecycle events out to every current subscriber. Publish never
// blocks on a slow subscriber.
type Bus struct {
	capacity int
	log      logger.Logger
	metrics  Metrics

	nextID atomic.Uint64

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	closed bool
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithCapacity sets the per-subscriber queue size. Values below 1 are ignored.
func WithCapacity(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(log logger.Logger) BusOption {
	return func(b *Bus) { b.log = log }
}

// WithMetrics sets the bus instrumentation.
func WithMetrics(m Metrics) BusOption {
	return func(b *Bus) { b.metrics = m }
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		capacity: DefaultCapacity,
		log:      logger.NewNop(),
		metrics:  nopMetrics{},
		subs:     make(map[uint64]*Subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers an observer that sees events published from now on.
// On a closed bus the subscription is returned already closed.
func (b *Bus) Subscribe() *Subscription {
	sub := newSubscription(b.nextID.Add(1), b, b.capacity)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.markClosed()
		return sub
	}
	b.subs[sub.id] = sub
	n := len(b.subs)
	b.mu.Unlock()

	b.metrics.SetSubscribers(n)
	b.log.Debug("Subscriber registered", logger.Int64("subscription_id", int64(sub.id)))
	return sub
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	if _, ok := b.subs[id]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.subs, id)
	n := len(b.subs)
	b.mu.Unlock()

	b.metrics.SetSubscribers(n)
	b.log.Debug("Subscriber removed", logger.Int64("subscription_id", int64(id)))
}

// Publish offers ev to every subscriber and returns how many accepted it.
func (b *Bus) Publish(ev LifecycleEvent) (int, error) {
	b.mu.RLock()
	snapshot := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		snapshot = append(snapshot, sub)
	}
	b.mu.RUnlock()

	delivered, dropped := 0, 0
	for _, sub := range snapshot {
		accepted, lost := sub.offer(ev)
		if accepted {
			delivered++
		}
		if lost {
			dropped++
		}
	}

	if dropped > 0 {
		b.metrics.EventsDropped(dropped)
	}
	if delivered == 0 {
		return 0, ErrNoSubscribers
	}
	b.metrics.EventPublished(ev.EventType())
	return delivered, nil
}

// SubscriberCount returns the number of registered subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription. Later publishes find no subscribers.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.closeOnce.Do(sub.markClosed)
	}
	b.metrics.SetSubscribers(0)
}
