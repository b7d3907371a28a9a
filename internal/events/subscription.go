package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrLagged matches any *LaggedError.
	ErrLagged = errors.New("subscriber lagged")
	// ErrClosed is returned by Recv once the subscription is closed and drained.
	ErrClosed = errors.New("subscription closed")
)

// LaggedError reports how many events were dropped since the last Recv.
type LaggedError struct {
	Missed uint64
}

func (e *LaggedError) Error() string {
	return fmt.Sprintf("subscriber lagged: %d events dropped", e.Missed)
}

func (e *LaggedError) Is(target error) bool { return target == ErrLagged }

// Subscription is one observer's bounded, drop-oldest queue.
type Subscription struct {
	id  uint64
	bus *Bus

	mu     sync.Mutex
	buf    []LifecycleEvent
	head   int
	size   int
	missed uint64
	closed bool

	// Capacity 1: a pending signal means "state changed since you last looked".
	ready chan struct{}

	closeOnce sync.Once
}

func newSubscription(id uint64, bus *Bus, capacity int) *Subscription {
	return &Subscription{
		id:    id,
		bus:   bus,
		buf:   make([]LifecycleEvent, capacity),
		ready: make(chan struct{}, 1),
	}
}

// ID identifies the subscription within its bus.
func (s *Subscription) ID() uint64 {
	return s.id
}

// offer enqueues ev, dropping the oldest entry when full. It reports whether
// the event was accepted and whether an older event was dropped.
func (s *Subscription) offer(ev LifecycleEvent) (accepted, dropped bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, false
	}
	capacity := len(s.buf)
	if s.size == capacity {
		s.buf[s.head] = nil
		s.head = (s.head + 1) % capacity
		s.size--
		s.missed++
		dropped = true
	}
	s.buf[(s.head+s.size)%capacity] = ev
	s.size++
	s.mu.Unlock()

	s.signal()
	return true, dropped
}

func (s *Subscription) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Recv blocks for the next event. After drops it first returns a
// *LaggedError, then resumes with the oldest retained event.
func (s *Subscription) Recv(ctx context.Context) (LifecycleEvent, error) {
	for {
		s.mu.Lock()
		if s.missed > 0 {
			missed := s.missed
			s.missed = 0
			s.mu.Unlock()
			return nil, &LaggedError{Missed: missed}
		}
		if s.size > 0 {
			ev := s.buf[s.head]
			s.buf[s.head] = nil
			s.head = (s.head + 1) % len(s.buf)
			s.size--
			s.mu.Unlock()
			return ev, nil
		}
		if s.closed {
			s.mu.Unlock()
			return nil, ErrClosed
		}
		s.mu.Unlock()

		select {
		case <-s.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len is the number of buffered events.
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Close unregisters the subscription. Buffered events stay readable.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.markClosed()
		if s.bus != nil {
			s.bus.unsubscribe(s.id)
		}
	})
}

func (s *Subscription) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}
