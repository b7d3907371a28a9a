package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/models"
)

func added(id int64) events.LifecycleEvent {
	return events.WebsiteAdded{Website: models.Website{ID: id, SourceAddress: "https://a.example"}}
}

func recvWithin(t *testing.T, sub *events.Subscription) (events.LifecycleEvent, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return sub.Recv(ctx)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := events.NewBus()

	n, err := bus.Publish(added(1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, events.ErrNoSubscribers)
}

func TestBus_FanOutInOrder(t *testing.T) {
	bus := events.NewBus()
	subs := []*events.Subscription{bus.Subscribe(), bus.Subscribe(), bus.Subscribe()}

	for i := int64(1); i <= 5; i++ {
		n, err := bus.Publish(added(i))
		require.NoError(t, err)
		assert.Equal(t, len(subs), n)
	}

	for _, sub := range subs {
		for i := int64(1); i <= 5; i++ {
			ev, err := recvWithin(t, sub)
			require.NoError(t, err)
			assert.Equal(t, i, ev.(events.WebsiteAdded).Website.ID)
		}
	}
}

func TestBus_NoReplayForLateSubscribers(t *testing.T) {
	bus := events.NewBus()
	early := bus.Subscribe()

	_, err := bus.Publish(added(1))
	require.NoError(t, err)

	late := bus.Subscribe()
	_, err = bus.Publish(added(2))
	require.NoError(t, err)

	ev, err := recvWithin(t, late)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ev.(events.WebsiteAdded).Website.ID)
	assert.Equal(t, 2, early.Len())
}

func TestBus_LagDropsOldest(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe()

	const total = 25
	for i := int64(1); i <= total; i++ {
		_, err := bus.Publish(added(i))
		require.NoError(t, err)
	}
	assert.Equal(t, events.DefaultCapacity, sub.Len())

	_, err := recvWithin(t, sub)
	var lagged *events.LaggedError
	require.ErrorAs(t, err, &lagged)
	assert.Equal(t, uint64(total-events.DefaultCapacity), lagged.Missed)
	assert.ErrorIs(t, err, events.ErrLagged)

	for i := int64(total - events.DefaultCapacity + 1); i <= total; i++ {
		ev, err := recvWithin(t, sub)
		require.NoError(t, err)
		assert.Equal(t, i, ev.(events.WebsiteAdded).Website.ID)
	}
}

func TestBus_CustomCapacity(t *testing.T) {
	bus := events.NewBus(events.WithCapacity(2))
	sub := bus.Subscribe()

	for i := int64(1); i <= 3; i++ {
		_, _ = bus.Publish(added(i))
	}

	_, err := recvWithin(t, sub)
	require.ErrorIs(t, err, events.ErrLagged)
	ev, err := recvWithin(t, sub)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ev.(events.WebsiteAdded).Website.ID)
}

func TestBus_SlowSubscriberDoesNotAffectOthers(t *testing.T) {
	bus := events.NewBus()
	slow := bus.Subscribe()
	fast := bus.Subscribe()

	const total = 100
	received := make(chan int64, total)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range total {
			ev, err := recvWithin(t, fast)
			if err != nil {
				return
			}
			received <- ev.(events.WebsiteAdded).Website.ID
		}
	}()

	for i := int64(1); i <= total; i++ {
		_, err := bus.Publish(added(i))
		require.NoError(t, err)
		// Give the fast reader room so it never falls more than a queue behind.
		if i%events.DefaultCapacity == 0 {
			require.Eventually(t, func() bool { return fast.Len() == 0 }, time.Second, time.Millisecond)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fast subscriber did not receive all events")
	}
	close(received)

	want := int64(1)
	for id := range received {
		assert.Equal(t, want, id)
		want++
	}
	assert.Equal(t, int64(total+1), want)
	assert.Equal(t, events.DefaultCapacity, slow.Len())
}

func TestBus_RecvBlocksUntilPublish(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe()

	got := make(chan events.LifecycleEvent, 1)
	go func() {
		ev, err := recvWithin(t, sub)
		if err == nil {
			got <- ev
		}
	}()

	time.Sleep(20 * time.Millisecond)
	_, err := bus.Publish(events.FetchingContact{})
	require.NoError(t, err)

	select {
	case ev := <-got:
		assert.Equal(t, events.FetchingContact{}, ev)
	case <-time.After(time.Second):
		t.Fatal("Recv did not wake up")
	}
}

func TestBus_RecvHonoursContext(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sub.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscription_Close(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe()
	other := bus.Subscribe()

	_, err := bus.Publish(added(1))
	require.NoError(t, err)

	sub.Close()
	sub.Close()
	assert.Equal(t, 1, bus.SubscriberCount())

	ev, err := recvWithin(t, sub)
	require.NoError(t, err, "buffered events stay readable after close")
	assert.Equal(t, int64(1), ev.(events.WebsiteAdded).Website.ID)

	_, err = recvWithin(t, sub)
	assert.ErrorIs(t, err, events.ErrClosed)

	n, err := bus.Publish(added(2))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, other.Len())
}

func TestBus_CloseWakesReceivers(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe()

	errCh := make(chan error, 1)
	go func() {
		_, err := sub.Recv(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	bus.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, events.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after bus close")
	}

	_, err := bus.Publish(added(1))
	assert.ErrorIs(t, err, events.ErrNoSubscribers)

	late := bus.Subscribe()
	_, err = recvWithin(t, late)
	assert.ErrorIs(t, err, events.ErrClosed)
}

func TestBus_ConcurrentSubscribeAndPublish(t *testing.T) {
	bus := events.NewBus()
	keep := bus.Subscribe()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				sub := bus.Subscribe()
				sub.Close()
			}
		}()
		go func() {
			defer wg.Done()
			for i := range 50 {
				if _, err := bus.Publish(added(int64(i))); err != nil && !errors.Is(err, events.ErrNoSubscribers) {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, bus.SubscriberCount())
	assert.Equal(t, events.DefaultCapacity, keep.Len())
}

type recordingMetrics struct {
	mu          sync.Mutex
	published   map[string]int
	dropped     int
	subscribers int
}

func (m *recordingMetrics) EventPublished(t string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[t]++
}

func (m *recordingMetrics) EventsDropped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped += n
}

func (m *recordingMetrics) SetSubscribers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = n
}

func TestBus_Metrics(t *testing.T) {
	m := &recordingMetrics{published: map[string]int{}}
	bus := events.NewBus(events.WithCapacity(1), events.WithMetrics(m))

	_, _ = bus.Publish(added(1))
	sub := bus.Subscribe()
	_, _ = bus.Publish(added(2))
	_, _ = bus.Publish(events.FetchingContact{})

	assert.Equal(t, 1, m.published[events.TypeWebsiteAdded])
	assert.Equal(t, 1, m.published[events.TypeFetchingContact])
	assert.Equal(t, 1, m.dropped)
	assert.Equal(t, 1, m.subscribers)

	sub.Close()
	assert.Equal(t, 0, m.subscribers)
}
