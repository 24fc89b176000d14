package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"pharmalink/internal/metrics"

	"github.com/sirupsen/logrus"
)

const defaultSubscriberBuffer = 64

// Publisher emits committed row changes to the change feed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Feed hands out subscriptions on the change feed.
type Feed interface {
	Subscribe(filters ...Filter) *Subscription
}

// Broker fans events out to in-process subscriptions.
//
// Dispatch never blocks: an event that does not fit in a subscriber's buffer is
// dropped for that subscriber and counted.
type Broker struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  atomic.Uint64
	buffer  int
	closed  bool
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewBroker(buffer int, log *logrus.Logger, m *metrics.Metrics) *Broker {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Broker{
		subs:    make(map[uint64]*Subscription),
		buffer:  buffer,
		log:     log,
		metrics: m,
	}
}

// Subscription receives events matching any of its filters until Unsubscribe.
type Subscription struct {
	id      uint64
	filters []Filter
	events  chan Event
	broker  *Broker
	once    sync.Once
}

// Events is closed once the subscription is released.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Unsubscribe releases the subscription. Safe to call multiple times.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.remove(s.id)
	})
}

func (s *Subscription) matches(e Event) bool {
	for _, f := range s.filters {
		if f.Matches(e) {
			return true
		}
	}
	return false
}

func (b *Broker) Subscribe(filters ...Filter) *Subscription {
	sub := &Subscription{
		id:      b.nextID.Add(1),
		filters: filters,
		events:  make(chan Event, b.buffer),
		broker:  b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.events)
		return sub
	}
	b.subs[sub.id] = sub
	b.metrics.SubscriptionOpened()
	return sub
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.events)
	b.metrics.SubscriptionClosed()
}

// Publish dispatches locally. It satisfies Publisher for single-instance setups.
func (b *Broker) Publish(_ context.Context, event Event) error {
	b.Dispatch(event)
	return nil
}

// Dispatch delivers event to every matching subscription and returns the
// number of deliveries.
func (b *Broker) Dispatch(event Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, sub := range b.subs {
		if !sub.matches(event) {
			continue
		}
		select {
		case sub.events <- event:
			delivered++
		default:
			b.metrics.EventDropped(event.Table)
			if b.log != nil {
				b.log.Warnf("Dropping %s event on %s for subscription %d: buffer full", event.Type, event.Table, sub.id)
			}
		}
	}
	b.metrics.EventDispatched(event.Table, string(event.Type))
	return delivered
}

// Close releases every subscription. Later subscriptions are returned closed.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.events)
		b.metrics.SubscriptionClosed()
	}
}

// Len returns the number of open subscriptions.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
