package runtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"notify-lab/contract"
	"notify-lab/domain/event"
	"notify-lab/observability"
)

// Unsubscribe detaches the sink it was returned for. It is idempotent and
// safe to call from within a Consume invocation of the same bus.
type Unsubscribe func()

type subscription struct {
	sink   contract.EventSink
	active atomic.Bool
}

// EventBus fans out events to every subscribed sink, synchronously and in
// subscription order.
//
// It provides best-effort in-process delivery with no replay, durability,
// or retries. A failing sink never prevents delivery to the remaining sinks.
// EventBus is not a message broker.
//
// EventBus is safe for concurrent use by multiple goroutines. It holds only
// non-owning references to its sinks: connection lifetime is always decided
// by the subscriber, never by the bus.
type EventBus struct {
	log     *slog.Logger
	monitor *observability.Monitor

	mu   sync.RWMutex // guards subs
	subs []*subscription

	// publishMu serializes whole fan-outs so each sink observes events in
	// publish order.
	publishMu sync.Mutex
}

func NewEventBus(log *slog.Logger, monitor *observability.Monitor) *EventBus {
	return &EventBus{log: log, monitor: monitor}
}

// Subscribe registers sink for every event published after registration.
// It never blocks on in-flight deliveries. The returned handle removes the
// subscription; calling it twice is a no-op.
func (b *EventBus) Subscribe(sink contract.EventSink) Unsubscribe {
	sub := &subscription{sink: sink}
	sub.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			b.remove(sub)
		})
	}
}

func (b *EventBus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to a snapshot of the current sinks, in subscription
// order, and returns once delivery has been attempted for every one of them.
// Sinks unsubscribed before their turn are skipped.
func (b *EventBus) Publish(ctx context.Context, e event.Event) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.RLock()
	snapshot := make([]*subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	b.monitor.IncrEventsPublished()

	for _, sub := range snapshot {
		if !sub.active.Load() {
			continue
		}
		b.deliver(ctx, sub, e)
	}
}

// deliver confines one sink's failure to that sink: an error is logged and
// counted, a panic is recovered. Fan-out to the remaining sinks continues.
func (b *EventBus) deliver(ctx context.Context, sub *subscription, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.monitor.IncrDeliveryErrors()
			b.log.Error("Sink panicked during delivery", "type", e.Kind(), "panic", r)
		}
	}()

	if err := sub.sink.Consume(ctx, e); err != nil {
		b.monitor.IncrDeliveryErrors()
		b.log.Warn("Sink rejected event", "type", e.Kind(), "err", err)
	}
}

// Len reports the number of active subscriptions.
func (b *EventBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
