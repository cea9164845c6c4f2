// Package observability aggregates real-time counters for the notification
// layer. Counters are atomic; snapshots are cheap and lock-free.
package observability

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of the live counters, served on the
// health endpoint and logged by the telemetry worker.
type Stats struct {
	OpenStreams     int64  `json:"open_streams"`
	EventsPublished uint64 `json:"events_published"`
	DeliveryErrors  uint64 `json:"delivery_errors"`
	UsersRegistered uint64 `json:"users_registered"`
	MessagesPosted  uint64 `json:"messages_posted"`
	AllocMemMb      uint64 `json:"alloc_mem_mb"`
	NumGC           uint32 `json:"num_gc"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
}

// Monitor collects counters from the bus, the stream handlers, and the
// producers. The zero value is not usable; construct it with NewMonitor.
type Monitor struct {
	startedAt       time.Time
	openStreams     atomic.Int64
	eventsPublished atomic.Uint64
	deliveryErrors  atomic.Uint64
	usersRegistered atomic.Uint64
	messagesPosted  atomic.Uint64
}

func NewMonitor() *Monitor {
	return &Monitor{startedAt: time.Now()}
}

func (m *Monitor) StreamOpened() { m.openStreams.Add(1) }

func (m *Monitor) StreamClosed() { m.openStreams.Add(-1) }

func (m *Monitor) IncrEventsPublished() { m.eventsPublished.Add(1) }

func (m *Monitor) IncrDeliveryErrors() { m.deliveryErrors.Add(1) }

func (m *Monitor) IncrUsersRegistered() { m.usersRegistered.Add(1) }

func (m *Monitor) IncrMessagesPosted() { m.messagesPosted.Add(1) }

// GetLatest returns the current counters plus process memory stats.
func (m *Monitor) GetLatest() Stats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Stats{
		OpenStreams:     m.openStreams.Load(),
		EventsPublished: m.eventsPublished.Load(),
		DeliveryErrors:  m.deliveryErrors.Load(),
		UsersRegistered: m.usersRegistered.Load(),
		MessagesPosted:  m.messagesPosted.Load(),
		AllocMemMb:      ms.Alloc / 1024 / 1024,
		NumGC:           ms.NumGC,
		UptimeSeconds:   int64(time.Since(m.startedAt).Seconds()),
	}
}
