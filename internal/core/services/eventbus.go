package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/smartcrm/kernel/internal/core/domain"
)

type EventType string

const (
	EventTypeProgress EventType = "progress"
	EventTypeResult   EventType = "result"
	EventTypeError    EventType = "error"
)

// Event is one unit pushed to run subscribers: a progress step, the final
// result, or a terminal error.
type Event struct {
	RunID     string
	Type      EventType
	Step      domain.ProgressStep
	Data      string // JSON payload for result/error events
	Timestamp int64
}

// EventBus fans progress events out to per-run subscribers. Used by the SSE
// endpoint to stream a run's step log while the routine executes.
type EventBus struct {
	logger *slog.Logger
	mu     sync.RWMutex
	subs   map[string][]chan Event // key: RunID
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		logger: logger,
		subs:   make(map[string][]chan Event),
	}
}

// Subscribe returns a channel that receives events for a specific run
func (b *EventBus) Subscribe(runID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 100) // Buffer to prevent blocking publisher
	b.subs[runID] = append(b.subs[runID], ch)

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subs[runID]
		for i, sub := range subscribers {
			if sub == ch {
				close(ch)
				b.subs[runID] = append(subscribers[:i], subscribers[i+1:]...)
				break
			}
		}
		if len(b.subs[runID]) == 0 {
			delete(b.subs, runID)
		}
	}

	return ch, unsub
}

// Publish sends an event to all subscribers of the run
func (b *EventBus) Publish(e Event) {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers, ok := b.subs[e.RunID]
	if !ok {
		return
	}

	for _, ch := range subscribers {
		select {
		case ch <- e:
		default:
			// If channel is full, drop event to prevent blocking the run
			b.logger.Warn("event bus channel full, dropping event", "run_id", e.RunID)
		}
	}
}
