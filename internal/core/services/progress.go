package services

import (
	"sync"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// ProgressLog is the standard ProgressSink: it keeps the ordered step
// sequence for one run and, when wired to a bus, mirrors every append to
// that run's subscribers. Appends never block the running routine; a slow
// subscriber drops events instead.
type ProgressLog struct {
	mu    sync.Mutex
	runID string
	bus   *EventBus
	steps []domain.ProgressStep
}

// NewProgressLog creates a sink for one run. bus may be nil when nobody
// streams the run.
func NewProgressLog(runID string, bus *EventBus) *ProgressLog {
	return &ProgressLog{runID: runID, bus: bus}
}

// Append records a step and mirrors it to subscribers.
func (p *ProgressLog) Append(step domain.ProgressStep) {
	p.mu.Lock()
	p.steps = append(p.steps, step)
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(Event{
			RunID: p.runID,
			Type:  EventTypeProgress,
			Step:  step,
		})
	}
}

// Steps returns a copy of the step log in append order.
func (p *ProgressLog) Steps() []domain.ProgressStep {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.ProgressStep, len(p.steps))
	copy(out, p.steps)
	return out
}
