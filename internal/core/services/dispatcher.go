package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// Dispatcher maps agent identifiers to their generation routines. The
// registry is populated once at startup; dispatch is an exact-match lookup
// with no aliasing or fuzzy matching.
type Dispatcher struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	routines map[domain.AgentID]domain.GenerationRoutine
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		routines: make(map[domain.AgentID]domain.GenerationRoutine),
	}
}

// Register adds a routine under its own ID. Last registration wins.
func (d *Dispatcher) Register(r domain.GenerationRoutine) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routines[r.ID()] = r
}

// IDs returns the registered identifiers in the canonical order.
func (d *Dispatcher) IDs() []domain.AgentID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.AgentID, 0, len(d.routines))
	for _, id := range domain.AllAgentIDs() {
		if _, ok := d.routines[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Dispatch resolves the routine for id and runs it. Unknown IDs fail with
// *domain.UnknownAgentError before any progress is emitted.
func (d *Dispatcher) Dispatch(ctx context.Context, id domain.AgentID, input domain.AgentInput, sink domain.ProgressSink) (domain.AgentResult, error) {
	d.mu.RLock()
	routine, ok := d.routines[id]
	d.mu.RUnlock()

	if !ok {
		return domain.AgentResult{}, &domain.UnknownAgentError{AgentID: string(id)}
	}

	if sink == nil {
		sink = domain.NopSink{}
	}

	start := time.Now()
	d.logger.Info("dispatching agent", "agent_id", string(id))

	result, err := routine.Run(ctx, input, sink)
	if err != nil {
		d.logger.Error("agent run failed", "agent_id", string(id), "error", err, "duration_ms", time.Since(start).Milliseconds())
		return domain.AgentResult{}, err
	}

	d.logger.Info("agent run complete", "agent_id", string(id), "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
