package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/core/domain"
)

func testDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := NewDispatcher(slog.Default())
	RegisterBuiltins(d, 0, nil)
	return d
}

func TestDispatch_UnknownAgent(t *testing.T) {
	d := testDispatcher(t)
	sink := NewProgressLog("run-1", nil)

	_, err := d.Dispatch(context.Background(), "no-such-agent", nil, sink)

	var unknownErr *domain.UnknownAgentError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "no-such-agent", unknownErr.AgentID)
	assert.Empty(t, sink.Steps(), "no progress should be emitted for unknown agents")
}

func TestDispatch_AllBuiltinsRegistered(t *testing.T) {
	d := testDispatcher(t)
	assert.Equal(t, domain.AllAgentIDs(), d.IDs())
}

func TestDispatch_EveryRoutineHandlesEmptyInput(t *testing.T) {
	d := testDispatcher(t)

	for _, id := range domain.AllAgentIDs() {
		t.Run(string(id), func(t *testing.T) {
			sink := NewProgressLog("run-"+string(id), nil)

			result, err := d.Dispatch(context.Background(), id, nil, sink)
			require.NoError(t, err)

			steps := sink.Steps()
			require.NotEmpty(t, steps)
			last := steps[len(steps)-1]
			assert.Equal(t, "Complete", last.Result, "final step must carry the completion marker")
			for _, s := range steps[:len(steps)-1] {
				assert.Empty(t, s.Result)
			}

			require.Equal(t, domain.ResultStructured, result.Kind)
			assert.NotEmpty(t, result.Fields)
		})
	}
}

func TestDispatch_CancelledContext(t *testing.T) {
	d := NewDispatcher(slog.Default())
	RegisterBuiltins(d, time.Hour, nil) // the pause must observe cancellation, not elapse

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, domain.AgentFollowUp, nil, domain.NopSink{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
