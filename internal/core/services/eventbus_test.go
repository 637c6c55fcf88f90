package services

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcrm/kernel/internal/core/domain"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(slog.Default())

	ch, unsub := bus.Subscribe("run-1")
	defer unsub()

	bus.Publish(Event{RunID: "run-1", Type: EventTypeProgress, Step: domain.ProgressStep{Step: "Working"}})
	bus.Publish(Event{RunID: "run-2", Type: EventTypeProgress, Step: domain.ProgressStep{Step: "Other run"}})

	evt := <-ch
	assert.Equal(t, "Working", evt.Step.Step)
	assert.NotZero(t, evt.Timestamp)

	select {
	case leaked := <-ch:
		t.Fatalf("received event for a different run: %+v", leaked)
	default:
	}
}

func TestEventBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus(slog.Default())

	ch, unsub := bus.Subscribe("run-1")
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(Event{RunID: "run-1", Type: EventTypeProgress})
}

func TestEventBus_FullChannelDropsInsteadOfBlocking(t *testing.T) {
	bus := NewEventBus(slog.Default())

	ch, unsub := bus.Subscribe("run-1")
	defer unsub()

	// Nobody reads; the buffer holds 100 and the rest are dropped.
	for i := 0; i < 150; i++ {
		bus.Publish(Event{RunID: "run-1", Type: EventTypeProgress})
	}
	assert.Len(t, ch, 100)
}

func TestProgressLog_RecordsAndMirrors(t *testing.T) {
	bus := NewEventBus(slog.Default())
	ch, unsub := bus.Subscribe("run-1")
	defer unsub()

	sink := NewProgressLog("run-1", bus)
	sink.Append(domain.ProgressStep{Step: "Analyzing lead data..."})
	sink.Append(domain.ProgressStep{Step: "Done", Result: "Complete"})

	steps := sink.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "Analyzing lead data...", steps[0].Step)
	assert.Equal(t, "Complete", steps[1].Result)

	first := <-ch
	assert.Equal(t, EventTypeProgress, first.Type)
	assert.Equal(t, "Analyzing lead data...", first.Step.Step)

	// Steps returns a copy; mutating it leaves the log intact.
	steps[0].Step = "mutated"
	assert.Equal(t, "Analyzing lead data...", sink.Steps()[0].Step)
}

func TestProgressLog_NilBus(t *testing.T) {
	sink := NewProgressLog("run-1", nil)
	sink.Append(domain.ProgressStep{Step: "no subscribers"})
	assert.Len(t, sink.Steps(), 1)
}
