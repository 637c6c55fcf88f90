package services

import (
	"context"
	"time"

	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/ports"
)

// phaseRunner adapts a routine function to domain.GenerationRoutine. Every
// builtin follows the same skeleton: read inputs with defaults, announce
// each phase on the sink, pause between phases, finish with a step carrying
// Result "Complete".
type phaseRunner struct {
	id     domain.AgentID
	delay  time.Duration
	source ports.ProviderSource
	run    func(rc *runContext) (domain.AgentResult, error)
}

func (r phaseRunner) ID() domain.AgentID { return r.id }

func (r phaseRunner) Run(ctx context.Context, input domain.AgentInput, sink domain.ProgressSink) (domain.AgentResult, error) {
	if input == nil {
		input = domain.AgentInput{}
	}
	if sink == nil {
		sink = domain.NopSink{}
	}
	return r.run(&runContext{
		ctx:    ctx,
		in:     input,
		sink:   sink,
		delay:  r.delay,
		source: r.source,
	})
}

// runContext carries one invocation's state through a routine function.
type runContext struct {
	ctx    context.Context
	in     domain.AgentInput
	sink   domain.ProgressSink
	delay  time.Duration
	source ports.ProviderSource
}

// phase announces a step and simulates the phase latency. Returns the
// context error when the run is cancelled mid-phase.
func (rc *runContext) phase(step string) error {
	rc.sink.Append(domain.ProgressStep{Step: step})
	return pause(rc.ctx, rc.delay)
}

// done appends the terminal step of the run.
func (rc *runContext) done(step string) {
	rc.sink.Append(domain.ProgressStep{Step: step, Result: "Complete"})
}

// generator resolves the text-generation service up front, so routines that
// depend on it fail on a missing credential before the first progress step
// is appended. A nil source means no generation service is wired at all and
// the routine runs purely on its templates.
func (rc *runContext) generator() (ports.TextGenerator, error) {
	if rc.source == nil {
		return nil, nil
	}
	return rc.source.TextGenerator()
}

// generate asks gen for content. A nil generator or empty output selects
// the routine's template fallback; a service failure propagates to the
// caller unchanged.
func (rc *runContext) generate(gen ports.TextGenerator, prompt string) (string, error) {
	if gen == nil {
		return "", nil
	}
	return gen.Complete(rc.ctx, prompt)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RegisterBuiltins registers the full routine set. delay is the simulated
// per-phase latency (zero in tests); source provides the optional
// text-generation service some routines enrich their output with.
func RegisterBuiltins(d *Dispatcher, delay time.Duration, source ports.ProviderSource) {
	for _, r := range []phaseRunner{
		{id: domain.AgentLeadEnrichment, run: runLeadEnrichment},
		{id: domain.AgentAISDR, run: runAISDR},
		{id: domain.AgentPersonalizedEmail, run: runPersonalizedEmail},
		{id: domain.AgentLeadScoring, run: runLeadScoring},
		{id: domain.AgentProposalGenerator, run: runProposalGenerator},
		{id: domain.AgentAIAE, run: runAIAE},
		{id: domain.AgentObjectionHandler, run: runObjectionHandler},
		{id: domain.AgentColdOutreachCloser, run: runColdOutreachCloser},
		{id: domain.AgentSmartDemoBot, run: runSmartDemoBot},
		{id: domain.AgentFollowUp, run: runFollowUp},
		{id: domain.AgentVoice, run: runVoiceMessage},
		{id: domain.AgentSMSCampaigner, run: runSMSCampaigner},
		{id: domain.AgentMeetings, run: runMeetings},
		{id: domain.AgentAIDialer, run: runAIDialer},
		{id: domain.AgentAIJourneys, run: runAIJourneys},
		{id: domain.AgentWhatsAppNurturer, run: runWhatsAppNurturer},
		{id: domain.AgentReengagement, run: runReengagement},
	} {
		r.delay = delay
		r.source = source
		d.Register(r)
	}
}
