package services

import (
	"context"
	"log/slog"

	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/ports"
)

// RenderHook receives the display plan for a finished tool run. Invocation
// is best-effort: a panicking or failing hook never affects the outcome.
type RenderHook func(plan domain.RenderPlan)

// BatchRoster is the fixed agent lineup RunBatch walks, in order.
var BatchRoster = []string{
	"AI SDR Agent", "AI Dialer Agent", "AI AE Agent", "AI Journeys Agent",
	"Voice Agent", "Meetings Agent", "Objection Handler Agent",
	"Reengagement Agent", "Follow-up Agent", "Lead Scoring Agent",
	"Lead Enrichment Agent", "Smart Demo Bot Agent", "WhatsApp Nurturer Agent",
	"SMS Campaigner Agent", "Cold Outreach Closer Agent", "Personalized Email Agent",
}

// ToolRunner drives LLM tool-call execution against the integration
// provider. Collaborators are fetched from the provider source on every run
// so credential updates take effect without a restart.
type ToolRunner struct {
	logger *slog.Logger
	source ports.ProviderSource
	hook   RenderHook
}

func NewToolRunner(logger *slog.Logger, source ports.ProviderSource, hook RenderHook) *ToolRunner {
	return &ToolRunner{logger: logger, source: source, hook: hook}
}

// resolveTools materializes the tool catalog for a scope. An empty spec is
// legal and yields an empty catalog; a provider failure is terminal for the
// invocation.
func (t *ToolRunner) resolveTools(ctx context.Context, provider ports.IntegrationProvider, spec domain.ToolCatalogSpec) (domain.ToolSet, []domain.ToolDefinition, error) {
	if spec.Empty() {
		t.logger.Warn("no tool scope given, running with empty catalog")
		return domain.ToolSet{}, nil, nil
	}

	toolset, tools, err := provider.ListTools(ctx, spec)
	if err != nil {
		return domain.ToolSet{}, nil, &domain.ToolResolutionError{Scope: spec.Scope(), Err: err}
	}
	if len(tools) == 0 {
		t.logger.Warn("no tools found for scope", "scope", spec.Scope())
	}
	return toolset, tools, nil
}

// RunWithTools submits a task with the scoped tool catalog to the
// tool-calling model. When the model requests tool calls they are executed
// via the integration provider and the execution result is surfaced;
// otherwise the model's direct text answer is.
func (t *ToolRunner) RunWithTools(ctx context.Context, agentName, task string, spec domain.ToolCatalogSpec) (domain.ExecutionOutcome, error) {
	model, err := t.source.ToolModel()
	if err != nil {
		return domain.ExecutionOutcome{}, err
	}
	provider, err := t.source.Integrations()
	if err != nil {
		return domain.ExecutionOutcome{}, err
	}

	toolset, tools, err := t.resolveTools(ctx, provider, spec)
	if err != nil {
		return domain.ExecutionOutcome{}, err
	}

	resp, err := model.CompleteWithTools(ctx, task, tools)
	if err != nil {
		return domain.ExecutionOutcome{}, err
	}

	var outcome domain.ExecutionOutcome
	if resp.RequestsTools() {
		t.logger.Info("model requested tool use", "agent", agentName, "tool_calls", len(resp.ToolCalls))
		result, err := provider.ExecuteToolCall(ctx, resp, toolset)
		if err != nil {
			return domain.ExecutionOutcome{}, err
		}
		outcome = domain.ExecutionOutcome{ToolCalls: resp.ToolCalls, Result: result}
	} else {
		t.logger.Info("model responded directly", "agent", agentName)
		outcome = domain.ExecutionOutcome{Text: resp.Content}
	}

	t.notifyRender(outcome)
	return outcome, nil
}

// RunBatch walks the fixed roster sequentially with a shared task and tool
// scope. A failing agent is logged and skipped; the batch finishes the
// remaining roster. The error count is reported so callers can distinguish
// a clean sweep from a degraded one. Missing credentials fail every agent
// identically, so the batch aborts before the first iteration instead of
// logging the same failure sixteen times.
func (t *ToolRunner) RunBatch(ctx context.Context, task string, spec domain.ToolCatalogSpec) (map[string]domain.ExecutionOutcome, int, error) {
	if _, err := t.source.ToolModel(); err != nil {
		return nil, 0, err
	}
	if _, err := t.source.Integrations(); err != nil {
		return nil, 0, err
	}

	outcomes := make(map[string]domain.ExecutionOutcome, len(BatchRoster))
	failures := 0

	for _, agent := range BatchRoster {
		if ctx.Err() != nil {
			t.logger.Warn("batch cancelled", "completed", len(outcomes))
			break
		}

		t.logger.Info("running batch agent", "agent", agent)
		outcome, err := t.RunWithTools(ctx, agent, task, spec)
		if err != nil {
			failures++
			t.logger.Error("batch agent failed, continuing", "agent", agent, "error", err)
			continue
		}
		outcomes[agent] = outcome
	}

	return outcomes, failures, nil
}

// notifyRender hands the rendered outcome to the hook, swallowing panics.
func (t *ToolRunner) notifyRender(outcome domain.ExecutionOutcome) {
	if t.hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("render hook panicked", "panic", r)
		}
	}()

	var result domain.AgentResult
	if outcome.Direct() {
		result = domain.TextResult(outcome.Text)
	} else if fields, ok := outcome.Result.(map[string]any); ok {
		result = domain.StructuredResult(fields)
	} else {
		result = domain.StructuredResult(map[string]any{"result": outcome.Result})
	}
	t.hook(ClassifyAndRender(result))
}
