package providers

import (
	"github.com/smartcrm/kernel/internal/adapters/composio"
	"github.com/smartcrm/kernel/internal/adapters/llm"
	"github.com/smartcrm/kernel/internal/config"
	"github.com/smartcrm/kernel/internal/core/domain"
	"github.com/smartcrm/kernel/internal/core/ports"
)

// Source builds provider clients from the CURRENT settings on every call,
// so a saved API key takes effect on the next agent run without a restart.
// Missing credentials fail before any client is constructed.
type Source struct {
	settings *config.SettingsStore
}

func NewSource(settings *config.SettingsStore) *Source {
	return &Source{settings: settings}
}

// TextGenerator prefers OpenAI and falls back to Gemini when only that key
// is configured.
func (s *Source) TextGenerator() (ports.TextGenerator, error) {
	cfg := s.settings.GetConfig()
	if cfg.Keys.OpenAI != "" {
		return llm.NewOpenAIClient(cfg.OpenAIURL, cfg.Keys.OpenAI, cfg.Model), nil
	}
	if cfg.Keys.Gemini != "" {
		return llm.NewGeminiClient(cfg.GeminiURL, cfg.Keys.Gemini, ""), nil
	}
	return nil, &domain.MissingCredentialError{Provider: "OpenAI"}
}

// ToolModel returns the tool-calling chat model. Only the OpenAI surface
// supports structured tool calls.
func (s *Source) ToolModel() (ports.ToolCallingModel, error) {
	cfg := s.settings.GetConfig()
	if cfg.Keys.OpenAI == "" {
		return nil, &domain.MissingCredentialError{Provider: "OpenAI"}
	}
	return llm.NewOpenAIClient(cfg.OpenAIURL, cfg.Keys.OpenAI, cfg.Model), nil
}

// Integrations returns the Composio client.
func (s *Source) Integrations() (ports.IntegrationProvider, error) {
	cfg := s.settings.GetConfig()
	if cfg.Keys.Composio == "" {
		return nil, &domain.MissingCredentialError{Provider: "Composio"}
	}
	return composio.NewClient(cfg.ComposioURL, cfg.Keys.Composio), nil
}
