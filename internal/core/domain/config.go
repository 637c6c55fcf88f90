package domain

// ProviderKeys holds the per-service API keys. Keys are encrypted at rest
// by the settings store and re-read on every call so an update takes effect
// without a restart.
type ProviderKeys struct {
	OpenAI     string `json:"openai"`
	Gemini     string `json:"gemini"`
	Composio   string `json:"composio"`
	ElevenLabs string `json:"elevenlabs"`
}

// AppConfig is the process configuration.
type AppConfig struct {
	Keys        ProviderKeys `json:"keys"`
	OpenAIURL   string       `json:"openai_url"`
	GeminiURL   string       `json:"gemini_url"`
	ComposioURL string       `json:"composio_url"`
	Model       string       `json:"model"` // tool-calling model
}

// DefaultConfig returns the config used before any settings are saved.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		OpenAIURL:   "https://api.openai.com/v1",
		GeminiURL:   "https://generativelanguage.googleapis.com/v1beta",
		ComposioURL: "https://backend.composio.dev/api",
		Model:       "gpt-4o",
	}
}

// HasRequiredKeys reports whether at least one text-generation key exists.
func (c *AppConfig) HasRequiredKeys() bool {
	return c.Keys.OpenAI != "" || c.Keys.Gemini != ""
}
