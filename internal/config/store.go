package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// SettingsRepository is the minimal DB interface for settings persistence.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key string, value string) error
}

// OnChangeFunc is called when settings are updated.
type OnChangeFunc func(cfg *domain.AppConfig)

// SettingsStore manages persistent settings with encrypted secrets.
// Categories stored as JSON, secrets encrypted at rest, masked on read.
// GetConfig is consulted on every agent/tool call so a key update takes
// effect on the next call without a restart.
type SettingsStore struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	secret   *SecretKey
	repo     SettingsRepository
	config   *domain.AppConfig
	onChange []OnChangeFunc
}

// NewSettingsStore creates a store that loads/saves settings from DB with
// AES-256-GCM encryption.
func NewSettingsStore(logger *slog.Logger, repo SettingsRepository, secret *SecretKey) (*SettingsStore, error) {
	store := &SettingsStore{
		logger: logger,
		secret: secret,
		repo:   repo,
	}

	ctx := context.Background()
	cfg, err := store.loadFromDB(ctx)
	if err != nil {
		logger.Warn("no saved settings found, using defaults", "error", err)
		cfg = domain.DefaultConfig()
		if err := store.saveToDB(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	store.config = cfg
	return store, nil
}

// OnChange registers a callback for when settings are updated.
func (s *SettingsStore) OnChange(fn OnChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// GetConfig returns the current config with decrypted secrets.
func (s *SettingsStore) GetConfig() *domain.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := *s.config
	return &cp
}

// GetMaskedConfig returns config safe for API response (secrets masked).
func (s *SettingsStore) GetMaskedConfig() *domain.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := *s.config
	cp.Keys.OpenAI = MaskSecret(s.config.Keys.OpenAI)
	cp.Keys.Gemini = MaskSecret(s.config.Keys.Gemini)
	cp.Keys.Composio = MaskSecret(s.config.Keys.Composio)
	cp.Keys.ElevenLabs = MaskSecret(s.config.Keys.ElevenLabs)
	return &cp
}

// UpdateConfig encrypts secrets, persists, and triggers onChange callbacks.
// Smart merge: if a key is empty or masked, the existing key is kept.
func (s *SettingsStore) UpdateConfig(ctx context.Context, update *domain.AppConfig) error {
	s.mu.Lock()

	mergeKey(&update.Keys.OpenAI, s.config.Keys.OpenAI)
	mergeKey(&update.Keys.Gemini, s.config.Keys.Gemini)
	mergeKey(&update.Keys.Composio, s.config.Keys.Composio)
	mergeKey(&update.Keys.ElevenLabs, s.config.Keys.ElevenLabs)

	if update.OpenAIURL == "" {
		update.OpenAIURL = domain.DefaultConfig().OpenAIURL
	}
	if update.GeminiURL == "" {
		update.GeminiURL = domain.DefaultConfig().GeminiURL
	}
	if update.ComposioURL == "" {
		update.ComposioURL = domain.DefaultConfig().ComposioURL
	}
	if update.Model == "" {
		update.Model = domain.DefaultConfig().Model
	}

	if err := s.saveToDB(ctx, update); err != nil {
		s.mu.Unlock()
		return err
	}

	s.config = update
	callbacks := make([]OnChangeFunc, len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.Unlock()

	s.logger.Info("settings updated",
		"openai", update.Keys.OpenAI != "",
		"gemini", update.Keys.Gemini != "",
		"composio", update.Keys.Composio != "",
	)

	for _, fn := range callbacks {
		fn(update)
	}

	return nil
}

func mergeKey(updated *string, existing string) {
	if *updated == "" || isMasked(*updated) {
		*updated = existing
	}
}

func (s *SettingsStore) loadFromDB(ctx context.Context) (*domain.AppConfig, error) {
	raw, err := s.repo.GetSetting(ctx, "app_config")
	if err != nil {
		return nil, err
	}

	var stored storedConfig
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	cfg := &domain.AppConfig{
		OpenAIURL:   stored.OpenAIURL,
		GeminiURL:   stored.GeminiURL,
		ComposioURL: stored.ComposioURL,
		Model:       stored.Model,
	}

	for name, dst := range map[string]*string{
		"openai":     &cfg.Keys.OpenAI,
		"gemini":     &cfg.Keys.Gemini,
		"composio":   &cfg.Keys.Composio,
		"elevenlabs": &cfg.Keys.ElevenLabs,
	} {
		enc := stored.Keys[name]
		if enc == "" {
			continue
		}
		key, err := s.secret.Decrypt(enc)
		if err != nil {
			s.logger.Warn("failed to decrypt API key", "provider", name, "error", err)
			continue
		}
		*dst = key
	}

	return cfg, nil
}

func (s *SettingsStore) saveToDB(ctx context.Context, cfg *domain.AppConfig) error {
	stored := storedConfig{
		OpenAIURL:   cfg.OpenAIURL,
		GeminiURL:   cfg.GeminiURL,
		ComposioURL: cfg.ComposioURL,
		Model:       cfg.Model,
		Keys:        map[string]string{},
	}

	for name, plain := range map[string]string{
		"openai":     cfg.Keys.OpenAI,
		"gemini":     cfg.Keys.Gemini,
		"composio":   cfg.Keys.Composio,
		"elevenlabs": cfg.Keys.ElevenLabs,
	} {
		if plain == "" {
			continue
		}
		enc, err := s.secret.Encrypt(plain)
		if err != nil {
			return fmt.Errorf("encrypt %s API key: %w", name, err)
		}
		stored.Keys[name] = enc
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return s.repo.SaveSetting(ctx, "app_config", string(raw))
}

// storedConfig is the DB representation with encrypted key material.
type storedConfig struct {
	OpenAIURL   string            `json:"openai_url"`
	GeminiURL   string            `json:"gemini_url"`
	ComposioURL string            `json:"composio_url"`
	Model       string            `json:"model"`
	Keys        map[string]string `json:"keys"`
}

func isMasked(s string) bool {
	return len(s) >= 4 && s[:4] == "****"
}
