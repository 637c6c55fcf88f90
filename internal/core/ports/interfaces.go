package ports

import (
	"context"

	"github.com/smartcrm/kernel/internal/core/domain"
)

// TextGenerator abstracts the text-completion service (OpenAI, Gemini, a
// local model). Non-trivial latency and fallible; failures surface as
// *domain.GenerationServiceError.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ToolCallingModel abstracts a chat model that can request tool execution.
type ToolCallingModel interface {
	CompleteWithTools(ctx context.Context, task string, tools []domain.ToolDefinition) (domain.ToolCallResponse, error)
}

// IntegrationProvider abstracts the external integration service (Composio):
// OAuth connections, tool catalogs scoped to apps or action lists, and
// execution of model-requested tool calls against the live applications.
type IntegrationProvider interface {
	Connect(ctx context.Context, app string) error
	ListTools(ctx context.Context, spec domain.ToolCatalogSpec) (domain.ToolSet, []domain.ToolDefinition, error)
	ExecuteToolCall(ctx context.Context, resp domain.ToolCallResponse, toolset domain.ToolSet) (any, error)
	SendEmail(ctx context.Context, msg domain.Email) (domain.SendResult, error)
	ConnectionStatus(ctx context.Context) (map[string]bool, error)
	Disconnect(ctx context.Context, app string) (bool, error)
}

// ProviderSource hands out collaborators built from the CURRENT settings.
// Implementations must re-read credentials on every call (no caching) and
// fail with *domain.MissingCredentialError before any network activity when
// the required key is absent.
type ProviderSource interface {
	TextGenerator() (TextGenerator, error)
	ToolModel() (ToolCallingModel, error)
	Integrations() (IntegrationProvider, error)
}

// Repository abstracts persistent storage (DuckDB) for the CRM record kinds
// and the settings key-value table.
type Repository interface {
	// Business analyses
	CreateBusinessAnalysis(ctx context.Context, a domain.BusinessAnalysis) error
	GetBusinessAnalysis(ctx context.Context, id string) (domain.BusinessAnalysis, error)
	ListBusinessAnalyses(ctx context.Context, userID string) ([]domain.BusinessAnalysis, error)
	UpdateBusinessAnalysis(ctx context.Context, a domain.BusinessAnalysis) error
	DeleteBusinessAnalysis(ctx context.Context, id string) error

	// Content items
	CreateContentItem(ctx context.Context, c domain.ContentItem) error
	GetContentItem(ctx context.Context, id string) (domain.ContentItem, error)
	ListContentItems(ctx context.Context, userID string) ([]domain.ContentItem, error)
	UpdateContentItem(ctx context.Context, c domain.ContentItem) error
	DeleteContentItem(ctx context.Context, id string) error

	// Voice profiles
	CreateVoiceProfile(ctx context.Context, v domain.VoiceProfile) error
	GetVoiceProfile(ctx context.Context, id string) (domain.VoiceProfile, error)
	ListVoiceProfiles(ctx context.Context, userID string) ([]domain.VoiceProfile, error)
	UpdateVoiceProfile(ctx context.Context, v domain.VoiceProfile) error
	DeleteVoiceProfile(ctx context.Context, id string) error

	// Image assets
	CreateImageAsset(ctx context.Context, img domain.ImageAsset) error
	GetImageAsset(ctx context.Context, id string) (domain.ImageAsset, error)
	ListImageAssets(ctx context.Context, userID string) ([]domain.ImageAsset, error)
	DeleteImageAsset(ctx context.Context, id string) error

	// Deals
	CreateDeal(ctx context.Context, d domain.Deal) error
	GetDeal(ctx context.Context, id string) (domain.Deal, error)
	ListDeals(ctx context.Context, userID string) ([]domain.Deal, error)
	ListDealsByStage(ctx context.Context, userID, stage string) ([]domain.Deal, error)
	UpdateDeal(ctx context.Context, d domain.Deal) error
	DeleteDeal(ctx context.Context, id string) error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SaveSetting(ctx context.Context, key, value string) error
}
