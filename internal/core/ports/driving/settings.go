package driving

import "github.com/custodia-labs/courseqa/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetChunking updates the chunking budgets. Takes effect for the
	// next ingest; existing chunks are untouched.
	SetChunking(chunkSize, overlap int) error

	// Validate checks that current settings can serve queries.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
