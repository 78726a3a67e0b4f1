package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a TOML-file implementation of driven.SettingsStore.
// Settings live in config.toml within the courseqa config directory.
// Missing fields are filled from defaults on load, API keys may also be
// supplied via environment variables.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// fileSettings is the on-disk shape. Kept separate from the domain type
// so TOML concerns stay out of the core.
type fileSettings struct {
	Embedding fileAISettings `toml:"embedding"`
	LLM       fileAISettings `toml:"llm"`
	Chunking  struct {
		ChunkSize int `toml:"chunk_size"`
		Overlap   int `toml:"overlap"`
	} `toml:"chunking"`
	Assistant struct {
		MaxResults int `toml:"max_results"`
		MaxHistory int `toml:"max_history"`
	} `toml:"assistant"`
}

type fileAISettings struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// Environment variables consulted when the config file carries no API key.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.courseqa.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".courseqa")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from disk. A missing file yields the defaults.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultAppSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvKeys(&settings)
			return settings, nil
		}
		return settings, fmt.Errorf("read config file: %w", err)
	}

	var loaded fileSettings
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return settings, fmt.Errorf("parse config file: %w", err)
	}

	mergeSettings(&settings, loaded)
	applyEnvKeys(&settings)
	return settings, nil
}

// Save persists the settings to disk with restricted permissions.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := fileSettings{
		Embedding: fileAISettings{
			Provider: settings.Embedding.Provider.String(),
			Model:    settings.Embedding.Model,
			BaseURL:  settings.Embedding.BaseURL,
			APIKey:   settings.Embedding.APIKey,
		},
		LLM: fileAISettings{
			Provider: settings.LLM.Provider.String(),
			Model:    settings.LLM.Model,
			BaseURL:  settings.LLM.BaseURL,
			APIKey:   settings.LLM.APIKey,
		},
	}
	out.Chunking.ChunkSize = settings.Chunking.ChunkSize
	out.Chunking.Overlap = settings.Chunking.Overlap
	out.Assistant.MaxResults = settings.Assistant.MaxResults
	out.Assistant.MaxHistory = settings.Assistant.MaxHistory

	data, err := toml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Config can contain API keys, keep it private.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// mergeSettings overlays non-empty file values onto the defaults.
func mergeSettings(settings *domain.AppSettings, loaded fileSettings) {
	if loaded.Embedding.Provider != "" {
		settings.Embedding.Provider = domain.AIProvider(loaded.Embedding.Provider)
	}
	if loaded.Embedding.Model != "" {
		settings.Embedding.Model = loaded.Embedding.Model
	}
	if loaded.Embedding.BaseURL != "" {
		settings.Embedding.BaseURL = loaded.Embedding.BaseURL
	}
	if loaded.Embedding.APIKey != "" {
		settings.Embedding.APIKey = loaded.Embedding.APIKey
	}

	if loaded.LLM.Provider != "" {
		settings.LLM.Provider = domain.AIProvider(loaded.LLM.Provider)
	}
	if loaded.LLM.Model != "" {
		settings.LLM.Model = loaded.LLM.Model
	}
	if loaded.LLM.BaseURL != "" {
		settings.LLM.BaseURL = loaded.LLM.BaseURL
	}
	if loaded.LLM.APIKey != "" {
		settings.LLM.APIKey = loaded.LLM.APIKey
	}

	if loaded.Chunking.ChunkSize > 0 {
		settings.Chunking.ChunkSize = loaded.Chunking.ChunkSize
	}
	if loaded.Chunking.Overlap > 0 {
		settings.Chunking.Overlap = loaded.Chunking.Overlap
	}
	if loaded.Assistant.MaxResults > 0 {
		settings.Assistant.MaxResults = loaded.Assistant.MaxResults
	}
	if loaded.Assistant.MaxHistory > 0 {
		settings.Assistant.MaxHistory = loaded.Assistant.MaxHistory
	}
}

// applyEnvKeys fills missing API keys from the environment.
func applyEnvKeys(settings *domain.AppSettings) {
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = os.Getenv(envOpenAIKey)
	}
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey = os.Getenv(envOpenAIKey)
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey = os.Getenv(envAnthropicKey)
		}
	}
}
