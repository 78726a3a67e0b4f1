package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

var (
	settingsModel  string
	settingsAPIKey string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "set-embedding [provider]",
	Short: "Configure the embedding provider",
	Long: `Sets the embedding provider used for indexing and search.

Supported providers: ollama, openai. Changing providers or models makes
existing vectors incomparable with new ones; run
'courseqa ingest --reindex' afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "set-llm [provider]",
	Short: "Configure the LLM provider",
	Long: `Sets the LLM provider used to answer questions.

Supported providers: ollama, openai, anthropic.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsLLM,
}

var settingsChunkingCmd = &cobra.Command{
	Use:   "set-chunking [size] [overlap]",
	Short: "Configure chunking budgets",
	Long: `Sets the chunk size and overlap (in characters) used at ingest time.

Existing chunks are not migrated; run 'courseqa ingest --reindex' to
apply the new budgets.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsChunking,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration can serve queries",
	RunE:  runSettingsValidate,
}

func init() {
	settingsEmbeddingCmd.Flags().StringVarP(&settingsModel, "model", "m", "", "model name (default per provider)")
	settingsEmbeddingCmd.Flags().StringVarP(&settingsAPIKey, "api-key", "k", "", "API key for cloud providers")
	settingsLLMCmd.Flags().StringVarP(&settingsModel, "model", "m", "", "model name (default per provider)")
	settingsLLMCmd.Flags().StringVarP(&settingsAPIKey, "api-key", "k", "", "API key for cloud providers")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	cmd.Println("Embedding:")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model:    %s\n", settings.Embedding.Model)
	cmd.Printf("  API key:  %s\n", maskKey(settings.Embedding.APIKey))
	cmd.Println("LLM:")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model:    %s\n", settings.LLM.Model)
	cmd.Printf("  API key:  %s\n", maskKey(settings.LLM.APIKey))
	cmd.Println("Chunking:")
	cmd.Printf("  Size:     %d\n", settings.Chunking.ChunkSize)
	cmd.Printf("  Overlap:  %d\n", settings.Chunking.Overlap)
	cmd.Println("Assistant:")
	cmd.Printf("  Max results: %d\n", settings.Assistant.MaxResults)
	cmd.Printf("  Max history: %d\n", settings.Assistant.MaxHistory)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	provider := domain.AIProvider(args[0])
	if err := settingsService.SetEmbeddingProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return err
	}
	cmd.Printf("Embedding provider set to %s\n", provider.Description())
	cmd.Println("Run 'courseqa ingest --reindex' to rebuild the index with the new embeddings.")
	return nil
}

func runSettingsLLM(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	provider := domain.AIProvider(args[0])
	if err := settingsService.SetLLMProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return err
	}
	cmd.Printf("LLM provider set to %s\n", provider.Description())
	return nil
}

func runSettingsChunking(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chunk size %q", args[0])
	}
	overlap, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid overlap %q", args[1])
	}
	if err := settingsService.SetChunking(size, overlap); err != nil {
		return err
	}
	cmd.Printf("Chunking set to %d/%d characters\n", size, overlap)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}
	cmd.Println("Configuration OK.")
	return nil
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
