// Package cli implements the courseqa command line interface.
// Commands register themselves against the root command in their
// init() functions; services are wired once in the persistent pre-run.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/courseqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/courseqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/courseqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/courseqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
	"github.com/custodia-labs/courseqa/internal/core/services"
	"github.com/custodia-labs/courseqa/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Wired services, shared by the commands. Tests replace these
// directly and set servicesWired to skip the real wiring.
var (
	settingsService  driving.SettingsService
	searchService    driving.SearchService
	assistantService driving.AssistantService
	ingestService    driving.IngestService

	servicesWired bool
	closers       []io.Closer
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "courseqa",
	Short: "Ask questions about your course materials",
	Long: `CourseQA indexes course transcripts and answers questions about them
using retrieval-augmented generation.

Ingest a folder of transcripts, then ask questions from the command
line, an interactive chat, or an MCP client.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.courseqa)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.courseqa/data, ':memory:' for an ephemeral index)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires stores, AI providers and core services.
// Unconfigured AI providers wire as nil services; commands that need
// them report the gap at use time.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if servicesWired {
		return nil
	}
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	settingsStore, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	settingsService = services.NewSettingsService(settingsStore)

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	if embedder != nil {
		closers = append(closers, embedder)
	}

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	if llm != nil {
		closers = append(closers, llm)
	}

	var courseStore driven.CourseStore
	if flagDataDir == ":memory:" {
		courseStore = memory.NewCourseStore()
	} else {
		store, err := sqlite.NewStore(flagDataDir)
		if err != nil {
			return fmt.Errorf("open course store: %w", err)
		}
		closers = append(closers, store)
		courseStore = store
	}

	retriever := services.NewRetrieverService(courseStore, embedder, settings.Assistant.MaxResults)
	searchService = retriever

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	tools := services.NewToolManager(
		services.NewCourseSearchTool(retriever),
		services.NewCourseOutlineTool(retriever),
	)
	sessions := services.NewSessionService(settings.Assistant.MaxHistory)
	assistantService = services.NewAssistantService(llm, tools, sessions, prompts)
	ingestService = services.NewIngestService(retriever, settings.Chunking)

	servicesWired = true
	return nil
}

func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("close: %v", err)
		}
	}
	closers = nil
}
