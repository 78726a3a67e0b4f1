package cli

import (
	"context"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	set     domain.SearchResultSet
	outline *domain.CourseOutline
	titles  []string
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) domain.SearchResultSet {
	return m.set
}

func (m *mockSearchService) Outline(_ context.Context, _ string) (*domain.CourseOutline, error) {
	return m.outline, m.err
}

func (m *mockSearchService) CourseCount(_ context.Context) (int, error) {
	return len(m.titles), m.err
}

func (m *mockSearchService) CourseTitles(_ context.Context) ([]string, error) {
	return m.titles, m.err
}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAssistantService) ProcessQuery(
	_ context.Context,
	_, _ string,
) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	stats     driving.IngestStats
	err       error
	reindexed bool
	watched   bool
}

func (m *mockIngestService) IngestFolder(_ context.Context, _ string) (driving.IngestStats, error) {
	return m.stats, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, _ string) (driving.IngestStats, error) {
	return m.stats, m.err
}

func (m *mockIngestService) Reindex(_ context.Context, _ string) (driving.IngestStats, error) {
	m.reindexed = true
	return m.stats, m.err
}

func (m *mockIngestService) Watch(_ context.Context, _ string) error {
	m.watched = true
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings != nil {
		return m.settings, m.err
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetChunking(_, _ int) error {
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	prevSettings := settingsService
	prevSearch := searchService
	prevAssistant := assistantService
	prevIngest := ingestService
	prevWired := servicesWired

	lesson := 1
	settingsService = &mockSettingsService{}
	searchService = &mockSearchService{
		set: domain.SearchResultSet{
			Results: []domain.SearchResult{
				{
					Content:      "Servers expose tools over the protocol",
					CourseTitle:  "Introduction to MCP",
					LessonNumber: &lesson,
					Score:        0.91,
				},
			},
		},
		outline: &domain.CourseOutline{
			Title:      "Introduction to MCP",
			Instructor: "Ada Example",
			Link:       "https://example.com/mcp",
			Lessons: []domain.Lesson{
				{Number: 1, Title: "What is the protocol"},
			},
		},
		titles: []string{"Introduction to MCP"},
	}
	assistantService = &mockAssistantService{
		answer: &domain.Answer{
			Text: "Servers expose tools.",
			Sources: []domain.SourceRef{
				{Text: "Introduction to MCP - Lesson 1", URL: "https://example.com/mcp/1"},
			},
			SessionID: "session-1",
		},
	}
	ingestService = &mockIngestService{
		stats: driving.IngestStats{CoursesAdded: 2, ChunksAdded: 40, Skipped: 1},
	}
	servicesWired = true

	return func() {
		settingsService = prevSettings
		searchService = prevSearch
		assistantService = prevAssistant
		ingestService = prevIngest
		servicesWired = prevWired
	}
}
