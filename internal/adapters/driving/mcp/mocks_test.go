package mcp

import (
	"context"

	"github.com/custodia-labs/courseqa/internal/core/domain"
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
