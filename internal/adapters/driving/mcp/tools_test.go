package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		lesson := 2
		mockSearch := &mockSearchService{
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
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "servers", Limit: 5}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "Introduction to MCP", output.Results[0].CourseTitle)
		require.NotNil(t, output.Results[0].LessonNumber)
		assert.Equal(t, 2, *output.Results[0].LessonNumber)
		assert.Equal(t, 0.91, output.Results[0].Score)
		assert.Equal(t, "Servers expose tools over the protocol", output.Results[0].Content)
	})

	t.Run("empty results report zero count", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "nothing matches"}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Results)
	})

	t.Run("returns error on failed search", func(t *testing.T) {
		mockSearch := &mockSearchService{
			set: domain.SearchResultSet{Err: domain.ErrCourseNotFound},
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test", CourseName: "No Such Course"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	})
}

func TestServer_handleOutline(t *testing.T) {
	ctx := context.Background()

	t.Run("returns course outline", func(t *testing.T) {
		mockSearch := &mockSearchService{
			outline: &domain.CourseOutline{
				Title:      "Introduction to MCP",
				Link:       "https://example.com/mcp",
				Instructor: "Ada Example",
				Lessons: []domain.Lesson{
					{Number: 1, Title: "What is the protocol", Link: "https://example.com/mcp/1"},
					{Number: 2, Title: "Building a server"},
				},
			},
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := OutlineInput{CourseName: "mcp"}
		_, output, err := server.handleOutline(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Introduction to MCP", output.Title)
		assert.Equal(t, "https://example.com/mcp", output.Link)
		assert.Equal(t, "Ada Example", output.Instructor)
		require.Len(t, output.Lessons, 2)
		assert.Equal(t, 1, output.Lessons[0].Number)
		assert.Equal(t, "What is the protocol", output.Lessons[0].Title)
		assert.Equal(t, "https://example.com/mcp/1", output.Lessons[0].Link)
	})

	t.Run("returns error when course not found", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: domain.ErrCourseNotFound,
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := OutlineInput{CourseName: "missing"}
		_, _, err = server.handleOutline(ctx, nil, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		mockAssistant := &mockAssistantService{
			answer: &domain.Answer{
				Text: "Servers expose tools.",
				Sources: []domain.SourceRef{
					{Text: "Introduction to MCP - Lesson 2", URL: "https://example.com/mcp/2"},
				},
				SessionID: "session-1",
			},
		}

		ports := &Ports{
			Search:    &mockSearchService{},
			Assistant: mockAssistant,
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Question: "What do servers do?"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Servers expose tools.", output.Answer)
		assert.Equal(t, "session-1", output.SessionID)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "Introduction to MCP - Lesson 2", output.Sources[0].Text)
		assert.Equal(t, "https://example.com/mcp/2", output.Sources[0].URL)
	})

	t.Run("returns error on assistant failure", func(t *testing.T) {
		mockAssistant := &mockAssistantService{
			err: errors.New("model unavailable"),
		}

		ports := &Ports{
			Search:    &mockSearchService{},
			Assistant: mockAssistant,
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Question: "anything"}
		_, _, err = server.handleAsk(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "model unavailable")
	})
}
