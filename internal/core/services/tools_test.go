package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

func newToolFixture(t *testing.T) *RetrieverService {
	t.Helper()
	retriever, _ := newTestRetriever(t)
	course, chunks := sampleCourse()
	mustAddCourse(t, retriever, course, chunks)
	return retriever
}

func TestToolManager_Dispatch(t *testing.T) {
	retriever := newToolFixture(t)
	manager := NewToolManager(
		NewCourseSearchTool(retriever),
		NewCourseOutlineTool(retriever),
	)

	defs := manager.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "search_course_content", defs[0].Name)
	assert.Equal(t, "get_course_outline", defs[1].Name)

	outcome, err := manager.Execute(context.Background(), domain.ToolCall{
		ID:    "call_1",
		Name:  "search_course_content",
		Input: json.RawMessage(`{"query": "protocol"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, outcome.Text)
}

func TestToolManager_UnknownTool(t *testing.T) {
	manager := NewToolManager()

	_, err := manager.Execute(context.Background(), domain.ToolCall{
		ID:    "call_1",
		Name:  "rm_rf",
		Input: json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownTool)
}

func TestToolManager_WrapsToolFailure(t *testing.T) {
	retriever, _ := newTestRetriever(t)
	manager := NewToolManager(NewCourseSearchTool(retriever))

	// Empty catalog: the course filter cannot resolve, so the tool fails.
	outcome, err := manager.Execute(context.Background(), domain.ToolCall{
		ID:    "call_1",
		Name:  "search_course_content",
		Input: json.RawMessage(`{"query": "anything", "course_name": "ghost"}`),
	})
	assert.ErrorIs(t, err, domain.ErrToolExecutionFailed)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound, "the tool's own error stays in the chain")
	assert.True(t, outcome.Failed)
}

func TestCourseSearchTool_FormatsResults(t *testing.T) {
	tool := NewCourseSearchTool(newToolFixture(t))

	outcome, err := tool.Execute(context.Background(), json.RawMessage(
		`{"query": "protocol server", "course_name": "mcp"}`,
	))
	require.NoError(t, err)
	assert.False(t, outcome.Failed)

	// Each result sits under a bracketed course/lesson header.
	assert.Contains(t, outcome.Text, "[Introduction to MCP - Lesson ")
	require.NotEmpty(t, outcome.Sources)
	assert.Contains(t, outcome.Sources[0].Text, "Introduction to MCP - Lesson ")
	assert.NotEmpty(t, outcome.Sources[0].URL)
}

func TestCourseSearchTool_EmptyResultMessage(t *testing.T) {
	retriever, _ := newTestRetriever(t)
	course, _ := sampleCourse()
	// Index a course with no chunks so filtered searches run but match nothing.
	mustAddCourse(t, retriever, course, nil)
	tool := NewCourseSearchTool(retriever)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no filters",
			input: `{"query": "anything"}`,
			want:  "No relevant content found.",
		},
		{
			name:  "course filter",
			input: `{"query": "anything", "course_name": "MCP"}`,
			want:  "No relevant content found in course 'MCP'.",
		},
		{
			name:  "course and lesson filter",
			input: `{"query": "anything", "course_name": "MCP", "lesson_number": 3}`,
			want:  "No relevant content found in course 'MCP' in lesson 3.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := tool.Execute(context.Background(), json.RawMessage(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Text)
			assert.Empty(t, outcome.Sources)
		})
	}
}

func TestCourseSearchTool_InvalidInput(t *testing.T) {
	tool := NewCourseSearchTool(newToolFixture(t))

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"query": ""}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tool.Execute(context.Background(), json.RawMessage(`not json`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCourseSearchTool_UnresolvableCourseFails(t *testing.T) {
	retriever, _ := newTestRetriever(t)
	tool := NewCourseSearchTool(retriever)

	// Empty catalog: the course filter cannot resolve.
	_, err := tool.Execute(context.Background(), json.RawMessage(
		`{"query": "anything", "course_name": "ghost"}`,
	))
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestCourseOutlineTool(t *testing.T) {
	tool := NewCourseOutlineTool(newToolFixture(t))

	outcome, err := tool.Execute(context.Background(), json.RawMessage(
		`{"course_name": "mcp"}`,
	))
	require.NoError(t, err)

	assert.Contains(t, outcome.Text, "Course: Introduction to MCP")
	assert.Contains(t, outcome.Text, "Course Link: https://example.com/mcp")
	assert.Contains(t, outcome.Text, "Instructor: Ada Example")
	assert.Contains(t, outcome.Text, "Lessons (2):")
	assert.Contains(t, outcome.Text, "1. What is the protocol")
	assert.Contains(t, outcome.Text, "2. Building a server")

	require.Len(t, outcome.Sources, 1)
	assert.Equal(t, "Introduction to MCP", outcome.Sources[0].Text)
	assert.Equal(t, "https://example.com/mcp", outcome.Sources[0].URL)
}

func TestCourseOutlineTool_MissingCourseName(t *testing.T) {
	tool := NewCourseOutlineTool(newToolFixture(t))

	_, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
