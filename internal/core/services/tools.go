package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/logger"
)

// Tool is a capability the assistant can offer to the model.
// Execute returns the outcome to feed back as a tool result; an error
// return means the tool itself could not run (bad input, index down)
// and is converted to an error result by the caller.
type Tool interface {
	// Definition describes the tool for the model.
	Definition() domain.ToolDefinition

	// Execute runs the tool with the model-supplied JSON input.
	Execute(ctx context.Context, input json.RawMessage) (domain.ToolOutcome, error)
}

// ToolManager holds the registered tools and dispatches calls by name.
type ToolManager struct {
	tools []Tool
	index map[string]Tool
}

// NewToolManager creates a manager with the given tools registered in
// order.
func NewToolManager(tools ...Tool) *ToolManager {
	m := &ToolManager{index: make(map[string]Tool)}
	for _, tool := range tools {
		m.Register(tool)
	}
	return m
}

// Register adds a tool. A tool with a duplicate name replaces the
// earlier registration.
func (m *ToolManager) Register(tool Tool) {
	name := tool.Definition().Name
	if _, exists := m.index[name]; !exists {
		m.tools = append(m.tools, tool)
	}
	m.index[name] = tool
}

// Definitions returns the registered tool definitions in registration
// order, for the model request.
func (m *ToolManager) Definitions() []domain.ToolDefinition {
	defs := make([]domain.ToolDefinition, 0, len(m.tools))
	for _, tool := range m.tools {
		defs = append(defs, tool.Definition())
	}
	return defs
}

// Execute dispatches a model tool call to the registered tool.
// Returns domain.ErrUnknownTool for names the model invented, and
// wraps tool failures in domain.ErrToolExecutionFailed with the
// tool's own error still in the chain.
func (m *ToolManager) Execute(ctx context.Context, call domain.ToolCall) (domain.ToolOutcome, error) {
	tool, ok := m.index[call.Name]
	if !ok {
		return domain.ToolOutcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownTool, call.Name)
	}

	logger.Debug("Executing tool %q with input %s", call.Name, string(call.Input))
	outcome, err := tool.Execute(ctx, call.Input)
	if err != nil {
		return domain.ToolOutcome{Failed: true},
			fmt.Errorf("%w: %q: %w", domain.ErrToolExecutionFailed, call.Name, err)
	}
	return outcome, nil
}

// CourseSearchTool searches course content semantically, with optional
// course and lesson filters.
type CourseSearchTool struct {
	retriever *RetrieverService
}

// NewCourseSearchTool creates the content search tool.
func NewCourseSearchTool(retriever *RetrieverService) *CourseSearchTool {
	return &CourseSearchTool{retriever: retriever}
}

// Definition implements Tool.
func (t *CourseSearchTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP')",
				},
				"lesson_number": map[string]any{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 3)",
				},
			},
			"required": []string{"query"},
		},
	}
}

// searchInput is the model-supplied argument object.
type searchInput struct {
	Query        string `json:"query"`
	CourseName   string `json:"course_name"`
	LessonNumber *int   `json:"lesson_number"`
}

// Execute implements Tool. Each result is rendered under a bracketed
// course/lesson header, and one source reference per result is
// collected for citation.
func (t *CourseSearchTool) Execute(ctx context.Context, input json.RawMessage) (domain.ToolOutcome, error) {
	var args searchInput
	if err := json.Unmarshal(input, &args); err != nil {
		return domain.ToolOutcome{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(args.Query) == "" {
		return domain.ToolOutcome{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	set := t.retriever.Search(ctx, args.Query, domain.SearchOptions{
		CourseName:   args.CourseName,
		LessonNumber: args.LessonNumber,
	})
	if set.Failed() {
		return domain.ToolOutcome{}, set.Err
	}
	if set.Empty() {
		return domain.ToolOutcome{Text: emptySearchMessage(args.CourseName, args.LessonNumber)}, nil
	}

	var blocks []string
	var sources []domain.SourceRef
	for _, result := range set.Results {
		blocks = append(blocks, fmt.Sprintf("%s\n%s", resultHeader(result), result.Content))
		sources = append(sources, domain.SourceRef{
			Text: sourceLabel(result.CourseTitle, result.LessonNumber),
			URL:  t.resultLink(ctx, result),
		})
	}

	return domain.ToolOutcome{
		Text:    strings.Join(blocks, "\n\n"),
		Sources: sources,
	}, nil
}

// resultLink returns the most specific link available for a result.
func (t *CourseSearchTool) resultLink(ctx context.Context, result domain.SearchResult) string {
	if result.LessonNumber != nil {
		return t.retriever.LessonLink(ctx, result.CourseTitle, *result.LessonNumber)
	}
	return t.retriever.CourseLink(ctx, result.CourseTitle)
}

// resultHeader renders the bracketed header above one search result.
func resultHeader(result domain.SearchResult) string {
	if result.LessonNumber != nil {
		return fmt.Sprintf("[%s - Lesson %d]", result.CourseTitle, *result.LessonNumber)
	}
	return fmt.Sprintf("[%s]", result.CourseTitle)
}

// sourceLabel renders the citation label for one search result.
func sourceLabel(courseTitle string, lessonNumber *int) string {
	if lessonNumber != nil {
		return fmt.Sprintf("%s - Lesson %d", courseTitle, *lessonNumber)
	}
	return courseTitle
}

// emptySearchMessage tells the model the search ran but matched
// nothing, echoing the filters so it does not retry the same call.
func emptySearchMessage(courseName string, lessonNumber *int) string {
	msg := "No relevant content found"
	if courseName != "" {
		msg += fmt.Sprintf(" in course '%s'", courseName)
	}
	if lessonNumber != nil {
		msg += fmt.Sprintf(" in lesson %d", *lessonNumber)
	}
	return msg + "."
}

// CourseOutlineTool returns a course's structure: title, link and the
// full lesson list.
type CourseOutlineTool struct {
	retriever *RetrieverService
}

// NewCourseOutlineTool creates the outline tool.
func NewCourseOutlineTool(retriever *RetrieverService) *CourseOutlineTool {
	return &CourseOutlineTool{retriever: retriever}
}

// Definition implements Tool.
func (t *CourseOutlineTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the outline of a course: title, link and the complete numbered lesson list",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP')",
				},
			},
			"required": []string{"course_name"},
		},
	}
}

// outlineInput is the model-supplied argument object.
type outlineInput struct {
	CourseName string `json:"course_name"`
}

// Execute implements Tool.
func (t *CourseOutlineTool) Execute(ctx context.Context, input json.RawMessage) (domain.ToolOutcome, error) {
	var args outlineInput
	if err := json.Unmarshal(input, &args); err != nil {
		return domain.ToolOutcome{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if strings.TrimSpace(args.CourseName) == "" {
		return domain.ToolOutcome{}, fmt.Errorf("%w: course_name is required", domain.ErrInvalidInput)
	}

	outline, err := t.retriever.Outline(ctx, args.CourseName)
	if err != nil {
		return domain.ToolOutcome{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", outline.Title)
	if outline.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", outline.Link)
	}
	if outline.Instructor != "" {
		fmt.Fprintf(&b, "Instructor: %s\n", outline.Instructor)
	}
	fmt.Fprintf(&b, "Lessons (%d):\n", len(outline.Lessons))
	for _, lesson := range outline.Lessons {
		fmt.Fprintf(&b, "%d. %s\n", lesson.Number, lesson.Title)
	}

	return domain.ToolOutcome{
		Text: strings.TrimRight(b.String(), "\n"),
		Sources: []domain.SourceRef{
			{Text: outline.Title, URL: outline.Link},
		},
	}, nil
}
