package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// SearchInput is the input schema for the content search tool.
type SearchInput struct {
	Query        string `json:"query" jsonschema:"what to search for in the course content"`
	CourseName   string `json:"course_name,omitempty" jsonschema:"course title to search within (partial matches work)"`
	LessonNumber *int   `json:"lesson_number,omitempty" jsonschema:"lesson number to search within"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the content search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single content hit.
type SearchResultOutput struct {
	CourseTitle  string  `json:"course_title"`
	LessonNumber *int    `json:"lesson_number,omitempty"`
	Content      string  `json:"content"`
	Score        float64 `json:"score"`
}

// OutlineInput is the input schema for the course outline tool.
type OutlineInput struct {
	CourseName string `json:"course_name" jsonschema:"course title (partial matches work)"`
}

// OutlineOutput is the output schema for the course outline tool.
type OutlineOutput struct {
	Title      string         `json:"title"`
	Link       string         `json:"link,omitempty"`
	Instructor string         `json:"instructor,omitempty"`
	Lessons    []LessonOutput `json:"lessons"`
}

// LessonOutput is one lesson in an outline.
type LessonOutput struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the course materials"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session ID from a previous ask, to continue the conversation"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	Sources   []SourceOutput `json:"sources,omitempty"`
	SessionID string         `json:"session_id"`
}

// SourceOutput is one citation backing an answer.
type SourceOutput struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_course_content",
		Description: "Search indexed course materials with smart course name matching",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_course_outline",
		Description: "Get a course's title, link and complete lesson list",
	}, s.handleOutline)

	if s.ports.Assistant != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from the course materials, with citations",
		}, s.handleAsk)
	}
}

// handleSearch handles the content search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		CourseName:   input.CourseName,
		LessonNumber: input.LessonNumber,
		Limit:        input.Limit,
	}

	set := s.ports.Search.Search(ctx, input.Query, opts)
	if set.Failed() {
		return nil, SearchOutput{}, set.Err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(set.Results)),
		Count:   len(set.Results),
	}
	for i := range set.Results {
		output.Results[i] = SearchResultOutput{
			CourseTitle:  set.Results[i].CourseTitle,
			LessonNumber: set.Results[i].LessonNumber,
			Content:      set.Results[i].Content,
			Score:        set.Results[i].Score,
		}
	}

	return nil, output, nil
}

// handleOutline handles the course outline tool invocation.
func (s *Server) handleOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OutlineInput,
) (*mcp.CallToolResult, OutlineOutput, error) {
	outline, err := s.ports.Search.Outline(ctx, input.CourseName)
	if err != nil {
		return nil, OutlineOutput{}, err
	}

	output := OutlineOutput{
		Title:      outline.Title,
		Link:       outline.Link,
		Instructor: outline.Instructor,
		Lessons:    make([]LessonOutput, len(outline.Lessons)),
	}
	for i, lesson := range outline.Lessons {
		output.Lessons[i] = LessonOutput{
			Number: lesson.Number,
			Title:  lesson.Title,
			Link:   lesson.Link,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Assistant.ProcessQuery(ctx, input.Question, input.SessionID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		SessionID: answer.SessionID,
	}
	for _, src := range answer.Sources {
		output.Sources = append(output.Sources, SourceOutput{
			Text: src.Text,
			URL:  src.URL,
		})
	}

	return nil, output, nil
}
