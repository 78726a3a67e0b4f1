package domain

import "encoding/json"

// ToolDefinition describes a tool the model may call, in the shape the
// messages API expects: a name, a human description, and a JSON Schema
// for the input object.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider-assigned identifier echoed back in the result.
	ID string

	// Name is the tool to invoke.
	Name string

	// Input is the raw JSON argument object.
	Input json.RawMessage
}

// ToolOutcome is the result of executing one tool call.
// Sources are returned per call rather than accumulated in shared
// state, so concurrent queries cannot observe each other's citations.
type ToolOutcome struct {
	// Text is the tool output fed back to the model.
	Text string

	// Sources are the citations backing Text, in result order.
	Sources []SourceRef

	// Failed marks an execution error that was converted to Text.
	Failed bool
}

// SourceRef is a citation attached to an answer.
type SourceRef struct {
	// Text is the display label, "Course Title - Lesson N" or the
	// bare course title for front-matter hits.
	Text string

	// URL is the lesson link when known, else the course link, else empty.
	URL string
}
