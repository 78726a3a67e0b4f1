// Package domain defines the core business entities for CourseQA.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Course, Lesson: A course parsed from a transcript file
//   - CourseChunk: A searchable unit of course content
//   - SearchResultSet: The tri-state outcome of a content search
//   - ToolDefinition, ToolCall, ToolOutcome: The tool-calling contract
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
