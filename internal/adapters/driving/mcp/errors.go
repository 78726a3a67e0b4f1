// Package mcp provides an MCP (Model Context Protocol) server adapter
// for CourseQA. It lets AI assistants query the indexed course
// materials directly.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
