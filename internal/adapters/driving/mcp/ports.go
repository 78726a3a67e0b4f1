package mcp

import (
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Search provides content search and course outlines.
	Search driving.SearchService

	// Assistant answers full questions with the tool-calling LLM.
	// Optional; the ask tool is only registered when present.
	Assistant driving.AssistantService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
