// Package tui provides the interactive chat interface for CourseQA.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers questions with the tool-calling LLM.
	Assistant driving.AssistantService

	// Search provides index statistics for the status bar.
	// Optional; the status bar shows less when absent.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
