package driving

import (
	"context"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// AssistantService answers questions about course materials.
type AssistantService interface {
	// ProcessQuery answers one user query. An empty sessionID starts a
	// new conversation; the returned Answer always carries the session
	// the exchange was recorded under, so callers thread it through
	// follow-up calls.
	ProcessQuery(ctx context.Context, query, sessionID string) (*domain.Answer, error)
}

// SearchService exposes the raw content search, bypassing the LLM.
// Used by the MCP adapter and the search command.
type SearchService interface {
	// Search performs semantic search over indexed course content.
	// The returned set distinguishes an unresolvable course filter
	// from a search that matched nothing.
	Search(ctx context.Context, query string, opts domain.SearchOptions) domain.SearchResultSet

	// Outline returns the structural summary of a course, resolving a
	// fuzzy name first. Returns domain.ErrCourseNotFound when nothing
	// matches.
	Outline(ctx context.Context, courseName string) (*domain.CourseOutline, error)

	// CourseCount returns the number of indexed courses.
	CourseCount(ctx context.Context) (int, error)

	// CourseTitles returns every indexed course title in insertion
	// order.
	CourseTitles(ctx context.Context) ([]string, error)
}
