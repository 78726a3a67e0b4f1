package driven

import (
	"context"

	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// CatalogEntry is a catalog record with its embedding, used for
// fuzzy course name resolution.
type CatalogEntry struct {
	// Course is the stored course metadata.
	Course domain.Course

	// Embedding is the vector for the catalog text (title, instructor,
	// lesson titles).
	Embedding []float32
}

// ChunkFilter narrows a chunk listing.
type ChunkFilter struct {
	// CourseTitle restricts to one course. Must be the exact catalog
	// title; fuzzy resolution happens before the store is consulted.
	CourseTitle string

	// LessonNumber restricts to one lesson when non-nil.
	LessonNumber *int
}

// CourseStore persists the two collections backing retrieval: the
// course catalog (one entry per course, embedded for name resolution)
// and the content chunks (embedded for semantic search).
//
// Implementations must be safe for concurrent use.
type CourseStore interface {
	// SaveCourse stores a course and its chunks atomically. The caller
	// guarantees embeddings are populated and has already checked
	// CourseExists; a duplicate title is overwritten in place.
	SaveCourse(ctx context.Context, entry CatalogEntry, chunks []domain.CourseChunk) error

	// CourseExists reports whether a course with the exact title is
	// already in the catalog.
	CourseExists(ctx context.Context, title string) (bool, error)

	// ListCatalog returns every catalog entry with its embedding.
	ListCatalog(ctx context.Context) ([]CatalogEntry, error)

	// GetCourse returns the course with the exact title.
	// Returns domain.ErrNotFound if absent.
	GetCourse(ctx context.Context, title string) (*domain.Course, error)

	// ListChunks returns the chunks matching the filter, with
	// embeddings, in index order. An empty filter returns every chunk.
	ListChunks(ctx context.Context, filter ChunkFilter) ([]domain.CourseChunk, error)

	// CourseCount returns the number of catalogued courses.
	CourseCount(ctx context.Context) (int, error)

	// CourseTitles returns every catalog title in insertion order.
	CourseTitles(ctx context.Context) ([]string, error)

	// DeleteAll clears both collections. Used by re-index.
	DeleteAll(ctx context.Context) error

	// Close releases resources.
	Close() error
}
