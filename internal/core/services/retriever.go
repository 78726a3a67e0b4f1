package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
	"github.com/custodia-labs/courseqa/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.SearchService = (*RetrieverService)(nil)

// DefaultMaxResults is the content search result limit when the caller
// does not specify one.
const DefaultMaxResults = 5

// RetrieverService owns the two retrieval collections: the course
// catalog, embedded for fuzzy name resolution, and the content chunks,
// embedded for semantic search. All vectors come from the same
// embedding service, so catalog and query vectors stay comparable.
type RetrieverService struct {
	store      driven.CourseStore
	embedder   driven.EmbeddingService
	maxResults int
}

// NewRetrieverService creates a retriever over the given store and
// embedding service. maxResults is the default search limit; zero
// falls back to DefaultMaxResults.
func NewRetrieverService(
	store driven.CourseStore,
	embedder driven.EmbeddingService,
	maxResults int,
) *RetrieverService {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &RetrieverService{
		store:      store,
		embedder:   embedder,
		maxResults: maxResults,
	}
}

// HasCourse reports whether a course with the exact title is indexed.
func (r *RetrieverService) HasCourse(ctx context.Context, title string) (bool, error) {
	return r.store.CourseExists(ctx, title)
}

// AddCourse embeds and indexes a course: one catalog entry for name
// resolution plus the content chunks for search. Chunk embeddings are
// generated in a single batch. Idempotent at course-title granularity:
// a title already in the catalog is left untouched, nothing is
// re-embedded, and the call reports added=false.
func (r *RetrieverService) AddCourse(
	ctx context.Context, course domain.Course, chunks []domain.CourseChunk,
) (bool, error) {
	exists, err := r.store.CourseExists(ctx, course.Title)
	if err != nil {
		return false, fmt.Errorf("%w: check course %q: %v",
			domain.ErrIndexUnavailable, course.Title, err)
	}
	if exists {
		logger.Debug("Course %q already indexed, skipping", course.Title)
		return false, nil
	}

	if r.embedder == nil {
		return false, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	logger.Debug("Indexing course %q: %d lessons, %d chunks",
		course.Title, len(course.Lessons), len(chunks))

	catalogVec, err := r.embedder.Embed(ctx, catalogText(course))
	if err != nil {
		return false, fmt.Errorf("embed catalog entry for %q: %w", course.Title, err)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("embed chunks for %q: %w", course.Title, err)
	}
	if len(vectors) != len(chunks) {
		return false, fmt.Errorf("embed chunks for %q: got %d vectors for %d chunks",
			course.Title, len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	entry := driven.CatalogEntry{Course: course, Embedding: catalogVec}
	if err := r.store.SaveCourse(ctx, entry, chunks); err != nil {
		return false, fmt.Errorf("%w: save course %q: %v", domain.ErrIndexUnavailable, course.Title, err)
	}

	return true, nil
}

// ResolveCourseName maps a partial or fuzzy course name to the exact
// catalog title. An exact title match wins outright; otherwise the
// name is embedded and the closest catalog entry is chosen.
// Returns domain.ErrCourseNotFound when the catalog is empty.
func (r *RetrieverService) ResolveCourseName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty course name", domain.ErrInvalidInput)
	}

	entries, err := r.store.ListCatalog(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: list catalog: %v", domain.ErrIndexUnavailable, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %q (no courses indexed)", domain.ErrCourseNotFound, name)
	}

	for _, entry := range entries {
		if strings.EqualFold(entry.Course.Title, name) {
			return entry.Course.Title, nil
		}
	}

	if r.embedder == nil {
		return "", fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	nameVec, err := r.embedder.Embed(ctx, name)
	if err != nil {
		return "", fmt.Errorf("embed course name %q: %w", name, err)
	}

	best := ""
	bestScore := math.Inf(-1)
	for _, entry := range entries {
		score := cosineSimilarity(nameVec, entry.Embedding)
		if score > bestScore {
			bestScore = score
			best = entry.Course.Title
		}
	}

	logger.Debug("Resolved course name %q -> %q (score %.3f)", name, best, bestScore)
	return best, nil
}

// Search performs semantic search over the content chunks.
// The returned set distinguishes three outcomes: a failure to run
// (Err set), an empty match, and a hit.
func (r *RetrieverService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) domain.SearchResultSet {
	logger.Section("Content Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResultSet{
			Err: fmt.Errorf("%w: empty query", domain.ErrInvalidInput),
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = r.maxResults
	}

	filter := driven.ChunkFilter{LessonNumber: opts.LessonNumber}
	if opts.CourseName != "" {
		title, err := r.ResolveCourseName(ctx, opts.CourseName)
		if err != nil {
			logger.Warn("Course filter %q did not resolve: %v", opts.CourseName, err)
			return domain.SearchResultSet{Err: err}
		}
		filter.CourseTitle = title
		logger.Debug("Course filter: %q", title)
	}

	if r.embedder == nil {
		return domain.SearchResultSet{
			Err: fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable),
		}
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return domain.SearchResultSet{Err: fmt.Errorf("embed query: %w", err)}
	}

	chunks, err := r.store.ListChunks(ctx, filter)
	if err != nil {
		return domain.SearchResultSet{
			Err: fmt.Errorf("%w: list chunks: %v", domain.ErrIndexUnavailable, err),
		}
	}

	results := make([]domain.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, domain.SearchResult{
			Content:      chunk.Content,
			CourseTitle:  chunk.CourseTitle,
			LessonNumber: chunk.LessonNumber,
			ChunkIndex:   chunk.Index,
			Score:        cosineSimilarity(queryVec, chunk.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.Info("Search results: %d", len(results))
	return domain.SearchResultSet{Results: results}
}

// Outline returns the structural summary of a course. The name is
// resolved against the catalog first, so partial titles work.
func (r *RetrieverService) Outline(ctx context.Context, courseName string) (*domain.CourseOutline, error) {
	title, err := r.ResolveCourseName(ctx, courseName)
	if err != nil {
		return nil, err
	}

	course, err := r.store.GetCourse(ctx, title)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", domain.ErrCourseNotFound, courseName)
		}
		return nil, fmt.Errorf("%w: get course %q: %v", domain.ErrIndexUnavailable, title, err)
	}

	return &domain.CourseOutline{
		Title:      course.Title,
		Link:       course.Link,
		Instructor: course.Instructor,
		Lessons:    course.Lessons,
	}, nil
}

// CourseLink returns the canonical URL for the exact course title,
// or "" if the course or its link is unknown.
func (r *RetrieverService) CourseLink(ctx context.Context, title string) string {
	course, err := r.store.GetCourse(ctx, title)
	if err != nil {
		return ""
	}
	return course.Link
}

// LessonLink returns the URL for a specific lesson of the exact course
// title, falling back to the course link, or "" if neither is known.
func (r *RetrieverService) LessonLink(ctx context.Context, title string, lessonNumber int) string {
	course, err := r.store.GetCourse(ctx, title)
	if err != nil {
		return ""
	}
	if lesson := course.FindLesson(lessonNumber); lesson != nil && lesson.Link != "" {
		return lesson.Link
	}
	return course.Link
}

// CourseCount returns the number of indexed courses.
func (r *RetrieverService) CourseCount(ctx context.Context) (int, error) {
	count, err := r.store.CourseCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: course count: %v", domain.ErrIndexUnavailable, err)
	}
	return count, nil
}

// CourseTitles returns every indexed course title in insertion order.
func (r *RetrieverService) CourseTitles(ctx context.Context) ([]string, error) {
	titles, err := r.store.CourseTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: course titles: %v", domain.ErrIndexUnavailable, err)
	}
	return titles, nil
}

// ClearIndex drops both collections. Used by re-index.
func (r *RetrieverService) ClearIndex(ctx context.Context) error {
	if err := r.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: clear index: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// catalogText builds the text embedded for course name resolution.
// Title, instructor and lesson titles all contribute, so a query like
// "the MCP course by that Anthropic instructor" can still resolve.
func catalogText(course domain.Course) string {
	var b strings.Builder
	b.WriteString(course.Title)
	if course.Instructor != "" {
		b.WriteString(" taught by ")
		b.WriteString(course.Instructor)
	}
	for _, lesson := range course.Lessons {
		b.WriteString("\n")
		b.WriteString(lesson.Title)
	}
	return b.String()
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
