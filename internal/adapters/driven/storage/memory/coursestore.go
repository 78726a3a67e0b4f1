package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
)

// Ensure CourseStore implements the interface.
var _ driven.CourseStore = (*CourseStore)(nil)

// CourseStore is an in-memory implementation of driven.CourseStore.
// Used in tests and for ephemeral runs without a data directory.
type CourseStore struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]driven.CatalogEntry
	chunks map[string][]domain.CourseChunk
}

// NewCourseStore creates a new in-memory course store.
func NewCourseStore() *CourseStore {
	return &CourseStore{
		byName: make(map[string]driven.CatalogEntry),
		chunks: make(map[string][]domain.CourseChunk),
	}
}

// SaveCourse stores a catalog entry and its chunks atomically.
func (s *CourseStore) SaveCourse(_ context.Context, entry driven.CatalogEntry, chunks []domain.CourseChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := entry.Course.Title
	if _, exists := s.byName[title]; !exists {
		s.order = append(s.order, title)
	}
	s.byName[title] = entry
	s.chunks[title] = append([]domain.CourseChunk(nil), chunks...)
	return nil
}

// CourseExists reports whether the exact title is catalogued.
func (s *CourseStore) CourseExists(_ context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[title]
	return ok, nil
}

// ListCatalog returns every catalog entry in insertion order.
func (s *CourseStore) ListCatalog(_ context.Context) ([]driven.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]driven.CatalogEntry, 0, len(s.order))
	for _, title := range s.order {
		entries = append(entries, s.byName[title])
	}
	return entries, nil
}

// GetCourse returns the course with the exact title.
func (s *CourseStore) GetCourse(_ context.Context, title string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.byName[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	course := entry.Course
	return &course, nil
}

// ListChunks returns chunks matching the filter in index order.
func (s *CourseStore) ListChunks(_ context.Context, filter driven.ChunkFilter) ([]domain.CourseChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := s.order
	if filter.CourseTitle != "" {
		titles = []string{filter.CourseTitle}
	}

	var result []domain.CourseChunk
	for _, title := range titles {
		for _, chunk := range s.chunks[title] {
			if filter.LessonNumber != nil {
				if chunk.LessonNumber == nil || *chunk.LessonNumber != *filter.LessonNumber {
					continue
				}
			}
			result = append(result, chunk)
		}
	}
	return result, nil
}

// CourseCount returns the number of catalogued courses.
func (s *CourseStore) CourseCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName), nil
}

// CourseTitles returns every catalog title in insertion order.
func (s *CourseStore) CourseTitles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), nil
}

// DeleteAll clears both collections.
func (s *CourseStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.byName = make(map[string]driven.CatalogEntry)
	s.chunks = make(map[string][]domain.CourseChunk)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *CourseStore) Close() error {
	return nil
}
