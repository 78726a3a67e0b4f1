package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
)

// fakeEmbedder produces deterministic bag-of-words vectors so cosine
// similarity behaves sensibly in tests: texts sharing vocabulary score
// higher than unrelated texts.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  error
}

// embedVocab is the fixed vocabulary the fake embedder counts.
var embedVocab = []string{
	"mcp", "protocol", "server", "client", "tool",
	"retrieval", "embedding", "vector", "chroma", "search",
	"compression", "prompt", "computer", "anthropic", "course",
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	fail := f.fail
	f.mu.Unlock()
	if fail != nil {
		return nil, fail
	}

	vec := make([]float32, len(embedVocab)+1)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,:;!?'\"()[]")
		for i, v := range embedVocab {
			if word == v {
				vec[i]++
			}
		}
	}
	// Keep vectors nonzero so cosine similarity is always defined.
	vec[len(embedVocab)] = 0.1
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return len(embedVocab) + 1 }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

// fakeLLM replays scripted responses and records every request.
type fakeLLM struct {
	mu        sync.Mutex
	responses []*driven.ModelResponse
	requests  []driven.MessagesRequest
	fail      error
}

func (f *fakeLLM) Messages(_ context.Context, req driven.MessagesRequest) (*driven.ModelResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.fail != nil {
		return nil, f.fail
	}
	if len(f.responses) == 0 {
		return nil, fmt.Errorf("fake llm: no scripted response for request %d", len(f.requests))
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

var _ driven.LLMService = (*fakeLLM)(nil)

func textResponse(text string) *driven.ModelResponse {
	return &driven.ModelResponse{
		Content:    []driven.ContentBlock{driven.TextBlock(text)},
		StopReason: driven.StopEndTurn,
	}
}

func toolUseResponse(calls ...domain.ToolCall) *driven.ModelResponse {
	blocks := make([]driven.ContentBlock, 0, len(calls))
	for i := range calls {
		blocks = append(blocks, driven.ContentBlock{
			Type:    driven.BlockToolUse,
			ToolUse: &calls[i],
		})
	}
	return &driven.ModelResponse{Content: blocks, StopReason: driven.StopToolUse}
}

// fakeCourseStore is an in-memory course store for service tests.
type fakeCourseStore struct {
	mu      sync.Mutex
	entries map[string]driven.CatalogEntry
	chunks  map[string][]domain.CourseChunk
	order   []string
	fail    error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		entries: make(map[string]driven.CatalogEntry),
		chunks:  make(map[string][]domain.CourseChunk),
	}
}

func (s *fakeCourseStore) SaveCourse(_ context.Context, entry driven.CatalogEntry, chunks []domain.CourseChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	title := entry.Course.Title
	if _, exists := s.entries[title]; !exists {
		s.order = append(s.order, title)
	}
	s.entries[title] = entry
	s.chunks[title] = chunks
	return nil
}

func (s *fakeCourseStore) CourseExists(_ context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return false, s.fail
	}
	_, ok := s.entries[title]
	return ok, nil
}

func (s *fakeCourseStore) ListCatalog(_ context.Context) ([]driven.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]driven.CatalogEntry, 0, len(s.order))
	for _, title := range s.order {
		out = append(out, s.entries[title])
	}
	return out, nil
}

func (s *fakeCourseStore) GetCourse(_ context.Context, title string) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	course := entry.Course
	return &course, nil
}

func (s *fakeCourseStore) ListChunks(_ context.Context, filter driven.ChunkFilter) ([]domain.CourseChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	var out []domain.CourseChunk
	for _, title := range s.order {
		if filter.CourseTitle != "" && filter.CourseTitle != title {
			continue
		}
		for _, chunk := range s.chunks[title] {
			if filter.LessonNumber != nil {
				if chunk.LessonNumber == nil || *chunk.LessonNumber != *filter.LessonNumber {
					continue
				}
			}
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (s *fakeCourseStore) CourseCount(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *fakeCourseStore) CourseTitles(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *fakeCourseStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]driven.CatalogEntry)
	s.chunks = make(map[string][]domain.CourseChunk)
	s.order = nil
	return nil
}

func (s *fakeCourseStore) Close() error { return nil }

var _ driven.CourseStore = (*fakeCourseStore)(nil)

// fakeSettingsStore keeps settings in memory.
type fakeSettingsStore struct {
	mu       sync.Mutex
	settings domain.AppSettings
	saved    bool
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: domain.DefaultAppSettings()}
}

func (s *fakeSettingsStore) Load() (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *fakeSettingsStore) Save(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saved = true
	return nil
}

func (s *fakeSettingsStore) Path() string { return "/tmp/fake-config.toml" }

var _ driven.SettingsStore = (*fakeSettingsStore)(nil)

// intPtr is a test helper for optional lesson numbers.
func intPtr(n int) *int { return &n }

// mustAddCourse indexes a course that is not expected to be catalogued
// yet, failing the test otherwise.
func mustAddCourse(t *testing.T, r *RetrieverService, course domain.Course, chunks []domain.CourseChunk) {
	t.Helper()
	added, err := r.AddCourse(context.Background(), course, chunks)
	require.NoError(t, err)
	require.True(t, added)
}

// sampleCourse is a small indexed course used across tests.
func sampleCourse() (domain.Course, []domain.CourseChunk) {
	course := domain.Course{
		Title:      "Introduction to MCP",
		Link:       "https://example.com/mcp",
		Instructor: "Ada Example",
		Lessons: []domain.Lesson{
			{Number: 1, Title: "What is the protocol", Link: "https://example.com/mcp/1"},
			{Number: 2, Title: "Building a server"},
		},
	}
	chunks := []domain.CourseChunk{
		{
			CourseTitle:  course.Title,
			LessonNumber: intPtr(1),
			Index:        0,
			Content:      "Course Introduction to MCP Lesson 1 content: The protocol connects a client to a server.",
		},
		{
			CourseTitle:  course.Title,
			LessonNumber: intPtr(2),
			Index:        1,
			Content:      "Course Introduction to MCP Lesson 2 content: A server exposes each tool over the protocol.",
		},
	}
	return course, chunks
}
