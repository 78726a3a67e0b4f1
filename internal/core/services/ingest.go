package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driving"
	"github.com/custodia-labs/courseqa/internal/logger"
	"github.com/custodia-labs/courseqa/internal/normalisers/transcript"
	"github.com/custodia-labs/courseqa/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns transcript files into indexed courses: parse,
// chunk with contextual prefixes, embed and store.
type IngestService struct {
	parser    *transcript.Parser
	chunks    *chunker.Processor
	retriever *RetrieverService
}

// NewIngestService creates an ingest pipeline using the given chunking
// budgets. Zero values fall back to the chunker defaults.
func NewIngestService(retriever *RetrieverService, chunking domain.ChunkingSettings) *IngestService {
	var opts []chunker.Option
	if chunking.ChunkSize > 0 {
		opts = append(opts, chunker.WithChunkSize(chunking.ChunkSize))
	}
	if chunking.Overlap > 0 {
		opts = append(opts, chunker.WithOverlap(chunking.Overlap))
	}
	return &IngestService{
		parser:    transcript.New(),
		chunks:    chunker.New(opts...),
		retriever: retriever,
	}
}

// IngestFolder indexes every .txt transcript in the folder, in file
// name order. Malformed files are skipped with a warning; already
// indexed courses are skipped, so re-running is a no-op.
func (s *IngestService) IngestFolder(ctx context.Context, dir string) (driving.IngestStats, error) {
	var stats driving.IngestStats

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("read folder %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	logger.Section("Ingest")
	logger.Info("Folder %q: %d transcript files", dir, len(files))

	for _, name := range files {
		fileStats, err := s.IngestFile(ctx, filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, domain.ErrMalformedDocument) {
				logger.Warn("Skipping %s: %v", name, err)
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("ingest %s: %w", name, err)
		}
		stats.CoursesAdded += fileStats.CoursesAdded
		stats.ChunksAdded += fileStats.ChunksAdded
		stats.Skipped += fileStats.Skipped
	}

	logger.Info("Ingest done: %d courses, %d chunks, %d skipped",
		stats.CoursesAdded, stats.ChunksAdded, stats.Skipped)
	return stats, nil
}

// IngestFile indexes a single transcript file. A course whose title is
// already catalogued counts as skipped.
func (s *IngestService) IngestFile(ctx context.Context, path string) (driving.IngestStats, error) {
	var stats driving.IngestStats

	raw, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("read transcript %q: %w", path, err)
	}

	parsed, err := s.parser.Parse(string(raw))
	if err != nil {
		return stats, err
	}

	chunks := s.buildChunks(parsed)
	added, err := s.retriever.AddCourse(ctx, parsed.Course, chunks)
	if err != nil {
		return stats, err
	}
	if !added {
		logger.Debug("Course %q already indexed, skipping %s", parsed.Course.Title, path)
		stats.Skipped++
		return stats, nil
	}

	stats.CoursesAdded = 1
	stats.ChunksAdded = len(chunks)
	return stats, nil
}

// Reindex clears both collections and re-ingests the folder. Required
// after changing chunking settings.
func (s *IngestService) Reindex(ctx context.Context, dir string) (driving.IngestStats, error) {
	if err := s.retriever.ClearIndex(ctx); err != nil {
		return driving.IngestStats{}, err
	}
	logger.Info("Index cleared, re-ingesting %q", dir)
	return s.IngestFolder(ctx, dir)
}

// Watch ingests transcripts in the folder as they appear or change.
// Blocks until the context is cancelled. The folder is ingested once
// up front so the watch starts from a complete index.
func (s *IngestService) Watch(ctx context.Context, dir string) error {
	if _, err := s.IngestFolder(ctx, dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}
	logger.Info("Watching %q for new transcripts", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
				continue
			}
			logger.Debug("Watch event: %s %s", event.Op, event.Name)
			if _, err := s.IngestFile(ctx, event.Name); err != nil {
				// Editors fire Write before the file is complete;
				// malformed parses here are expected noise.
				logger.Warn("Watch ingest %s: %v", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// buildChunks splits every transcript segment and prefixes each chunk
// with its course and lesson context, so a chunk stands on its own at
// search time. Indices are contiguous and zero-based across the whole
// course.
func (s *IngestService) buildChunks(parsed *transcript.Transcript) []domain.CourseChunk {
	var chunks []domain.CourseChunk
	index := 0

	for _, segment := range parsed.Segments {
		prefix := chunkPrefix(parsed.Course.Title, segment.LessonNumber)
		for _, piece := range s.chunks.Split(segment.Text) {
			chunks = append(chunks, domain.CourseChunk{
				CourseTitle:  parsed.Course.Title,
				LessonNumber: segment.LessonNumber,
				Index:        index,
				Content:      prefix + " " + piece,
			})
			index++
		}
	}

	return chunks
}

// chunkPrefix renders the contextual prefix for a chunk.
func chunkPrefix(courseTitle string, lessonNumber *int) string {
	if lessonNumber != nil {
		return fmt.Sprintf("Course %s Lesson %d content:", courseTitle, *lessonNumber)
	}
	return fmt.Sprintf("Course %s content:", courseTitle)
}
