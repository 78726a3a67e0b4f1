package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/courseqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/courseqa/internal/core/domain"
	"github.com/custodia-labs/courseqa/internal/core/ports/driven"
)

// Store is the SQLite-backed course store.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.CourseStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.courseqa/data/courses.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".courseqa", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "courses.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveCourse stores a catalog entry and its chunks in one transaction.
// A duplicate title is overwritten in place; the caller is expected to
// check CourseExists first when skip-on-duplicate semantics are wanted.
func (s *Store) SaveCourse(ctx context.Context, entry driven.CatalogEntry, chunks []domain.CourseChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	course := entry.Course
	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (title, link, instructor, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			link = excluded.link,
			instructor = excluded.instructor,
			embedding = excluded.embedding
	`, course.Title, course.Link, course.Instructor, float32SliceToBytes(entry.Embedding))
	if err != nil {
		return fmt.Errorf("saving course: %w", err)
	}

	// Replace dependent rows wholesale; an overwrite never merges.
	if _, err := tx.ExecContext(ctx, "DELETE FROM lessons WHERE course_title = ?", course.Title); err != nil {
		return fmt.Errorf("clearing lessons: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE course_title = ?", course.Title); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	lessonStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lessons (course_title, number, title, link)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing lesson insert: %w", err)
	}
	defer lessonStmt.Close()

	for _, lesson := range course.Lessons {
		if _, err := lessonStmt.ExecContext(ctx, course.Title, lesson.Number, lesson.Title, lesson.Link); err != nil {
			return fmt.Errorf("saving lesson %d: %w", lesson.Number, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (course_title, chunk_index, lesson_number, content, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer chunkStmt.Close()

	for _, chunk := range chunks {
		var lessonNumber any
		if chunk.LessonNumber != nil {
			lessonNumber = *chunk.LessonNumber
		}
		if _, err := chunkStmt.ExecContext(ctx, chunk.CourseTitle, chunk.Index,
			lessonNumber, chunk.Content, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CourseExists reports whether the exact title is catalogued.
func (s *Store) CourseExists(ctx context.Context, title string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM courses WHERE title = ?", title).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking course: %w", err)
	}
	return true, nil
}

// ListCatalog returns every catalog entry with its embedding, in
// insertion order.
func (s *Store) ListCatalog(ctx context.Context) ([]driven.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, link, instructor, embedding
		FROM courses ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	defer rows.Close()

	var entries []driven.CatalogEntry
	for rows.Next() {
		var (
			entry driven.CatalogEntry
			blob  []byte
		)
		if err := rows.Scan(&entry.Course.Title, &entry.Course.Link,
			&entry.Course.Instructor, &blob); err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		entry.Embedding = bytesToFloat32Slice(blob)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog: %w", err)
	}

	for i := range entries {
		lessons, err := s.lessonsFor(ctx, entries[i].Course.Title)
		if err != nil {
			return nil, err
		}
		entries[i].Course.Lessons = lessons
	}
	return entries, nil
}

// GetCourse returns the course with the exact title.
func (s *Store) GetCourse(ctx context.Context, title string) (*domain.Course, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT title, link, instructor FROM courses WHERE title = ?
	`, title)

	var course domain.Course
	if err := row.Scan(&course.Title, &course.Link, &course.Instructor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}

	lessons, err := s.lessonsFor(ctx, title)
	if err != nil {
		return nil, err
	}
	course.Lessons = lessons
	return &course, nil
}

// lessonsFor loads a course's lessons in number order.
func (s *Store) lessonsFor(ctx context.Context, title string) ([]domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, link FROM lessons
		WHERE course_title = ? ORDER BY number
	`, title)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	var lessons []domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(&lesson.Number, &lesson.Title, &lesson.Link); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// ListChunks returns chunks matching the filter in course then index
// order.
func (s *Store) ListChunks(ctx context.Context, filter driven.ChunkFilter) ([]domain.CourseChunk, error) {
	query := `
		SELECT course_title, chunk_index, lesson_number, content, embedding
		FROM chunks
	`
	var (
		conds []string
		args  []any
	)
	if filter.CourseTitle != "" {
		conds = append(conds, "course_title = ?")
		args = append(args, filter.CourseTitle)
	}
	if filter.LessonNumber != nil {
		conds = append(conds, "lesson_number = ?")
		args = append(args, *filter.LessonNumber)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY course_title, chunk_index"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.CourseChunk
	for rows.Next() {
		var (
			chunk        domain.CourseChunk
			lessonNumber sql.NullInt64
			blob         []byte
		)
		if err := rows.Scan(&chunk.CourseTitle, &chunk.Index, &lessonNumber,
			&chunk.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if lessonNumber.Valid {
			n := int(lessonNumber.Int64)
			chunk.LessonNumber = &n
		}
		chunk.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// CourseCount returns the number of catalogued courses.
func (s *Store) CourseCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting courses: %w", err)
	}
	return count, nil
}

// CourseTitles returns every catalog title in insertion order.
func (s *Store) CourseTitles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title FROM courses ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// DeleteAll clears both collections.
func (s *Store) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"chunks", "lessons", "courses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
