package driving

import "context"

// IngestStats summarises one ingest run.
type IngestStats struct {
	// CoursesAdded is the number of courses newly indexed.
	CoursesAdded int

	// ChunksAdded is the number of content chunks written for them.
	ChunksAdded int

	// Skipped is the number of files rejected or already indexed.
	Skipped int
}

// IngestService indexes course transcript files.
type IngestService interface {
	// IngestFolder parses, chunks and indexes every transcript in the
	// folder. A malformed file is skipped with a warning; it never
	// aborts the run. Courses whose title is already catalogued are
	// skipped, so re-running over the same folder is a no-op.
	IngestFolder(ctx context.Context, dir string) (IngestStats, error)

	// IngestFile indexes a single transcript file.
	IngestFile(ctx context.Context, path string) (IngestStats, error)

	// Reindex clears both collections and re-ingests the folder.
	// Required after changing chunking settings.
	Reindex(ctx context.Context, dir string) (IngestStats, error)

	// Watch ingests new and changed transcripts in the folder as they
	// appear. Blocks until the context is cancelled.
	Watch(ctx context.Context, dir string) error
}
