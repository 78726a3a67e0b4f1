package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Catalog entries and content chunks are embedded at ingest time;
// queries and course name filters are embedded at search time, so the
// same service instance must serve both to keep vectors comparable.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large
	// batches, such as a whole course's chunks during ingest.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before ingesting.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
