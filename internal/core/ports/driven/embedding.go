package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Gemini (text-embedding-004)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// Results are returned in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// Fixed for the lifetime of the service and must match the
	// VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Release drops any lazily initialised model resources. The service
	// remains usable; the next call re-initialises. Used by the
	// administrative cleanup operation to bound memory.
	Release() error

	// Close releases resources permanently.
	Close() error
}
