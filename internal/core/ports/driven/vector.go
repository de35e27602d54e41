package driven

import (
	"context"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

// IndexEntry is the persisted unit in the vector index.
// ChunkID uniquely identifies one entry; re-inserting with the same
// ChunkID replaces it. Vectors have fixed dimensionality for the
// lifetime of the index.
type IndexEntry struct {
	// ChunkID uniquely identifies the entry.
	ChunkID string

	// DocumentID links the entry to its source document.
	DocumentID string

	// Position is the chunk's sequence index within the document.
	Position int

	// Content is the chunk text, stored alongside the vector so
	// retrieval does not need a second lookup.
	Content string

	// Embedding is the chunk's vector representation.
	Embedding []float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Entry is the matched index entry.
	Entry IndexEntry

	// Similarity is the cosine similarity to the query vector (-1..1).
	Similarity float64
}

// QueryFilter restricts a similarity search.
type QueryFilter struct {
	// DocumentID, when non-empty, limits hits to one document.
	DocumentID string
}

// VectorIndex persists (vector, chunk text, metadata) tuples and answers
// nearest-neighbour queries. The index survives process restart; on
// corruption it fails fast with domain.ErrIndexCorrupt rather than
// returning partial results.
type VectorIndex interface {
	// Upsert inserts or replaces entries, atomically: either every entry
	// becomes visible or none does. Idempotent per ChunkID.
	Upsert(ctx context.Context, entries []IndexEntry) error

	// Query returns the k nearest entries by cosine similarity, ordered
	// by descending similarity with ties broken by insertion order.
	Query(ctx context.Context, vector []float32, k int, filter *QueryFilter) ([]VectorHit, error)

	// DeleteDocument removes all entries belonging to a document,
	// atomically: either all are removed or none on failure.
	DeleteDocument(ctx context.Context, documentID string) error

	// Count returns the number of entries in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// DocumentRegistry tracks which source documents have been ingested.
type DocumentRegistry interface {
	// Register stores or updates a document's metadata.
	Register(ctx context.Context, doc domain.Document) error

	// Unregister removes a document. Returns domain.ErrNotFound when the
	// document was never registered.
	Unregister(ctx context.Context, id string) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all registered documents ordered by ID.
	List(ctx context.Context) ([]domain.Document, error)

	// Exists reports whether a document is registered.
	Exists(ctx context.Context, id string) (bool, error)
}
