// Package chromem provides a vector index adapter backed by
// chromem-go, a pure Go embedded vector database with its own
// persistence format. It is an alternative to the SQLite index for
// installations that prefer a dedicated vector store.
package chromem

import (
	"context"
	"fmt"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// collectionName is the single collection all chunks live in.
const collectionName = "chunks"

// Index implements driven.VectorIndex over a persistent chromem-go
// collection with cosine similarity.
type Index struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

var _ driven.VectorIndex = (*Index)(nil)

// NewIndex opens or creates a persistent index at path.
func NewIndex(path string) (*Index, error) {
	db, err := chromemgo.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("chromem: open database: %w", err)
	}

	collection, err := db.GetOrCreateCollection(collectionName, map[string]string{
		"hnsw:space": "cosine",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: open collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
	}, nil
}

// Upsert inserts or replaces entries. chromem has no native upsert, so
// existing IDs are deleted first.
func (x *Index) Upsert(ctx context.Context, entries []driven.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, len(entries))
	vectors := make([][]float32, len(entries))
	metadatas := make([]map[string]string, len(entries))
	contents := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ChunkID
		vectors[i] = entry.Embedding
		metadatas[i] = map[string]string{
			"document_id": entry.DocumentID,
			"position":    strconv.Itoa(entry.Position),
		}
		contents[i] = entry.Content
	}

	if err := x.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("chromem: delete existing entries: %w: %w", domain.ErrPersistence, err)
	}
	if err := x.collection.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return fmt.Errorf("chromem: add entries: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Query returns the k nearest entries by cosine similarity. chromem
// rejects result counts above the collection size, so k is clamped.
func (x *Index) Query(ctx context.Context, vector []float32, k int, filter *driven.QueryFilter) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	var where map[string]string
	if filter != nil && filter.DocumentID != "" {
		where = map[string]string{"document_id": filter.DocumentID}
	}

	results, err := x.collection.QueryEmbedding(ctx, vector, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w: %w", domain.ErrPersistence, err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, result := range results {
		position := 0
		documentID := ""
		if result.Metadata != nil {
			documentID = result.Metadata["document_id"]
			if p, err := strconv.Atoi(result.Metadata["position"]); err == nil {
				position = p
			}
		}

		hits = append(hits, driven.VectorHit{
			Entry: driven.IndexEntry{
				ChunkID:    result.ID,
				DocumentID: documentID,
				Position:   position,
				Content:    result.Content,
				Embedding:  result.Embedding,
			},
			Similarity: float64(result.Similarity),
		})
	}
	return hits, nil
}

// DeleteDocument removes every entry of one document via the metadata
// filter.
func (x *Index) DeleteDocument(ctx context.Context, documentID string) error {
	err := x.collection.Delete(ctx, map[string]string{"document_id": documentID}, nil)
	if err != nil {
		return fmt.Errorf("chromem: delete document %s: %w: %w", documentID, domain.ErrPersistence, err)
	}
	return nil
}

// Count returns the number of entries in the collection.
func (x *Index) Count(context.Context) (int, error) {
	return x.collection.Count(), nil
}

// Close is a no-op; chromem persists on every write.
func (x *Index) Close() error {
	return nil
}
