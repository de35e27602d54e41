// Package memory provides in-process implementations of the storage
// ports. Nothing survives process exit; it backs ephemeral runs and
// tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// VectorIndex is an insertion-ordered in-memory vector index.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []driven.IndexEntry
}

var _ driven.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates an empty in-memory index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Upsert inserts or replaces entries. A replaced entry keeps its
// original position so tie-breaking stays by first insertion.
func (v *VectorIndex) Upsert(_ context.Context, entries []driven.IndexEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, entry := range entries {
		replaced := false
		for i := range v.entries {
			if v.entries[i].ChunkID == entry.ChunkID {
				v.entries[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			v.entries = append(v.entries, entry)
		}
	}
	return nil
}

// Query ranks all entries by cosine similarity, descending, ties by
// insertion order.
func (v *VectorIndex) Query(_ context.Context, vector []float32, k int, filter *driven.QueryFilter) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	var hits []driven.VectorHit
	for _, entry := range v.entries {
		if filter != nil && filter.DocumentID != "" && entry.DocumentID != filter.DocumentID {
			continue
		}
		if len(entry.Embedding) != len(vector) {
			return nil, fmt.Errorf("chunk %s has %d dimensions, query has %d: %w",
				entry.ChunkID, len(entry.Embedding), len(vector), domain.ErrIndexCorrupt)
		}
		hits = append(hits, driven.VectorHit{
			Entry:      entry,
			Similarity: cosineSimilarity(vector, entry.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteDocument removes all entries of one document.
func (v *VectorIndex) DeleteDocument(_ context.Context, documentID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.entries[:0]
	for _, entry := range v.entries {
		if entry.DocumentID != documentID {
			kept = append(kept, entry)
		}
	}
	v.entries = kept
	return nil
}

// Count returns the number of entries.
func (v *VectorIndex) Count(context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
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
