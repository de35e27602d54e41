package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces entries in one transaction, so a failed
// batch leaves nothing behind. Replacing a chunk keeps its original
// rowid, which preserves insertion order for tie-breaking.
func (v *vectorIndex) Upsert(ctx context.Context, entries []driven.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w: %w", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries (chunk_id, document_id, position, content, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			position = excluded.position,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w: %w", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		blob := float32SliceToBytes(entry.Embedding)
		if _, err := stmt.ExecContext(ctx, entry.ChunkID, entry.DocumentID, entry.Position, entry.Content, blob); err != nil {
			return fmt.Errorf("upsert chunk %s: %w: %w", entry.ChunkID, domain.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Query scans every entry and ranks by cosine similarity. Results come
// back in descending similarity; the rowid scan order breaks ties by
// insertion order. A stored vector whose dimensionality contradicts the
// query vector means the index is damaged and the query fails fast with
// ErrIndexCorrupt rather than returning partial garbage.
func (v *vectorIndex) Query(ctx context.Context, vector []float32, k int, filter *driven.QueryFilter) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	query := `SELECT chunk_id, document_id, position, content, embedding FROM index_entries`
	var args []any
	if filter != nil && filter.DocumentID != "" {
		query += ` WHERE document_id = ?`
		args = append(args, filter.DocumentID)
	}
	query += ` ORDER BY rowid`

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var entry driven.IndexEntry
		var blob []byte
		if err := rows.Scan(&entry.ChunkID, &entry.DocumentID, &entry.Position, &entry.Content, &blob); err != nil {
			return nil, fmt.Errorf("scan entry: %w: %w", domain.ErrPersistence, err)
		}

		embedding, err := bytesToFloat32Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w: %w", entry.ChunkID, domain.ErrIndexCorrupt, err)
		}
		if len(embedding) != len(vector) {
			return nil, fmt.Errorf("chunk %s has %d dimensions, query has %d: %w",
				entry.ChunkID, len(embedding), len(vector), domain.ErrIndexCorrupt)
		}
		entry.Embedding = embedding

		hits = append(hits, driven.VectorHit{
			Entry:      entry,
			Similarity: cosineSimilarity(vector, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w: %w", domain.ErrPersistence, err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteDocument removes every entry of one document. A single DELETE
// statement is atomic in SQLite.
func (v *vectorIndex) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := v.store.db.ExecContext(ctx, `DELETE FROM index_entries WHERE document_id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("delete entries of %s: %w: %w", documentID, domain.ErrPersistence, err)
	}
	return nil
}

// Count returns the number of entries in the index.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	row := v.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM index_entries`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w: %w", domain.ErrPersistence, err)
	}
	return count, nil
}

// Close is a no-op; the connection is owned by the Store.
func (v *vectorIndex) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
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

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(data))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}
