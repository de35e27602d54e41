package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// documentRegistry implements driven.DocumentRegistry.
type documentRegistry struct {
	store *Store
}

var _ driven.DocumentRegistry = (*documentRegistry)(nil)

// Register stores or updates a document's metadata.
func (r *documentRegistry) Register(ctx context.Context, doc domain.Document) error {
	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now().UTC()
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, origin, title, byte_size, chunk_count, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			origin = excluded.origin,
			title = excluded.title,
			byte_size = excluded.byte_size,
			chunk_count = excluded.chunk_count,
			ingested_at = excluded.ingested_at
	`, doc.ID, string(doc.Origin), doc.Title, doc.ByteSize, doc.ChunkCount, doc.IngestedAt)

	if err != nil {
		return fmt.Errorf("register document %s: %w: %w", doc.ID, domain.ErrPersistence, err)
	}
	return nil
}

// Unregister removes a document.
func (r *documentRegistry) Unregister(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("unregister document %s: %w: %w", id, domain.ErrPersistence, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unregister document %s: %w: %w", id, domain.ErrPersistence, err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Get retrieves a document by ID.
func (r *documentRegistry) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, origin, title, byte_size, chunk_count, ingested_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document %s: %w: %w", id, domain.ErrPersistence, err)
	}
	return doc, nil
}

// List returns all registered documents ordered by ID.
func (r *documentRegistry) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, origin, title, byte_size, chunk_count, ingested_at
		FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w: %w", domain.ErrPersistence, err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w: %w", domain.ErrPersistence, err)
	}
	return docs, nil
}

// Exists reports whether a document is registered.
func (r *documentRegistry) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	row := r.store.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = ?`, id)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check document %s: %w: %w", id, domain.ErrPersistence, err)
	}
	return true, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var origin string
	var ingestedAt sql.NullTime

	if err := row.Scan(&doc.ID, &origin, &doc.Title, &doc.ByteSize, &doc.ChunkCount, &ingestedAt); err != nil {
		return nil, err
	}

	doc.Origin = domain.Origin(origin)
	if ingestedAt.Valid {
		doc.IngestedAt = ingestedAt.Time
	}
	return &doc, nil
}
