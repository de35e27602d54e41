package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// DocumentRegistry is a map-backed document registry.
type DocumentRegistry struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

var _ driven.DocumentRegistry = (*DocumentRegistry)(nil)

// NewDocumentRegistry creates an empty in-memory registry.
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{docs: make(map[string]domain.Document)}
}

// Register stores or updates a document's metadata.
func (r *DocumentRegistry) Register(_ context.Context, doc domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

// Unregister removes a document.
func (r *DocumentRegistry) Unregister(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

// Get retrieves a document by ID.
func (r *DocumentRegistry) Get(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// List returns all registered documents ordered by ID.
func (r *DocumentRegistry) List(context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]domain.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Exists reports whether a document is registered.
func (r *DocumentRegistry) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.docs[id]
	return ok, nil
}
