package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/askdoc-labs/askdoc/internal/chunker"
	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// Ensure IngestPipeline implements the interface.
var _ driving.IngestService = (*IngestPipeline)(nil)

// IngestPipeline is the write side of the system: extract, chunk,
// embed, index, register. Mutations of the same document ID are
// serialised; different IDs proceed independently.
type IngestPipeline struct {
	extractors driven.ExtractorRegistry
	splitter   *chunker.Splitter
	batcher    *Batcher
	index      driven.VectorIndex
	registry   driven.DocumentRegistry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIngestPipeline creates the ingestion pipeline.
func NewIngestPipeline(
	extractors driven.ExtractorRegistry,
	splitter *chunker.Splitter,
	batcher *Batcher,
	index driven.VectorIndex,
	registry driven.DocumentRegistry,
) *IngestPipeline {
	return &IngestPipeline{
		extractors: extractors,
		splitter:   splitter,
		batcher:    batcher,
		index:      index,
		registry:   registry,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Ingest runs the full pipeline for one document. Embeddings are
// generated before the critical section; the index write is a single
// atomic upsert, so a cancelled or failed ingestion leaves no partial
// entries. Re-ingesting an existing ID replaces its chunks.
func (p *IngestPipeline) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("empty document: %w", domain.ErrInvalidInput)
	}
	if req.Filename == "" && req.DocumentID == "" {
		return nil, fmt.Errorf("filename or document id required: %w", domain.ErrInvalidInput)
	}

	docID := req.DocumentID
	if docID == "" {
		docID = domain.NewDocumentID(req.Filename)
	}
	origin := req.Origin
	if origin == "" {
		origin = domain.OriginUpload
	}

	format, err := domain.DetectFormat(req.Filename, req.Data)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingest")
	logger.Info("Ingesting %s (%s, %d bytes)", docID, format, len(req.Data))

	extracted, err := p.extractors.Extract(ctx, format, req.Data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", docID, err)
	}
	if extracted.PagesSkipped > 0 {
		logger.Warn("Extraction skipped %d pages of %s", extracted.PagesSkipped, docID)
	}

	chunks, warnings := p.splitter.Split(docID, extracted.Text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s contains no extractable text: %w", docID, domain.ErrCorruptDocument)
	}
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := p.batcher.EmbedChunks(ctx, texts)
	if err != nil {
		logger.Warn("Embedding aborted for %s after %d of %d chunks", docID, len(embeddings), len(chunks))
		return nil, err
	}

	entries := make([]driven.IndexEntry, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
		entries[i] = driven.IndexEntry{
			ChunkID:    chunks[i].ID,
			DocumentID: docID,
			Position:   chunks[i].Position,
			Content:    chunks[i].Content,
			Embedding:  embeddings[i],
		}
	}

	unlock := p.lockDocument(docID)
	defer unlock()

	replacing, err := p.registry.Exists(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("check registry: %w", err)
	}
	if replacing {
		logger.Debug("Replacing existing document %s", docID)
		if err := p.index.DeleteDocument(ctx, docID); err != nil {
			return nil, fmt.Errorf("remove old chunks of %s: %w", docID, err)
		}
	}

	if err := p.index.Upsert(ctx, entries); err != nil {
		return nil, fmt.Errorf("index %s: %w", docID, err)
	}

	doc := domain.Document{
		ID:         docID,
		Origin:     origin,
		Title:      filepath.Base(req.Filename),
		ByteSize:   int64(len(req.Data)),
		ChunkCount: len(chunks),
		IngestedAt: time.Now().UTC(),
	}
	if err := p.registry.Register(ctx, doc); err != nil {
		return nil, fmt.Errorf("register %s: %w", docID, err)
	}

	if extracted.PagesSkipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d pages or slides skipped during extraction", extracted.PagesSkipped))
	}

	logger.Info("Indexed %s: %d chunks", docID, len(chunks))

	return &driving.IngestResult{
		DocumentID:    docID,
		ChunksIndexed: len(chunks),
		PagesSkipped:  extracted.PagesSkipped,
		Warnings:      warnings,
	}, nil
}

// Delete removes a document's vectors and registry entry.
func (p *IngestPipeline) Delete(ctx context.Context, documentID string) error {
	unlock := p.lockDocument(documentID)
	defer unlock()

	exists, err := p.registry.Exists(ctx, documentID)
	if err != nil {
		return fmt.Errorf("check registry: %w", err)
	}
	if !exists {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	if err := p.index.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", documentID, err)
	}
	if err := p.registry.Unregister(ctx, documentID); err != nil {
		return fmt.Errorf("unregister %s: %w", documentID, err)
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}

// List returns all registered documents.
func (p *IngestPipeline) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := p.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Status reports registry and index counts. Index health is probed with
// a Count round-trip; a failing probe yields an unhealthy status, not
// an error.
func (p *IngestPipeline) Status(ctx context.Context) (*domain.IndexStatus, error) {
	docs, err := p.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	status := &domain.IndexStatus{DocumentsIndexed: len(docs)}

	count, err := p.index.Count(ctx)
	if err != nil {
		logger.Warn("Index probe failed: %v", err)
		return status, nil
	}

	status.TotalChunks = count
	status.IndexHealthy = true
	return status, nil
}

// lockDocument acquires the per-document mutex and returns its unlock.
func (p *IngestPipeline) lockDocument(documentID string) func() {
	p.mu.Lock()
	lock, ok := p.locks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[documentID] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
