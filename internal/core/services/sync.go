package services

import (
	"context"
	"fmt"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// Ensure Syncer implements the interface.
var _ driving.SyncService = (*Syncer)(nil)

// Syncer pulls documents from a remote store and feeds them through the
// ingestion pipeline. Sync is idempotent: documents whose derived ID is
// already registered are skipped unless forced.
type Syncer struct {
	store    driven.BlobStore
	ingest   driving.IngestService
	registry driven.DocumentRegistry
	origin   domain.Origin
}

// NewSyncer creates a sync service over the given store. The origin is
// recorded on every document this syncer ingests.
func NewSyncer(store driven.BlobStore, ingest driving.IngestService, registry driven.DocumentRegistry, origin domain.Origin) *Syncer {
	return &Syncer{
		store:    store,
		ingest:   ingest,
		registry: registry,
		origin:   origin,
	}
}

// Sync lists the remote store and ingests each document, one result per
// remote entry. A failing document is recorded in its result and never
// aborts the rest of the batch; only listing failure or cancellation
// stops the sync.
func (s *Syncer) Sync(ctx context.Context, force bool) ([]driving.SyncResult, error) {
	blobs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote store: %w", err)
	}

	logger.Section("Sync")
	logger.Info("Syncing %d remote documents from %s", len(blobs), s.origin)

	results := make([]driving.SyncResult, 0, len(blobs))

	for _, blob := range blobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := driving.SyncResult{
			Name:       blob.Name,
			DocumentID: domain.NewDocumentID(blob.Name),
		}

		if !force {
			exists, err := s.registry.Exists(ctx, result.DocumentID)
			if err != nil {
				result.Err = fmt.Errorf("check registry: %w", err)
				results = append(results, result)
				continue
			}
			if exists {
				logger.Debug("Skipping %s: already indexed as %s", blob.Name, result.DocumentID)
				result.Skipped = true
				results = append(results, result)
				continue
			}
		}

		data, err := s.store.Fetch(ctx, blob.Name)
		if err != nil {
			logger.Warn("Fetch %s failed: %v", blob.Name, err)
			result.Err = fmt.Errorf("fetch %s: %w", blob.Name, err)
			results = append(results, result)
			continue
		}

		ingested, err := s.ingest.Ingest(ctx, driving.IngestRequest{
			Filename: blob.Name,
			Data:     data,
			Origin:   s.origin,
		})
		if err != nil {
			logger.Warn("Ingest %s failed: %v", blob.Name, err)
			result.Err = err
			results = append(results, result)
			continue
		}

		result.ChunksIndexed = ingested.ChunksIndexed
		results = append(results, result)
	}

	return results, nil
}
