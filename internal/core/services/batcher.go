package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// DefaultBatchSize is the number of texts sent per embedding request.
const DefaultBatchSize = 16

// Batcher drives an EmbeddingService in fixed-size batches. Each batch
// is one EmbedBatch call with exactly one retry; a batch that still
// fails aborts the remaining batches so callers can report how many
// embeddings completed.
type Batcher struct {
	service   driven.EmbeddingService
	batchSize int
	backoff   time.Duration
	limiter   *rate.Limiter
}

// BatcherOption configures the batcher.
type BatcherOption func(*Batcher)

// WithBatchSize sets the number of texts per embedding request.
func WithBatchSize(n int) BatcherOption {
	return func(b *Batcher) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithBatchBackoff sets the pause before a failed batch's retry.
func WithBatchBackoff(d time.Duration) BatcherOption {
	return func(b *Batcher) {
		if d > 0 {
			b.backoff = d
		}
	}
}

// WithRateLimiter throttles batch submission. Nil disables throttling.
func WithRateLimiter(l *rate.Limiter) BatcherOption {
	return func(b *Batcher) {
		b.limiter = l
	}
}

// NewBatcher creates a batcher over the embedding service.
func NewBatcher(service driven.EmbeddingService, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		service:   service,
		batchSize: DefaultBatchSize,
		backoff:   defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EmbedChunks embeds texts in input order. On failure it returns the
// embeddings completed before the failing batch together with an error
// wrapping domain.ErrEmbedding.
func (b *Batcher) EmbedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return embeddings, err
			}
		}

		var vectors [][]float32
		err := withRetry(ctx, b.backoff, func() error {
			var embedErr error
			vectors, embedErr = b.service.EmbedBatch(ctx, batch)
			return embedErr
		})
		if err != nil {
			logger.Warn("Embedding batch %d-%d failed after retry: %v", start, end, err)
			return embeddings, fmt.Errorf("embed batch %d-%d: %w: %w", start, end, domain.ErrEmbedding, err)
		}
		if len(vectors) != len(batch) {
			return embeddings, fmt.Errorf("embed batch returned %d vectors for %d texts: %w",
				len(vectors), len(batch), domain.ErrEmbedding)
		}

		embeddings = append(embeddings, vectors...)
	}

	return embeddings, nil
}

// EmbedQuery embeds a single query text through the same batched path,
// including the single retry.
func (b *Batcher) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := b.EmbedChunks(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
