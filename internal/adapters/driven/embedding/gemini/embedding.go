// Package gemini provides an embedding service adapter using the
// Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "text-embedding-004"
	DefaultDimensions = 768
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// Dimensions is the embedding vector size (default: 768).
	Dimensions int
}

// EmbeddingService generates embeddings using the Gemini API. The
// client is created on first use and dropped again by Release.
type EmbeddingService struct {
	mu         sync.Mutex
	client     *genai.Client
	model      *genai.EmbeddingModel
	apiKey     string
	modelName  string
	dimensions int
}

// NewEmbeddingService creates a new Gemini embedding service. The API
// client is not dialled until the first request.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		apiKey:     cfg.APIKey,
		modelName:  cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// embeddingModel returns the lazily initialised embedding model.
func (s *EmbeddingService) embeddingModel(ctx context.Context) (*genai.EmbeddingModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model != nil {
		return s.model, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	s.client = client
	s.model = client.EmbeddingModel(s.modelName)
	return s.model, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model, err := s.embeddingModel(ctx)
	if err != nil {
		return nil, err
	}

	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini: embed contents: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: %d embeddings returned for %d texts", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, embedding := range resp.Embeddings {
		if embedding == nil {
			return nil, fmt.Errorf("gemini: empty embedding at index %d", i)
		}
		embeddings[i] = embedding.Values
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.modelName
}

// Ping validates the service is reachable with a minimal embedding
// request.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	model, err := s.embeddingModel(ctx)
	if err != nil {
		return err
	}
	if _, err := model.EmbedContent(ctx, genai.Text("ping")); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Release drops the API client. The next call recreates it.
func (s *EmbeddingService) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	s.model = nil
	if err != nil {
		return fmt.Errorf("gemini: close client: %w", err)
	}
	return nil
}

// Close releases resources permanently.
func (s *EmbeddingService) Close() error {
	return s.Release()
}
