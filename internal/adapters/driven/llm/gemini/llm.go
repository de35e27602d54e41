// Package gemini provides a generation service adapter using the
// Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Gemini generation service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-1.5-flash).
	Model string
}

// GenerationService produces completions using the Gemini API. The
// client is created on first use and dropped again by Release.
type GenerationService struct {
	mu        sync.Mutex
	client    *genai.Client
	apiKey    string
	modelName string
}

// NewGenerationService creates a new Gemini generation service. The API
// client is not dialled until the first request.
func NewGenerationService(cfg Config) (*GenerationService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &GenerationService{
		apiKey:    cfg.APIKey,
		modelName: cfg.Model,
	}, nil
}

// generativeClient returns the lazily initialised API client.
func (s *GenerationService) generativeClient(ctx context.Context) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	s.client = client
	return s.client, nil
}

// Generate produces a completion for the prompt.
func (s *GenerationService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	client, err := s.generativeClient(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(s.modelName)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		model.SetTemperature(float32(opts.Temperature))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini: candidate contains no text")
	}
	return text.String(), nil
}

// ModelName returns the name of the model being used.
func (s *GenerationService) ModelName() string {
	return s.modelName
}

// Ping validates the service is reachable with a minimal generation
// request.
func (s *GenerationService) Ping(ctx context.Context) error {
	client, err := s.generativeClient(ctx)
	if err != nil {
		return err
	}

	model := client.GenerativeModel(s.modelName)
	model.SetMaxOutputTokens(1)
	if _, err := model.GenerateContent(ctx, genai.Text("ping")); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Release drops the API client. The next call recreates it.
func (s *GenerationService) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	if err != nil {
		return fmt.Errorf("gemini: close client: %w", err)
	}
	return nil
}

// Close releases resources permanently.
func (s *GenerationService) Close() error {
	return s.Release()
}
