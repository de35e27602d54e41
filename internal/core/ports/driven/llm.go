package driven

import "context"

// GenerationService produces text completions for grounded answering.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini)
//   - Gemini (gemini-1.5-flash)
type GenerationService interface {
	// Generate produces a completion for the prompt.
	// May fail transiently; callers retry once before surfacing the error.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Release drops any lazily initialised model resources. The service
	// remains usable; the next call re-initialises.
	Release() error

	// Close releases resources permanently.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
