package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// Ensure Chat implements the interface.
var _ driving.ChatService = (*Chat)(nil)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// DefaultContextBudget is the character budget for the assembled
// context. Hits beyond the budget are dropped, lowest similarity first.
const DefaultContextBudget = 6000

// defaultAnswerTokens caps the generated answer length.
const defaultAnswerTokens = 1024

const answerPrompt = `You are a documentation assistant. Answer the question using only the provided context. If the context does not contain the answer, say that the indexed documents do not cover it instead of guessing.

Context:
%s
Question: %s

Answer:`

// Chat is the read side of the system: embed the question, retrieve
// the nearest chunks, assemble a context, generate a grounded answer.
type Chat struct {
	batcher   *Batcher
	index     driven.VectorIndex
	generator driven.GenerationService

	topK          int
	contextBudget int
	maxTokens     int
	temperature   float64
	backoff       time.Duration
	prompt        string
}

// ChatOption configures the chat service.
type ChatOption func(*Chat)

// WithTopK sets the number of chunks retrieved per question.
func WithTopK(k int) ChatOption {
	return func(c *Chat) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithContextBudget sets the context character budget.
func WithContextBudget(budget int) ChatOption {
	return func(c *Chat) {
		if budget > 0 {
			c.contextBudget = budget
		}
	}
}

// WithPromptTemplate replaces the built-in answer prompt. The template
// must carry two %s slots, filled with the context and the question in
// that order; templates without both slots are ignored.
func WithPromptTemplate(template string) ChatOption {
	return func(c *Chat) {
		if strings.Count(template, "%s") == 2 {
			c.prompt = template
		}
	}
}

// WithGenerateOptions sets the generation parameters.
func WithGenerateOptions(maxTokens int, temperature float64) ChatOption {
	return func(c *Chat) {
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
		if temperature >= 0 {
			c.temperature = temperature
		}
	}
}

// NewChat creates the chat service.
func NewChat(batcher *Batcher, index driven.VectorIndex, generator driven.GenerationService, opts ...ChatOption) *Chat {
	c := &Chat{
		batcher:       batcher,
		index:         index,
		generator:     generator,
		topK:          DefaultTopK,
		contextBudget: DefaultContextBudget,
		maxTokens:     defaultAnswerTokens,
		temperature:   0.2,
		backoff:       defaultRetryBackoff,
		prompt:        answerPrompt,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Answer runs the retrieval-augmented pipeline for one question. The
// empty-index guard runs before any model call so an empty system never
// spends an embedding request.
func (c *Chat) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	logger.Section("Answer")

	count, err := c.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe index: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNoDocumentsIndexed
	}

	logger.Debug("Embedding question (%d chunks indexed)", count)
	vector, err := c.batcher.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	logger.Debug("Retrieving top %d chunks", c.topK)
	hits, err := c.index.Query(ctx, vector, c.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(hits) == 0 {
		return nil, domain.ErrNoDocumentsIndexed
	}

	contextText, chunkIDs, sources := assembleContext(hits, c.contextBudget)
	logger.Debug("Context: %d chunks, %d chars, %d sources", len(chunkIDs), len(contextText), len(sources))

	prompt := fmt.Sprintf(c.prompt, contextText, question)

	logger.Debug("Generating answer (%d prompt chars)", len(prompt))
	var text string
	err = withRetry(ctx, c.backoff, func() error {
		var genErr error
		text, genErr = c.generator.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		})
		return genErr
	})
	if err != nil {
		logger.Warn("Generation failed after retry: %v", err)
		return nil, fmt.Errorf("generate answer: %w: %w", domain.ErrGeneration, err)
	}

	return &domain.Answer{
		Text:              strings.TrimSpace(text),
		Sources:           sources,
		RetrievedChunkIDs: chunkIDs,
	}, nil
}

// assembleContext builds the context block from hits in descending
// similarity order. Each chunk is tagged with its source document. Hits
// that would push the context past the budget are dropped; the best hit
// is always kept so a question never goes out with an empty context.
func assembleContext(hits []driven.VectorHit, budget int) (contextText string, chunkIDs, sources []string) {
	var b strings.Builder
	seen := make(map[string]bool)

	for i, hit := range hits {
		block := fmt.Sprintf("[source: %s]\n%s\n\n", hit.Entry.DocumentID, hit.Entry.Content)
		if i > 0 && b.Len()+len(block) > budget {
			break
		}

		b.WriteString(block)
		chunkIDs = append(chunkIDs, hit.Entry.ChunkID)
		if !seen[hit.Entry.DocumentID] {
			seen[hit.Entry.DocumentID] = true
			sources = append(sources, hit.Entry.DocumentID)
		}
	}

	return b.String(), chunkIDs, sources
}
