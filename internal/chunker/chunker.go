// Package chunker splits extracted text into overlapping fixed-size
// windows sized for the embedding model's context limit.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// DefaultBoundaryLookback is how far before the hard cutoff a
// whitespace boundary is searched for, to avoid splitting mid-word.
const DefaultBoundaryLookback = 50

// DefaultMaxChunks caps the chunks produced per document. Text beyond
// the cap is truncated and reported as a warning, not an error.
const DefaultMaxChunks = 5000

// Splitter splits document text into chunks. Splitting is a pure
// function of the input: the same text always yields the same offsets.
type Splitter struct {
	chunkSize int
	overlap   int
	lookback  int
	maxChunks int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithBoundaryLookback sets the word-boundary search window.
func WithBoundaryLookback(lookback int) Option {
	return func(s *Splitter) {
		if lookback >= 0 {
			s.lookback = lookback
		}
	}
}

// WithMaxChunks sets the per-document chunk cap.
func WithMaxChunks(maxChunks int) Option {
	return func(s *Splitter) {
		if maxChunks > 0 {
			s.maxChunks = maxChunks
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		lookback:  DefaultBoundaryLookback,
		maxChunks: DefaultMaxChunks,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Guarantee forward progress: an overlap at or above the chunk size
	// would make the window stand still.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize - 1
	}

	return s
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split slices text into chunks for documentID. It returns the chunks
// in reading order plus warnings for non-fatal conditions such as
// hitting the chunk cap.
//
// Each window is at most chunkSize characters. The next window starts
// at the previous window's end minus the overlap, so for hard cuts the
// stride is chunkSize-overlap. When a whitespace boundary exists within
// the lookback window before a hard cutoff, the cut moves back to it;
// the following window still starts overlap characters before the
// effective end, so the chunk ranges always cover the text with no gaps.
func (s *Splitter) Split(documentID, text string) ([]domain.Chunk, []string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var chunks []domain.Chunk
	var warnings []string

	position := 0
	start := 0

	for start < len(text) {
		if position >= s.maxChunks {
			warnings = append(warnings, fmt.Sprintf(
				"chunk cap %d reached: %d trailing characters truncated",
				s.maxChunks, len(text)-start))
			break
		}

		end := start + s.chunkSize
		atEnd := end >= len(text)
		if atEnd {
			end = len(text)
		} else {
			end = s.adjustToBoundary(text, start, end)
		}

		content := text[start:end]
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, domain.Chunk{
				ID:          uuid.New().String(),
				DocumentID:  documentID,
				Position:    position,
				Content:     content,
				StartOffset: start,
				EndOffset:   end,
			})
			position++
		}

		if end == len(text) {
			break
		}

		next := end - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, warnings
}

// adjustToBoundary moves a hard cutoff back to the nearest whitespace
// within the lookback window, so words are not split when a boundary is
// available. The cut stays put when the window holds no whitespace or
// when the cut already falls on one.
func (s *Splitter) adjustToBoundary(text string, start, end int) int {
	if s.lookback == 0 {
		return end
	}
	if isSpace(text[end]) || isSpace(text[end-1]) {
		return end
	}

	limit := end - s.lookback
	if limit <= start {
		limit = start + 1
	}
	for i := end - 1; i >= limit; i-- {
		if isSpace(text[i]) {
			return i
		}
	}
	return end
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}
