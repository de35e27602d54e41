package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, s.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(20), WithBoundaryLookback(10), WithMaxChunks(3))
		if s.chunkSize != 100 || s.overlap != 20 || s.lookback != 10 || s.maxChunks != 3 {
			t.Errorf("options not applied: %+v", s)
		}
	})

	t.Run("overlap clamped below chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		if s.overlap != 99 {
			t.Errorf("expected overlap clamped to 99, got %d", s.overlap)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != DefaultChunkSize || s.overlap != DefaultOverlap {
			t.Errorf("expected defaults, got size=%d overlap=%d", s.chunkSize, s.overlap)
		}
	})
}

func TestSplit_Empty(t *testing.T) {
	s := New()
	chunks, warnings := s.Split("doc", "   \n\t ")
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for whitespace-only text, got %d", len(chunks))
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestSplit_SmallContent(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	chunks, _ := s.Split("doc", "a small piece of content")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "a small piece of content" {
		t.Errorf("unexpected content: %q", chunks[0].Content)
	}
	if chunks[0].StartOffset != 0 || chunks[0].EndOffset != len(chunks[0].Content) {
		t.Errorf("unexpected offsets: %d-%d", chunks[0].StartOffset, chunks[0].EndOffset)
	}
	if chunks[0].DocumentID != "doc" || chunks[0].Position != 0 {
		t.Errorf("unexpected chunk identity: %+v", chunks[0])
	}
}

// 280 characters with size 100 and overlap 20 must produce windows
// starting at 0, 80, 160 and 240, the last one shorter.
func TestSplit_StrideScenario(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20), WithBoundaryLookback(0))
	text := strings.Repeat("0123456789", 28) // 280 chars, no whitespace

	chunks, warnings := s.Split("doc", text)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	wantStarts := []int{0, 80, 160, 240}
	for i, chunk := range chunks {
		if chunk.StartOffset != wantStarts[i] {
			t.Errorf("chunk %d: expected start %d, got %d", i, wantStarts[i], chunk.StartOffset)
		}
		if chunk.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, chunk.Position)
		}
	}
	if got := len(chunks[3].Content); got != 40 {
		t.Errorf("expected final chunk of 40 chars, got %d", got)
	}
}

func TestSplit_SizeBound(t *testing.T) {
	s := New(WithChunkSize(64), WithOverlap(16))
	text := strings.Repeat("lorem ipsum dolor sit amet ", 50)

	chunks, _ := s.Split("doc", text)
	for _, chunk := range chunks {
		if len(chunk.Content) > 64 {
			t.Errorf("chunk %d exceeds size bound: %d chars", chunk.Position, len(chunk.Content))
		}
	}
}

// The union of chunk ranges must reconstruct the text with no gaps and
// no out-of-order ranges, including when word-boundary cuts shorten
// individual windows.
func TestSplit_Coverage(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)

	chunks, _ := s.Split("doc", text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	if chunks[0].StartOffset != 0 {
		t.Errorf("first chunk must start at 0, got %d", chunks[0].StartOffset)
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.StartOffset >= prev.EndOffset {
			t.Errorf("gap between chunk %d (end %d) and chunk %d (start %d)",
				i-1, prev.EndOffset, i, cur.StartOffset)
		}
		if cur.StartOffset <= prev.StartOffset {
			t.Errorf("chunk %d not advancing: start %d after start %d",
				i, cur.StartOffset, prev.StartOffset)
		}
	}
	if last := chunks[len(chunks)-1]; last.EndOffset != len(text) {
		t.Errorf("last chunk must end at %d, got %d", len(text), last.EndOffset)
	}

	for _, chunk := range chunks {
		if text[chunk.StartOffset:chunk.EndOffset] != chunk.Content {
			t.Errorf("chunk %d content does not match its offsets", chunk.Position)
		}
	}
}

// For hard cuts, consecutive chunks share exactly overlap characters.
func TestSplit_OverlapInvariant(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20), WithBoundaryLookback(0))
	text := strings.Repeat("0123456789", 50)

	chunks, _ := s.Split("doc", text)
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		suffix := prev.Content[len(prev.Content)-20:]
		prefix := cur.Content[:20]
		if suffix != prefix {
			t.Errorf("chunk %d/%d overlap mismatch: %q vs %q", i-1, i, suffix, prefix)
		}
	}
}

func TestSplit_WordBoundary(t *testing.T) {
	// Cutoff at 20 lands inside "boundary"; the cut must move back to
	// the space at offset 14.
	s := New(WithChunkSize(20), WithOverlap(4), WithBoundaryLookback(10))
	text := "short words go boundary crossing text here"

	chunks, _ := s.Split("doc", text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "short words go" {
		t.Errorf("expected cut at word boundary, got %q", chunks[0].Content)
	}
}

func TestSplit_NoBoundaryInLookback(t *testing.T) {
	// No whitespace anywhere: the hard limit applies.
	s := New(WithChunkSize(10), WithOverlap(2), WithBoundaryLookback(5))
	text := strings.Repeat("x", 30)

	chunks, _ := s.Split("doc", text)
	if len(chunks[0].Content) != 10 {
		t.Errorf("expected hard cut at 10 chars, got %d", len(chunks[0].Content))
	}
}

func TestSplit_ChunkCap(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(0), WithBoundaryLookback(0), WithMaxChunks(3))
	text := strings.Repeat("a", 100)

	chunks, warnings := s.Split("doc", text)
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks at cap, got %d", len(chunks))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected truncation warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "70 trailing characters truncated") {
		t.Errorf("unexpected warning text: %q", warnings[0])
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(WithChunkSize(40), WithOverlap(8))
	text := strings.Repeat("determinism matters for retrieval ", 10)

	first, _ := s.Split("doc", text)
	second, _ := s.Split("doc", text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].StartOffset != second[i].StartOffset || first[i].EndOffset != second[i].EndOffset {
			t.Errorf("chunk %d offsets differ between runs", i)
		}
		if first[i].Content != second[i].Content {
			t.Errorf("chunk %d content differs between runs", i)
		}
	}
}

func TestSplit_UniqueIDs(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(2))
	chunks, _ := s.Split("doc", strings.Repeat("b", 100))

	seen := make(map[string]bool)
	for _, chunk := range chunks {
		if seen[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seen[chunk.ID] = true
	}
}
