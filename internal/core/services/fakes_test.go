package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Compile-time checks that the fakes satisfy the driven ports.
var (
	_ driven.EmbeddingService  = (*fakeEmbedding)(nil)
	_ driven.GenerationService = (*fakeGenerator)(nil)
	_ driven.VectorIndex       = (*memIndex)(nil)
	_ driven.DocumentRegistry  = (*memRegistry)(nil)
	_ driven.BlobStore         = (*fakeBlobStore)(nil)
	_ driven.ExtractorRegistry = (*textExtractors)(nil)
)

// embedText produces a deterministic low-dimensional vector so tests
// can reason about similarity ordering.
func embedText(text string) []float32 {
	return []float32{float32(len(text)%7) + 1, float32(strings.Count(text, " ")), 1}
}

// fakeEmbedding counts calls, records batch sizes, and can be scripted
// to fail its leading calls or specific call numbers.
type fakeEmbedding struct {
	mu         sync.Mutex
	failures   int
	failCalls  map[int]bool
	calls      int
	batchSizes []int
	released   int
}

func newFakeEmbedding() *fakeEmbedding {
	return &fakeEmbedding{failCalls: make(map[int]bool)}
}

func (f *fakeEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.batchSizes = append(f.batchSizes, len(texts))

	if f.failures > 0 {
		f.failures--
		return nil, errors.New("embedding backend unavailable")
	}
	if f.failCalls[f.calls] {
		return nil, errors.New("embedding backend unavailable")
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = embedText(text)
	}
	return vectors, nil
}

func (f *fakeEmbedding) Dimensions() int            { return 3 }
func (f *fakeEmbedding) ModelName() string          { return "fake-embedding" }
func (f *fakeEmbedding) Ping(context.Context) error { return nil }
func (f *fakeEmbedding) Close() error               { return nil }

func (f *fakeEmbedding) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func (f *fakeEmbedding) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeGenerator records prompts and can fail its leading calls.
type fakeGenerator struct {
	mu       sync.Mutex
	failures int
	calls    int
	prompts  []string
	reply    string
	released int
}

func newFakeGenerator(reply string) *fakeGenerator {
	return &fakeGenerator{reply: reply}
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.prompts = append(f.prompts, prompt)

	if f.failures > 0 {
		f.failures--
		return "", errors.New("generation backend unavailable")
	}
	return f.reply, nil
}

func (f *fakeGenerator) ModelName() string          { return "fake-generation" }
func (f *fakeGenerator) Ping(context.Context) error { return nil }
func (f *fakeGenerator) Close() error               { return nil }

func (f *fakeGenerator) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

// memIndex is an insertion-ordered in-memory vector index.
type memIndex struct {
	mu       sync.Mutex
	entries  []driven.IndexEntry
	upserts  int
	countErr error
	queryErr error
}

func newMemIndex() *memIndex {
	return &memIndex{}
}

func (m *memIndex) Upsert(_ context.Context, entries []driven.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upserts++
	for _, entry := range entries {
		replaced := false
		for i := range m.entries {
			if m.entries[i].ChunkID == entry.ChunkID {
				m.entries[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			m.entries = append(m.entries, entry)
		}
	}
	return nil
}

func (m *memIndex) Query(_ context.Context, vector []float32, k int, filter *driven.QueryFilter) ([]driven.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queryErr != nil {
		return nil, m.queryErr
	}

	hits := make([]driven.VectorHit, 0, len(m.entries))
	for _, entry := range m.entries {
		if filter != nil && filter.DocumentID != "" && entry.DocumentID != filter.DocumentID {
			continue
		}
		hits = append(hits, driven.VectorHit{
			Entry:      entry,
			Similarity: cosine(vector, entry.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *memIndex) DeleteDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, entry := range m.entries {
		if entry.DocumentID != documentID {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	return nil
}

func (m *memIndex) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.entries), nil
}

func (m *memIndex) Close() error { return nil }

func (m *memIndex) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// memRegistry is a map-backed document registry.
type memRegistry struct {
	mu   sync.Mutex
	docs map[string]domain.Document
}

func newMemRegistry() *memRegistry {
	return &memRegistry{docs: make(map[string]domain.Document)}
}

func (m *memRegistry) Register(_ context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRegistry) Unregister(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memRegistry) Get(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *memRegistry) List(context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *memRegistry) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[id]
	return ok, nil
}

// fakeBlobStore serves blobs from a map, with scriptable fetch errors.
type fakeBlobStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	fetchErr map[string]error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		blobs:    make(map[string][]byte),
		fetchErr: make(map[string]error),
	}
}

func (f *fakeBlobStore) List(context.Context) ([]driven.BlobInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.blobs))
	for name := range f.blobs {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]driven.BlobInfo, len(names))
	for i, name := range names {
		infos[i] = driven.BlobInfo{Name: name, Size: int64(len(f.blobs[name]))}
	}
	return infos, nil
}

func (f *fakeBlobStore) Fetch(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fetchErr[name]; err != nil {
		return nil, err
	}
	data, ok := f.blobs[name]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", name, domain.ErrNotFound)
	}
	return data, nil
}

func (f *fakeBlobStore) Put(_ context.Context, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[name] = data
	return nil
}

// textExtractors treats the whole payload as already-extracted text.
type textExtractors struct {
	err          error
	pagesSkipped int
}

func (t *textExtractors) Extract(_ context.Context, _ domain.Format, data []byte) (*driven.ExtractResult, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &driven.ExtractResult{Text: string(data), PagesSkipped: t.pagesSkipped}, nil
}
