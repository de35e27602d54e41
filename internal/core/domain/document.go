package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Origin identifies where a document entered the system from.
type Origin string

const (
	// OriginUpload marks a document uploaded directly by a user.
	OriginUpload Origin = "upload"

	// OriginAzureBlob marks a document pulled from Azure Blob storage.
	OriginAzureBlob Origin = "azure-blob"

	// OriginAzureFiles marks a document pulled from an Azure file share.
	OriginAzureFiles Origin = "azure-files"

	// OriginWatch marks a document picked up by the directory watcher.
	OriginWatch Origin = "watch"
)

// Document represents a registered source document.
// It is created on successful extraction and indexing; deleting it
// removes all of its chunks from the vector index.
type Document struct {
	// ID is the stable identifier derived from the normalised filename.
	ID string

	// Origin records how the document entered the system.
	Origin Origin

	// Title is the human-readable title, usually the original filename.
	Title string

	// ByteSize is the size of the raw document in bytes.
	ByteSize int64

	// ChunkCount is the number of chunks indexed for this document.
	ChunkCount int

	// IngestedAt is when the document was last (re-)ingested.
	IngestedAt time.Time
}

// Chunk represents a contiguous slice of a document's extracted text.
// Chunks are immutable once written and are destroyed only as part of
// document deletion.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the 0-based sequence index within the document.
	// It defines reading order.
	Position int

	// Content is the text content of this chunk.
	Content string

	// StartOffset is the character offset of Content within the
	// document's extracted text.
	StartOffset int

	// EndOffset is the character offset one past the end of Content.
	EndOffset int

	// Embedding is the vector representation, populated by the
	// embedding batcher before indexing.
	Embedding []float32
}

// NewDocumentID derives a stable document identifier from a filename.
// The identifier is deliberately origin-independent: an upload and a
// cloud sync that reference the same logical file produce the same ID,
// which makes re-ingestion an idempotent update rather than an
// accidental duplicate.
func NewDocumentID(filename string) string {
	name := strings.ToLower(strings.TrimSpace(filepath.Base(filename)))
	return strings.Join(strings.Fields(name), "-")
}
