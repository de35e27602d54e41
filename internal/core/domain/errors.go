package domain

import "errors"

// Domain errors form the closed taxonomy every failure maps onto.
// They are distinct from infrastructure errors: adapters and services
// wrap these sentinels so callers can branch with errors.Is and the
// presentation layer can map each kind to a stable code.
var (
	// ErrUnsupportedFormat indicates a document format askdoc cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument indicates the document could not be opened at all
	// (bad magic bytes, zero length, unreadable container).
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrEmbedding indicates the embedding service failed.
	// Transient: callers retry once before surfacing it.
	ErrEmbedding = errors.New("embedding service failed")

	// ErrGeneration indicates the generation model failed.
	// Transient: callers retry once before surfacing it.
	ErrGeneration = errors.New("generation failed")

	// ErrPersistence indicates an index or registry read/write failure.
	// Fatal for the request, not for the process.
	ErrPersistence = errors.New("persistence failure")

	// ErrIndexCorrupt indicates the vector index holds entries that cannot
	// be trusted (dimension mismatch, truncated vectors). Surfaced to the
	// operator; requires a manual rebuild.
	ErrIndexCorrupt = errors.New("vector index corrupt")

	// ErrNoDocumentsIndexed indicates a chat request arrived before any
	// document was ingested. Expected user-facing condition, not a bug.
	ErrNoDocumentsIndexed = errors.New("no documents indexed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorKind is a stable, user-presentable error code.
type ErrorKind string

// Error kinds, one per taxonomy entry plus a catch-all.
const (
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindCorruptDocument   ErrorKind = "corrupt_document"
	KindEmbedding         ErrorKind = "embedding_unavailable"
	KindGeneration        ErrorKind = "generation_unavailable"
	KindPersistence       ErrorKind = "persistence"
	KindIndexCorrupt      ErrorKind = "index_corrupt"
	KindNoDocuments       ErrorKind = "no_documents"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindInternal          ErrorKind = "internal"
)

// KindOf maps any error chain to its stable kind. Unrecognised errors
// map to KindInternal rather than leaking wrapped detail.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrCorruptDocument):
		return KindCorruptDocument
	case errors.Is(err, ErrIndexCorrupt):
		// Checked before ErrPersistence: corruption is the more specific
		// condition and must never be masked.
		return KindIndexCorrupt
	case errors.Is(err, ErrEmbedding):
		return KindEmbedding
	case errors.Is(err, ErrGeneration):
		return KindGeneration
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrNoDocumentsIndexed):
		return KindNoDocuments
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
