package domain

// Answer is the result of a retrieval-augmented chat request.
// It is ephemeral and never persisted.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the distinct document IDs the answer was grounded on,
	// ordered by descending retrieval similarity.
	Sources []string

	// RetrievedChunkIDs lists the chunk IDs fed into the generation
	// context, in the order they were assembled.
	RetrievedChunkIDs []string
}

// IndexStatus summarises the state of the pipeline for status reporting.
type IndexStatus struct {
	// DocumentsIndexed is the number of registered documents.
	DocumentsIndexed int

	// TotalChunks is the number of entries in the vector index.
	TotalChunks int

	// IndexHealthy reports whether the index answered a probe query.
	IndexHealthy bool
}
