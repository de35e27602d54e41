// Package domain defines the core business entities for askdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a registered source document and its metadata
//   - Chunk: a bounded slice of a document's extracted text, the unit of retrieval
//   - Answer: the result of a retrieval-augmented chat request
//   - Format / Origin: document classification
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
