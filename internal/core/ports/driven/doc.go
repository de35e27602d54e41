// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: converts raw document bytes into plain text
//   - EmbeddingService: generates vector embeddings
//   - GenerationService: produces grounded answers from prompts
//   - VectorIndex: persists embeddings and answers nearest-neighbour queries
//   - DocumentRegistry: tracks which documents have been ingested
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
//   - BlobStore: remote document storage used by sync; without it only
//     direct uploads are available
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
