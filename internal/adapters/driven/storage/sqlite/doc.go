// Package sqlite provides the SQLite-backed vector index and document
// registry.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. One database
// connection backs both stores:
//
//   - VectorIndex: chunk vectors and their text, brute-force cosine search
//   - DocumentRegistry: ingested document metadata
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.askdoc/data/askdoc.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
