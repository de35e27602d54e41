// Package migrations carries the schema migration files applied when
// the SQLite store opens.
package migrations

import "embed"

// FS holds the numbered .up.sql files, embedded at build time.
//
//go:embed *.sql
var FS embed.FS
