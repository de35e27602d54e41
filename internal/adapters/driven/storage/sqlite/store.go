package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/askdoc-labs/askdoc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Store owns the SQLite connection shared by the vector index and the
// document registry.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database under dataDir. An empty
// dataDir means ~/.askdoc/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdoc", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dataDir, "askdoc.db")
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VectorIndex exposes the chunk table as a driven.VectorIndex.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// DocumentRegistry exposes the documents table as a driven.DocumentRegistry.
func (s *Store) DocumentRegistry() driven.DocumentRegistry {
	return &documentRegistry{store: s}
}

type migration struct {
	version int
	name    string
}

// migrate applies the embedded .up.sql files newer than the recorded
// schema version, in numeric order.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&applied); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	pending, err := pendingMigrations(applied)
	if err != nil {
		return err
	}

	for _, m := range pending {
		script, err := fs.ReadFile(migrations.FS, m.name)
		if err != nil {
			return fmt.Errorf("read %s: %w", m.name, err)
		}
		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record %s: %w", m.name, err)
		}
	}
	return nil
}

// pendingMigrations lists embedded migrations with a numeric prefix
// greater than after, in ascending order.
func pendingMigrations(after int) ([]migration, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var pending []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version > after {
			pending = append(pending, migration{version: version, name: name})
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })
	return pending, nil
}
