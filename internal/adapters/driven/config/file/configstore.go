package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps configuration in a TOML file, exposed through
// dot-notation keys. Set persists immediately so the CLI never holds
// unsaved state.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens the config file under configDir, creating the
// directory on first use. An empty configDir means ~/.askdoc.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".askdoc")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, "config.toml"),
		values: map[string]any{},
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value stored under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string under key, or "".
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns the integer under key, or 0. TOML decodes integers
// as int64.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// GetFloat64 returns the float under key, or 0. Whole numbers decode
// as int64 and are widened.
func (s *ConfigStore) GetFloat64(key string) float64 {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// GetBool returns the boolean under key, or false.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Set stores value under key and writes the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Save writes the in-memory configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// flush writes the TOML file. Caller holds the write lock. The file
// may carry API keys, hence 0600.
func (s *ConfigStore) flush() error {
	raw, err := toml.Marshal(s.values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}

// Load replaces the in-memory state with the file contents. A missing
// file loads as an empty configuration.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.values = map[string]any{}
		return nil
	}
	if err != nil {
		return err
	}

	var parsed map[string]any
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return err
	}

	s.values = map[string]any{}
	flatten(s.values, "", parsed)
	return nil
}

// flatten rewrites nested TOML tables as dot-notation keys, so the
// sas_url under [sync.azure_blob] becomes "sync.azure_blob.sas_url".
func flatten(dst map[string]any, prefix string, src map[string]any) {
	for key, value := range src {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flatten(dst, key, table)
			continue
		}
		dst[key] = value
	}
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}
