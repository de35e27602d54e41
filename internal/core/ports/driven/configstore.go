package driven

// ConfigStore reads and persists application configuration. Keys use
// dot notation (e.g. "provider.embedding"); implementations own the
// storage format and type conversion.
type ConfigStore interface {
	// Get returns the raw value for a key and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns the value for a key, or "" when the key is
	// missing or not a string.
	GetString(key string) string

	// GetInt returns the value for a key, or 0 when the key is missing
	// or not an integer.
	GetInt(key string) int

	// GetFloat64 returns the value for a key, or 0 when the key is
	// missing or not numeric.
	GetFloat64(key string) float64

	// GetBool returns the value for a key, or false when the key is
	// missing or not a boolean.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current configuration to storage.
	Save() error

	// Load reads the configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
