package driven

// ConfigStore holds the persisted wikisearch settings as dotted keys:
// embedding.provider, embedding.model, embedding.base_url,
// embedding.api_key, embedding.dimensions, embedding.batch_size,
// embedding.requests_per_minute, index.backend, index.host, index.api_key,
// index.collection, index.timeout_seconds and corpus.data_dir.
// Environment overrides are applied by the settings service, not here.
type ConfigStore interface {
	// Get returns the raw value stored under key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns a string setting such as embedding.provider or
	// index.host, or "" when unset.
	GetString(key string) string

	// GetInt returns a numeric setting such as embedding.dimensions or
	// index.timeout_seconds, or 0 when unset.
	GetInt(key string) int

	// GetBool returns a boolean setting, or false when unset.
	GetBool(key string) bool

	// GetStringSlice returns a list setting, or nil when unset.
	GetStringSlice(key string) []string

	// Set stores one setting and writes the file.
	Set(key string, value any) error

	// Save writes every setting to the file.
	Save() error

	// Load rereads the file, replacing values held in memory.
	Load() error

	// Path returns the location of config.toml.
	Path() string
}
