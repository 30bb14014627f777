package driven

// ConfigStore holds settings under dotted keys such as "tagging.threshold".
// Typed getters return the zero value for missing keys and for values that
// do not convert; strings are parsed, so environment overrides read the
// same as file values.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// GetStringSlice splits string values on commas.
	GetStringSlice(key string) []string

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load rereads configuration from storage.
	Load() error

	// Path returns where the configuration lives.
	Path() string
}
