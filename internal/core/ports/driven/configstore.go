package driven

// ConfigStore persists application configuration as flat key-value
// pairs. Keys use dot notation ("llm.provider"); how they are laid out
// on disk is up to the implementation.
type ConfigStore interface {
	// Get returns the raw value for a key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns the value for a key, or "" when the key is
	// missing or holds a non-string.
	GetString(key string) string

	// GetInt returns the value for a key, or 0 when the key is missing
	// or holds a non-integer.
	GetInt(key string) int

	// GetBool returns the value for a key, or false when the key is
	// missing or holds a non-boolean.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current state to storage.
	Save() error

	// Load replaces the current state with what storage holds.
	Load() error

	// Path identifies the backing file for user-facing messages.
	Path() string
}
