package settings

// Backend stores JSON encodable values by key.
type Backend interface {
	// Load decodes the value stored under key into out. It reports false
	// when nothing is stored.
	Load(key string, out any) (bool, error)

	// Save stores value under key. The value must be durable when Save
	// returns.
	Save(key string, value any) error

	// Close releases the backend.
	Close() error
}
