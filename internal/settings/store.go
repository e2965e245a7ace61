package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Backend kinds accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects where settings live.
type Options struct {
	// Path of the settings file. Empty means DefaultPath(Backend).
	Path string
	// Backend is BackendFile or BackendSQLite. Empty means BackendFile.
	Backend string
	Logger  *slog.Logger
}

// Store is the typed view over a Backend. It is safe for use by a single
// process; each setter is durable before it returns.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// DefaultPath returns the per-user settings location for a backend kind.
func DefaultPath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}

	name := "config.json"
	if backend == BackendSQLite {
		name = "settings.db"
	}
	return filepath.Join(dir, "aitranslator", name)
}

// Open creates the store. Call Close when done.
func Open(opts Options) (*Store, error) {
	if opts.Backend == "" {
		opts.Backend = BackendFile
	}
	if opts.Path == "" {
		opts.Path = DefaultPath(opts.Backend)
	}

	var (
		backend Backend
		err     error
	)
	switch opts.Backend {
	case BackendFile:
		backend, err = OpenFile(opts.Path)
	case BackendSQLite:
		backend, err = OpenSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("unknown settings backend %q (want file or sqlite)", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	return New(backend, opts.Logger), nil
}

// New wraps an already opened backend.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Get returns the value stored under one of the schema keys, with defaults
// applied.
func (s *Store) Get(key string) (any, error) {
	switch key {
	case KeyEncryptedAPIKey:
		return s.EncryptedCredential(), nil
	case KeyProxyConfig:
		return s.Proxy(), nil
	case KeyTheme:
		return s.Theme(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set stores value under one of the schema keys after checking its type.
func (s *Store) Set(key string, value any) error {
	switch key {
	case KeyEncryptedAPIKey:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalid, key, value)
		}
		return s.SetEncryptedCredential(v)
	case KeyProxyConfig:
		v, ok := value.(ProxyConfig)
		if !ok {
			return fmt.Errorf("%w: %s must be a ProxyConfig, got %T", ErrInvalid, key, value)
		}
		return s.SetProxy(v)
	case KeyTheme:
		switch v := value.(type) {
		case Theme:
			return s.SetTheme(v)
		case string:
			return s.SetTheme(Theme(v))
		}
		return fmt.Errorf("%w: %s must be a theme, got %T", ErrInvalid, key, value)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// EncryptedCredential returns the stored credential ciphertext or "".
func (s *Store) EncryptedCredential() string {
	var v string
	if _, err := s.backend.Load(KeyEncryptedAPIKey, &v); err != nil {
		s.logger.Warn("ignoring unreadable setting", "key", KeyEncryptedAPIKey, "error", err)
		return ""
	}
	return v
}

// SetEncryptedCredential stores the credential ciphertext.
func (s *Store) SetEncryptedCredential(ciphertext string) error {
	return s.backend.Save(KeyEncryptedAPIKey, ciphertext)
}

// Proxy returns the proxy configuration. Fields missing from storage keep
// their defaults; an out of range port becomes DefaultProxyPort.
func (s *Store) Proxy() ProxyConfig {
	cfg := DefaultProxyConfig()
	if _, err := s.backend.Load(KeyProxyConfig, &cfg); err != nil {
		s.logger.Warn("ignoring unreadable setting", "key", KeyProxyConfig, "error", err)
		return DefaultProxyConfig()
	}
	if cfg.Validate() != nil {
		s.logger.Warn("stored proxy port out of range, using default",
			"port", cfg.Port, "default", DefaultProxyPort)
		cfg.Port = DefaultProxyPort
	}
	return cfg
}

// SetProxy validates and stores the proxy configuration.
func (s *Store) SetProxy(cfg ProxyConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.backend.Save(KeyProxyConfig, cfg)
}

// Theme returns the theme preference, ThemeSystem when unset or invalid.
func (s *Store) Theme() Theme {
	var v string
	found, err := s.backend.Load(KeyTheme, &v)
	if err != nil {
		s.logger.Warn("ignoring unreadable setting", "key", KeyTheme, "error", err)
		return ThemeSystem
	}
	if !found {
		return ThemeSystem
	}

	t := Theme(v)
	if !t.Valid() {
		s.logger.Warn("unknown theme in settings, using system", "theme", v)
		return ThemeSystem
	}
	return t
}

// SetTheme validates and stores the theme.
func (s *Store) SetTheme(t Theme) error {
	if !t.Valid() {
		_, err := ParseTheme(string(t))
		return err
	}
	return s.backend.Save(KeyTheme, string(t))
}
