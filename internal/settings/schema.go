package settings

import (
	"errors"
	"fmt"
)

// Keys of the settings document.
const (
	KeyEncryptedAPIKey = "encryptedApiKey"
	KeyProxyConfig     = "proxyConfig"
	KeyTheme           = "theme"
)

// DefaultProxyPort is used when no valid port is stored.
const DefaultProxyPort = 8080

var (
	// ErrInvalid wraps every rejected settings value.
	ErrInvalid = errors.New("invalid setting")
	// ErrUnknownKey is returned by Get and Set for keys outside the schema.
	ErrUnknownKey = errors.New("unknown settings key")
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ParseTheme converts a string into a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return ThemeSystem, fmt.Errorf("%w: theme %q (want light, dark or system)", ErrInvalid, s)
	}
	return t, nil
}

// ProxyConfig holds the optional HTTP proxy used for API calls.
type ProxyConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// DefaultProxyConfig returns a disabled proxy on port 8080.
func DefaultProxyConfig() ProxyConfig {
	return ProxyConfig{Port: DefaultProxyPort}
}

// Validate checks the port range. An enabled proxy without a host is
// allowed; it is simply not used.
func (p ProxyConfig) Validate() error {
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("%w: proxy port %d out of range 1-65535", ErrInvalid, p.Port)
	}
	return nil
}
