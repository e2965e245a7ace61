package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	BatchFile  string
	ListModels bool
	SetAPIKey  bool
	LogLevel   string

	// Settings storage flags
	SettingsPath    string
	SettingsBackend string

	// Translation flags
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:        "info",
		SettingsBackend: "file",
		Model:           "gpt-4o-mini",
	}
}
