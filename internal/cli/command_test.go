package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/aitranslator/internal/settings"
)

// resetViper restores the global viper instance when the test ends.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "aitranslator [text]" {
		t.Errorf("Expected Use to be 'aitranslator [text]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Japanese/English") {
		t.Errorf("Expected Short description to mention Japanese/English")
	}

	if cmd.Version == "" {
		t.Error("Expected a version")
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"log-level", true},
		{"batch", false},
		{"list-models", false},
		{"set-api-key", false},
		{"settings", false},
		{"settings-backend", false},
		{"model", false},
		{"base-url", false},
		{"timeout", false},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestCreateRootCommand_MaxOneArg(t *testing.T) {
	resetViper(t)
	cmd := CreateRootCommand(NewFlags())
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"one", "two"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for two positional arguments")
	}
}

func TestSetupFlags(t *testing.T) {
	resetViper(t)
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	defaults := map[string]string{
		"model":            "gpt-4o-mini",
		"settings-backend": "file",
		"timeout":          "0s",
		"base-url":         "",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %q, got %q", name, want, flag.DefValue)
		}
	}
}

func TestInitConfig(t *testing.T) {
	resetViper(t)

	cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
	content := `translation:
  model: gpt-4o
  base_url: http://localhost:1234/v1
  timeout: 30s
settings:
  backend: sqlite
log:
  level: debug`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	InitConfig(cfgPath)

	config := TranslationConfig()
	if config.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", config.Model)
	}
	if config.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("BaseURL = %q", config.BaseURL)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", config.Timeout)
	}
	if config.MaxInputLength != 3000 || config.MaxTokens != 2000 {
		t.Errorf("fixed limits changed: %+v", config)
	}

	opts := SettingsOptions(nil)
	if opts.Backend != settings.BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", opts.Backend)
	}
}

func TestInitConfig_Environment(t *testing.T) {
	resetViper(t)
	t.Setenv("AITRANSLATOR_TRANSLATION_MODEL", "gpt-4.1-mini")
	t.Setenv("AITRANSLATOR_TEST_VAR", "test-value")

	InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	if viper.GetString("test_var") != "test-value" {
		t.Error("Environment variable not properly loaded")
	}
	if got := TranslationConfig().Model; got != "gpt-4.1-mini" {
		t.Errorf("Model = %q, want value from environment", got)
	}
}

func TestTranslationConfig_Defaults(t *testing.T) {
	resetViper(t)

	config := TranslationConfig()
	if config.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", config.Model)
	}
	if config.BaseURL != "" || config.Timeout != 0 {
		t.Errorf("unexpected config: %+v", config)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("model", "gpt-4o")
	cmd.Flags().Set("settings", "/tmp/settings.db")
	cmd.Flags().Set("timeout", "10s")
	cmd.PersistentFlags().Set("log-level", "warn")

	// Test that values are bound
	if viper.GetString("translation.model") != "gpt-4o" {
		t.Errorf("Expected translation.model to be gpt-4o, got %s", viper.GetString("translation.model"))
	}

	if viper.GetString("settings.path") != "/tmp/settings.db" {
		t.Errorf("Expected settings.path to be /tmp/settings.db, got %s", viper.GetString("settings.path"))
	}

	if viper.GetDuration("translation.timeout") != 10*time.Second {
		t.Errorf("Expected translation.timeout to be 10s, got %v", viper.GetDuration("translation.timeout"))
	}

	if viper.GetString("log.level") != "warn" {
		t.Errorf("Expected log.level to be warn, got %s", viper.GetString("log.level"))
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			resetViper(t)
			viper.Set("log.level", tt.level)

			var buf bytes.Buffer
			logger := NewLogger(&buf)

			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}
