package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/aitranslator/internal"
	"codeberg.org/snonux/aitranslator/internal/settings"
	"codeberg.org/snonux/aitranslator/internal/translation"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aitranslator [text]",
		Short: "Japanese/English AI Translator",
		Long: `aitranslator translates text between Japanese and English using an
OpenAI chat model.

Japanese input is translated to English, anything else to Japanese. The API
key is stored encrypted with a key derived from this machine.

Examples:
  aitranslator                        # Launch the GUI (default)
  aitranslator "Hello, world."        # Translate once and print the result
  aitranslator --batch texts.txt      # Translate each paragraph of a file
  echo sk-... | aitranslator --set-api-key`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.aitranslator.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Local flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (paragraphs separated by blank lines)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List chat models available for the stored API key")
	cmd.Flags().BoolVar(&flags.SetAPIKey, "set-api-key", false, "Read an API key from stdin and store it encrypted")

	// Settings storage flags
	cmd.Flags().StringVar(&flags.SettingsPath, "settings", "", "Settings location (default is the user config directory)")
	cmd.Flags().StringVar(&flags.SettingsBackend, "settings-backend", flags.SettingsBackend, "Settings backend: file or sqlite")

	// Translation flags
	cmd.Flags().StringVar(&flags.Model, "model", flags.Model, "Chat model used for translation")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "OpenAI compatible API base URL (default is api.openai.com)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Timeout per translation request, 0 for none")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.path", cmd.Flags().Lookup("settings"))
	viper.BindPFlag("settings.backend", cmd.Flags().Lookup("settings-backend"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("translation.timeout", cmd.Flags().Lookup("timeout"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".aitranslator" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".aitranslator")
	}

	// Environment variables, e.g. AITRANSLATOR_TRANSLATION_MODEL
	viper.SetEnvPrefix("AITRANSLATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// TranslationConfig returns the translation settings from flags, config
// file and environment. The API key is never read from here.
func TranslationConfig() translation.Config {
	config := translation.DefaultConfig()
	if model := viper.GetString("translation.model"); model != "" {
		config.Model = model
	}
	config.BaseURL = viper.GetString("translation.base_url")
	config.Timeout = viper.GetDuration("translation.timeout")
	return config
}

// SettingsOptions returns where the settings store lives.
func SettingsOptions(logger *slog.Logger) settings.Options {
	return settings.Options{
		Path:    viper.GetString("settings.path"),
		Backend: viper.GetString("settings.backend"),
		Logger:  logger,
	}
}

// NewLogger creates a text logger writing to w at the configured level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
