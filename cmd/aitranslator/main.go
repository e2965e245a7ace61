package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/aitranslator/internal/cli"
	"codeberg.org/snonux/aitranslator/internal/gui"
	"codeberg.org/snonux/aitranslator/internal/models"
	"codeberg.org/snonux/aitranslator/internal/processor"
	"codeberg.org/snonux/aitranslator/internal/settings"
	"codeberg.org/snonux/aitranslator/internal/vault"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)
	rootCmd.SilenceUsage = true

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	// In GUI mode the log window shows the same records as stderr
	var logs *gui.LogBuffer
	var logOutput io.Writer = os.Stderr
	guiMode := len(args) == 0 && flags.BatchFile == "" && !flags.ListModels && !flags.SetAPIKey
	if guiMode {
		logs = gui.NewLogBuffer(1000)
		logOutput = io.MultiWriter(os.Stderr, logs)
	}
	logger := cli.NewLogger(logOutput)
	slog.SetDefault(logger)

	store, err := settings.Open(cli.SettingsOptions(logger))
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	defer store.Close()

	proc := processor.NewProcessor(store, vault.New(nil, vault.WithLogger(logger)), cli.TranslationConfig(), logger)

	switch {
	case flags.SetAPIKey:
		return setAPIKey(proc, cmd.InOrStdin())

	case flags.ListModels:
		config := proc.TranslationConfig()
		lister := models.NewLister(proc.Credential(), config.BaseURL, proc.ProxyConfig())
		return lister.ListAvailableModels(ctx, cmd.OutOrStdout(), config.Model)

	case flags.BatchFile != "":
		return proc.TranslateBatch(ctx, flags.BatchFile, cmd.OutOrStdout(), cmd.ErrOrStderr())

	case len(args) > 0:
		resp := proc.Translate(ctx, args[0])
		if !resp.OK() {
			fmt.Fprintln(cmd.ErrOrStderr(), resp.Error)
			return errors.New("translation failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.TranslatedText)
		return nil
	}

	// No input provided - launch GUI mode by default
	app := gui.New(proc, &gui.Config{Logs: logs, Logger: logger})
	app.Run()
	return nil
}

// setAPIKey stores the first line of r as the API key. An empty line
// removes the stored key.
func setAPIKey(proc *processor.Processor, r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	key := strings.TrimSpace(line)
	if err := proc.SetCredential(key); err != nil {
		return err
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "API key removed")
	} else {
		fmt.Fprintln(os.Stderr, "API key stored")
	}
	return nil
}
