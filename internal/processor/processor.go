package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"codeberg.org/snonux/aitranslator/internal/batch"
	"codeberg.org/snonux/aitranslator/internal/settings"
	"codeberg.org/snonux/aitranslator/internal/translation"
	"codeberg.org/snonux/aitranslator/internal/vault"
)

// ErrBusy is returned while another translation is in flight.
var ErrBusy = errors.New("translation already in progress")

const busyMessage = "翻訳中です。完了するまでお待ちください。"

// Clipboard is the system clipboard as seen by the processor.
type Clipboard interface {
	Content() string
	SetContent(content string)
}

// Response is the result of a translation request. Exactly one of
// TranslatedText and Error is set.
type Response struct {
	TranslatedText string
	SourceLanguage translation.Language
	TargetLanguage translation.Language
	Error          string
}

// OK reports whether the translation succeeded.
func (r Response) OK() bool {
	return r.Error == ""
}

// Settings is everything the settings dialog edits.
type Settings struct {
	APIKey string
	Proxy  settings.ProxyConfig
	Theme  settings.Theme
}

// Processor handles translation requests and settings for one session
type Processor struct {
	store      *settings.Store
	vault      *vault.Vault
	translator *translation.Translator
	clipboard  Clipboard
	logger     *slog.Logger

	busy atomic.Bool
}

// NewProcessor creates a processor over an opened settings store.
func NewProcessor(store *settings.Store, v *vault.Vault, config translation.Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		store:  store,
		vault:  v,
		logger: logger,
	}
	p.translator = translation.NewTranslator(config, p, store, logger)
	return p
}

// SetClipboard installs the clipboard used by CopyToClipboard and
// ReadClipboard.
func (p *Processor) SetClipboard(c Clipboard) {
	p.clipboard = c
}

// TranslationConfig returns the effective translation settings.
func (p *Processor) TranslationConfig() translation.Config {
	return p.translator.Config()
}

// Busy reports whether a translation is in flight.
func (p *Processor) Busy() bool {
	return p.busy.Load()
}

// Translate translates text. Only one request runs at a time; a call made
// while another is outstanding fails immediately.
func (p *Processor) Translate(ctx context.Context, text string) Response {
	result, err := p.translate(ctx, text)
	if err != nil {
		return errorResponse(err)
	}
	return Response{
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
	}
}

func (p *Processor) translate(ctx context.Context, text string) (*translation.Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		p.logger.Debug("rejecting concurrent translation request")
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	return p.translator.Translate(ctx, text)
}

func errorResponse(err error) Response {
	if errors.Is(err, ErrBusy) {
		return Response{Error: busyMessage}
	}
	var te *translation.Error
	if errors.As(err, &te) {
		return Response{Error: te.Message}
	}
	return Response{Error: fmt.Sprintf("翻訳エラー: %v", err)}
}

// TranslateBatch translates every entry of a batch file in order and
// writes the results to out. Per-entry failures are reported to errOut and
// counted; a missing credential aborts the run.
func (p *Processor) TranslateBatch(ctx context.Context, path string, out, errOut io.Writer) error {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return err
	}

	translated, failed := 0, 0
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := p.translate(ctx, entry.Text)
		if err != nil {
			if translation.IsKind(err, translation.KindConfiguration) {
				return err
			}
			fmt.Fprintf(errOut, "Error translating entry %d (line %d): %v\n", i+1, entry.Line, err)
			failed++
			continue
		}

		fmt.Fprintf(out, "[%d/%d] %s → %s\n", i+1, len(entries), result.SourceLanguage, result.TargetLanguage)
		fmt.Fprintln(out, result.TranslatedText)
		fmt.Fprintln(out)
		translated++
	}

	fmt.Fprintf(errOut, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(errOut, "Total entries: %d\n", len(entries))
	fmt.Fprintf(errOut, "Translated: %d\n", translated)
	if failed > 0 {
		fmt.Fprintf(errOut, "Errors: %d\n", failed)
	}
	fmt.Fprintf(errOut, "=================================\n")

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(entries))
	}
	return nil
}

// Credential returns the decrypted API key, or "" when none is stored or
// the stored one cannot be decrypted on this machine.
func (p *Processor) Credential() string {
	return p.vault.Decrypt(p.store.EncryptedCredential())
}

// HasCredential reports whether a usable API key is configured.
func (p *Processor) HasCredential() bool {
	return p.Credential() != ""
}

// SetCredential encrypts and stores an API key. An empty key clears it.
func (p *Processor) SetCredential(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return p.store.SetEncryptedCredential("")
	}

	ciphertext, err := p.vault.Encrypt(apiKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}
	return p.store.SetEncryptedCredential(ciphertext)
}

// ProxyConfig returns the stored proxy settings.
func (p *Processor) ProxyConfig() settings.ProxyConfig {
	return p.store.Proxy()
}

// SetProxyConfig stores proxy settings.
func (p *Processor) SetProxyConfig(cfg settings.ProxyConfig) error {
	return p.store.SetProxy(cfg)
}

// Theme returns the stored theme preference.
func (p *Processor) Theme() settings.Theme {
	return p.store.Theme()
}

// SetTheme stores the theme preference.
func (p *Processor) SetTheme(t settings.Theme) error {
	return p.store.SetTheme(t)
}

// LoadSettings returns the current settings with the API key decrypted.
func (p *Processor) LoadSettings() Settings {
	return Settings{
		APIKey: p.Credential(),
		Proxy:  p.store.Proxy(),
		Theme:  p.store.Theme(),
	}
}

// SaveSettings validates s and writes each field. Nothing is written when
// validation fails.
func (p *Processor) SaveSettings(s Settings) error {
	if err := s.Proxy.Validate(); err != nil {
		return err
	}
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: theme %q", settings.ErrInvalid, s.Theme)
	}

	if err := p.SetCredential(s.APIKey); err != nil {
		return err
	}
	if err := p.store.SetProxy(s.Proxy); err != nil {
		return err
	}
	if err := p.store.SetTheme(s.Theme); err != nil {
		return err
	}

	p.logger.Info("settings saved", "proxy", s.Proxy.Enabled, "theme", s.Theme)
	return nil
}

// CopyToClipboard puts text on the clipboard.
func (p *Processor) CopyToClipboard(text string) {
	if p.clipboard == nil {
		return
	}
	p.clipboard.SetContent(text)
}

// ReadClipboard returns the clipboard text, or "" without a clipboard.
func (p *Processor) ReadClipboard() string {
	if p.clipboard == nil {
		return ""
	}
	return p.clipboard.Content()
}
