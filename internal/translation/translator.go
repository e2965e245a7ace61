package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/aitranslator/internal/settings"
)

// Defaults for Config.
const (
	DefaultModel          = openai.GPT4oMini
	DefaultMaxInputLength = 3000
	DefaultMaxTokens      = 2000
	DefaultTemperature    = 0.3
)

// Config controls the completion request.
type Config struct {
	Model          string
	BaseURL        string        // empty means api.openai.com
	Timeout        time.Duration // zero means no timeout beyond the HTTP client's
	MaxInputLength int           // UTF-16 code units
	MaxTokens      int
	Temperature    float32
}

// DefaultConfig returns the settings used by the app.
func DefaultConfig() Config {
	return Config{
		Model:          DefaultModel,
		MaxInputLength: DefaultMaxInputLength,
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
	}
}

// CredentialSource returns the decrypted API key, or "" when none is set.
type CredentialSource interface {
	Credential() string
}

// ProxySource returns the current proxy configuration.
type ProxySource interface {
	Proxy() settings.ProxyConfig
}

// Result is a successful translation.
type Result struct {
	TranslatedText string
	SourceLanguage Language
	TargetLanguage Language
}

// Translator sends one completion request per Translate call. It keeps no
// state between calls; credential and proxy are read fresh every time.
type Translator struct {
	config Config
	creds  CredentialSource
	proxy  ProxySource
	logger *slog.Logger
}

// NewTranslator creates a translator. Zero fields of config get defaults.
func NewTranslator(config Config, creds CredentialSource, proxy ProxySource, logger *slog.Logger) *Translator {
	defaults := DefaultConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.MaxInputLength <= 0 {
		config.MaxInputLength = defaults.MaxInputLength
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.Temperature <= 0 {
		config.Temperature = defaults.Temperature
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Translator{
		config: config,
		creds:  creds,
		proxy:  proxy,
		logger: logger,
	}
}

// Config returns the effective configuration.
func (t *Translator) Config() Config {
	return t.config
}

// Translate translates text into the other language. Every failure is
// returned as *Error.
func (t *Translator) Translate(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &Error{
			Kind:    KindValidation,
			Message: "翻訳するテキストを入力してください。",
			Err:     ErrEmptyText,
		}
	}

	apiKey := t.creds.Credential()
	if apiKey == "" {
		return nil, &Error{
			Kind:    KindConfiguration,
			Message: "APIキーが設定されていません。設定画面でAPIキーを設定してください。",
			Err:     ErrNoCredential,
		}
	}

	if n := TextLength(text); n > t.config.MaxInputLength {
		return nil, &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("翻訳できるテキストは%d文字までです。", t.config.MaxInputLength),
			Err:     fmt.Errorf("%w: %d > %d", ErrTextTooLong, n, t.config.MaxInputLength),
		}
	}

	dir := Detect(text)
	t.logger.Info("translating",
		"source", dir.Source, "target", dir.Target, "length", TextLength(text), "model", t.config.Model)

	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	client := NewClient(apiKey, t.config.BaseURL, t.proxy.Proxy())
	resp, err := client.CreateChatCompletion(ctx, t.request(text, dir))
	if err != nil {
		t.logger.Error("translation request failed", "error", err)
		return nil, providerError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, providerError(ErrEmptyReply)
	}
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return nil, providerError(ErrEmptyReply)
	}

	return &Result{
		TranslatedText: translated,
		SourceLanguage: dir.Source,
		TargetLanguage: dir.Target,
	}, nil
}

func (t *Translator) request(text string, dir Direction) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: t.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt(dir.Target),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: t.config.Temperature,
		MaxTokens:   t.config.MaxTokens,
	}
}

// SystemPrompt is the instruction sent ahead of the user text.
func SystemPrompt(target Language) string {
	return fmt.Sprintf(`あなたは高性能な翻訳AIです。与えられたテキストを%[1]sに翻訳してください。
- 元の文脈や意味を保ちながら、自然な%[1]sに翻訳してください。
- 専門用語や固有名詞は適切に処理してください。
- 翻訳結果のみを返してください。説明は不要です。`, target)
}

func providerError(err error) *Error {
	return &Error{
		Kind:    KindProvider,
		Message: fmt.Sprintf("翻訳エラー: %v", err),
		Err:     err,
	}
}
