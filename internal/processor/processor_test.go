package processor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/aitranslator/internal/machine"
	"codeberg.org/snonux/aitranslator/internal/settings"
	"codeberg.org/snonux/aitranslator/internal/testutil"
	"codeberg.org/snonux/aitranslator/internal/translation"
	"codeberg.org/snonux/aitranslator/internal/vault"
)

func testVault() *vault.Vault {
	return vault.New(func() machine.Secret {
		return machine.FromIdentity("test-host-linux-x64-Test CPU")
	}, vault.WithLogger(testutil.DiscardLogger()))
}

func newTestProcessor(t *testing.T, server *testutil.ChatServer) *Processor {
	t.Helper()
	return newTestProcessorAt(t, server, filepath.Join(t.TempDir(), "config.json"))
}

func newTestProcessorAt(t *testing.T, server *testutil.ChatServer, path string) *Processor {
	t.Helper()

	store, err := settings.Open(settings.Options{
		Path:   path,
		Logger: testutil.DiscardLogger(),
	})
	if err != nil {
		t.Fatalf("Failed to open settings: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	config := translation.DefaultConfig()
	if server != nil {
		config.BaseURL = server.BaseURL()
	}
	return NewProcessor(store, testVault(), config, testutil.DiscardLogger())
}

func TestTranslate(t *testing.T) {
	server := testutil.NewChatServer(t, "こんにちは、世界。")
	p := newTestProcessor(t, server)
	if err := p.SetCredential("sk-test"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	resp := p.Translate(context.Background(), "Hello, world.")
	if !resp.OK() {
		t.Fatalf("unexpected error: %s", resp.Error)
	}

	want := Response{
		TranslatedText: "こんにちは、世界。",
		SourceLanguage: translation.English,
		TargetLanguage: translation.Japanese,
	}
	if resp != want {
		t.Errorf("Translate() = %+v, want %+v", resp, want)
	}

	keys := server.APIKeys()
	if len(keys) != 1 || keys[0] != "sk-test" {
		t.Errorf("API key sent = %v, want decrypted key", keys)
	}
}

func TestTranslate_ErrorsBecomeResponses(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		text    string
		status  int
		wantMsg string
	}{
		{
			name:    "no credential",
			text:    "Hello",
			wantMsg: "APIキーが設定されていません。設定画面でAPIキーを設定してください。",
		},
		{
			name:    "empty text",
			key:     "sk-test",
			text:    "   ",
			wantMsg: "翻訳するテキストを入力してください。",
		},
		{
			name:    "too long",
			key:     "sk-test",
			text:    strings.Repeat("x", 3001),
			wantMsg: "翻訳できるテキストは3000文字までです。",
		},
		{
			name:    "provider failure",
			key:     "sk-test",
			text:    "Hello",
			status:  http.StatusInternalServerError,
			wantMsg: "翻訳エラー: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewChatServer(t, "unused")
			if tt.status != 0 {
				server.FailWith(tt.status)
			}
			p := newTestProcessor(t, server)
			if err := p.SetCredential(tt.key); err != nil {
				t.Fatalf("SetCredential() error = %v", err)
			}

			resp := p.Translate(context.Background(), tt.text)
			if resp.OK() {
				t.Fatalf("expected an error response, got %+v", resp)
			}
			if !strings.HasPrefix(resp.Error, tt.wantMsg) {
				t.Errorf("Error = %q, want prefix %q", resp.Error, tt.wantMsg)
			}
			if resp.TranslatedText != "" {
				t.Errorf("TranslatedText should be empty, got %q", resp.TranslatedText)
			}
		})
	}
}

func TestTranslate_SingleFlight(t *testing.T) {
	server := testutil.NewChatServer(t, "done")
	release := server.Block()
	defer release()

	p := newTestProcessor(t, server)
	if err := p.SetCredential("sk-test"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	first := make(chan Response, 1)
	go func() {
		first <- p.Translate(context.Background(), "first")
	}()

	deadline := time.Now().Add(5 * time.Second)
	for len(server.Requests()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first request never reached the server")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !p.Busy() {
		t.Fatal("processor should be busy while a request is in flight")
	}

	second := p.Translate(context.Background(), "second")
	if second.Error != busyMessage {
		t.Errorf("second call Error = %q, want busy message", second.Error)
	}

	release()
	resp := <-first
	if !resp.OK() || resp.TranslatedText != "done" {
		t.Errorf("first call = %+v", resp)
	}
	if n := len(server.Requests()); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
	if p.Busy() {
		t.Error("processor should be idle after completion")
	}

	if resp := p.Translate(context.Background(), "third"); !resp.OK() {
		t.Errorf("third call after completion failed: %s", resp.Error)
	}
}

func TestCredential(t *testing.T) {
	p := newTestProcessor(t, nil)

	if p.HasCredential() {
		t.Error("fresh settings should have no credential")
	}

	if err := p.SetCredential("  sk-secret\n"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	if got := p.Credential(); got != "sk-secret" {
		t.Errorf("Credential() = %q, want trimmed key", got)
	}
	if stored := p.store.EncryptedCredential(); stored == "" || strings.Contains(stored, "sk-secret") {
		t.Errorf("stored value should be ciphertext, got %q", stored)
	}

	if err := p.SetCredential(""); err != nil {
		t.Fatalf("SetCredential(\"\") error = %v", err)
	}
	if p.HasCredential() {
		t.Error("credential should be cleared")
	}
}

func TestCredential_ForeignCiphertext(t *testing.T) {
	p := newTestProcessor(t, nil)

	other := vault.New(func() machine.Secret { return machine.FromIdentity("other-machine") })
	ciphertext, err := other.Encrypt("sk-elsewhere")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if err := p.store.SetEncryptedCredential(ciphertext); err != nil {
		t.Fatalf("SetEncryptedCredential() error = %v", err)
	}

	if got := p.Credential(); got != "" {
		t.Errorf("Credential() = %q, want empty for a key from another machine", got)
	}
	resp := p.Translate(context.Background(), "Hello")
	if !strings.Contains(resp.Error, "APIキーが設定されていません") {
		t.Errorf("expected configuration error, got %q", resp.Error)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	p := newTestProcessor(t, nil)

	initial := p.LoadSettings()
	if initial.APIKey != "" || initial.Theme != settings.ThemeSystem || initial.Proxy != settings.DefaultProxyConfig() {
		t.Errorf("unexpected defaults: %+v", initial)
	}

	want := Settings{
		APIKey: "sk-test",
		Proxy: settings.ProxyConfig{
			Enabled:  true,
			Host:     "proxy.example.com",
			Port:     3128,
			Username: "alice",
			Password: "pw",
		},
		Theme: settings.ThemeDark,
	}
	if err := p.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if got := p.LoadSettings(); got != want {
		t.Errorf("LoadSettings() = %+v, want %+v", got, want)
	}
	if p.ProxyConfig() != want.Proxy || p.Theme() != settings.ThemeDark {
		t.Error("individual accessors disagree with LoadSettings")
	}
}

func TestSaveSettings_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aitranslator", "config.json")
	p := newTestProcessorAt(t, nil, path)

	err := p.SaveSettings(Settings{
		APIKey: "sk-on-disk",
		Proxy:  settings.ProxyConfig{Enabled: true, Host: "proxy.example.com", Port: 3128},
		Theme:  settings.ThemeLight,
	})
	if err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	testutil.AssertFileExists(t, path)
	testutil.AssertFileContains(t, path, `"encryptedApiKey"`)
	testutil.AssertFileContains(t, path, `"proxyConfig"`)
	testutil.AssertFileContains(t, path, `"proxy.example.com"`)
	testutil.AssertFileContains(t, path, `"theme"`)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read settings: %v", err)
	}
	if strings.Contains(string(content), "sk-on-disk") {
		t.Error("API key stored in plain text")
	}
}

func TestSaveSettings_InvalidWritesNothing(t *testing.T) {
	p := newTestProcessor(t, nil)

	tests := []Settings{
		{APIKey: "sk-new", Proxy: settings.ProxyConfig{Port: 70000}, Theme: settings.ThemeLight},
		{APIKey: "sk-new", Proxy: settings.DefaultProxyConfig(), Theme: "sepia"},
	}
	for _, s := range tests {
		err := p.SaveSettings(s)
		if !errors.Is(err, settings.ErrInvalid) {
			t.Errorf("SaveSettings(%+v) error = %v, want ErrInvalid", s, err)
		}
		if p.HasCredential() {
			t.Error("credential written despite validation failure")
		}
	}
}

func TestThemeAndProxySetters(t *testing.T) {
	p := newTestProcessor(t, nil)

	if err := p.SetTheme(settings.ThemeLight); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	if p.Theme() != settings.ThemeLight {
		t.Errorf("Theme() = %q", p.Theme())
	}
	if err := p.SetTheme("neon"); err == nil {
		t.Error("expected error for invalid theme")
	}

	cfg := settings.ProxyConfig{Enabled: true, Port: 8080}
	if err := p.SetProxyConfig(cfg); err != nil {
		t.Fatalf("SetProxyConfig() error = %v", err)
	}
	if p.ProxyConfig() != cfg {
		t.Errorf("ProxyConfig() = %+v", p.ProxyConfig())
	}
}

func TestClipboard(t *testing.T) {
	p := newTestProcessor(t, nil)

	if got := p.ReadClipboard(); got != "" {
		t.Errorf("ReadClipboard() without clipboard = %q", got)
	}
	p.CopyToClipboard("ignored")

	clip := &testutil.MemoryClipboard{}
	p.SetClipboard(clip)
	p.CopyToClipboard("翻訳結果")
	if got := p.ReadClipboard(); got != "翻訳結果" {
		t.Errorf("ReadClipboard() = %q", got)
	}
	if clip.Content() != "翻訳結果" {
		t.Error("clipboard not updated")
	}
}

func TestTranslateBatch(t *testing.T) {
	server := testutil.NewChatServer(t, "translated")
	p := newTestProcessor(t, server)
	if err := p.SetCredential("sk-test"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "batch.txt")
	testutil.CreateTestFile(t, path, []byte("Hello\n\n# skip\nこんにちは\n"))

	var out, errOut bytes.Buffer
	if err := p.TranslateBatch(context.Background(), path, &out, &errOut); err != nil {
		t.Fatalf("TranslateBatch() error = %v", err)
	}

	reqs := server.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].Messages[1].Content != "Hello" || reqs[1].Messages[1].Content != "こんにちは" {
		t.Errorf("unexpected request texts: %q, %q", reqs[0].Messages[1].Content, reqs[1].Messages[1].Content)
	}

	output := out.String()
	if !strings.Contains(output, "[1/2] 英語 → 日本語\ntranslated\n") {
		t.Errorf("missing first result:\n%s", output)
	}
	if !strings.Contains(output, "[2/2] 日本語 → 英語\ntranslated\n") {
		t.Errorf("missing second result:\n%s", output)
	}
	if !strings.Contains(errOut.String(), "Translated: 2") {
		t.Errorf("missing summary:\n%s", errOut.String())
	}
}

func TestTranslateBatch_Failures(t *testing.T) {
	server := testutil.NewChatServer(t, "unused")
	server.FailWith(http.StatusBadGateway)
	p := newTestProcessor(t, server)
	if err := p.SetCredential("sk-test"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "batch.txt")
	testutil.CreateTestFile(t, path, []byte("one\n\ntwo\n"))

	var out, errOut bytes.Buffer
	err := p.TranslateBatch(context.Background(), path, &out, &errOut)
	if err == nil || !strings.Contains(err.Error(), "2 of 2 entries failed") {
		t.Errorf("TranslateBatch() error = %v", err)
	}
	if !strings.Contains(errOut.String(), "Error translating entry 2 (line 3)") {
		t.Errorf("missing per-entry error:\n%s", errOut.String())
	}
}

func TestTranslateBatch_NoCredentialAborts(t *testing.T) {
	server := testutil.NewChatServer(t, "unused")
	p := newTestProcessor(t, server)

	path := filepath.Join(t.TempDir(), "batch.txt")
	testutil.CreateTestFile(t, path, []byte("one\n\ntwo\n"))

	err := p.TranslateBatch(context.Background(), path, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, translation.ErrNoCredential) {
		t.Errorf("TranslateBatch() error = %v, want ErrNoCredential", err)
	}
	if n := len(server.Requests()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestTranslateBatch_MissingFile(t *testing.T) {
	p := newTestProcessor(t, nil)

	err := p.TranslateBatch(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("TranslateBatch() error = %v, want not-exist", err)
	}
}
