package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/aitranslator/internal/settings"
)

// ChatServer is a fake OpenAI API that answers chat completions with a
// fixed reply and records every request it receives.
type ChatServer struct {
	*httptest.Server

	mu       sync.Mutex
	reply    string
	status   int
	noChoice bool
	models   []string
	requests []openai.ChatCompletionRequest
	apiKeys  []string
	release  chan struct{}
}

// NewChatServer starts a server answering with reply. It is closed when
// the test ends.
func NewChatServer(t *testing.T, reply string) *ChatServer {
	t.Helper()

	s := &ChatServer{
		reply:  reply,
		status: http.StatusOK,
		models: []string{"gpt-4o-mini", "gpt-4o", "tts-1", "dall-e-3"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", s.handleChat)
	mux.HandleFunc("/v1/models", s.handleModels)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

// BaseURL is the value to use as the client's API base.
func (s *ChatServer) BaseURL() string {
	return s.URL + "/v1"
}

// FailWith makes subsequent chat requests fail with status.
func (s *ChatServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// ReplyWithoutChoices makes subsequent responses carry no choices.
func (s *ChatServer) ReplyWithoutChoices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noChoice = true
}

// Block makes chat requests wait until the returned function is called.
func (s *ChatServer) Block() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.release = ch
	s.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Requests returns the chat requests received so far.
func (s *ChatServer) Requests() []openai.ChatCompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), s.requests...)
}

// APIKeys returns the bearer tokens seen so far.
func (s *ChatServer) APIKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.apiKeys...)
}

func (s *ChatServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.apiKeys = append(s.apiKeys, bearer(r))
	status, reply, noChoice, release := s.status, s.reply, s.noChoice, s.release
	s.mu.Unlock()

	if release != nil {
		<-release
	}

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "mock failure",
				"type":    "server_error",
			},
		})
		return
	}

	resp := openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  req.Model,
	}
	if !noChoice {
		resp.Choices = []openai.ChatCompletionChoice{{
			Index: 0,
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: reply,
			},
			FinishReason: openai.FinishReasonStop,
		}}
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *ChatServer) handleModels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.apiKeys = append(s.apiKeys, bearer(r))
	models := s.models
	s.mu.Unlock()

	list := openai.ModelsList{}
	for _, id := range models {
		list.Models = append(list.Models, openai.Model{ID: id, Object: "model"})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) {
		return h[len(prefix):]
	}
	return ""
}

// StaticCredential is a fixed API key.
type StaticCredential string

// Credential returns the key.
func (c StaticCredential) Credential() string {
	return string(c)
}

// StaticProxy is a fixed proxy configuration.
type StaticProxy settings.ProxyConfig

// Proxy returns the configuration.
func (p StaticProxy) Proxy() settings.ProxyConfig {
	return settings.ProxyConfig(p)
}

// MemoryClipboard is an in-process clipboard.
type MemoryClipboard struct {
	mu      sync.Mutex
	content string
}

// Content returns the clipboard text.
func (c *MemoryClipboard) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// SetContent replaces the clipboard text.
func (c *MemoryClipboard) SetContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
}
