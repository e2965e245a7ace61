package translation

import (
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/aitranslator/internal/settings"
)

// ProxyURL builds the proxy URL for cfg. It reports false when the proxy is
// disabled or has no host. Credentials are percent-encoded and left out
// entirely when no username is set.
func ProxyURL(cfg settings.ProxyConfig) (*url.URL, bool) {
	if !cfg.Enabled || cfg.Host == "" {
		return nil, false
	}

	port := cfg.Port
	if port < 1 || port > 65535 {
		port = settings.DefaultProxyPort
	}

	u := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
	}
	switch {
	case cfg.Username != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	case cfg.Username != "":
		u.User = url.User(cfg.Username)
	}
	return u, true
}

// HTTPClient returns a client that goes through the configured proxy, or
// directly to the API when there is none. Environment proxy variables are
// not consulted.
func HTTPClient(cfg settings.ProxyConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if u, ok := ProxyURL(cfg); ok {
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Transport: transport}
}

// NewClient creates an OpenAI client for apiKey. An empty baseURL keeps the
// library default.
func NewClient(apiKey, baseURL string, proxy settings.ProxyConfig) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = HTTPClient(proxy)
	return openai.NewClientWithConfig(config)
}
