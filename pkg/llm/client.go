// Package llm provides a provider-agnostic chat client for the evaluation
// pipeline. Provider configurations are stored rows; the factory maps them
// to concrete SDK-backed implementations.
package llm

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
)

// Client defines the chat operation the pipeline stages use.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Message is a single conversational message.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatRequest is our own request type for Chat.
type ChatRequest struct {
	System      string
	Messages    []Message
	Temperature *float64
	MaxTokens   int64
}

// ChatResponse carries the concatenated text output of a completion.
type ChatResponse struct {
	Text  string
	Model string
	Usage TokenUsage
}

// TokenUsage tracks token consumption for one call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// Config selects and parameterizes a provider implementation. Settings
// values come through as strings from the model_configs store rows.
type Config struct {
	Provider string
	Model    string
	APIKey   string

	// MaxTokens is the default completion budget when a request does not
	// set its own. Zero means the provider default.
	MaxTokens int64

	// RequestsPerMinute throttles outbound calls when > 0.
	RequestsPerMinute int
}

// SettingInt reads an integer setting with a fallback.
func SettingInt(settings map[string]string, key string, fallback int) int {
	raw, ok := settings[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// New builds a Client for the configured provider. The returned client is
// safe for concurrent use; when RequestsPerMinute is set it is wrapped in
// a shared rate limiter so worker pools cannot exceed the provider budget.
func New(cfg Config) (Client, error) {
	var client Client
	switch cfg.Provider {
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, eris.New("llm: anthropic provider requires an api key")
		}
		client = newAnthropicClient(cfg)
	default:
		return nil, eris.Errorf("llm: unsupported provider %q", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		client = Throttled(client, cfg.RequestsPerMinute)
	}
	return client, nil
}
