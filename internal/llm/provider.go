// Package llm implements the generative AI credibility judgment.
package llm

import (
	"context"
	"net/http"

	"github.com/ppiankov/newscred/internal/model"
)

// Provider names
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Provider completes a single prompt
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model used when a request does not name one
	Model() string

	// Complete sends prompt and returns the model's text reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest is one prompt for a provider
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
	// JSON asks the provider to constrain the reply to a JSON object where supported
	JSON bool
}

// CompletionResponse is the model's reply
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "gemini", "anthropic", "ollama", "" (disabled)
	Provider string

	// Model name (provider-specific, defaulted per provider)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL overrides the provider endpoint
	BaseURL string

	// Timeout for one judgment call
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// HTTPClient carries proxy and TLS settings; nil uses a default client
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig, client *http.Client) Config {
	return Config{
		Provider:   c.Provider,
		Model:      c.Model,
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Timeout:    c.Timeout,
		MaxTokens:  c.MaxTokens,
		HTTPClient: client,
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}
