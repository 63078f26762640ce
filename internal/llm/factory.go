package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates the configured provider. It returns nil, nil when
// no provider is configured, which disables AI judgment.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case ProviderOpenAI:
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case ProviderGemini, "google":
		p, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case ProviderAnthropic, "claude":
		p, err := NewAnthropicProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case ProviderOllama:
		return NewOllamaProvider(config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, gemini, anthropic, ollama)", config.Provider)
	}
}
