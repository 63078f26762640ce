package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// OpenAIProvider talks to the Chat Completions API. Gemini is served
// through its OpenAI-compatible endpoint with the same client.
type OpenAIProvider struct {
	client     *openai.Client
	name       string
	model      string
	jsonFormat bool
}

// NewOpenAIProvider creates an OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientConfig(config, "")),
		name:       ProviderOpenAI,
		model:      model,
		jsonFormat: true,
	}, nil
}

// NewGeminiProvider creates a Gemini provider using the OpenAI-compatible API
func NewGeminiProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig(config, defaultGeminiBaseURL)),
		name:   ProviderGemini,
		model:  model,
	}, nil
}

func clientConfig(config Config, defaultBaseURL string) openai.ClientConfig {
	cc := openai.DefaultConfig(config.APIKey)
	switch {
	case config.BaseURL != "":
		cc.BaseURL = config.BaseURL
	case defaultBaseURL != "":
		cc.BaseURL = defaultBaseURL
	}
	if config.HTTPClient != nil {
		cc.HTTPClient = config.HTTPClient
	}
	return cc
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Model returns the default model
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Complete sends one chat completion
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: 0.2,
	}
	if req.JSON && p.jsonFormat {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}

	return &CompletionResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
