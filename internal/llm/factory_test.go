package llm

import "testing"

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"disabled", Config{}, "", false},
		{"none", Config{Provider: "none"}, "", false},
		{"openai", Config{Provider: "openai", APIKey: "k"}, ProviderOpenAI, false},
		{"gemini", Config{Provider: "Gemini", APIKey: "k"}, ProviderGemini, false},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, ProviderAnthropic, false},
		{"ollama", Config{Provider: "ollama"}, ProviderOllama, false},
		{"openai without key", Config{Provider: "openai"}, "", true},
		{"unknown", Config{Provider: "watson"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if tt.wantName == "" {
				if provider != nil {
					t.Errorf("Expected nil provider, got %s", provider.Name())
				}
				return
			}
			if provider == nil || provider.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %v", tt.wantName, provider)
			}
		})
	}
}
