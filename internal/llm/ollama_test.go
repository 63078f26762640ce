package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Model != "mistral" || req.Stream || req.Format != "json" {
			t.Errorf("Unexpected request: %+v", req)
		}
		if req.Options.NumPredict != 200 {
			t.Errorf("Expected num_predict 200, got %d", req.Options.NumPredict)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "mistral",
			Response:        `{"credibility_score": 0.4}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       5,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL + "/", Model: "mistral"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "judge", MaxTokens: 200, JSON: true})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != `{"credibility_score": 0.4}` || resp.TokensUsed != 15 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'mistral' not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "mistral"})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "judge"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected model not found error, got %v", err)
	}
}

func TestOllamaProvider_Defaults(t *testing.T) {
	provider, _ := NewOllamaProvider(Config{})
	if provider.baseURL != defaultOllamaBaseURL {
		t.Errorf("Expected %s, got %s", defaultOllamaBaseURL, provider.baseURL)
	}
	if provider.Model() != defaultOllamaModel {
		t.Errorf("Expected %s, got %s", defaultOllamaModel, provider.Model())
	}
}
