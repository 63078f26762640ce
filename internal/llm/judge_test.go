package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/newscred/internal/model"
)

// fakeProvider replies with canned text per prompt kind
type fakeProvider struct {
	mu       sync.Mutex
	judgment string
	bias     string
	err      error
	biasErr  error
	prompts  []string
	delay    time.Duration
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-1" }

func (f *fakeProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if strings.Contains(req.Prompt, "bias and manipulation") {
		if f.biasErr != nil {
			return nil, f.biasErr
		}
		return &CompletionResponse{Text: f.bias, Model: "fake-1"}, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Text: f.judgment, Model: "fake-1"}, nil
}

func TestJudge_Assess(t *testing.T) {
	provider := &fakeProvider{
		judgment: "```json\n{\"credibility_score\": 0.72, \"key_findings\": [\"attributed quotes\"], \"red_flags\": []}\n```",
		bias:     `Here you go: {"bias_score": 0.3, "political_lean": "center", "emotional_manipulation": false, "manipulation_tactics": []}`,
	}
	judge := NewJudge(provider, DefaultConfig())

	got := judge.Assess(context.Background(), "Council approves budget", "The council voted 7-2.")

	if got.Status != model.StatusSuccess {
		t.Fatalf("Expected success, got %s: %s", got.Status, got.Message)
	}
	if got.CredibilityScore == nil || *got.CredibilityScore != 0.72 {
		t.Errorf("Expected score 0.72, got %v", got.CredibilityScore)
	}
	if len(got.KeyFindings) != 1 || got.Provider != "fake" || got.Model != "fake-1" {
		t.Errorf("Unexpected judgment: %+v", got)
	}
	if got.BiasAnalysis == nil || got.BiasAnalysis.PoliticalLean != "center" {
		t.Errorf("Expected chained bias analysis, got %+v", got.BiasAnalysis)
	}
	if len(provider.prompts) != 2 {
		t.Errorf("Expected 2 provider calls, got %d", len(provider.prompts))
	}
}

func TestJudge_ClampsScores(t *testing.T) {
	provider := &fakeProvider{
		judgment: `{"credibility_score": 1.7}`,
		bias:     `{"bias_score": -2}`,
	}
	got := NewJudge(provider, DefaultConfig()).Assess(context.Background(), "t", "c")

	if *got.CredibilityScore != 1.0 {
		t.Errorf("Expected clamped 1.0, got %v", *got.CredibilityScore)
	}
	if got.BiasAnalysis == nil || got.BiasAnalysis.BiasScore != 0 {
		t.Errorf("Expected clamped bias 0, got %+v", got.BiasAnalysis)
	}
}

func TestJudge_BiasFailureIsDropped(t *testing.T) {
	provider := &fakeProvider{
		judgment: `{"credibility_score": 0.5}`,
		biasErr:  errors.New("quota"),
	}
	got := NewJudge(provider, DefaultConfig()).Assess(context.Background(), "t", "c")

	if got.Status != model.StatusSuccess {
		t.Errorf("Expected success, got %s", got.Status)
	}
	if got.BiasAnalysis != nil {
		t.Error("Expected failed bias analysis not to be attached")
	}
}

func TestJudge_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{"provider error", &fakeProvider{err: errors.New("boom")}},
		{"not json", &fakeProvider{judgment: "I think it's credible."}},
		{"missing score", &fakeProvider{judgment: `{"key_findings": ["x"]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewJudge(tt.provider, DefaultConfig()).Assess(context.Background(), "t", "c")
			if got.Status != model.StatusError {
				t.Errorf("Expected error, got %s", got.Status)
			}
			if got.CredibilityScore != nil {
				t.Error("Expected no score on failure")
			}
			if len(tt.provider.prompts) != 1 {
				t.Errorf("Expected bias call skipped after failure, got %d calls", len(tt.provider.prompts))
			}
		})
	}
}

func TestJudge_Timeout(t *testing.T) {
	provider := &fakeProvider{judgment: `{"credibility_score": 0.5}`, delay: 2 * time.Second}
	judge := NewJudge(provider, Config{Timeout: 1})

	start := time.Now()
	got := judge.Assess(context.Background(), "t", "c")
	if got.Status != model.StatusError {
		t.Errorf("Expected error on timeout, got %s", got.Status)
	}
	if time.Since(start) > 1500*time.Millisecond {
		t.Errorf("Judge did not honor its timeout: %v", time.Since(start))
	}
}

func TestJudge_Unavailable(t *testing.T) {
	var nilJudge *Judge
	if got := nilJudge.Assess(context.Background(), "t", "c"); got.Status != model.StatusUnavailable {
		t.Errorf("Expected unavailable, got %s", got.Status)
	}

	judge := NewJudge(nil, DefaultConfig())
	if judge.Enabled() {
		t.Error("Expected judge without provider to be disabled")
	}
	if got := judge.DetectBias(context.Background(), "text"); got.Status != model.StatusUnavailable {
		t.Errorf("Expected unavailable, got %s", got.Status)
	}
}

func TestJudge_EmptyInput(t *testing.T) {
	provider := &fakeProvider{judgment: `{"credibility_score": 0.5}`}
	got := NewJudge(provider, DefaultConfig()).Assess(context.Background(), " ", "")
	if got.Status != model.StatusError || len(provider.prompts) != 0 {
		t.Errorf("Expected error without provider call, got %s with %d calls", got.Status, len(provider.prompts))
	}
}
