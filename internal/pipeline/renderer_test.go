package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/newscred/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		ID:                      "abc-123",
		Input:                   model.AnalysisInput{URL: "https://bbc.com/news/1", Title: "Budget approved"},
		OverallCredibilityScore: 0.72,
		CredibilityLevel:        model.LevelMedium,
		ConfidenceScore:         0.6,
		SourceCredibility: &model.SourceCredibility{
			Domain:           "bbc.com",
			IsHTTPS:          true,
			BiasCheck:        &model.BiasCheck{Credibility: model.RatingHigh},
			CredibilityScore: 0.95,
		},
		BiasIndicators:  []string{"Absolute statement: always"},
		WarningFlags:    []string{"Limited source diversity for verification"},
		Recommendations: []string{"Always cross-reference important news with multiple reliable sources"},
		Signals: []model.Signal{
			{Type: model.SignalSourceCredibility, Severity: model.SeverityInfo, Description: "Source bbc.com credibility: 0.95"},
		},
		AnalyzedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")

	if err := NewRenderer(true).RenderJSON(sampleResult(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["credibility_level"] != "Medium" {
		t.Errorf("Expected credibility_level Medium, got %v", decoded["credibility_level"])
	}
	if _, ok := decoded["analysis_timestamp"]; !ok {
		t.Error("Expected analysis_timestamp field")
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := NewRenderer(true).Markdown(sampleResult())

	for _, want := range []string{
		"# Credibility Report: Budget approved",
		"| Credibility | **Medium** |",
		"| Score | 0.72 |",
		"- Domain: bbc.com",
		"## Bias Indicators",
		"## Warnings",
		"Generated by newscred",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected Markdown to contain %q", want)
		}
	}

	if strings.Contains(NewRenderer(false).Markdown(sampleResult()), "Generated by newscred") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, sampleResult())

	out := buf.String()
	if !strings.Contains(out, "Credibility: Medium (score 0.72, confidence 0.60)") {
		t.Errorf("Unexpected summary: %s", out)
	}
	if !strings.Contains(out, "Source:      bbc.com") {
		t.Errorf("Expected source domain in summary: %s", out)
	}
}
