package extract

import (
	"testing"

	"github.com/ppiankov/newscred/internal/model"
)

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

func TestBiasDetector_EmotionalAndAbsolute(t *testing.T) {
	detector := NewBiasDetector(nil)

	indicators := detector.Detect("This is shocking and totally unbelievable")

	for _, want := range []string{
		"Emotional language: shocking",
		"Emotional language: unbelievable",
		"Absolute statement: totally",
	} {
		if !contains(indicators, want) {
			t.Errorf("Expected %q in %v", want, indicators)
		}
	}
}

func TestBiasDetector_NoDuplicates(t *testing.T) {
	detector := NewBiasDetector(model.DefaultConfig().Bias.Phrases)

	indicators := detector.Detect("Shocking! Simply shocking. Totally, totally shocking.")

	seen := make(map[string]bool)
	for _, indicator := range indicators {
		if seen[indicator] {
			t.Errorf("Duplicate indicator %q in %v", indicator, indicators)
		}
		seen[indicator] = true
	}
	if !seen["shocking"] {
		t.Errorf("Expected configured phrase 'shocking' in %v", indicators)
	}
	if !seen["Emotional language: shocking"] {
		t.Errorf("Expected emotional marker in %v", indicators)
	}
}

func TestBiasDetector_ConfiguredPhrasesCaseInsensitive(t *testing.T) {
	detector := NewBiasDetector([]string{"Mainstream Media", "fake news"})

	indicators := detector.Detect("What the MAINSTREAM MEDIA won't say about FAKE NEWS")

	if !contains(indicators, "Mainstream Media") {
		t.Errorf("Expected phrase appended verbatim, got %v", indicators)
	}
	if !contains(indicators, "fake news") {
		t.Errorf("Expected 'fake news', got %v", indicators)
	}
}

func TestBiasDetector_AbsolutePatterns(t *testing.T) {
	detector := NewBiasDetector(nil)

	tests := []struct {
		text string
		want string
	}{
		{"politicians always lie", "Absolute statement: always"},
		{"it will never work", "Absolute statement: never"},
		{"all of them are corrupt", "Absolute statement: all .* are"},
		{"every single one is wrong", "Absolute statement: every .* is"},
		{"completely false", "Absolute statement: completely"},
		{"absolutely certain", "Absolute statement: absolutely"},
	}

	for _, tt := range tests {
		indicators := detector.Detect(tt.text)
		if !contains(indicators, tt.want) {
			t.Errorf("Detect(%q): expected %q in %v", tt.text, tt.want, indicators)
		}
	}
}

func TestBiasDetector_Neutral(t *testing.T) {
	detector := NewBiasDetector(model.DefaultConfig().Bias.Phrases)

	indicators := detector.Detect("The committee published its quarterly report on Tuesday.")

	if len(indicators) != 0 {
		t.Errorf("Expected no indicators, got %v", indicators)
	}
}

func TestBiasDetector_EmptyText(t *testing.T) {
	detector := NewBiasDetector(model.DefaultConfig().Bias.Phrases)

	if indicators := detector.Detect(""); len(indicators) != 0 {
		t.Errorf("Expected no indicators for empty text, got %v", indicators)
	}
}
