package nlp

import (
	"errors"
	"testing"

	"github.com/ppiankov/newscred/internal/model"
)

func TestSentiment_Labels(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive", "An excellent and successful recovery, great news.", LabelPositive},
		{"negative", "A devastating disaster, the worst crisis in years.", LabelNegative},
		{"neutral factual", "The ministry announced the data according to the published study.", LabelNeutral},
		{"no lexicon words", "Parliament convenes on Tuesday.", LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analyzer.Analyze(tt.text)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if got.Label != tt.want {
				t.Errorf("Expected %s, got %s (polarity %.2f)", tt.want, got.Label, got.Polarity)
			}
			if got.Status != model.StatusSuccess {
				t.Errorf("Expected success status, got %s", got.Status)
			}
			if got.Confidence != abs(got.Polarity) {
				t.Errorf("Expected confidence |polarity|, got %.2f for %.2f", got.Confidence, got.Polarity)
			}
		})
	}
}

func TestSentiment_Negation(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	plain, _ := analyzer.Analyze("good")
	negated, _ := analyzer.Analyze("not good")

	if plain.Polarity <= 0 {
		t.Fatalf("Expected positive polarity, got %.2f", plain.Polarity)
	}
	if negated.Polarity >= 0 {
		t.Errorf("Expected negation to flip polarity, got %.2f", negated.Polarity)
	}
}

func TestSentiment_Subjectivity(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	opinion, _ := analyzer.Analyze("I think this is a terrible, outrageous and stupid decision.")
	report, _ := analyzer.Analyze("Officials confirmed the data was published, according to the study.")

	if opinion.Subjectivity <= 0.8 {
		t.Errorf("Expected high subjectivity, got %.2f", opinion.Subjectivity)
	}
	if report.Subjectivity >= 0.2 {
		t.Errorf("Expected low subjectivity, got %.2f", report.Subjectivity)
	}
}

func TestSentiment_Bounds(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	got, _ := analyzer.Analyze("extremely excellent extremely perfect absolutely wonderful")
	if got.Polarity > 1 || got.Subjectivity > 1 {
		t.Errorf("Expected values within bounds, got polarity %.2f subjectivity %.2f", got.Polarity, got.Subjectivity)
	}
}

func TestSentiment_EmptyText(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	if _, err := analyzer.Analyze("   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
}

func TestLabel_Cutoff(t *testing.T) {
	tests := []struct {
		polarity float64
		want     string
	}{
		{0.11, LabelPositive},
		{0.1, LabelNeutral},
		{-0.1, LabelNeutral},
		{-0.11, LabelNegative},
	}
	for _, tt := range tests {
		if got := Label(tt.polarity); got != tt.want {
			t.Errorf("Label(%.2f): expected %s, got %s", tt.polarity, tt.want, got)
		}
	}
}
