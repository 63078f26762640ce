package score

import (
	"math"
	"testing"

	"github.com/ppiankov/newscred/internal/model"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScorer_ContentAndBiasOnly(t *testing.T) {
	scorer := NewScorer(0)

	content := &model.ContentSignals{WordCount: 50, SuspiciousPatterns: []string{"very short article"}}
	bias := []string{"a", "b"}

	result := scorer.Calculate(Inputs{Content: content, BiasIndicators: bias})

	if !approx(result.Confidence, 0.4) {
		t.Errorf("Expected confidence 0.4, got %.4f", result.Confidence)
	}

	contentValue := 0.6 // 0.7 - 0.1*1, no length bonus
	biasValue := 0.6    // 0.8 - 0.1*2
	want := (0.20*contentValue + 0.10*biasValue) / 0.30
	if !approx(result.Overall, want) {
		t.Errorf("Expected score %.4f, got %.4f", want, result.Overall)
	}
	if len(result.Signals) != 2 {
		t.Errorf("Expected 2 signals, got %d", len(result.Signals))
	}
}

func TestScorer_AllSignals(t *testing.T) {
	scorer := NewScorer(DefaultConfidenceDivisor)

	in := Inputs{
		Source:         &model.SourceCredibility{Domain: "reuters.com", CredibilityScore: 0.95},
		Content:        &model.ContentSignals{WordCount: 500},
		CrossReference: &model.CrossReference{Outcome: model.Outcome{Status: model.StatusSuccess}, ConsensusScore: model.Float(0.6)},
		BiasIndicators: nil,
		AI:             &model.AIJudgment{Outcome: model.Outcome{Status: model.StatusSuccess}, CredibilityScore: model.Float(0.9)},
		Sentiment:      &model.Sentiment{Outcome: model.Outcome{Status: model.StatusSuccess}, Subjectivity: 0.2},
	}

	result := scorer.Calculate(in)

	sum := WeightSource*0.95 +
		WeightContent*0.8 + // 0.7 + length bonus
		WeightCrossReference*0.8 + // 0.5 + 0.6*0.5
		WeightBias*0.8 + // no indicators
		WeightAI*0.9 +
		WeightObjectivity*0.86 // 0.3 + 0.8*0.7
	total := WeightSource + WeightContent + WeightCrossReference + WeightBias + WeightAI + WeightObjectivity
	want := sum / total

	if !approx(result.Overall, want) {
		t.Errorf("Expected score %.4f, got %.4f", want, result.Overall)
	}
	// 6 signals / 5 is capped
	if result.Confidence != 1.0 {
		t.Errorf("Expected confidence capped at 1.0, got %.4f", result.Confidence)
	}
	if len(result.Signals) != 6 {
		t.Errorf("Expected 6 signals, got %d", len(result.Signals))
	}
}

func TestScorer_RenormalizesOverPresentWeights(t *testing.T) {
	scorer := NewScorer(0)

	base := Inputs{Content: &model.ContentSignals{WordCount: 500}}
	withSource := base
	withSource.Source = &model.SourceCredibility{CredibilityScore: 0.1}

	withoutResult := scorer.Calculate(base)
	withResult := scorer.Calculate(withSource)

	// Content 0.8 and bias 0.8 alone give 0.8
	if !approx(withoutResult.Overall, 0.8) {
		t.Errorf("Expected 0.8 without source, got %.4f", withoutResult.Overall)
	}

	want := (0.25*0.1 + 0.20*0.8 + 0.10*0.8) / 0.55
	if !approx(withResult.Overall, want) {
		t.Errorf("Expected %.4f with source, got %.4f", want, withResult.Overall)
	}

	// Effective weight of the content signal shrinks when source is present
	contentEffective := func(r Result) float64 {
		for _, s := range r.Signals {
			if s.Type == model.SignalContentQuality {
				return s.Data["effective_weight"].(float64)
			}
		}
		return -1
	}
	if !approx(contentEffective(withoutResult), 0.20/0.30) {
		t.Errorf("Expected effective weight %.4f, got %.4f", 0.20/0.30, contentEffective(withoutResult))
	}
	if !approx(contentEffective(withResult), 0.20/0.55) {
		t.Errorf("Expected effective weight %.4f, got %.4f", 0.20/0.55, contentEffective(withResult))
	}
}

func TestScorer_AbsentSignals(t *testing.T) {
	scorer := NewScorer(0)

	tests := []struct {
		name string
		in   Inputs
	}{
		{"cross reference error", Inputs{CrossReference: &model.CrossReference{Outcome: model.Outcome{Status: model.StatusError}, ConsensusScore: model.Float(1)}}},
		{"cross reference without consensus", Inputs{CrossReference: &model.CrossReference{Outcome: model.Outcome{Status: model.StatusSuccess}}}},
		{"ai unavailable", Inputs{AI: &model.AIJudgment{Outcome: model.Unavailable("no provider"), CredibilityScore: model.Float(1)}}},
		{"ai degraded", Inputs{AI: &model.AIJudgment{Outcome: model.Outcome{Status: model.StatusDegraded}, CredibilityScore: model.Float(1)}}},
		{"ai without score", Inputs{AI: &model.AIJudgment{Outcome: model.Outcome{Status: model.StatusSuccess}}}},
		{"sentiment error", Inputs{Sentiment: &model.Sentiment{Outcome: model.Outcome{Status: model.StatusError}, Subjectivity: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Calculate(tt.in)
			if len(result.Signals) != 2 {
				t.Errorf("Expected only content and bias signals, got %d", len(result.Signals))
			}
			if !approx(result.Confidence, 0.4) {
				t.Errorf("Expected confidence 0.4, got %.4f", result.Confidence)
			}
		})
	}
}

func TestScorer_ContentQuality(t *testing.T) {
	scorer := NewScorer(0)

	tests := []struct {
		name    string
		content *model.ContentSignals
		want    float64
	}{
		{"absent content is neutral", nil, 0.5},
		{"clean short", &model.ContentSignals{WordCount: 150}, 0.7},
		{"clean with length bonus", &model.ContentSignals{WordCount: 200}, 0.8},
		{"upper length bound", &model.ContentSignals{WordCount: 2000}, 0.8},
		{"too long", &model.ContentSignals{WordCount: 2001}, 0.7},
		{"floored", &model.ContentSignals{WordCount: 50, SuspiciousPatterns: make([]string, 9)}, 0.1},
		{"floored with bonus", &model.ContentSignals{WordCount: 300, SuspiciousPatterns: make([]string, 7)}, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scorer.contentSignal(tt.content)
			if !approx(p.value, tt.want) {
				t.Errorf("Expected %.2f, got %.4f", tt.want, p.value)
			}
		})
	}
}

func TestScorer_BiasSignalFloor(t *testing.T) {
	scorer := NewScorer(0)

	if p := scorer.biasSignal(make([]string, 10)); !approx(p.value, 0.2) {
		t.Errorf("Expected floor 0.2, got %.4f", p.value)
	}
	if p := scorer.biasSignal(nil); !approx(p.value, 0.8) {
		t.Errorf("Expected 0.8, got %.4f", p.value)
	}
}

func TestScorer_CrossReferenceCap(t *testing.T) {
	scorer := NewScorer(0)

	p, ok := scorer.crossReferenceSignal(&model.CrossReference{
		Outcome:        model.Outcome{Status: model.StatusDegraded},
		ConsensusScore: model.Float(1.0),
	})
	if !ok {
		t.Fatal("Expected degraded cross reference with consensus to be present")
	}
	if !approx(p.value, 1.0) {
		t.Errorf("Expected 1.0, got %.4f", p.value)
	}
}

func TestScorer_ScoresClamped(t *testing.T) {
	scorer := NewScorer(0)

	result := scorer.Calculate(Inputs{
		Source:    &model.SourceCredibility{CredibilityScore: 7},
		AI:        &model.AIJudgment{Outcome: model.Outcome{Status: model.StatusSuccess}, CredibilityScore: model.Float(-3)},
		Sentiment: &model.Sentiment{Outcome: model.Outcome{Status: model.StatusSuccess}, Subjectivity: 4},
	})

	if result.Overall < 0 || result.Overall > 1 {
		t.Errorf("Expected score in [0,1], got %.4f", result.Overall)
	}
	for _, s := range result.Signals {
		v := s.Data["value"].(float64)
		if v < 0 || v > 1 {
			t.Errorf("Signal %s value out of range: %.4f", s.Type, v)
		}
	}
}

func TestScorer_ConfidenceDivisor(t *testing.T) {
	scorer := NewScorer(6)

	result := scorer.Calculate(Inputs{})
	if !approx(result.Confidence, 2.0/6.0) {
		t.Errorf("Expected confidence %.4f, got %.4f", 2.0/6.0, result.Confidence)
	}
}

func TestScorer_FallbackWithoutSignals(t *testing.T) {
	scorer := NewScorer(0)

	result := scorer.combine(nil)

	if result.Overall != FallbackScore {
		t.Errorf("Expected fallback %.1f, got %.4f", FallbackScore, result.Overall)
	}
	if len(result.Signals) != 1 || result.Signals[0].Type != model.SignalFallback {
		t.Errorf("Expected a single fallback signal, got %v", result.Signals)
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		value float64
		want  model.SignalSeverity
	}{
		{0.1, model.SeverityCritical},
		{0.3, model.SeverityWarning},
		{0.49, model.SeverityWarning},
		{0.5, model.SeverityInfo},
	}
	for _, tt := range tests {
		if got := severityFor(tt.value); got != tt.want {
			t.Errorf("severityFor(%.2f): expected %s, got %s", tt.value, tt.want, got)
		}
	}
}
