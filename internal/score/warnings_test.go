package score

import (
	"reflect"
	"testing"

	"github.com/ppiankov/newscred/internal/model"
)

func TestWarnings_Order(t *testing.T) {
	in := WarningInputs{
		Source: &model.SourceCredibility{
			Domain:    "infowars.com",
			IsHTTPS:   false,
			BiasCheck: &model.BiasCheck{BiasRating: model.RatingHigh, Credibility: model.RatingLow, Confidence: 0.9},
		},
		Content:        &model.ContentSignals{SuspiciousPatterns: []string{"excessive capitalization", "very short article"}},
		BiasIndicators: []string{"a", "b", "c", "d"},
		CrossReference: &model.CrossReference{
			Outcome:         model.Outcome{Status: model.StatusSuccess},
			ConsensusScore:  model.Float(0.2),
			SourceDiversity: model.Int(1),
		},
		Sentiment: &model.Sentiment{Outcome: model.Outcome{Status: model.StatusSuccess}, Subjectivity: 0.9},
	}

	want := []string{
		WarnLowCredibilitySource,
		WarnNoHTTPS,
		"Content issue: excessive capitalization",
		"Content issue: very short article",
		WarnManyBiasIndicators,
		WarnLowConsensus,
		WarnLimitedDiversity,
		WarnHighlySubjective,
	}

	if got := Warnings(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWarnings_AbsentCollaborators(t *testing.T) {
	got := Warnings(WarningInputs{})

	// Missing cross-reference data defaults to zero diversity
	want := []string{WarnLimitedDiversity}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWarnings_CleanInput(t *testing.T) {
	in := WarningInputs{
		Source: &model.SourceCredibility{
			Domain:    "reuters.com",
			IsHTTPS:   true,
			BiasCheck: &model.BiasCheck{BiasRating: model.RatingMinimal, Credibility: model.RatingHigh, Confidence: 0.8},
		},
		Content:        &model.ContentSignals{WordCount: 400},
		BiasIndicators: []string{"a", "b", "c"},
		CrossReference: &model.CrossReference{
			Outcome:         model.Outcome{Status: model.StatusSuccess},
			ConsensusScore:  model.Float(0.3),
			SourceDiversity: model.Int(2),
		},
		Sentiment: &model.Sentiment{Outcome: model.Outcome{Status: model.StatusSuccess}, Subjectivity: 0.8},
	}

	got := Warnings(in)
	if got == nil {
		t.Fatal("Expected non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Expected no warnings, got %v", got)
	}
}

func TestWarnings_DegradedSourceSkipsHTTPS(t *testing.T) {
	in := WarningInputs{
		Source: &model.SourceCredibility{Error: "missing host", CredibilityScore: 0.3},
		CrossReference: &model.CrossReference{
			Outcome:         model.Outcome{Status: model.StatusSuccess},
			ConsensusScore:  model.Float(1),
			SourceDiversity: model.Int(5),
		},
	}

	if got := Warnings(in); len(got) != 0 {
		t.Errorf("Expected no warnings for degraded source, got %v", got)
	}
}

func TestWarnings_FailedCrossReferenceUsesDefaults(t *testing.T) {
	in := WarningInputs{
		CrossReference: &model.CrossReference{
			Outcome:         model.Outcome{Status: model.StatusError, Message: "timeout"},
			ConsensusScore:  model.Float(0.0),
			SourceDiversity: model.Int(10),
		},
	}

	want := []string{WarnLimitedDiversity}
	if got := Warnings(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
