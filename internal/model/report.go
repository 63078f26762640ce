package model

import (
	"time"
	"unicode/utf8"
)

// AnalysisInput is what a caller hands to the analyzer.
// At least one of Title or Content must be non-empty.
type AnalysisInput struct {
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// CredibilityLevel is the discrete tier derived from the overall score
type CredibilityLevel string

const (
	LevelHigh    CredibilityLevel = "High"
	LevelMedium  CredibilityLevel = "Medium"
	LevelLow     CredibilityLevel = "Low"
	LevelVeryLow CredibilityLevel = "Very Low"
)

// AnalysisResult is the complete output of one analysis.
// It is built once by the pipeline and never mutated afterwards.
type AnalysisResult struct {
	ID    string        `json:"id"`
	Input AnalysisInput `json:"input"`

	OverallCredibilityScore float64          `json:"overall_credibility_score"`
	CredibilityLevel        CredibilityLevel `json:"credibility_level"`
	ConfidenceScore         float64          `json:"confidence_score"`

	ContentSignals    *ContentSignals    `json:"content_analysis,omitempty"`
	SourceCredibility *SourceCredibility `json:"source_credibility,omitempty"`
	BiasIndicators    []string           `json:"bias_indicators"`

	CrossReference *CrossReference `json:"cross_reference_results,omitempty"`
	FactCheck      *FactCheck      `json:"fact_check_results,omitempty"`
	AIJudgment     *AIJudgment     `json:"ai_analysis,omitempty"`
	Sentiment      *Sentiment      `json:"sentiment_analysis,omitempty"`

	WarningFlags    []string `json:"warning_flags"`
	Recommendations []string `json:"recommendations"`

	// Signals explains how each present input contributed to the score
	Signals []Signal `json:"signals"`

	AnalyzedAt time.Time `json:"analysis_timestamp"`
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent scoring data (formulas, inputs)
}

// SignalType classifies the type of scoring signal
type SignalType string

const (
	SignalSourceCredibility SignalType = "source_credibility"
	SignalContentQuality    SignalType = "content_quality"
	SignalCrossReference    SignalType = "cross_reference_consensus"
	SignalBiasIndicators    SignalType = "bias_indicators"
	SignalAIJudgment        SignalType = "ai_judgment"
	SignalObjectivity       SignalType = "sentiment_objectivity"
	SignalFallback          SignalType = "fallback"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// SourceDomain returns the analysed domain, or "" when no source was evaluated
func (r *AnalysisResult) SourceDomain() string {
	if r.SourceCredibility == nil {
		return ""
	}
	return r.SourceCredibility.Domain
}

const maxSubjectRunes = 80

// Subject returns a short human-readable label for the analysed item
func (r *AnalysisResult) Subject() string {
	switch {
	case r.Input.Title != "":
		return r.Input.Title
	case r.Input.URL != "":
		return r.Input.URL
	default:
		content := r.Input.Content
		if utf8.RuneCountInString(content) > maxSubjectRunes {
			content = string([]rune(content)[:maxSubjectRunes]) + "..."
		}
		return content
	}
}
