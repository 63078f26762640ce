package model

// ContentSignals are structural and lexical indicators derived from article text.
// Recomputed for every analysis.
type ContentSignals struct {
	Length             int                `json:"length"`
	WordCount          int                `json:"word_count"`
	SentenceCount      int                `json:"sentence_count"`
	Keywords           []string           `json:"keywords"`
	SuspiciousPatterns []string           `json:"suspicious_patterns"`
	Readability        map[string]float64 `json:"readability_indicators"`
}

// Source reputation ratings reported by a reputation lookup
const (
	RatingHigh    = "high"
	RatingLow     = "low"
	RatingMinimal = "minimal"
	RatingUnknown = "unknown"
)

// BiasCheck is the reputation lookup result for a domain
type BiasCheck struct {
	BiasRating  string  `json:"bias_rating"` // minimal, high, unknown
	Credibility string  `json:"credibility"` // high, low, unknown
	Confidence  float64 `json:"confidence"`
}

// DomainHeuristics are informational domain-name checks, not folded into the score
type DomainHeuristics struct {
	HasCommonTLD       bool     `json:"has_common_tld"`
	Length             int      `json:"length"`
	SuspiciousKeywords []string `json:"suspicious_keywords"`
}

// SourceCredibility is the evaluation of the publisher behind a URL.
// When Error is set the record is degraded: only CredibilityScore is meaningful.
type SourceCredibility struct {
	Domain           string            `json:"domain,omitempty"`
	IsHTTPS          bool              `json:"is_https"`
	BiasCheck        *BiasCheck        `json:"bias_check,omitempty"`
	DomainHeuristics *DomainHeuristics `json:"domain_age_indicator,omitempty"`
	CredibilityScore float64           `json:"credibility_score"`
	Error            string            `json:"error,omitempty"`
}

// Degraded reports whether the evaluation failed and fell back to a default
func (s *SourceCredibility) Degraded() bool {
	return s.Error != ""
}

// BiasCredibility returns the reputation credibility rating, or "" if unavailable
func (s *SourceCredibility) BiasCredibility() string {
	if s == nil || s.BiasCheck == nil {
		return ""
	}
	return s.BiasCheck.Credibility
}
