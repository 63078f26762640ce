package model

import "encoding/json"

// OutcomeStatus tags the result of a call to an external collaborator
type OutcomeStatus string

const (
	StatusSuccess     OutcomeStatus = "success"
	StatusDegraded    OutcomeStatus = "degraded"    // partial data, usable
	StatusError       OutcomeStatus = "error"       // call failed
	StatusUnavailable OutcomeStatus = "unavailable" // collaborator not configured
)

// Outcome is embedded in every collaborator payload so that an absent
// signal is explicit rather than an error-shaped map.
type Outcome struct {
	Status  OutcomeStatus `json:"status"`
	Message string        `json:"message,omitempty"`
}

// Usable reports whether the payload carries data the scorer may read
func (o Outcome) Usable() bool {
	return o.Status == StatusSuccess || o.Status == StatusDegraded
}

// Failed builds an error outcome
func Failed(err error) Outcome {
	return Outcome{Status: StatusError, Message: err.Error()}
}

// Unavailable builds an unavailable outcome
func Unavailable(reason string) Outcome {
	return Outcome{Status: StatusUnavailable, Message: reason}
}

// SimilarArticle is one corroborating article found by cross-referencing
type SimilarArticle struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}

// CrossReference is the cross-source consensus payload
type CrossReference struct {
	Outcome
	SimilarArticles []SimilarArticle `json:"similar_articles"`
	ConsensusScore  *float64         `json:"consensus_score,omitempty"`
	SourceDiversity *int             `json:"source_diversity,omitempty"`
}

// FactCheck is passed through unmodified from the fact-check service
type FactCheck struct {
	Outcome
	ClaimCount int             `json:"claim_count"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Sentiment is the sentiment analysis payload
type Sentiment struct {
	Outcome
	Label        string  `json:"sentiment,omitempty"` // positive, negative, neutral
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
	Confidence   float64 `json:"confidence"`
}

// BiasAnalysis is the optional secondary AI judgment on bias/manipulation
type BiasAnalysis struct {
	Outcome
	BiasScore             float64  `json:"bias_score"`
	PoliticalLean         string   `json:"political_lean,omitempty"`
	EmotionalManipulation bool     `json:"emotional_manipulation"`
	ManipulationTactics   []string `json:"manipulation_tactics,omitempty"`
}

// AIJudgment is the generative AI credibility judgment payload
type AIJudgment struct {
	Outcome
	Provider         string        `json:"provider,omitempty"`
	Model            string        `json:"model,omitempty"`
	CredibilityScore *float64      `json:"credibility_score,omitempty"`
	KeyFindings      []string      `json:"key_findings,omitempty"`
	RedFlags         []string      `json:"red_flags,omitempty"`
	BiasAnalysis     *BiasAnalysis `json:"bias_analysis,omitempty"`
}

// Float returns a pointer to v, for optional payload fields
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for optional payload fields
func Int(v int) *int {
	return &v
}
