package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxPromptContentRunes = 4000
	maxBiasTextRunes      = 2000
)

const systemPrompt = "You are a careful news credibility analyst. You assess how credible a news item appears from its text alone and reply with JSON only."

// judgmentReply is the JSON object the credibility prompt asks for
type judgmentReply struct {
	CredibilityScore *float64 `json:"credibility_score"`
	KeyFindings      []string `json:"key_findings"`
	RedFlags         []string `json:"red_flags"`
}

// biasReply is the JSON object the bias prompt asks for
type biasReply struct {
	BiasScore             *float64 `json:"bias_score"`
	PoliticalLean         string   `json:"political_lean"`
	EmotionalManipulation bool     `json:"emotional_manipulation"`
	ManipulationTactics   []string `json:"manipulation_tactics"`
}

// BuildJudgmentPrompt asks for a credibility score with findings and red flags
func BuildJudgmentPrompt(title, content string) string {
	var sb strings.Builder

	sb.WriteString("Assess the credibility of the following news item.\n\n")
	fmt.Fprintf(&sb, "Headline: %s\n\n", orNone(title))
	fmt.Fprintf(&sb, "Content:\n%s\n\n", orNone(truncateRunes(content, maxPromptContentRunes)))
	sb.WriteString(`Consider factual tone, sourcing and attribution, internal consistency, sensationalism, and signs of satire or fabrication.

Respond with a single JSON object and nothing else:
{
  "credibility_score": <number from 0.0 (not credible) to 1.0 (highly credible)>,
  "key_findings": [<short strings>],
  "red_flags": [<short strings, empty if none>]
}`)

	return sb.String()
}

// BuildBiasPrompt asks for a bias and manipulation judgment of text
func BuildBiasPrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following news text for bias and manipulation techniques.\n\n")
	fmt.Fprintf(&sb, "Text:\n%s\n\n", truncateRunes(text, maxBiasTextRunes))
	sb.WriteString(`Respond with a single JSON object and nothing else:
{
  "bias_score": <number from 0.0 (neutral) to 1.0 (heavily biased)>,
  "political_lean": "<left|center-left|center|center-right|right|none>",
  "emotional_manipulation": <true|false>,
  "manipulation_tactics": [<short strings, empty if none>]
}`)

	return sb.String()
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSON   = regexp.MustCompile(`(?s)(\{.*\})`)
)

// extractJSON pulls the JSON object out of a reply that may be wrapped in
// markdown fences or surrounded by prose
func extractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	if m := bareJSON.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return text
}

func parseJudgment(text string) (*judgmentReply, error) {
	var reply judgmentReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err != nil {
		return nil, fmt.Errorf("parse judgment JSON: %w (response was: %.200s)", err, text)
	}
	if reply.CredibilityScore == nil {
		return nil, fmt.Errorf("judgment has no credibility_score (response was: %.200s)", text)
	}
	score := clamp01(*reply.CredibilityScore)
	reply.CredibilityScore = &score
	return &reply, nil
}

func parseBias(text string) (*biasReply, error) {
	var reply biasReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err != nil {
		return nil, fmt.Errorf("parse bias JSON: %w (response was: %.200s)", err, text)
	}
	if reply.BiasScore == nil {
		return nil, fmt.Errorf("bias analysis has no bias_score (response was: %.200s)", text)
	}
	score := clamp01(*reply.BiasScore)
	reply.BiasScore = &score
	return &reply, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
