package score

import (
	"fmt"

	"github.com/ppiankov/newscred/internal/model"
)

// Per-signal weights. A signal only contributes when its input is present,
// and the final score is normalized by the sum of the present weights, so
// the effective weight of a signal grows when other signals are missing.
const (
	WeightSource         = 0.25
	WeightContent        = 0.20
	WeightCrossReference = 0.15
	WeightBias           = 0.10
	WeightAI             = 0.20
	WeightObjectivity    = 0.10
)

const (
	// DefaultConfidenceDivisor is the signal count treated as full confidence.
	// Up to six signals can be present, so confidence saturates early.
	DefaultConfidenceDivisor = 5.0

	// FallbackScore is used when no signal is present at all
	FallbackScore      = 0.3
	fallbackConfidence = 0.2

	neutralContentScore = 0.5
)

// Inputs is whatever subset of signal sources an analysis produced.
// Nil fields are absent.
type Inputs struct {
	Source         *model.SourceCredibility
	Content        *model.ContentSignals
	CrossReference *model.CrossReference
	BiasIndicators []string
	AI             *model.AIJudgment
	Sentiment      *model.Sentiment
}

// Result is the aggregate score with its explanation
type Result struct {
	Overall    float64
	Confidence float64
	Signals    []model.Signal
}

// partial is one present signal before normalization
type partial struct {
	kind        model.SignalType
	value       float64
	weight      float64
	description string
	data        map[string]interface{}
}

// Scorer combines partial credibility signals into one score
type Scorer struct {
	confidenceDivisor float64
}

// NewScorer creates a scorer. A non-positive divisor selects DefaultConfidenceDivisor.
func NewScorer(confidenceDivisor float64) *Scorer {
	if confidenceDivisor <= 0 {
		confidenceDivisor = DefaultConfidenceDivisor
	}
	return &Scorer{confidenceDivisor: confidenceDivisor}
}

// Calculate computes the weighted mixture over present signals and the confidence
func (s *Scorer) Calculate(in Inputs) Result {
	var partials []partial

	// 1. Source credibility (only when a URL was evaluated)
	if in.Source != nil {
		partials = append(partials, s.sourceSignal(in.Source))
	}

	// 2. Content quality (always)
	partials = append(partials, s.contentSignal(in.Content))

	// 3. Cross-reference consensus
	if p, ok := s.crossReferenceSignal(in.CrossReference); ok {
		partials = append(partials, p)
	}

	// 4. Bias indicators (always)
	partials = append(partials, s.biasSignal(in.BiasIndicators))

	// 5. External AI judgment
	if p, ok := s.aiSignal(in.AI); ok {
		partials = append(partials, p)
	}

	// 6. Sentiment objectivity
	if p, ok := s.objectivitySignal(in.Sentiment); ok {
		partials = append(partials, p)
	}

	return s.combine(partials)
}

// combine normalizes the weighted sum by the sum of present weights
func (s *Scorer) combine(partials []partial) Result {
	if len(partials) == 0 {
		return Result{
			Overall:    FallbackScore,
			Confidence: fallbackConfidence,
			Signals: []model.Signal{{
				Type:        model.SignalFallback,
				Severity:    model.SeverityCritical,
				Description: "No signals available, using fallback score",
				Data:        map[string]interface{}{"score": FallbackScore},
			}},
		}
	}

	totalWeight := 0.0
	weightedSum := 0.0
	for _, p := range partials {
		totalWeight += p.weight
		weightedSum += p.weight * p.value
	}

	signals := make([]model.Signal, 0, len(partials))
	for _, p := range partials {
		data := p.data
		if data == nil {
			data = map[string]interface{}{}
		}
		data["value"] = p.value
		data["weight"] = p.weight
		data["effective_weight"] = p.weight / totalWeight

		signals = append(signals, model.Signal{
			Type:        p.kind,
			Severity:    severityFor(p.value),
			Description: p.description,
			Data:        data,
		})
	}

	return Result{
		Overall:    clamp01(weightedSum / totalWeight),
		Confidence: clamp01(float64(len(partials)) / s.confidenceDivisor),
		Signals:    signals,
	}
}

func (s *Scorer) sourceSignal(source *model.SourceCredibility) partial {
	value := clamp01(source.CredibilityScore)
	description := fmt.Sprintf("Source %s credibility: %.2f", source.Domain, value)
	if source.Degraded() {
		description = fmt.Sprintf("Source could not be evaluated, using %.2f", value)
	}

	return partial{
		kind:        model.SignalSourceCredibility,
		value:       value,
		weight:      WeightSource,
		description: description,
		data: map[string]interface{}{
			"domain":   source.Domain,
			"degraded": source.Degraded(),
		},
	}
}

func (s *Scorer) contentSignal(content *model.ContentSignals) partial {
	if content == nil {
		return partial{
			kind:        model.SignalContentQuality,
			value:       neutralContentScore,
			weight:      WeightContent,
			description: "No article content, assuming neutral quality",
			data:        map[string]interface{}{"analyzed": false},
		}
	}

	patterns := len(content.SuspiciousPatterns)
	value := max(0.7-0.1*float64(patterns), 0.1)

	lengthBonus := content.WordCount >= 200 && content.WordCount <= 2000
	if lengthBonus {
		value += 0.1
	}

	return partial{
		kind:        model.SignalContentQuality,
		value:       clamp01(value),
		weight:      WeightContent,
		description: fmt.Sprintf("Content quality: %d suspicious patterns, %d words", patterns, content.WordCount),
		data: map[string]interface{}{
			"suspicious_patterns": patterns,
			"word_count":          content.WordCount,
			"length_bonus":        lengthBonus,
			"formula":             "max(0.7 - 0.1*patterns, 0.1) + 0.1 if 200 <= words <= 2000",
		},
	}
}

func (s *Scorer) crossReferenceSignal(xref *model.CrossReference) (partial, bool) {
	if xref == nil || !xref.Usable() || xref.ConsensusScore == nil {
		return partial{}, false
	}

	consensus := clamp01(*xref.ConsensusScore)
	value := min(0.5+consensus*0.5, 1.0)

	return partial{
		kind:        model.SignalCrossReference,
		value:       value,
		weight:      WeightCrossReference,
		description: fmt.Sprintf("Cross-source consensus: %.2f (%d similar articles)", consensus, len(xref.SimilarArticles)),
		data: map[string]interface{}{
			"consensus_score":  consensus,
			"similar_articles": len(xref.SimilarArticles),
			"formula":          "min(0.5 + consensus*0.5, 1.0)",
		},
	}, true
}

func (s *Scorer) biasSignal(indicators []string) partial {
	count := len(indicators)
	value := max(0.8-0.1*float64(count), 0.2)

	return partial{
		kind:        model.SignalBiasIndicators,
		value:       value,
		weight:      WeightBias,
		description: fmt.Sprintf("Bias indicators detected: %d", count),
		data: map[string]interface{}{
			"count":   count,
			"formula": "max(0.8 - 0.1*count, 0.2)",
		},
	}
}

func (s *Scorer) aiSignal(ai *model.AIJudgment) (partial, bool) {
	if ai == nil || ai.Status != model.StatusSuccess || ai.CredibilityScore == nil {
		return partial{}, false
	}

	value := clamp01(*ai.CredibilityScore)

	return partial{
		kind:        model.SignalAIJudgment,
		value:       value,
		weight:      WeightAI,
		description: fmt.Sprintf("AI credibility judgment (%s): %.2f", ai.Provider, value),
		data: map[string]interface{}{
			"provider":  ai.Provider,
			"model":     ai.Model,
			"red_flags": len(ai.RedFlags),
		},
	}, true
}

func (s *Scorer) objectivitySignal(sentiment *model.Sentiment) (partial, bool) {
	if sentiment == nil || !sentiment.Usable() {
		return partial{}, false
	}

	subjectivity := clamp01(sentiment.Subjectivity)
	value := 0.3 + (1-subjectivity)*0.7

	return partial{
		kind:        model.SignalObjectivity,
		value:       clamp01(value),
		weight:      WeightObjectivity,
		description: fmt.Sprintf("Objectivity: subjectivity %.2f", subjectivity),
		data: map[string]interface{}{
			"subjectivity": subjectivity,
			"formula":      "0.3 + (1 - subjectivity)*0.7",
		},
	}, true
}

func severityFor(value float64) model.SignalSeverity {
	switch {
	case value < 0.3:
		return model.SeverityCritical
	case value < 0.5:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
