package nlp

import (
	"errors"
	"strings"
	"unicode"

	"github.com/ppiankov/newscred/internal/model"
)

// Sentiment labels
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

const (
	labelCutoff     = 0.1
	negationFactor  = -0.5
	intensifyFactor = 1.3
)

// ErrEmptyText is returned when there is nothing to analyze
var ErrEmptyText = errors.New("no text to analyze")

// entry is the lexicon value of one word
type entry struct {
	polarity     float64
	subjectivity float64
}

// SentimentAnalyzer scores text polarity and subjectivity with a word lexicon.
// Polarity and subjectivity are the means over lexicon words found in the text;
// a negation flips and dampens the next scored word, an intensifier amplifies it.
type SentimentAnalyzer struct {
	lexicon      map[string]entry
	negations    map[string]bool
	intensifiers map[string]bool
}

// NewSentimentAnalyzer creates an analyzer with the built-in English lexicon
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{
		lexicon:      defaultLexicon(),
		negations:    toSet("not", "no", "never", "neither", "nor", "without", "isn't", "wasn't", "aren't", "don't", "doesn't", "didn't", "won't", "can't"),
		intensifiers: toSet("very", "extremely", "really", "incredibly", "totally", "absolutely", "highly", "so"),
	}
}

// Analyze returns the sentiment of text
func (a *SentimentAnalyzer) Analyze(text string) (model.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return model.Sentiment{}, ErrEmptyText
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var polaritySum, subjectivitySum float64
	matched := 0
	negate, intensify := false, false

	for _, w := range words {
		w = strings.Trim(w, "'")
		switch {
		case a.negations[w]:
			negate = true
			continue
		case a.intensifiers[w]:
			intensify = true
			continue
		}

		e, ok := a.lexicon[w]
		if !ok {
			continue
		}

		p, s := e.polarity, e.subjectivity
		if intensify {
			p *= intensifyFactor
			s *= intensifyFactor
		}
		if negate {
			p *= negationFactor
		}
		polaritySum += clamp(p, -1, 1)
		subjectivitySum += clamp(s, 0, 1)
		matched++
		negate, intensify = false, false
	}

	result := model.Sentiment{
		Outcome: model.Outcome{Status: model.StatusSuccess},
		Label:   LabelNeutral,
	}
	if matched == 0 {
		return result, nil
	}

	result.Polarity = clamp(polaritySum/float64(matched), -1, 1)
	result.Subjectivity = clamp(subjectivitySum/float64(matched), 0, 1)
	result.Confidence = abs(result.Polarity)
	result.Label = Label(result.Polarity)

	return result, nil
}

// Label maps a polarity to positive, negative or neutral
func Label(polarity float64) string {
	switch {
	case polarity > labelCutoff:
		return LabelPositive
	case polarity < -labelCutoff:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
