package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/newscred/internal/model"
)

const (
	maxKeywords          = 10
	maxCapsRatio         = 0.10
	maxPunctuationRatio  = 0.02
	shortArticleMaxWords = 100
)

// Labels appended to ContentSignals.SuspiciousPatterns
const (
	PatternExcessiveCaps        = "excessive capitalization"
	PatternExcessivePunctuation = "excessive punctuation"
	PatternVeryShort            = "very short article"
	clickbaitPrefix             = "clickbait pattern: "
)

// KeywordExtractor returns up to k keywords of text, most relevant first
type KeywordExtractor interface {
	Keywords(text string, k int) []string
}

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// ContentExtractor derives credibility indicators from article text
type ContentExtractor struct {
	clickbait []*regexp.Regexp
	keywords  KeywordExtractor
}

// NewContentExtractor creates a content extractor. keywords may be nil.
func NewContentExtractor(keywords KeywordExtractor) *ContentExtractor {
	patterns := []string{
		`you won't believe`,
		`shocking`,
		`this will blow your mind`,
		`doctors hate this`,
		`number \d+ will shock you`,
	}

	clickbait := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		clickbait = append(clickbait, regexp.MustCompile(p))
	}

	return &ContentExtractor{
		clickbait: clickbait,
		keywords:  keywords,
	}
}

// Extract computes ContentSignals for content. title only takes part in
// clickbait matching.
func (e *ContentExtractor) Extract(title, content string) model.ContentSignals {
	length := utf8.RuneCountInString(content)
	wordCount := len(strings.Fields(content))

	sentenceCount := len(sentenceTerminators.FindAllStringIndex(content, -1))
	if sentenceCount == 0 && wordCount > 0 {
		// Unterminated text is still one sentence
		sentenceCount = 1
	}

	signals := model.ContentSignals{
		Length:             length,
		WordCount:          wordCount,
		SentenceCount:      sentenceCount,
		Keywords:           []string{},
		SuspiciousPatterns: []string{},
		Readability:        map[string]float64{},
	}

	if e.keywords != nil && wordCount > 0 {
		if kw := e.keywords.Keywords(content, maxKeywords); kw != nil {
			signals.Keywords = kw
		}
	}

	fullText := strings.ToLower(title + " " + content)
	for _, re := range e.clickbait {
		if re.MatchString(fullText) {
			signals.SuspiciousPatterns = append(signals.SuspiciousPatterns, clickbaitPrefix+re.String())
		}
	}

	upper, punct := 0, 0
	for _, r := range content {
		if unicode.IsUpper(r) {
			upper++
		}
		if r == '!' || r == '?' {
			punct++
		}
	}

	denominator := float64(max(length, 1))
	if float64(upper)/denominator > maxCapsRatio {
		signals.SuspiciousPatterns = append(signals.SuspiciousPatterns, PatternExcessiveCaps)
	}
	if float64(punct)/denominator > maxPunctuationRatio {
		signals.SuspiciousPatterns = append(signals.SuspiciousPatterns, PatternExcessivePunctuation)
	}

	if wordCount < shortArticleMaxWords {
		signals.SuspiciousPatterns = append(signals.SuspiciousPatterns, PatternVeryShort)
	}

	if wordCount > 0 {
		signals.Readability["avg_sentence_length"] = float64(wordCount) / float64(max(sentenceCount, 1))
	}

	return signals
}
