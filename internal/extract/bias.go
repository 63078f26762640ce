package extract

import (
	"regexp"
	"sort"
	"strings"
)

// emotionalWords mark emotionally charged language
var emotionalWords = []string{
	"outrageous", "disgraceful", "shocking", "unbelievable",
	"devastating", "alarming", "terrifying", "incredible",
}

// absolutePatterns mark absolutist statements
var absolutePatterns = []string{
	`always`, `never`, `all .* are`, `every .* is`,
	`completely`, `totally`, `absolutely`,
}

// BiasDetector finds bias phrases, emotional language and absolute statements
type BiasDetector struct {
	phrases  []string
	absolute []*regexp.Regexp
}

// NewBiasDetector creates a detector for the configured bias phrases
func NewBiasDetector(phrases []string) *BiasDetector {
	absolute := make([]*regexp.Regexp, 0, len(absolutePatterns))
	for _, p := range absolutePatterns {
		absolute = append(absolute, regexp.MustCompile(p))
	}

	return &BiasDetector{
		phrases:  phrases,
		absolute: absolute,
	}
}

// Detect returns the deduplicated bias indicators found in text, sorted
func (d *BiasDetector) Detect(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]bool)

	for _, phrase := range d.phrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			found[phrase] = true
		}
	}

	for _, word := range emotionalWords {
		if strings.Contains(lower, word) {
			found["Emotional language: "+word] = true
		}
	}

	for _, re := range d.absolute {
		if re.MatchString(lower) {
			found["Absolute statement: "+re.String()] = true
		}
	}

	indicators := make([]string, 0, len(found))
	for indicator := range found {
		indicators = append(indicators, indicator)
	}
	sort.Strings(indicators)

	return indicators
}
