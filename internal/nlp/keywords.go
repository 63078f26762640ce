package nlp

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultKeywordCount is the number of keywords extracted when k <= 0
const DefaultKeywordCount = 10

// KeywordExtractor ranks words by frequency after stop word removal
type KeywordExtractor struct {
	stopWords map[string]bool
	minLength int
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		stopWords: defaultStopWords(),
		minLength: 3,
	}
}

// Keywords returns the top-k most frequent words of text.
// Ties keep the order of first appearance.
func (ke *KeywordExtractor) Keywords(text string, k int) []string {
	if k <= 0 {
		k = DefaultKeywordCount
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range ke.tokenize(text) {
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > k {
		order = order[:k]
	}
	return order
}

func (ke *KeywordExtractor) tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	result := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.Trim(word, "'")
		if len([]rune(word)) < ke.minLength || ke.stopWords[word] || !isAlpha(word) {
			continue
		}
		result = append(result, word)
	}
	return result
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return word != ""
}

func defaultStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "he", "in", "is", "it", "its", "of", "on", "or",
		"she", "that", "the", "they", "this", "to", "was", "were", "will",
		"with", "you", "your", "we", "our", "their", "them", "there", "these",
		"those", "been", "being", "had", "having", "do", "does", "did", "doing",
		"would", "could", "should", "may", "might", "must", "can", "cannot",
		"about", "above", "after", "again", "against", "all", "am", "any",
		"because", "before", "below", "between", "both", "but", "during",
		"each", "few", "further", "here", "how", "if", "into", "just", "more",
		"most", "no", "nor", "not", "now", "only", "other", "out", "own",
		"same", "so", "some", "such", "than", "then", "through", "too", "under",
		"until", "up", "very", "what", "when", "where", "which", "while", "who",
		"whom", "why", "also", "however", "therefore", "thus", "hence", "yet",
		"said", "says", "his", "her", "him", "its", "one", "two", "new",
		"don't", "doesn't", "didn't", "isn't", "wasn't", "won't", "can't",
	}

	result := make(map[string]bool, len(words))
	for _, w := range words {
		result[w] = true
	}
	return result
}
