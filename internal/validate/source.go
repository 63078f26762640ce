package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/newscred/internal/model"
)

const (
	scoreHighCredibility = 0.9
	scoreLowCredibility  = 0.1
	scoreBaseline        = 0.5
	httpsBonus           = 0.05

	// DegradedSourceScore is reported when a source cannot be evaluated
	DegradedSourceScore = 0.3
)

var (
	commonTLDs               = []string{".com", ".org", ".gov", ".edu", ".net"}
	suspiciousDomainKeywords = []string{"fake", "real", "truth", "insider", "leaked", "exposed"}
)

// SourceEvaluator estimates the credibility of the publisher behind a URL
type SourceEvaluator struct {
	lookup ReputationLookup
}

// NewSourceEvaluator creates an evaluator using the given reputation lookup
func NewSourceEvaluator(lookup ReputationLookup) *SourceEvaluator {
	if lookup == nil {
		lookup = NewReputationClassifier(nil)
	}
	return &SourceEvaluator{lookup: lookup}
}

// Evaluate never fails: problems are reported as a degraded record
// carrying DegradedSourceScore.
func (e *SourceEvaluator) Evaluate(rawURL string) (result model.SourceCredibility) {
	defer func() {
		if r := recover(); r != nil {
			result = degraded(fmt.Errorf("%v", r))
		}
	}()

	parsed, err := url.Parse(withHostMarker(strings.TrimSpace(rawURL)))
	if err != nil {
		return degraded(err)
	}

	domain := NormalizeDomain(parsed.Hostname())
	if domain == "" {
		return degraded(fmt.Errorf("no host in %q", rawURL))
	}

	check, err := e.lookup.Lookup(domain)
	if err != nil {
		return degraded(fmt.Errorf("reputation lookup: %w", err))
	}

	score := scoreBaseline
	switch check.Credibility {
	case model.RatingHigh:
		score = scoreHighCredibility
	case model.RatingLow:
		score = scoreLowCredibility
	}

	isHTTPS := strings.EqualFold(parsed.Scheme, "https")
	if isHTTPS {
		score += httpsBonus
	}

	heuristics := DomainHeuristics(domain)

	return model.SourceCredibility{
		Domain:           domain,
		IsHTTPS:          isHTTPS,
		BiasCheck:        &check,
		DomainHeuristics: &heuristics,
		CredibilityScore: min(score, 1.0),
	}
}

// NormalizeDomain lowercases a host and strips a leading "www."
func NormalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// DomainHeuristics computes informational checks on a domain name
func DomainHeuristics(domain string) model.DomainHeuristics {
	heuristics := model.DomainHeuristics{
		Length:             len(domain),
		SuspiciousKeywords: []string{},
	}

	for _, tld := range commonTLDs {
		if strings.HasSuffix(domain, tld) {
			heuristics.HasCommonTLD = true
			break
		}
	}

	lower := strings.ToLower(domain)
	for _, keyword := range suspiciousDomainKeywords {
		if strings.Contains(lower, keyword) {
			heuristics.SuspiciousKeywords = append(heuristics.SuspiciousKeywords, keyword)
		}
	}

	return heuristics
}

// withHostMarker lets "reuters.com/x" parse with reuters.com as its host.
// The scheme stays empty, so such sources never count as HTTPS.
func withHostMarker(raw string) string {
	if raw == "" || strings.Contains(raw, "://") || strings.HasPrefix(raw, "//") {
		return raw
	}
	return "//" + raw
}

func degraded(err error) model.SourceCredibility {
	return model.SourceCredibility{
		Error:            fmt.Sprintf("source analysis failed: %v", err),
		CredibilityScore: DegradedSourceScore,
	}
}
