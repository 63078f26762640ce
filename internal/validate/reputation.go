package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/newscred/internal/model"
)

// ReputationLookup maps a normalized domain to a bias-check result
type ReputationLookup interface {
	Lookup(domain string) (model.BiasCheck, error)
}

var (
	reliableCheck   = model.BiasCheck{BiasRating: model.RatingMinimal, Credibility: model.RatingHigh, Confidence: 0.8}
	unreliableCheck = model.BiasCheck{BiasRating: model.RatingHigh, Credibility: model.RatingLow, Confidence: 0.9}
	unknownCheck    = model.BiasCheck{BiasRating: model.RatingUnknown, Credibility: model.RatingUnknown, Confidence: 0.3}
)

// ReputationClassifier is a ReputationLookup backed by configured domain lists
type ReputationClassifier struct {
	domainMap  map[string]string
	reliable   map[string]bool
	unreliable map[string]bool
}

// NewReputationClassifier creates a classifier from the sources config
func NewReputationClassifier(config *model.SourcesConfig) *ReputationClassifier {
	if config == nil {
		config = &model.DefaultConfig().Sources
	}

	classifier := &ReputationClassifier{
		domainMap:  make(map[string]string),
		reliable:   make(map[string]bool),
		unreliable: make(map[string]bool),
	}

	for domain, rating := range config.DomainMap {
		classifier.domainMap[strings.ToLower(domain)] = strings.ToLower(rating)
	}
	for _, domain := range config.Reliable {
		classifier.reliable[strings.ToLower(domain)] = true
	}
	for _, domain := range config.Unreliable {
		classifier.unreliable[strings.ToLower(domain)] = true
	}

	return classifier
}

// Lookup classifies a domain. Subdomains inherit the rating of their parent.
func (c *ReputationClassifier) Lookup(domain string) (model.BiasCheck, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return model.BiasCheck{}, fmt.Errorf("empty domain")
	}

	// Explicit mappings win over the lists
	for _, candidate := range parentDomains(domain) {
		if rating, ok := c.domainMap[candidate]; ok {
			return checkForRating(rating), nil
		}
	}

	for _, candidate := range parentDomains(domain) {
		if c.reliable[candidate] {
			return reliableCheck, nil
		}
		if c.unreliable[candidate] {
			return unreliableCheck, nil
		}
	}

	return unknownCheck, nil
}

// parentDomains returns domain and each of its parent domains,
// e.g. edition.cnn.com -> [edition.cnn.com cnn.com com]
func parentDomains(domain string) []string {
	candidates := []string{domain}
	for {
		idx := strings.Index(domain, ".")
		if idx < 0 {
			return candidates
		}
		domain = domain[idx+1:]
		candidates = append(candidates, domain)
	}
}

// checkForRating converts a configured rating string to a BiasCheck
func checkForRating(rating string) model.BiasCheck {
	switch rating {
	case model.RatingHigh, "reliable":
		return reliableCheck
	case model.RatingLow, "unreliable":
		return unreliableCheck
	default:
		return unknownCheck
	}
}
