package score

import (
	"fmt"

	"github.com/ppiankov/newscred/internal/model"
)

// Thresholds are the lower bounds of the High, Medium and Low tiers
type Thresholds struct {
	High   float64
	Medium float64
	Low    float64
}

// DefaultThresholds returns 0.8 / 0.5 / 0.3
func DefaultThresholds() Thresholds {
	return ThresholdsFromConfig(model.DefaultConfig().Thresholds)
}

// ThresholdsFromConfig converts the config section
func ThresholdsFromConfig(cfg model.ThresholdConfig) Thresholds {
	return Thresholds{High: cfg.High, Medium: cfg.Medium, Low: cfg.Low}
}

// Validate checks 0 <= low < medium < high <= 1
func (t Thresholds) Validate() error {
	if t.Low < 0 || t.High > 1 {
		return fmt.Errorf("thresholds must lie in [0,1]: high=%.2f medium=%.2f low=%.2f", t.High, t.Medium, t.Low)
	}
	if !(t.Low < t.Medium && t.Medium < t.High) {
		return fmt.Errorf("thresholds must be strictly ordered high > medium > low: high=%.2f medium=%.2f low=%.2f", t.High, t.Medium, t.Low)
	}
	return nil
}

// Classifier maps a score to a credibility tier
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier, rejecting invalid thresholds
func NewClassifier(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{thresholds: t}, nil
}

// Thresholds returns the configured tier boundaries
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns the tier for score
func (c *Classifier) Classify(score float64) model.CredibilityLevel {
	switch {
	case score >= c.thresholds.High:
		return model.LevelHigh
	case score >= c.thresholds.Medium:
		return model.LevelMedium
	case score >= c.thresholds.Low:
		return model.LevelLow
	default:
		return model.LevelVeryLow
	}
}
