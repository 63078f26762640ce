package score

import "github.com/ppiankov/newscred/internal/model"

// Recommendations
const (
	RecVerify         = "Verify this information with additional reliable sources"
	RecCaution        = "Exercise extreme caution - this content may be unreliable"
	RecFactCheck      = "Multiple warning indicators detected - fact-check before sharing"
	RecResearch       = "Unknown source - research the publisher's background and reputation"
	RecCrossReference = "Always cross-reference important news with multiple reliable sources"
)

const maxWarningsBeforeFactCheck = 2

// Recommend derives advisory text. The generic cross-reference advice is always last.
func Recommend(score float64, warnings []string, source *model.SourceCredibility, t Thresholds) []string {
	var recommendations []string

	if score < t.Medium {
		recommendations = append(recommendations, RecVerify)
	}
	if score < t.Low {
		recommendations = append(recommendations, RecCaution)
	}
	if len(warnings) > maxWarningsBeforeFactCheck {
		recommendations = append(recommendations, RecFactCheck)
	}
	if source.BiasCredibility() == model.RatingUnknown {
		recommendations = append(recommendations, RecResearch)
	}

	return append(recommendations, RecCrossReference)
}
