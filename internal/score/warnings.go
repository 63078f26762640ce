package score

import "github.com/ppiankov/newscred/internal/model"

// Warning flags
const (
	WarnLowCredibilitySource = "Source has low credibility rating"
	WarnNoHTTPS              = "Source does not use HTTPS"
	WarnManyBiasIndicators   = "High number of bias indicators detected"
	WarnLowConsensus         = "Low consensus with other sources"
	WarnLimitedDiversity     = "Limited source diversity for verification"
	WarnHighlySubjective     = "Highly subjective content"

	contentIssuePrefix = "Content issue: "
)

const (
	maxBiasIndicators   = 3
	minConsensus        = 0.3
	minSourceDiversity  = 2
	maxSubjectivity     = 0.8
	defaultConsensus    = 0.5
	defaultSubjectivity = 0.5
)

// WarningInputs are the analysis outputs warnings are derived from
type WarningInputs struct {
	Source         *model.SourceCredibility
	Content        *model.ContentSignals
	BiasIndicators []string
	CrossReference *model.CrossReference
	Sentiment      *model.Sentiment
}

// Warnings derives warning flags, in check order
func Warnings(in WarningInputs) []string {
	warnings := []string{}

	if in.Source != nil {
		if in.Source.BiasCredibility() == model.RatingLow {
			warnings = append(warnings, WarnLowCredibilitySource)
		}
		// A degraded record carries no scheme information
		if !in.Source.Degraded() && !in.Source.IsHTTPS {
			warnings = append(warnings, WarnNoHTTPS)
		}
	}

	if in.Content != nil {
		for _, pattern := range in.Content.SuspiciousPatterns {
			warnings = append(warnings, contentIssuePrefix+pattern)
		}
	}

	if len(in.BiasIndicators) > maxBiasIndicators {
		warnings = append(warnings, WarnManyBiasIndicators)
	}

	consensus := defaultConsensus
	diversity := 0
	if xref := in.CrossReference; xref != nil && xref.Usable() {
		if xref.ConsensusScore != nil {
			consensus = *xref.ConsensusScore
		}
		if xref.SourceDiversity != nil {
			diversity = *xref.SourceDiversity
		}
	}
	if consensus < minConsensus {
		warnings = append(warnings, WarnLowConsensus)
	}
	if diversity < minSourceDiversity {
		warnings = append(warnings, WarnLimitedDiversity)
	}

	subjectivity := defaultSubjectivity
	if in.Sentiment != nil && in.Sentiment.Usable() {
		subjectivity = in.Sentiment.Subjectivity
	}
	if subjectivity > maxSubjectivity {
		warnings = append(warnings, WarnHighlySubjective)
	}

	return warnings
}
