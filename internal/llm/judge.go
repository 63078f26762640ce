package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ppiankov/newscred/internal/model"
)

// ErrEmptyInput is returned when there is neither title nor content to judge
var ErrEmptyInput = errors.New("nothing to judge")

// Judge turns a completion provider into the AI credibility collaborator
type Judge struct {
	provider  Provider
	timeout   time.Duration
	maxTokens int
}

// NewJudge wraps provider. A nil provider yields an always-unavailable judge.
func NewJudge(provider Provider, config Config) *Judge {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Judge{
		provider:  provider,
		timeout:   timeout,
		maxTokens: config.maxTokens(),
	}
}

// Enabled reports whether a provider is configured
func (j *Judge) Enabled() bool {
	return j != nil && j.provider != nil
}

// Assess asks the model for a credibility judgment. On success a bias and
// manipulation judgment is chained and attached when it also succeeds.
func (j *Judge) Assess(ctx context.Context, title, content string) *model.AIJudgment {
	if !j.Enabled() {
		return &model.AIJudgment{Outcome: model.Unavailable("AI analysis not configured")}
	}

	judgment := &model.AIJudgment{
		Provider: j.provider.Name(),
		Model:    j.provider.Model(),
	}

	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		judgment.Outcome = model.Failed(ErrEmptyInput)
		return judgment
	}

	resp, err := j.complete(ctx, BuildJudgmentPrompt(title, content))
	if err != nil {
		judgment.Outcome = model.Failed(err)
		return judgment
	}

	reply, err := parseJudgment(resp.Text)
	if err != nil {
		judgment.Outcome = model.Failed(err)
		return judgment
	}

	judgment.Outcome = model.Outcome{Status: model.StatusSuccess}
	judgment.Model = resp.Model
	judgment.CredibilityScore = reply.CredibilityScore
	judgment.KeyFindings = reply.KeyFindings
	judgment.RedFlags = reply.RedFlags

	bias := j.DetectBias(ctx, strings.TrimSpace(title+" "+content))
	if bias.Status == model.StatusSuccess {
		judgment.BiasAnalysis = bias
	}

	return judgment
}

// DetectBias asks the model for a bias and manipulation judgment of text
func (j *Judge) DetectBias(ctx context.Context, text string) *model.BiasAnalysis {
	if !j.Enabled() {
		return &model.BiasAnalysis{Outcome: model.Unavailable("AI analysis not configured")}
	}
	if strings.TrimSpace(text) == "" {
		return &model.BiasAnalysis{Outcome: model.Failed(ErrEmptyInput)}
	}

	resp, err := j.complete(ctx, BuildBiasPrompt(text))
	if err != nil {
		return &model.BiasAnalysis{Outcome: model.Failed(err)}
	}

	reply, err := parseBias(resp.Text)
	if err != nil {
		return &model.BiasAnalysis{Outcome: model.Failed(err)}
	}

	return &model.BiasAnalysis{
		Outcome:               model.Outcome{Status: model.StatusSuccess},
		BiasScore:             *reply.BiasScore,
		PoliticalLean:         reply.PoliticalLean,
		EmotionalManipulation: reply.EmotionalManipulation,
		ManipulationTactics:   reply.ManipulationTactics,
	}
}

func (j *Judge) complete(ctx context.Context, prompt string) (*CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	return j.provider.Complete(ctx, CompletionRequest{
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: j.maxTokens,
		JSON:      true,
	})
}
