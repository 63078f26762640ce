package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/newscred/internal/cache"
	"github.com/ppiankov/newscred/internal/extract"
	"github.com/ppiankov/newscred/internal/llm"
	"github.com/ppiankov/newscred/internal/logging"
	"github.com/ppiankov/newscred/internal/lookup"
	"github.com/ppiankov/newscred/internal/model"
	"github.com/ppiankov/newscred/internal/nlp"
	"github.com/ppiankov/newscred/internal/score"
	"github.com/ppiankov/newscred/internal/util"
	"github.com/ppiankov/newscred/internal/validate"
	"github.com/ppiankov/newscred/internal/worker"
)

// ErrNoInput is returned when neither a title nor content was supplied.
// A URL on its own is not enough to analyze.
var ErrNoInput = errors.New("either title or content must be provided")

const (
	maxLoggedTarget   = 100
	maxLoggedWarnings = 3
)

// SourceEvaluator rates the publisher behind a URL
type SourceEvaluator interface {
	Evaluate(rawURL string) model.SourceCredibility
}

// CrossReferencer looks for other outlets covering the same story
type CrossReferencer interface {
	CrossReference(ctx context.Context, headline, content string) *model.CrossReference
}

// FactChecker searches published fact checks
type FactChecker interface {
	Check(ctx context.Context, query string) *model.FactCheck
}

// Judge produces a generative AI credibility judgment
type Judge interface {
	Assess(ctx context.Context, title, content string) *model.AIJudgment
}

// SentimentAnalyzer scores polarity and subjectivity of text
type SentimentAnalyzer interface {
	Analyze(text string) (model.Sentiment, error)
}

// Collaborators are the external signal sources. Nil members are skipped
// and their signal is absent from the result.
type Collaborators struct {
	Source         SourceEvaluator
	CrossReference CrossReferencer
	FactCheck      FactChecker
	Judge          Judge
	Sentiment      SentimentAnalyzer
}

// Analyzer orchestrates one credibility analysis. It holds no state
// between calls and is safe for concurrent use.
type Analyzer struct {
	content    *extract.ContentExtractor
	bias       *extract.BiasDetector
	collab     Collaborators
	scorer     *score.Scorer
	classifier *score.Classifier
	fetcher    *Fetcher
	logger     *log.Logger
	now        func() time.Time
}

// NewAnalyzer creates an analyzer around the given collaborators. fetcher
// may be nil, in which case AnalyzeURL is unavailable.
func NewAnalyzer(cfg *model.Config, collab Collaborators, fetcher *Fetcher, logger *log.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	classifier, err := score.NewClassifier(score.ThresholdsFromConfig(cfg.Thresholds))
	if err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}

	return &Analyzer{
		content:    extract.NewContentExtractor(nlp.NewKeywordExtractor()),
		bias:       extract.NewBiasDetector(cfg.Bias.Phrases),
		collab:     collab,
		scorer:     score.NewScorer(cfg.Scoring.ConfidenceDivisor),
		classifier: classifier,
		fetcher:    fetcher,
		logger:     logging.OrDiscard(logger),
		now:        time.Now,
	}, nil
}

// New wires the production analyzer: reputation lists, NewsAPI, Google
// Custom Search and Fact Check Tools, the configured LLM provider, the
// lexicon sentiment analyzer and the article fetcher.
func New(cfg *model.Config, logger *log.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	logger = logging.OrDiscard(logger)

	client := util.NewHTTPClient(cfg.HTTP)
	limiter := worker.NewLimiterFromConfig(cfg.RateLimiting)
	deps := lookup.Deps{
		HTTPClient: client,
		Limiter:    limiter,
		Cache:      cache.New(cfg.Cache),
		CacheTTL:   cfg.Cache.DiskTTL,
		UserAgent:  cfg.HTTP.UserAgent,
	}

	news := lookup.NewNewsAPI(cfg.APIs.NewsAPIURL, cfg.APIs.NewsAPIKey, cfg.APIs.Language, deps)
	search := lookup.NewCustomSearch(cfg.APIs.CustomSearchURL, cfg.APIs.GoogleAPIKey, cfg.APIs.CustomSearchID, deps)

	llmConfig := llm.ConfigFromModel(cfg.LLM, nil)
	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		// AI judgment is optional; the signal is reported as unavailable
		logger.Warn("LLM provider disabled", "provider", cfg.LLM.Provider, "err", err)
		provider = nil
	}

	collab := Collaborators{
		Source:         validate.NewSourceEvaluator(validate.NewReputationClassifier(&cfg.Sources)),
		CrossReference: lookup.NewCrossReferencer(news, search),
		FactCheck:      lookup.NewFactChecker(cfg.APIs.FactCheckURL, cfg.APIs.GoogleAPIKey, cfg.APIs.Language, deps),
		Judge:          llm.NewJudge(provider, llmConfig),
		Sentiment:      nlp.NewSentimentAnalyzer(),
	}

	return NewAnalyzer(cfg, collab, NewFetcherFromConfig(cfg.HTTP, limiter), logger)
}

// Thresholds returns the classifier thresholds in use
func (a *Analyzer) Thresholds() score.Thresholds {
	return a.classifier.Thresholds()
}

// AnalyzeURL fetches the article at rawURL and analyzes its headline and body
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	if a.fetcher == nil {
		return nil, errors.New("article fetching is not configured")
	}

	a.logger.Debug("fetching article", "url", rawURL)
	in, err := a.fetcher.FetchArticle(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	return a.Analyze(ctx, in)
}

// AnalyzeInput analyzes in, fetching the article first when only a URL was given
func (a *Analyzer) AnalyzeInput(ctx context.Context, in model.AnalysisInput) (*model.AnalysisResult, error) {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Content) == "" && strings.TrimSpace(in.URL) != "" {
		return a.AnalyzeURL(ctx, strings.TrimSpace(in.URL))
	}
	return a.Analyze(ctx, in)
}

// Analyze runs the full analysis of in. Collaborator failures, including
// ones caused by ctx expiring, degrade their own signal only; the only
// error is ErrNoInput.
func (a *Analyzer) Analyze(ctx context.Context, in model.AnalysisInput) (*model.AnalysisResult, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" && content == "" {
		return nil, ErrNoInput
	}

	result := &model.AnalysisResult{
		ID:    uuid.NewString(),
		Input: in,
	}
	a.logger.Info("analyzing", "target", logging.Truncate(result.Subject(), maxLoggedTarget))

	if content != "" {
		signals := a.content.Extract(title, content)
		result.ContentSignals = &signals
	}

	if in.URL != "" && a.collab.Source != nil {
		source := a.collab.Source.Evaluate(in.URL)
		if source.Degraded() {
			a.logger.Warn("source evaluation degraded", "url", in.URL, "err", source.Error)
		}
		result.SourceCredibility = &source
	}

	a.collect(ctx, title, content, result)

	result.BiasIndicators = a.bias.Detect(strings.TrimSpace(title + " " + content))
	if result.BiasIndicators == nil {
		result.BiasIndicators = []string{}
	}

	scored := a.scorer.Calculate(score.Inputs{
		Source:         result.SourceCredibility,
		Content:        result.ContentSignals,
		CrossReference: result.CrossReference,
		BiasIndicators: result.BiasIndicators,
		AI:             result.AIJudgment,
		Sentiment:      result.Sentiment,
	})
	result.OverallCredibilityScore = scored.Overall
	result.ConfidenceScore = scored.Confidence
	result.Signals = scored.Signals
	result.CredibilityLevel = a.classifier.Classify(scored.Overall)

	result.WarningFlags = score.Warnings(score.WarningInputs{
		Source:         result.SourceCredibility,
		Content:        result.ContentSignals,
		BiasIndicators: result.BiasIndicators,
		CrossReference: result.CrossReference,
		Sentiment:      result.Sentiment,
	})
	result.Recommendations = score.Recommend(scored.Overall, result.WarningFlags, result.SourceCredibility, a.classifier.Thresholds())
	result.AnalyzedAt = a.now().UTC()

	a.logger.Info("analysis complete",
		"level", result.CredibilityLevel,
		"score", fmt.Sprintf("%.2f", result.OverallCredibilityScore),
		"confidence", fmt.Sprintf("%.2f", result.ConfidenceScore))
	for i, flag := range result.WarningFlags {
		if i == maxLoggedWarnings {
			break
		}
		a.logger.Warn("warning flag", "flag", flag)
	}

	return result, nil
}

// collect runs the independent external collaborators concurrently
func (a *Analyzer) collect(ctx context.Context, title, content string, result *model.AnalysisResult) {
	var g errgroup.Group

	if title != "" && a.collab.CrossReference != nil {
		g.Go(func() error {
			result.CrossReference = a.collab.CrossReference.CrossReference(ctx, title, content)
			return nil
		})
	}

	if title != "" && a.collab.FactCheck != nil {
		g.Go(func() error {
			result.FactCheck = a.collab.FactCheck.Check(ctx, title)
			return nil
		})
	}

	if a.collab.Judge != nil {
		g.Go(func() error {
			result.AIJudgment = a.collab.Judge.Assess(ctx, title, content)
			return nil
		})
	}

	if content != "" && a.collab.Sentiment != nil {
		g.Go(func() error {
			sentiment, err := a.collab.Sentiment.Analyze(content)
			if err != nil {
				sentiment = model.Sentiment{Outcome: model.Failed(err)}
			}
			result.Sentiment = &sentiment
			return nil
		})
	}

	_ = g.Wait()

	a.logOutcome("cross_reference", outcomeOf(result.CrossReference))
	a.logOutcome("fact_check", outcomeOf(result.FactCheck))
	a.logOutcome("ai_judgment", outcomeOf(result.AIJudgment))
	a.logOutcome("sentiment", outcomeOf(result.Sentiment))
}

func (a *Analyzer) logOutcome(collaborator string, outcome *model.Outcome) {
	if outcome == nil {
		return
	}
	switch outcome.Status {
	case model.StatusError, model.StatusDegraded:
		a.logger.Warn("collaborator degraded", "collaborator", collaborator, "status", outcome.Status, "err", outcome.Message)
	case model.StatusUnavailable:
		a.logger.Debug("collaborator unavailable", "collaborator", collaborator, "reason", outcome.Message)
	}
}

// outcomeOf returns the embedded outcome of a collaborator payload, or nil
func outcomeOf(payload any) *model.Outcome {
	switch p := payload.(type) {
	case *model.CrossReference:
		if p != nil {
			return &p.Outcome
		}
	case *model.FactCheck:
		if p != nil {
			return &p.Outcome
		}
	case *model.AIJudgment:
		if p != nil {
			return &p.Outcome
		}
	case *model.Sentiment:
		if p != nil {
			return &p.Outcome
		}
	}
	return nil
}
