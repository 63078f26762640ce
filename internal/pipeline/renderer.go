package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/newscred/internal/model"
)

const footer = "_Generated by newscred. Scores are heuristic indicators, not verdicts on truth._\n"

// Renderer writes analysis results as JSON, Markdown or a terse summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes result as indented JSON to path
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report of result to path
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	return writeFile(path, []byte(r.Markdown(result)))
}

// Markdown returns the Markdown report of result
func (r *Renderer) Markdown(result *model.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Credibility Report: %s\n\n", result.Subject())
	if result.Input.URL != "" {
		fmt.Fprintf(&b, "**URL:** %s  \n", result.Input.URL)
	}
	fmt.Fprintf(&b, "**Analyzed:** %s  \n", result.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "**ID:** `%s`\n\n", result.ID)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Credibility | **%s** |\n", result.CredibilityLevel)
	fmt.Fprintf(&b, "| Score | %.2f |\n", result.OverallCredibilityScore)
	fmt.Fprintf(&b, "| Confidence | %.2f |\n\n", result.ConfidenceScore)

	if len(result.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range result.Signals {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", s.Type, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}

	if src := result.SourceCredibility; src != nil {
		b.WriteString("## Source\n\n")
		if src.Degraded() {
			fmt.Fprintf(&b, "Source could not be evaluated: %s\n\n", src.Error)
		} else {
			fmt.Fprintf(&b, "- Domain: %s\n", src.Domain)
			fmt.Fprintf(&b, "- HTTPS: %t\n", src.IsHTTPS)
			if rating := src.BiasCredibility(); rating != "" {
				fmt.Fprintf(&b, "- Reputation: %s\n", rating)
			}
			fmt.Fprintf(&b, "- Score: %.2f\n\n", src.CredibilityScore)
		}
	}

	if c := result.ContentSignals; c != nil {
		b.WriteString("## Content\n\n")
		fmt.Fprintf(&b, "- Words: %d, sentences: %d\n", c.WordCount, c.SentenceCount)
		if avg, ok := c.Readability["avg_sentence_length"]; ok {
			fmt.Fprintf(&b, "- Average sentence length: %.1f\n", avg)
		}
		if len(c.Keywords) > 0 {
			fmt.Fprintf(&b, "- Keywords: %s\n", strings.Join(c.Keywords, ", "))
		}
		b.WriteString("\n")
	}

	writeList(&b, "Bias Indicators", result.BiasIndicators)

	if x := result.CrossReference; x != nil {
		b.WriteString("## Cross-Reference\n\n")
		if !x.Usable() {
			fmt.Fprintf(&b, "Status: %s %s\n\n", x.Status, x.Message)
		} else {
			if x.ConsensusScore != nil {
				fmt.Fprintf(&b, "- Consensus: %.2f\n", *x.ConsensusScore)
			}
			if x.SourceDiversity != nil {
				fmt.Fprintf(&b, "- Distinct sources: %d\n", *x.SourceDiversity)
			}
			for _, a := range x.SimilarArticles {
				fmt.Fprintf(&b, "- [%s](%s) (%s)\n", a.Title, a.URL, a.Source)
			}
			b.WriteString("\n")
		}
	}

	if f := result.FactCheck; f != nil && f.Status == model.StatusSuccess {
		fmt.Fprintf(&b, "## Fact Checks\n\n%d published fact checks match the headline.\n\n", f.ClaimCount)
	}

	if ai := result.AIJudgment; ai != nil && ai.Status == model.StatusSuccess {
		b.WriteString("## AI Judgment\n\n")
		fmt.Fprintf(&b, "_%s/%s_", ai.Provider, ai.Model)
		if ai.CredibilityScore != nil {
			fmt.Fprintf(&b, ": %.2f", *ai.CredibilityScore)
		}
		b.WriteString("\n\n")
		for _, f := range ai.KeyFindings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		for _, f := range ai.RedFlags {
			fmt.Fprintf(&b, "- ⚠ %s\n", f)
		}
		b.WriteString("\n")
	}

	if s := result.Sentiment; s != nil && s.Usable() {
		b.WriteString("## Sentiment\n\n")
		fmt.Fprintf(&b, "%s (polarity %.2f, subjectivity %.2f)\n\n", s.Label, s.Polarity, s.Subjectivity)
	}

	writeList(&b, "Warnings", result.WarningFlags)
	writeList(&b, "Recommendations", result.Recommendations)

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(footer)
	}

	return b.String()
}

// RenderSummary prints a short human summary of result to w
func (r *Renderer) RenderSummary(w io.Writer, result *model.AnalysisResult) {
	_, _ = fmt.Fprintf(w, "\n%s\n", result.Subject())
	_, _ = fmt.Fprintf(w, "  Credibility: %s (score %.2f, confidence %.2f)\n",
		result.CredibilityLevel, result.OverallCredibilityScore, result.ConfidenceScore)
	if domain := result.SourceDomain(); domain != "" {
		_, _ = fmt.Fprintf(w, "  Source:      %s\n", domain)
	}
	for _, flag := range result.WarningFlags {
		_, _ = fmt.Fprintf(w, "  ⚠ %s\n", flag)
	}
	for _, rec := range result.Recommendations {
		_, _ = fmt.Fprintf(w, "  → %s\n", rec)
	}
	_, _ = fmt.Fprintln(w)
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
