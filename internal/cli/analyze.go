package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newscred/internal/history"
	"github.com/ppiankov/newscred/internal/model"
	"github.com/ppiankov/newscred/internal/pipeline"
	"github.com/ppiankov/newscred/internal/worker"
)

var (
	inURL       string
	inTitle     string
	inContent   string
	contentFile string
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	noHistory   bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [url-or-headline]",
	Short: "Score the credibility of one article",
	Long: `Analyze scores one news article from any combination of URL, headline
and body text.

A URL on its own is fetched first (robots.txt is honored) and its
headline and body are extracted. A headline or body text is required
otherwise.

Example:
  newscred analyze https://www.bbc.com/news/some-story
  newscred analyze --title "Council approves budget" --content-file story.txt
  newscred analyze "You won't believe what happened next" --json report.json
  newscred analyze https://example.com/story --llm-provider anthropic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&inURL, "url", "", "article URL")
	analyzeCmd.Flags().StringVar(&inTitle, "title", "", "article headline")
	analyzeCmd.Flags().StringVar(&inContent, "content", "", "article body text")
	analyzeCmd.Flags().StringVar(&contentFile, "content-file", "", "read article body from file (- for stdin)")

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (- for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the collaborator response cache")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the analysis in history")

	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "AI judgment provider (openai, gemini, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "AI judgment model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, err := analysisInput(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter
	if err := applyLLMFlags(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	logger := newLogger()
	analyzer, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", (&model.AnalysisResult{Input: in}).Subject())
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	result, err := analyzer.AnalyzeInput(ctx, in)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoInput) {
			return fmt.Errorf("%w (pass --title, --content or a URL to fetch)", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cfg.History.Enabled && !noHistory {
		recorder, closeHistory, err := openRecorder(cfg, logger)
		if err != nil {
			logger.Warn("history unavailable", "err", err)
		} else {
			if err := recorder.Record(ctx, history.TypeManual, result); err != nil {
				logger.Warn("failed to record analysis", "err", err)
			}
			closeHistory()
		}
	}

	return renderResult(pipeline.NewRenderer(cfg.Output.IncludeFooter), result, outJSON, outMD)
}

// analysisInput merges the positional argument and flags
func analysisInput(args []string) (model.AnalysisInput, error) {
	in := model.AnalysisInput{URL: inURL, Title: inTitle, Content: inContent}

	if len(args) == 1 {
		if worker.IsHTTPURL(args[0]) {
			if in.URL == "" {
				in.URL = args[0]
			}
		} else if in.Title == "" {
			in.Title = args[0]
		}
	}

	if contentFile != "" {
		var data []byte
		var err error
		if contentFile == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(contentFile)
		}
		if err != nil {
			return in, fmt.Errorf("read content: %w", err)
		}
		in.Content = string(data)
	}

	if in.URL == "" && in.Title == "" && in.Content == "" {
		return in, fmt.Errorf("nothing to analyze: pass a URL, --title or --content")
	}
	return in, nil
}

// renderResult writes the requested outputs and the stderr summary.
// Without any output path the JSON goes to stdout.
func renderResult(renderer *pipeline.Renderer, result *model.AnalysisResult, jsonPath, mdPath string) error {
	switch jsonPath {
	case "-":
		if err := printJSON(result); err != nil {
			return err
		}
	case "":
		if mdPath == "" {
			if err := printJSON(result); err != nil {
				return err
			}
		}
	default:
		if err := renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	renderer.RenderSummary(os.Stderr, result)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
