package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newscred/internal/history"
	"github.com/ppiankov/newscred/internal/pipeline"
	"github.com/ppiankov/newscred/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	itemTimeout  time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many URLs or headlines from a file in parallel",
	Long: `Batch analyzes every line of a file concurrently:
- One item per line: an http(s) URL is fetched, anything else is a headline
- Blank lines, # comments and duplicates are skipped
- Each item gets a JSON and a Markdown report in the output directory

Example:
  newscred batch items.txt
  newscred batch items.txt --concurrency 8 --output-dir ./reports
  newscred batch items.txt --item-timeout 45s --timeout 20m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./newscred-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&itemTimeout, "item-timeout", time.Minute, "timeout for a single item")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the collaborator response cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record analyses in history")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "AI judgment provider (openai, gemini, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "AI judgment model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = cfg.Output.IncludeFooter && !noFooter
	cfg.History.Enabled = cfg.History.Enabled && !noHistory
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if err := applyLLMFlags(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  NewsCred Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  AI judgment:  %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger := newLogger()
	analyzer, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	recorder, closeHistory, err := openRecorder(cfg, logger)
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		recorder, closeHistory = nil, func() {}
	}
	defer closeHistory()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.Workers, itemTimeout)
	processor.OnProgress(func(done, total int, r *worker.ItemResult) {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] ✗ %s: %v\n", done, total, r.Item.Value, r.Error)
			return
		}
		fmt.Fprintf(os.Stderr, "[%d/%d] ✓ %s: %s (%.2f)\n",
			done, total, r.Result.Subject(), r.Result.CredibilityLevel, r.Result.OverallCredibilityScore)
	})

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "No items found in %s\n", file)
		return nil
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	levels := make(map[string]int)
	successCount, failureCount := 0, 0

	for _, r := range results {
		if r.Error != nil {
			failureCount++
			continue
		}
		successCount++
		levels[string(r.Result.CredibilityLevel)]++

		if err := recorder.Record(ctx, history.TypeBatch, r.Result); err != nil {
			logger.Warn("failed to record analysis", "id", r.Result.ID, "err", err)
		}

		base := filepath.Join(outputDir, fmt.Sprintf("%03d-%s", r.Item.Line, sanitizeFilename(r.Result.Subject())))
		if err := renderer.RenderJSON(r.Result, base+".json"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", r.Item.Value, err)
			continue
		}
		if err := renderer.RenderMarkdown(r.Result, base+".md"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", r.Item.Value, err)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d items\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	for _, level := range []string{"High", "Medium", "Low", "Very Low"} {
		if n := levels[level]; n > 0 {
			fmt.Fprintf(os.Stderr, "    %-9s %d\n", level+":", n)
		}
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if successCount == 0 {
		return fmt.Errorf("all %d items failed", failureCount)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename turns a headline or URL into a safe file name stem
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, "._-")

	if len(s) > 80 {
		s = s[:80]
	}
	if s == "" {
		return "item"
	}
	return s
}
