package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newscred/internal/monitor"
	"github.com/ppiankov/newscred/internal/pipeline"
	"github.com/ppiankov/newscred/internal/util"
	"github.com/ppiankov/newscred/internal/worker"
)

var (
	monitorOnce     bool
	monitorSchedule string
	monitorItems    int
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Analyze the latest headlines of configured RSS feeds",
	Long: `Monitor polls the feeds listed under monitor.feeds in the config file and
analyzes their newest headlines. Headlines already analyzed in this run
are skipped.

Example:
  newscred monitor --once
  newscred monitor --schedule "@every 10m"
  newscred monitor --schedule "0 * * * *" --items 5`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().BoolVar(&monitorOnce, "once", false, "run a single cycle and exit")
	monitorCmd.Flags().StringVar(&monitorSchedule, "schedule", "", "cron schedule (default from config)")
	monitorCmd.Flags().IntVar(&monitorItems, "items", 0, "headlines per feed (default from config)")
	monitorCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "AI judgment provider (openai, gemini, anthropic, ollama)")
	monitorCmd.Flags().StringVar(&llmModel, "llm-model", "", "AI judgment model name")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if monitorSchedule != "" {
		cfg.Monitor.Schedule = monitorSchedule
	}
	if monitorItems > 0 {
		cfg.Monitor.ItemsPerFeed = monitorItems
	}
	if len(cfg.Monitor.Feeds) == 0 {
		return fmt.Errorf("no feeds configured (set monitor.feeds in the config file)")
	}
	if err := applyLLMFlags(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	logger := newLogger()
	analyzer, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	recorder, closeHistory, err := openRecorder(cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	m := monitor.New(cfg.Monitor, util.NewHTTPClient(cfg.HTTP), analyzer, recorder,
		worker.NewLimiterFromConfig(cfg.RateLimiting), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if monitorOnce {
		printCycle(m.RunOnce(ctx))
		return nil
	}
	return m.Run(ctx, cfg.Monitor.Schedule, printCycle)
}

func printCycle(c monitor.Cycle) {
	fmt.Fprintf(os.Stderr, "\n%s  %d feeds, %d analyzed, %d skipped, %d failed\n",
		c.Started.Format("15:04:05"), c.Feeds, c.Analyzed, c.Skipped, c.Failed)
	for _, r := range c.Results {
		fmt.Fprintf(os.Stderr, "  %-9s %.2f  %s\n", r.CredibilityLevel, r.OverallCredibilityScore, r.Subject())
	}
}
