package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newscred/internal/pipeline"
	"github.com/ppiankov/newscred/internal/server"
)

var (
	serveAddr      string
	analyzeTimeout time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve exposes analysis, live statistics and daily reports over HTTP.

Endpoints:
  GET  /health
  POST /api/v1/analyze                  {"url": "...", "title": "...", "content": "..."}
  GET  /api/v1/stats
  GET  /api/v1/recent?limit=20
  GET  /api/v1/reports/{YYYYMMDD}
  GET  /api/v1/reports/{YYYYMMDD}/export?format=csv|json
  GET  /api/v1/analyses/{id}

Example:
  newscred serve
  newscred serve --addr 127.0.0.1:8080 --llm-provider ollama`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().DurationVar(&analyzeTimeout, "analyze-timeout", 90*time.Second, "timeout for a single analyze request")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "AI judgment provider (openai, gemini, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "AI judgment model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(analyzer, recorder, logger, server.Options{AnalyzeTimeout: analyzeTimeout})
	return srv.Run(ctx, cfg.Server.Addr)
}
