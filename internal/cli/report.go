package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/newscred/internal/history"
)

var (
	reportDate   string
	reportOut    string
	reportExport string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize or export one day of analysis history",
	Long: `Report builds the daily summary of recorded analyses: credibility
distribution, score statistics, warning counts, top domains and top bias
indicators. With --export the raw records are written instead.

Example:
  newscred report
  newscred report --date 20260301 --out report.json
  newscred report --date 20260301 --export csv --out analyses.csv`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to report as YYYYMMDD (default: today, UTC)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default: stdout)")
	reportCmd.Flags().StringVar(&reportExport, "export", "", "export raw records as csv or json")
}

func runReport(cmd *cobra.Command, args []string) (err error) {
	day, err := parseReportDate(reportDate, time.Now())
	if err != nil {
		return err
	}
	if reportExport != "" && reportExport != history.FormatCSV && reportExport != history.FormatJSON {
		return fmt.Errorf("unsupported export format %q (use csv or json)", reportExport)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled (history.enabled: false)")
	}

	store, err := history.Open(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	var w io.Writer = os.Stdout
	if reportOut != "" {
		if err := os.MkdirAll(filepath.Dir(reportOut), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		w = f
	}

	ctx := context.Background()
	if reportExport != "" {
		records, err := store.Between(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("load analyses: %w", err)
		}
		if err := history.Export(w, reportExport, records); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Exported %d analyses for %s\n", len(records), day.Format("2006-01-02"))
		return nil
	}

	report, err := store.DailyReport(ctx, day)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if err := history.WriteJSON(w, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	printReportSummary(os.Stderr, report)
	return nil
}

// parseReportDate reads YYYYMMDD as a UTC day, defaulting to the UTC day of now
func parseReportDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.ParseInLocation("20060102", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYYMMDD)", s)
	}
	return day, nil
}

func printReportSummary(w io.Writer, r *history.DailyReport) {
	fmt.Fprintf(w, "\n  Date:        %s\n", r.Date)
	fmt.Fprintf(w, "  Analyses:    %d\n", r.TotalAnalyses)
	if r.TotalAnalyses == 0 {
		return
	}
	fmt.Fprintf(w, "  Levels:      high %d, medium %d, low %d, very low %d\n",
		r.Distribution.High, r.Distribution.Medium, r.Distribution.Low, r.Distribution.VeryLow)
	fmt.Fprintf(w, "  Credibility: mean %.2f (sd %.2f, range %.2f-%.2f)\n",
		r.Credibility.Mean, r.Credibility.StdDev, r.Credibility.Min, r.Credibility.Max)
	fmt.Fprintf(w, "  Warnings:    %d total, %.1f per article\n", r.Warnings.Total, r.Warnings.Average)
	if len(r.TopDomains) > 0 {
		fmt.Fprintf(w, "  Top domain:  %s (%d)\n", r.TopDomains[0].Name, r.TopDomains[0].Count)
	}
}
