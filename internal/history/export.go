package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{
	"id", "type", "analyzed_at", "title", "url", "domain",
	"credibility_score", "credibility_level", "confidence_score",
	"source_credibility", "warning_count", "bias_count", "bias_indicators",
	"sentiment", "word_count", "consensus_score", "source_diversity",
}

// Export writes records in the given format
func Export(w io.Writer, format string, records []Record) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteCSV writes records as CSV with a header row
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Type,
			r.AnalyzedAt.UTC().Format(time.RFC3339),
			r.Title,
			r.URL,
			r.Domain,
			formatFloat(r.Score),
			r.Level,
			formatFloat(r.Confidence),
			formatFloat(r.SourceCredibility),
			strconv.Itoa(r.WarningCount),
			strconv.Itoa(r.BiasCount),
			strings.Join(r.BiasIndicators, "; "),
			r.Sentiment,
			strconv.Itoa(r.WordCount),
			formatFloat(r.Consensus),
			strconv.Itoa(r.Diversity),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
