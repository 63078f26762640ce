package history

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ppiankov/newscred/internal/model"
)

const (
	reportHighScore = 0.8
	reportLowScore  = 0.3
	reportTopN      = 10
)

// Summary describes the spread of one score across a report
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Distribution counts analyses per credibility level
type Distribution struct {
	High    int `json:"high"`
	Medium  int `json:"medium"`
	Low     int `json:"low"`
	VeryLow int `json:"very_low"`
}

// WarningStats aggregates warning flags
type WarningStats struct {
	Total        int     `json:"total_warnings"`
	WithWarnings int     `json:"articles_with_warnings"`
	Average      float64 `json:"average_warnings_per_article"`
}

// Count is a ranked name with its number of occurrences
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyReport summarizes one day of analyses
type DailyReport struct {
	Date              string         `json:"date"`
	TotalAnalyses     int            `json:"total_analyses"`
	ByType            map[string]int `json:"analyses_by_type"`
	Distribution      Distribution   `json:"credibility_distribution"`
	Warnings          WarningStats   `json:"warning_statistics"`
	Credibility       Summary        `json:"credibility_score"`
	Confidence        Summary        `json:"confidence_score"`
	HighCredibility   int            `json:"high_credibility_count"`
	LowCredibility    int            `json:"low_credibility_count"`
	TopDomains        []Count        `json:"top_domains"`
	TopBiasIndicators []Count        `json:"top_bias_indicators"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// BuildReport summarizes records as the report for day
func BuildReport(day time.Time, records []Record) *DailyReport {
	report := &DailyReport{
		Date:              day.Format("2006-01-02"),
		TotalAnalyses:     len(records),
		ByType:            map[string]int{},
		TopDomains:        []Count{},
		TopBiasIndicators: []Count{},
		GeneratedAt:       time.Now().UTC(),
	}
	if len(records) == 0 {
		return report
	}

	scores := make([]float64, 0, len(records))
	confidences := make([]float64, 0, len(records))
	domains := map[string]int{}
	indicators := map[string]int{}

	for _, rec := range records {
		report.ByType[rec.Type]++

		switch model.CredibilityLevel(rec.Level) {
		case model.LevelHigh:
			report.Distribution.High++
		case model.LevelMedium:
			report.Distribution.Medium++
		case model.LevelLow:
			report.Distribution.Low++
		default:
			report.Distribution.VeryLow++
		}

		report.Warnings.Total += rec.WarningCount
		if rec.WarningCount > 0 {
			report.Warnings.WithWarnings++
		}

		if rec.Score >= reportHighScore {
			report.HighCredibility++
		}
		if rec.Score <= reportLowScore {
			report.LowCredibility++
		}

		if rec.Domain != "" {
			domains[rec.Domain]++
		}
		for _, ind := range rec.BiasIndicators {
			indicators[ind]++
		}

		scores = append(scores, rec.Score)
		confidences = append(confidences, rec.Confidence)
	}

	report.Warnings.Average = float64(report.Warnings.Total) / float64(len(records))
	report.Credibility = summarize(scores)
	report.Confidence = summarize(confidences)
	report.TopDomains = topCounts(domains, reportTopN)
	report.TopBiasIndicators = topCounts(indicators, reportTopN)

	return report
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}

	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

// topCounts ranks counts descending, ties by name
func topCounts(counts map[string]int, n int) []Count {
	ranked := make([]Count, 0, len(counts))
	for name, c := range counts {
		ranked = append(ranked, Count{Name: name, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
