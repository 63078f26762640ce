package history

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/newscred/internal/logging"
	"github.com/ppiankov/newscred/internal/model"
)

// MaxRecent is how many summaries the live stats keep
const MaxRecent = 100

// Entry is the live summary of one analysis
type Entry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	URL        string    `json:"url,omitempty"`
	Domain     string    `json:"domain,omitempty"`
	Score      float64   `json:"credibility_score"`
	Level      string    `json:"credibility_level"`
	Confidence float64   `json:"confidence_score"`
	Warnings   int       `json:"warning_count"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Snapshot is a point-in-time copy of the live counters
type Snapshot struct {
	Total               int       `json:"total_analyzed"`
	High                int       `json:"high_credibility"`
	Medium              int       `json:"medium_credibility"`
	Low                 int       `json:"low_credibility"`
	TotalWarnings       int       `json:"total_warnings"`
	TotalBiasIndicators int       `json:"total_bias_indicators"`
	AverageScore        float64   `json:"average_score"`
	Since               time.Time `json:"since"`
}

// Stats keeps in-memory counters and the most recent analyses.
// Low and Very Low share the low bucket.
type Stats struct {
	mu       sync.RWMutex
	snapshot Snapshot
	scoreSum float64
	recent   []Entry
}

// NewStats creates empty live stats
func NewStats() *Stats {
	return &Stats{snapshot: Snapshot{Since: time.Now().UTC()}}
}

// Add folds result into the counters and returns its summary
func (s *Stats) Add(typ string, result *model.AnalysisResult) Entry {
	entry := Entry{
		ID:         result.ID,
		Type:       typ,
		Title:      result.Subject(),
		URL:        result.Input.URL,
		Domain:     result.SourceDomain(),
		Score:      result.OverallCredibilityScore,
		Level:      string(result.CredibilityLevel),
		Confidence: result.ConfidenceScore,
		Warnings:   len(result.WarningFlags),
		AnalyzedAt: result.AnalyzedAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Total++
	switch result.CredibilityLevel {
	case model.LevelHigh:
		s.snapshot.High++
	case model.LevelMedium:
		s.snapshot.Medium++
	default:
		s.snapshot.Low++
	}
	s.snapshot.TotalWarnings += len(result.WarningFlags)
	s.snapshot.TotalBiasIndicators += len(result.BiasIndicators)
	s.scoreSum += result.OverallCredibilityScore
	s.snapshot.AverageScore = s.scoreSum / float64(s.snapshot.Total)

	s.recent = append(s.recent, entry)
	if len(s.recent) > MaxRecent {
		s.recent = s.recent[len(s.recent)-MaxRecent:]
	}

	return entry
}

// Snapshot returns a copy of the counters
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Recent returns up to n summaries, newest first. n <= 0 returns all kept.
func (s *Stats) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.recent) {
		n = len(s.recent)
	}
	out := make([]Entry, 0, n)
	for i := len(s.recent) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.recent[i])
	}
	return out
}

// Recorder feeds completed analyses to the live stats and, when present,
// the persistent store
type Recorder struct {
	stats  *Stats
	store  *Store
	logger *log.Logger
}

// NewRecorder creates a recorder. store may be nil.
func NewRecorder(stats *Stats, store *Store, logger *log.Logger) *Recorder {
	if stats == nil {
		stats = NewStats()
	}
	return &Recorder{stats: stats, store: store, logger: logging.OrDiscard(logger)}
}

// Record adds result to the stats and persists it
func (r *Recorder) Record(ctx context.Context, typ string, result *model.AnalysisResult) error {
	if r == nil || result == nil {
		return nil
	}

	r.stats.Add(typ, result)
	if r.store == nil {
		return nil
	}

	rec, err := NewRecord(typ, result)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, rec); err != nil {
		r.logger.Warn("failed to persist analysis", "id", result.ID, "err", err)
		return err
	}
	return nil
}

// Stats returns the live stats
func (r *Recorder) Stats() *Stats {
	return r.stats
}

// Store returns the persistent store, or nil
func (r *Recorder) Store() *Store {
	return r.store
}
