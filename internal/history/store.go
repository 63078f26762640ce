// Package history persists completed analyses and summarizes them.
// It only ever reads finished AnalysisResult values.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/newscred/internal/model"
)

// Analysis types recorded alongside each result
const (
	TypeManual  = "manual"
	TypeBatch   = "batch"
	TypeMonitor = "monitor"
	TypeAPI     = "api"
)

// timeLayout sorts lexicographically, so range queries work on the TEXT column
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Record is one persisted analysis
type Record struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	URL               string    `json:"url,omitempty"`
	Title             string    `json:"title,omitempty"`
	Score             float64   `json:"credibility_score"`
	Level             string    `json:"credibility_level"`
	Confidence        float64   `json:"confidence_score"`
	Domain            string    `json:"domain,omitempty"`
	SourceCredibility float64   `json:"source_credibility"`
	WarningCount      int       `json:"warning_count"`
	BiasCount         int       `json:"bias_count"`
	BiasIndicators    []string  `json:"bias_indicators"`
	Sentiment         string    `json:"sentiment,omitempty"`
	WordCount         int       `json:"word_count"`
	Consensus         float64   `json:"consensus_score"`
	Diversity         int       `json:"source_diversity"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
	ResultJSON        string    `json:"-"`
}

// NewRecord flattens result into a Record of the given analysis type
func NewRecord(typ string, result *model.AnalysisResult) (Record, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return Record{}, fmt.Errorf("marshal result: %w", err)
	}

	rec := Record{
		ID:             result.ID,
		Type:           typ,
		URL:            result.Input.URL,
		Title:          result.Input.Title,
		Score:          result.OverallCredibilityScore,
		Level:          string(result.CredibilityLevel),
		Confidence:     result.ConfidenceScore,
		Domain:         result.SourceDomain(),
		WarningCount:   len(result.WarningFlags),
		BiasCount:      len(result.BiasIndicators),
		BiasIndicators: result.BiasIndicators,
		AnalyzedAt:     result.AnalyzedAt.UTC(),
		ResultJSON:     string(data),
	}
	if rec.BiasIndicators == nil {
		rec.BiasIndicators = []string{}
	}
	if src := result.SourceCredibility; src != nil {
		rec.SourceCredibility = src.CredibilityScore
	}
	if s := result.Sentiment; s != nil && s.Usable() {
		rec.Sentiment = s.Label
	}
	if c := result.ContentSignals; c != nil {
		rec.WordCount = c.WordCount
	}
	if x := result.CrossReference; x != nil && x.Usable() {
		if x.ConsensusScore != nil {
			rec.Consensus = *x.ConsensusScore
		}
		if x.SourceDiversity != nil {
			rec.Diversity = *x.SourceDiversity
		}
	}
	return rec, nil
}

// Store is the SQLite analysis log. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at dbPath and ensures the schema.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every connection to :memory: would otherwise see its own database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := NewStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// NewStore wraps an open database without touching the schema
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the analyses table and its indexes if missing
func (s *Store) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		analysis_type TEXT NOT NULL,
		url TEXT,
		title TEXT,
		credibility_score REAL NOT NULL,
		credibility_level TEXT NOT NULL,
		confidence_score REAL NOT NULL,
		domain TEXT,
		source_credibility REAL,
		warning_count INTEGER DEFAULT 0,
		bias_count INTEGER DEFAULT 0,
		bias_indicators TEXT,
		sentiment TEXT,
		word_count INTEGER DEFAULT 0,
		consensus_score REAL,
		source_diversity INTEGER DEFAULT 0,
		analyzed_at TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_analyzed ON analyses(analyzed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_analyses_domain ON analyses(domain);
	`

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save appends rec. Saving the same ID twice replaces the earlier row.
func (s *Store) Save(ctx context.Context, rec Record) error {
	indicators, err := json.Marshal(rec.BiasIndicators)
	if err != nil {
		return fmt.Errorf("marshal bias indicators: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses (
			id, analysis_type, url, title, credibility_score, credibility_level,
			confidence_score, domain, source_credibility, warning_count, bias_count,
			bias_indicators, sentiment, word_count, consensus_score, source_diversity,
			analyzed_at, result_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Type, rec.URL, rec.Title, rec.Score, rec.Level,
		rec.Confidence, rec.Domain, rec.SourceCredibility, rec.WarningCount, rec.BiasCount,
		string(indicators), rec.Sentiment, rec.WordCount, rec.Consensus, rec.Diversity,
		rec.AnalyzedAt.UTC().Format(timeLayout), rec.ResultJSON,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, analysis_type, url, title, credibility_score, credibility_level,
		confidence_score, domain, source_credibility, warning_count, bias_count,
		bias_indicators, sentiment, word_count, consensus_score, source_diversity,
		analyzed_at, result_json
	FROM analyses`

// Recent returns up to limit analyses, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	return scanRecords(rows)
}

// Between returns analyses in [from, to), oldest first
func (s *Store) Between(ctx context.Context, from, to time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE analyzed_at >= ? AND analyzed_at < ? ORDER BY analyzed_at ASC`,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	return scanRecords(rows)
}

// Result returns the full stored AnalysisResult for id, or sql.ErrNoRows
func (s *Store) Result(ctx context.Context, id string) (*model.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	if err := s.db.QueryRowContext(ctx, `SELECT result_json FROM analyses WHERE id = ?`, id).Scan(&data); err != nil {
		return nil, err
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// DailyReport summarizes the analyses of the UTC calendar day containing day
func (s *Store) DailyReport(ctx context.Context, day time.Time) (*DailyReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	records, err := s.Between(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return BuildReport(start, records), nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec                           Record
			url, title, domain, sentiment sql.NullString
			indicators                    sql.NullString
			sourceCred, consensus         sql.NullFloat64
			analyzedAt                    string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Type, &url, &title, &rec.Score, &rec.Level,
			&rec.Confidence, &domain, &sourceCred, &rec.WarningCount, &rec.BiasCount,
			&indicators, &sentiment, &rec.WordCount, &consensus, &rec.Diversity,
			&analyzedAt, &rec.ResultJSON,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}

		rec.URL = url.String
		rec.Title = title.String
		rec.Domain = domain.String
		rec.Sentiment = sentiment.String
		rec.SourceCredibility = sourceCred.Float64
		rec.Consensus = consensus.Float64

		rec.BiasIndicators = []string{}
		if indicators.Valid && indicators.String != "" {
			if err := json.Unmarshal([]byte(indicators.String), &rec.BiasIndicators); err != nil {
				return nil, fmt.Errorf("decode bias indicators of %s: %w", rec.ID, err)
			}
		}

		t, err := time.Parse(timeLayout, analyzedAt)
		if err != nil {
			return nil, fmt.Errorf("parse analyzed_at of %s: %w", rec.ID, err)
		}
		rec.AnalyzedAt = t

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return records, nil
}
