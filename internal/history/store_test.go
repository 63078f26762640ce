package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ppiankov/newscred/internal/model"
)

func testResult(id string, score float64, level model.CredibilityLevel, at time.Time) *model.AnalysisResult {
	return &model.AnalysisResult{
		ID:                      id,
		Input:                   model.AnalysisInput{URL: "https://www.bbc.com/news/" + id, Title: "Headline " + id},
		OverallCredibilityScore: score,
		CredibilityLevel:        level,
		ConfidenceScore:         0.6,
		SourceCredibility: &model.SourceCredibility{
			Domain:           "bbc.com",
			IsHTTPS:          true,
			CredibilityScore: 0.95,
		},
		ContentSignals: &model.ContentSignals{WordCount: 250},
		BiasIndicators: []string{"Absolute statement: always"},
		CrossReference: &model.CrossReference{
			Outcome:         model.Outcome{Status: model.StatusSuccess},
			ConsensusScore:  model.Float(0.4),
			SourceDiversity: model.Int(3),
		},
		Sentiment: &model.Sentiment{
			Outcome: model.Outcome{Status: model.StatusSuccess},
			Label:   "neutral",
		},
		WarningFlags: []string{"Limited source diversity for verification"},
		AnalyzedAt:   at,
	}
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestNewRecord(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec, err := NewRecord(TypeManual, testResult("a1", 0.7, model.LevelMedium, at))
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}

	if rec.Domain != "bbc.com" {
		t.Errorf("Expected domain bbc.com, got %s", rec.Domain)
	}
	if rec.SourceCredibility != 0.95 {
		t.Errorf("Expected source credibility 0.95, got %.2f", rec.SourceCredibility)
	}
	if rec.Consensus != 0.4 || rec.Diversity != 3 {
		t.Errorf("Expected consensus 0.4 and diversity 3, got %.2f and %d", rec.Consensus, rec.Diversity)
	}
	if rec.WordCount != 250 || rec.Sentiment != "neutral" {
		t.Errorf("Unexpected content fields: %+v", rec)
	}
	if !strings.Contains(rec.ResultJSON, `"credibility_level":"Medium"`) {
		t.Errorf("Expected full result JSON, got %s", rec.ResultJSON)
	}
}

func TestNewRecord_FailedCollaborators(t *testing.T) {
	result := testResult("a2", 0.4, model.LevelLow, time.Now())
	result.CrossReference = &model.CrossReference{Outcome: model.Failed(errors.New("down"))}
	result.Sentiment = nil
	result.SourceCredibility = nil

	rec, err := NewRecord(TypeAPI, result)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if rec.Consensus != 0 || rec.Diversity != 0 || rec.Domain != "" || rec.Sentiment != "" {
		t.Errorf("Expected zero values for absent signals, got %+v", rec)
	}
}

func TestStore_SaveAndRecent(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		rec, err := NewRecord(TypeBatch, testResult(id, 0.5, model.LevelMedium, base.Add(time.Duration(i)*time.Hour)))
		if err != nil {
			t.Fatalf("NewRecord failed: %v", err)
		}
		if err := st.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	recent, err := st.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recent))
	}
	if recent[0].ID != "r3" || recent[1].ID != "r2" {
		t.Errorf("Expected newest first, got %s, %s", recent[0].ID, recent[1].ID)
	}
	if !recent[0].AnalyzedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("Expected timestamp round trip, got %v", recent[0].AnalyzedAt)
	}
	if len(recent[0].BiasIndicators) != 1 {
		t.Errorf("Expected bias indicators round trip, got %v", recent[0].BiasIndicators)
	}

	result, err := st.Result(ctx, "r1")
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if result.Input.Title != "Headline r1" {
		t.Errorf("Expected stored result, got %+v", result.Input)
	}

	if _, err := st.Result(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestStore_DailyReport(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	results := []*model.AnalysisResult{
		testResult("d1", 0.9, model.LevelHigh, day.Add(1*time.Hour)),
		testResult("d2", 0.2, model.LevelVeryLow, day.Add(23*time.Hour)),
		testResult("prev", 0.5, model.LevelMedium, day.Add(-time.Minute)),
		testResult("next", 0.5, model.LevelMedium, day.AddDate(0, 0, 1)),
	}
	for _, r := range results {
		rec, err := NewRecord(TypeMonitor, r)
		if err != nil {
			t.Fatalf("NewRecord failed: %v", err)
		}
		if err := st.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	report, err := st.DailyReport(ctx, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("DailyReport failed: %v", err)
	}
	if report.TotalAnalyses != 2 {
		t.Errorf("Expected 2 analyses for the day, got %d", report.TotalAnalyses)
	}
	if report.Date != "2026-03-01" {
		t.Errorf("Expected date 2026-03-01, got %s", report.Date)
	}
	if report.HighCredibility != 1 || report.LowCredibility != 1 {
		t.Errorf("Expected one high and one low, got %d and %d", report.HighCredibility, report.LowCredibility)
	}
}

func TestStore_SaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	st := NewStore(db)
	mock.ExpectExec("INSERT OR REPLACE INTO analyses").WillReturnError(errors.New("disk full"))

	rec, _ := NewRecord(TypeManual, testResult("e1", 0.5, model.LevelMedium, time.Now()))
	err = st.Save(context.Background(), rec)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected wrapped disk full error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	st := NewStore(db)
	mock.ExpectQuery("SELECT (.+) FROM analyses").WillReturnError(errors.New("locked"))

	if _, err := st.Recent(context.Background(), 10); err == nil {
		t.Error("Expected query error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStore_CorruptTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	st := NewStore(db)
	rows := sqlmock.NewRows([]string{
		"id", "analysis_type", "url", "title", "credibility_score", "credibility_level",
		"confidence_score", "domain", "source_credibility", "warning_count", "bias_count",
		"bias_indicators", "sentiment", "word_count", "consensus_score", "source_diversity",
		"analyzed_at", "result_json",
	}).AddRow("x1", TypeManual, "", "t", 0.5, "Medium", 0.4, "", 0.0, 0, 0, "[]", "", 0, 0.0, 0, "yesterday", "{}")
	mock.ExpectQuery("SELECT (.+) FROM analyses").WillReturnRows(rows)

	_, err = st.Recent(context.Background(), 10)
	if err == nil || !strings.Contains(err.Error(), "parse analyzed_at") {
		t.Errorf("Expected timestamp parse error, got %v", err)
	}
}

func TestStore_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS analyses").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewStore(db).Migrate(context.Background()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
