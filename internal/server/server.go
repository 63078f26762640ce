// Package server exposes the analyzer and its history over HTTP
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ppiankov/newscred/internal/history"
	"github.com/ppiankov/newscred/internal/logging"
	"github.com/ppiankov/newscred/internal/model"
	"github.com/ppiankov/newscred/internal/pipeline"
)

const (
	maxRequestBytes    = 1 << 20
	defaultRecentLimit = 20
	reportDateLayout   = "20060102"
	shutdownTimeout    = 10 * time.Second
)

// Analyzer analyzes a request, fetching the article when only a URL is given
type Analyzer interface {
	AnalyzeInput(ctx context.Context, in model.AnalysisInput) (*model.AnalysisResult, error)
}

// Options tune the server
type Options struct {
	// AnalyzeTimeout bounds a single analyze request; zero means no bound
	AnalyzeTimeout time.Duration
}

// Server is the HTTP API
type Server struct {
	router   *chi.Mux
	analyzer Analyzer
	recorder *history.Recorder
	logger   *log.Logger
	opts     Options
}

// New creates the server. recorder may be nil, which disables the history endpoints.
func New(analyzer Analyzer, recorder *history.Recorder, logger *log.Logger, opts Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		analyzer: analyzer,
		recorder: recorder,
		logger:   logging.OrDiscard(logger),
		opts:     opts,
	}

	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/stats", s.handleStats)
		r.Get("/recent", s.handleRecent)
		r.Get("/reports/{date}", s.handleReport)
		r.Get("/reports/{date}/export", s.handleExport)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
	})
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var in model.AnalysisInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" && strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Content) == "" {
		respondError(w, http.StatusBadRequest, "url, title or content is required")
		return
	}

	ctx := r.Context()
	if s.opts.AnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.AnalyzeTimeout)
		defer cancel()
	}

	result, err := s.analyzer.AnalyzeInput(ctx, in)
	switch {
	case errors.Is(err, pipeline.ErrNoInput):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		// only the article fetch can fail this way; collaborators degrade instead
		respondError(w, http.StatusGatewayTimeout, "article fetch timed out")
		return
	case err != nil:
		s.logger.Warn("analysis failed", "url", in.URL, "err", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := s.recorder.Record(context.WithoutCancel(ctx), history.TypeAPI, result); err != nil {
		s.logger.Warn("failed to record analysis", "id", result.ID, "err", err)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		respondError(w, http.StatusServiceUnavailable, "statistics are disabled")
		return
	}
	respondJSON(w, http.StatusOK, s.recorder.Stats().Snapshot())
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		respondError(w, http.StatusServiceUnavailable, "statistics are disabled")
		return
	}

	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, history.MaxRecent)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"analyses": s.recorder.Stats().Recent(limit),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	store, day, ok := s.reportRequest(w, r)
	if !ok {
		return
	}

	report, err := store.DailyReport(r.Context(), day)
	if err != nil {
		s.logger.Error("daily report failed", "date", day.Format(reportDateLayout), "err", err)
		respondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	store, day, ok := s.reportRequest(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = history.FormatCSV
	}
	if format != history.FormatCSV && format != history.FormatJSON {
		respondError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}

	records, err := store.Between(r.Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("export failed", "date", day.Format(reportDateLayout), "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load analyses")
		return
	}

	contentType := "text/csv"
	if format == history.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="analyses_%s.%s"`, day.Format(reportDateLayout), format))
	if err := history.Export(w, format, records); err != nil {
		s.logger.Warn("export write failed", "err", err)
	}
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	store := s.store()
	if store == nil {
		respondError(w, http.StatusServiceUnavailable, "history is disabled")
		return
	}

	result, err := store.Result(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// reportRequest resolves the store and the {date} parameter, writing the
// error response itself when either is missing
func (s *Server) reportRequest(w http.ResponseWriter, r *http.Request) (*history.Store, time.Time, bool) {
	store := s.store()
	if store == nil {
		respondError(w, http.StatusServiceUnavailable, "history is disabled")
		return nil, time.Time{}, false
	}

	day, err := time.ParseInLocation(reportDateLayout, chi.URLParam(r, "date"), time.UTC)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYYMMDD")
		return nil, time.Time{}, false
	}
	return store, day, true
}

func (s *Server) store() *history.Store {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Store()
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
