// Package monitor analyzes the latest headlines of configured RSS feeds,
// once or on a cron schedule.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/newscred/internal/history"
	"github.com/ppiankov/newscred/internal/logging"
	"github.com/ppiankov/newscred/internal/model"
	"github.com/ppiankov/newscred/internal/worker"
)

const (
	defaultItemsPerFeed = 3
	feedFetchWorkers    = 4
	maxSeen             = 10_000
)

// Analyzer analyzes one headline
type Analyzer interface {
	Analyze(ctx context.Context, in model.AnalysisInput) (*model.AnalysisResult, error)
}

// Recorder receives every completed analysis
type Recorder interface {
	Record(ctx context.Context, typ string, result *model.AnalysisResult) error
}

// Headline is one feed entry selected for analysis
type Headline struct {
	Feed      string
	Title     string
	Link      string
	Published time.Time
}

// Cycle summarizes one monitoring pass
type Cycle struct {
	Started  time.Time
	Feeds    int
	Analyzed int
	Skipped  int
	Failed   int
	Results  []*model.AnalysisResult
}

// Monitor polls feeds and analyzes new headlines
type Monitor struct {
	client   *http.Client
	feeds    []model.FeedConfig
	perFeed  int
	analyzer Analyzer
	recorder Recorder
	limiter  *worker.Limiter
	logger   *log.Logger

	mu   sync.Mutex
	seen map[string]bool
}

// New creates a monitor. recorder and limiter may be nil.
func New(cfg model.MonitorConfig, client *http.Client, analyzer Analyzer, recorder Recorder, limiter *worker.Limiter, logger *log.Logger) *Monitor {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	perFeed := cfg.ItemsPerFeed
	if perFeed <= 0 {
		perFeed = defaultItemsPerFeed
	}

	return &Monitor{
		client:   client,
		feeds:    cfg.Feeds,
		perFeed:  perFeed,
		analyzer: analyzer,
		recorder: recorder,
		limiter:  limiter,
		logger:   logging.OrDiscard(logger),
		seen:     make(map[string]bool),
	}
}

// FetchHeadlines returns the newest headlines of feed, at most the per-feed limit
func (m *Monitor) FetchHeadlines(ctx context.Context, feed model.FeedConfig) ([]Headline, error) {
	if err := m.limiter.Wait(ctx, feed.URL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	headlines := make([]Headline, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Title == "" {
			continue
		}
		h := Headline{Feed: feed.Name, Title: item.Title, Link: item.Link}
		if item.PublishedParsed != nil {
			h.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			h.Published = *item.UpdatedParsed
		}
		headlines = append(headlines, h)
	}

	// newest first; undated entries keep feed order behind dated ones
	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].Published.After(headlines[j].Published)
	})
	if len(headlines) > m.perFeed {
		headlines = headlines[:m.perFeed]
	}
	return headlines, nil
}

// RunOnce fetches every feed and analyzes headlines not seen in an earlier cycle
func (m *Monitor) RunOnce(ctx context.Context) Cycle {
	cycle := Cycle{Started: time.Now().UTC(), Feeds: len(m.feeds)}

	perFeed := make([][]Headline, len(m.feeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedFetchWorkers)
	for i, feed := range m.feeds {
		i, feed := i, feed
		g.Go(func() error {
			headlines, err := m.FetchHeadlines(gctx, feed)
			if err != nil {
				m.logger.Warn("feed fetch failed", "feed", feed.Name, "err", err)
				return nil
			}
			perFeed[i] = headlines
			return nil
		})
	}
	_ = g.Wait()

	for _, headlines := range perFeed {
		for _, h := range headlines {
			if ctx.Err() != nil {
				return cycle
			}
			if !m.markSeen(h) {
				cycle.Skipped++
				continue
			}

			result, err := m.analyzer.Analyze(ctx, model.AnalysisInput{URL: h.Link, Title: h.Title})
			if err != nil {
				cycle.Failed++
				m.logger.Warn("headline analysis failed", "feed", h.Feed, "title", logging.Truncate(h.Title, 80), "err", err)
				continue
			}

			cycle.Analyzed++
			cycle.Results = append(cycle.Results, result)
			if m.recorder != nil {
				if err := m.recorder.Record(ctx, history.TypeMonitor, result); err != nil {
					m.logger.Warn("failed to record analysis", "id", result.ID, "err", err)
				}
			}
		}
	}

	m.logger.Info("monitor cycle complete",
		"feeds", cycle.Feeds, "analyzed", cycle.Analyzed, "skipped", cycle.Skipped, "failed", cycle.Failed)
	return cycle
}

// Run executes RunOnce on schedule until ctx is done. onCycle, if set,
// receives every finished cycle.
func (m *Monitor) Run(ctx context.Context, schedule string, onCycle func(Cycle)) error {
	c := cron.New()

	var running sync.Mutex
	_, err := c.AddFunc(schedule, func() {
		// a slow cycle is not overlapped by the next tick
		if !running.TryLock() {
			m.logger.Debug("previous monitor cycle still running, skipping tick")
			return
		}
		defer running.Unlock()

		cycle := m.RunOnce(ctx)
		if onCycle != nil {
			onCycle(cycle)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	m.logger.Info("monitoring started", "feeds", len(m.feeds), "schedule", schedule)
	c.Start()
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	m.logger.Info("monitoring stopped")
	return nil
}

// markSeen reports whether h is new, remembering it
func (m *Monitor) markSeen(h Headline) bool {
	key := h.Link
	if key == "" {
		key = h.Feed + "\x00" + h.Title
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen[key] {
		return false
	}
	if len(m.seen) >= maxSeen {
		m.seen = make(map[string]bool)
	}
	m.seen[key] = true
	return true
}
