package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/newscred/internal/extract"
	"github.com/ppiankov/newscred/internal/model"
	"github.com/ppiankov/newscred/internal/util"
	"github.com/ppiankov/newscred/internal/worker"
)

const (
	maxFetchAttempts = 3
	maxRedirects     = 3
)

// fetchSleepFunc is swapped out by tests
var fetchSleepFunc = time.Sleep

// Fetcher downloads article pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// NewFetcher creates a Fetcher. Empty proxy settings fall back to the environment.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	client := util.NewHTTPClient(model.HTTPConfig{
		Timeout:     timeout,
		InsecureTLS: insecureTLS,
		HTTPProxy:   httpProxy,
		HTTPSProxy:  httpsProxy,
		NoProxy:     noProxy,
	})
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}

	return &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// NewFetcherFromConfig creates a Fetcher from the http section, honoring
// robots.txt when configured
func NewFetcherFromConfig(cfg model.HTTPConfig, limiter *worker.Limiter) *Fetcher {
	f := NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.InsecureTLS, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	f.limiter = limiter
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(f.httpClient, cfg.UserAgent)
	}
	return f
}

// FetchResult is a downloaded page
type FetchResult struct {
	HTML        string
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves the HTML at rawURL in a single attempt
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		delay, err := f.robots.Check(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if delay > 0 && f.limiter != nil {
			if parsed, err := url.Parse(rawURL); err == nil {
				f.limiter.SetHostRate(parsed.Hostname(), 1/delay.Seconds(), 1)
			}
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures (5xx, 429, network errors)
// with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == maxFetchAttempts || ctx.Err() != nil {
			break
		}
		fetchSleepFunc(backoff)
		backoff *= 2
	}

	return nil, lastErr
}

// FetchArticle downloads rawURL and extracts its headline and body
func (f *Fetcher) FetchArticle(ctx context.Context, rawURL string) (model.AnalysisInput, error) {
	page, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return model.AnalysisInput{}, err
	}

	pageURL, err := url.Parse(page.FinalURL)
	if err != nil {
		return model.AnalysisInput{}, fmt.Errorf("parse final URL: %w", err)
	}

	article, err := extract.ExtractArticle(page.HTML, pageURL)
	if err != nil {
		return model.AnalysisInput{}, fmt.Errorf("extract article: %w", err)
	}

	return model.AnalysisInput{
		URL:     rawURL,
		Title:   article.Title,
		Content: article.Content,
	}, nil
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()
	if strings.HasPrefix(msg, "fetch: ") {
		return true
	}
	if strings.HasPrefix(msg, "unexpected status: ") {
		status := strings.TrimPrefix(msg, "unexpected status: ")
		return strings.HasPrefix(status, "5") || strings.HasPrefix(status, "429")
	}
	return false
}
