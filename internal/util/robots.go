package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// RobotsChecker checks robots.txt compliance, caching one policy per site
type RobotsChecker struct {
	mu         sync.RWMutex
	policies   map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
	agent      string
}

// NewRobotsChecker creates a checker. client may be nil.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		policies:   make(map[string]*robotstxt.RobotsData),
		httpClient: client,
		userAgent:  userAgent,
		agent:      NormalizeUserAgent(userAgent),
	}
}

// Check returns ErrDisallowed when rawURL may not be fetched, along with the
// site's crawl delay. An unreachable robots.txt allows the fetch.
func (r *RobotsChecker) Check(ctx context.Context, rawURL string) (time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return 0, fmt.Errorf("URL has no host: %q", rawURL)
	}

	site := parsed.Scheme + "://" + strings.ToLower(parsed.Host)
	policy, err := r.policy(ctx, site)
	if err != nil {
		return 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	group := policy.FindGroup(r.agent)
	if group == nil {
		return 0, nil
	}
	if !group.Test(path) {
		return group.CrawlDelay, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
	}
	return group.CrawlDelay, nil
}

func (r *RobotsChecker) policy(ctx context.Context, site string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.policies[site]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, site+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.policies[site] = data
	r.mu.Unlock()

	return data, nil
}

// NormalizeUserAgent returns the product token used for robots.txt matching,
// e.g. "NewsCred/0.1 (+https://...)" -> "NewsCred"
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
