// Package lookup implements the external search and fact-check collaborators.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/newscred/internal/cache"
	"github.com/ppiankov/newscred/internal/worker"
)

// ErrNotConfigured is returned by a client that has no credentials
var ErrNotConfigured = errors.New("not configured")

const (
	defaultCacheTTL = time.Hour
	maxResponseSize = 4 << 20
)

// APIError is a non-2xx response from a collaborator API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Service, e.StatusCode)
}

// Deps are the shared HTTP dependencies of every collaborator client
type Deps struct {
	HTTPClient *http.Client
	Limiter    *worker.Limiter
	Cache      cache.Cache
	CacheTTL   time.Duration
	UserAgent  string
}

// apiClient performs rate-limited, cached GET requests returning JSON
type apiClient struct {
	service string
	deps    Deps
}

func newAPIClient(service string, deps Deps) apiClient {
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = defaultCacheTTL
	}
	return apiClient{service: service, deps: deps}
}

// getRaw fetches endpoint?params and returns the body. cacheParts identify
// the request in the cache and must not include credentials.
func (c apiClient) getRaw(ctx context.Context, endpoint string, params url.Values, cacheParts ...string) ([]byte, error) {
	key := cache.Key(c.service, cacheParts...)
	if body, ok := c.deps.Cache.Get(key); ok {
		return body, nil
	}

	if err := c.deps.Limiter.Wait(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("%s: rate limit: %w", c.service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.deps.UserAgent != "" {
		req.Header.Set("User-Agent", c.deps.UserAgent)
	}

	resp, err := c.deps.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", c.service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Service: c.service, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: response is not valid JSON", c.service)
	}

	_ = c.deps.Cache.Set(key, body, c.deps.CacheTTL)
	return body, nil
}

func (c apiClient) getJSON(ctx context.Context, endpoint string, params url.Values, out any, cacheParts ...string) error {
	body, err := c.getRaw(ctx, endpoint, params, cacheParts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}

// errorMessage pulls a message out of the error body shapes used by
// NewsAPI ({"message": ...}) and Google APIs ({"error": {"message": ...}})
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error.Message
}
