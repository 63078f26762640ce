package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/newscred/internal/cache"
	"github.com/ppiankov/newscred/internal/model"
)

const newsBody = `{
  "status": "ok",
  "totalResults": 4,
  "articles": [
    {"source": {"id": "reuters", "name": "Reuters"}, "title": "Water found on Mars", "url": "https://reuters.com/a", "publishedAt": "2026-10-01T10:00:00Z"},
    {"source": {"id": null, "name": "BBC News"}, "title": "Mars has water", "url": "https://bbc.com/b"},
    {"source": {"id": null, "name": "Reuters"}, "title": "Mars water update", "url": "https://reuters.com/c"},
    {"source": {"id": null, "name": ""}, "title": "No source", "url": "https://x.example/d"}
  ]
}`

func testDeps(server *httptest.Server) Deps {
	return Deps{HTTPClient: server.Client(), Cache: cache.NewMemoryCache(time.Minute, time.Minute)}
}

func TestNewsAPI_Search(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/v2/everything" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Mars water" || q.Get("apiKey") != "key" || q.Get("sortBy") != "publishedAt" || q.Get("pageSize") != "10" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(newsBody))
	}))
	defer server.Close()

	api := NewNewsAPI(server.URL+"/v2/", "key", "en", testDeps(server))

	resp, err := api.Search(context.Background(), "Mars water", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(resp.Articles) != 4 {
		t.Errorf("Expected 4 articles, got %d", len(resp.Articles))
	}

	// Second identical call is served from cache
	if _, err := api.Search(context.Background(), "Mars water", 10); err != nil {
		t.Fatalf("Cached search failed: %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("Expected 1 upstream request, got %d", n)
	}
}

func TestNewsAPI_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer server.Close()

	api := NewNewsAPI(server.URL, "bad", "en", testDeps(server))
	_, err := api.Search(context.Background(), "q", 10)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Your API key is invalid" {
		t.Errorf("Unexpected error: %+v", apiErr)
	}
}

func TestNewsAPI_NotConfigured(t *testing.T) {
	api := NewNewsAPI("http://unused", "", "", Deps{})
	if _, err := api.Search(context.Background(), "q", 10); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestCrossReferencer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/everything", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsBody))
	})
	mux.HandleFunc("/customsearch/v1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cx") != "engine" {
			t.Errorf("Missing engine id: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"items": [
			{"title": "Mars result", "link": "https://www.nasa.gov/mars", "snippet": "Water ice"},
			{"title": "2", "link": "https://b.example/2"},
			{"title": "3", "link": "https://c.example/3"},
			{"title": "4", "link": "https://d.example/4"},
			{"title": "5", "link": "https://e.example/5"},
			{"title": "6", "link": "https://f.example/6"}
		]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deps := testDeps(server)
	xref := NewCrossReferencer(
		NewNewsAPI(server.URL+"/v2", "key", "en", deps),
		NewCustomSearch(server.URL+"/customsearch/v1", "key", "engine", deps),
	)

	got := xref.CrossReference(context.Background(), "Mars water", "")

	if got.Status != model.StatusSuccess {
		t.Fatalf("Expected success, got %s: %s", got.Status, got.Message)
	}
	// 3 usable NewsAPI articles + 5 search results
	if len(got.SimilarArticles) != 8 {
		t.Errorf("Expected 8 similar articles, got %d", len(got.SimilarArticles))
	}
	if got.ConsensusScore == nil || *got.ConsensusScore != 0.6 {
		t.Errorf("Expected consensus 0.6, got %v", got.ConsensusScore)
	}
	if got.SourceDiversity == nil || *got.SourceDiversity != 2 {
		t.Errorf("Expected diversity 2, got %v", got.SourceDiversity)
	}
	if got.SimilarArticles[3].Source != "www.nasa.gov" || got.SimilarArticles[3].Snippet != "Water ice" {
		t.Errorf("Unexpected search article: %+v", got.SimilarArticles[3])
	}
}

func TestCrossReferencer_SearchFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/everything", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsBody))
	})
	mux.HandleFunc("/cse", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Quota exceeded"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deps := testDeps(server)
	xref := NewCrossReferencer(
		NewNewsAPI(server.URL+"/v2", "key", "en", deps),
		NewCustomSearch(server.URL+"/cse", "key", "engine", deps),
	)

	got := xref.CrossReference(context.Background(), "Mars water", "")

	if got.Status != model.StatusDegraded {
		t.Fatalf("Expected degraded, got %s", got.Status)
	}
	if !got.Usable() || got.ConsensusScore == nil {
		t.Error("Expected NewsAPI data to survive a search failure")
	}
	if len(got.SimilarArticles) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(got.SimilarArticles))
	}
}

func TestCrossReferencer_Failures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		xref     *CrossReferencer
		headline string
		want     model.OutcomeStatus
	}{
		{"no key", NewCrossReferencer(NewNewsAPI(server.URL, "", "en", Deps{}), nil), "headline", model.StatusUnavailable},
		{"no headline", NewCrossReferencer(NewNewsAPI(server.URL, "key", "en", testDeps(server)), nil), "  ", model.StatusError},
		{"malformed payload", NewCrossReferencer(NewNewsAPI(server.URL, "key", "en", testDeps(server)), nil), "headline", model.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.xref.CrossReference(context.Background(), tt.headline, "")
			if got.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Status)
			}
			if got.ConsensusScore != nil {
				t.Error("Expected no consensus on failure")
			}
		})
	}
}

func TestFactChecker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("languageCode") != "en" {
			t.Errorf("Missing language: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"claims": [{"text": "a"}, {"text": "b"}], "nextPageToken": "x"}`))
	}))
	defer server.Close()

	fc := NewFactChecker(server.URL, "key", "", testDeps(server))
	got := fc.Check(context.Background(), "claim")

	if got.Status != model.StatusSuccess {
		t.Fatalf("Expected success, got %s: %s", got.Status, got.Message)
	}
	if got.ClaimCount != 2 {
		t.Errorf("Expected 2 claims, got %d", got.ClaimCount)
	}
	if string(got.Payload) == "" {
		t.Error("Expected raw payload")
	}
}

func TestFactChecker_Unavailable(t *testing.T) {
	fc := NewFactChecker("http://unused", "", "en", Deps{})
	if got := fc.Check(context.Background(), "claim"); got.Status != model.StatusUnavailable {
		t.Errorf("Expected unavailable, got %s", got.Status)
	}
}

func TestFactChecker_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	fc := NewFactChecker(server.URL, "key", "en", testDeps(server))
	got := fc.Check(context.Background(), "claim")
	if got.Status != model.StatusError || got.Message == "" {
		t.Errorf("Expected error outcome with message, got %+v", got.Outcome)
	}
}
