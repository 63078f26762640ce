package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// NewsArticle is one article in a NewsAPI response
type NewsArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// NewsAPIResponse is the /everything response body
type NewsAPIResponse struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     []NewsArticle `json:"articles"`
	Code         string        `json:"code,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// NewsAPI searches newsapi.org
type NewsAPI struct {
	client   apiClient
	baseURL  string
	apiKey   string
	language string
}

// NewNewsAPI creates a NewsAPI client. An empty apiKey leaves it unconfigured.
func NewNewsAPI(baseURL, apiKey, language string, deps Deps) *NewsAPI {
	if language == "" {
		language = "en"
	}
	return &NewsAPI{
		client:   newAPIClient("newsapi", deps),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: language,
	}
}

// Configured reports whether an API key is set
func (n *NewsAPI) Configured() bool {
	return n != nil && n.apiKey != ""
}

// Search returns the newest articles matching query
func (n *NewsAPI) Search(ctx context.Context, query string, pageSize int) (*NewsAPIResponse, error) {
	if !n.Configured() {
		return nil, fmt.Errorf("newsapi: %w", ErrNotConfigured)
	}

	params := url.Values{
		"q":        {query},
		"language": {n.language},
		"pageSize": {strconv.Itoa(pageSize)},
		"sortBy":   {"publishedAt"},
		"apiKey":   {n.apiKey},
	}

	var resp NewsAPIResponse
	if err := n.client.getJSON(ctx, n.baseURL+"/everything", params, &resp, query, n.language, strconv.Itoa(pageSize)); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %q: %s", resp.Status, resp.Message)
	}
	return &resp, nil
}
