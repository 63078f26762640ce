package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// maxSearchResults is the Custom Search per-request maximum
const maxSearchResults = 10

// SearchItem is one Custom Search result
type SearchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
	Snippet     string `json:"snippet"`
}

// CustomSearch queries the Google Custom Search JSON API
type CustomSearch struct {
	client   apiClient
	baseURL  string
	apiKey   string
	engineID string
}

// NewCustomSearch creates a Custom Search client. Both apiKey and engineID are required.
func NewCustomSearch(baseURL, apiKey, engineID string, deps Deps) *CustomSearch {
	return &CustomSearch{
		client:   newAPIClient("customsearch", deps),
		baseURL:  baseURL,
		apiKey:   apiKey,
		engineID: engineID,
	}
}

// Configured reports whether credentials are set
func (s *CustomSearch) Configured() bool {
	return s != nil && s.apiKey != "" && s.engineID != ""
}

// Search returns up to num results for query
func (s *CustomSearch) Search(ctx context.Context, query string, num int) ([]SearchItem, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("customsearch: %w", ErrNotConfigured)
	}
	num = min(max(num, 1), maxSearchResults)

	params := url.Values{
		"key": {s.apiKey},
		"cx":  {s.engineID},
		"q":   {query},
		"num": {strconv.Itoa(num)},
	}

	var resp struct {
		Items []SearchItem `json:"items"`
	}
	if err := s.client.getJSON(ctx, s.baseURL, params, &resp, s.engineID, query, strconv.Itoa(num)); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
