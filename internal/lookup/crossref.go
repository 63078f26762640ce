package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/newscred/internal/model"
)

const (
	newsPageSize       = 10
	searchResultLimit  = 5
	consensusSaturates = 5.0
)

// CrossReferencer looks for the same story in other outlets
type CrossReferencer struct {
	news   *NewsAPI
	search *CustomSearch
}

// NewCrossReferencer combines NewsAPI with optional Custom Search enrichment
func NewCrossReferencer(news *NewsAPI, search *CustomSearch) *CrossReferencer {
	return &CrossReferencer{news: news, search: search}
}

// CrossReference searches for headline across sources. Consensus is the
// number of matching NewsAPI articles over 5, capped at 1; diversity is the
// number of distinct outlets. Custom Search results are appended without
// affecting consensus.
func (c *CrossReferencer) CrossReference(ctx context.Context, headline, content string) *model.CrossReference {
	query := strings.TrimSpace(headline)
	if query == "" {
		return &model.CrossReference{Outcome: model.Failed(fmt.Errorf("cross-reference needs a headline"))}
	}
	if !c.news.Configured() {
		return &model.CrossReference{Outcome: model.Unavailable("NewsAPI key not configured")}
	}

	resp, err := c.news.Search(ctx, query, newsPageSize)
	if err != nil {
		return &model.CrossReference{Outcome: model.Failed(fmt.Errorf("cross-reference failed: %w", err))}
	}

	result := &model.CrossReference{
		Outcome:         model.Outcome{Status: model.StatusSuccess},
		SimilarArticles: []model.SimilarArticle{},
	}

	sources := make(map[string]bool)
	similar := 0
	for _, a := range resp.Articles {
		if similar == newsPageSize {
			break
		}
		if a.Title == "" || a.Source.Name == "" {
			continue
		}
		sources[a.Source.Name] = true
		similar++
		result.SimilarArticles = append(result.SimilarArticles, model.SimilarArticle{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}

	result.ConsensusScore = model.Float(min(float64(similar)/consensusSaturates, 1.0))
	result.SourceDiversity = model.Int(len(sources))

	if !c.search.Configured() {
		return result
	}

	items, err := c.search.Search(ctx, query, maxSearchResults)
	if err != nil {
		result.Status = model.StatusDegraded
		result.Message = fmt.Sprintf("custom search failed: %v", err)
		return result
	}
	for i, item := range items {
		if i == searchResultLimit {
			break
		}
		result.SimilarArticles = append(result.SimilarArticles, model.SimilarArticle{
			Title:   item.Title,
			Source:  hostOf(item.Link),
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}

	return result
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
