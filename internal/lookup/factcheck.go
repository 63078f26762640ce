package lookup

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/ppiankov/newscred/internal/model"
)

// FactChecker queries the Google Fact Check Tools claims search
type FactChecker struct {
	client   apiClient
	baseURL  string
	apiKey   string
	language string
}

// NewFactChecker creates a fact-check client. An empty apiKey leaves it unconfigured.
func NewFactChecker(baseURL, apiKey, language string, deps Deps) *FactChecker {
	if language == "" {
		language = "en"
	}
	return &FactChecker{
		client:   newAPIClient("factcheck", deps),
		baseURL:  baseURL,
		apiKey:   apiKey,
		language: language,
	}
}

// Check searches published fact checks for query. The response is kept
// verbatim; only the claim count is read.
func (f *FactChecker) Check(ctx context.Context, query string) *model.FactCheck {
	if f == nil || f.apiKey == "" {
		return &model.FactCheck{Outcome: model.Unavailable("Google API key not configured")}
	}

	params := url.Values{
		"query":        {query},
		"languageCode": {f.language},
		"key":          {f.apiKey},
	}

	body, err := f.client.getRaw(ctx, f.baseURL, params, query, f.language)
	if err != nil {
		return &model.FactCheck{Outcome: model.Failed(err)}
	}

	var claims struct {
		Claims []json.RawMessage `json:"claims"`
	}
	// getRaw only returns valid JSON; a payload without a claims array has zero claims
	_ = json.Unmarshal(body, &claims)

	return &model.FactCheck{
		Outcome:    model.Outcome{Status: model.StatusSuccess},
		ClaimCount: len(claims.Claims),
		Payload:    json.RawMessage(body),
	}
}
