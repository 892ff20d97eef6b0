package sources

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
)

const context7BaseURL = "https://context7.com/api"

// Docs finds official documentation through the Context7 library index.
// Only useful for library and framework skills; for soft skills the
// index finds nothing and the binder falls through to other sources.
type Docs struct{}

// Name implements pathway.ResourceSource.
func (Docs) Name() string { return "docs" }

type c7SearchResponse struct {
	Results []c7Library `json:"results"`
}

type c7Library struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	TotalSnippets  int     `json:"totalSnippets"`
	BenchmarkScore float64 `json:"benchmarkScore"`
	State          string  `json:"state"`
	Stars          int     `json:"stars"`
}

// Lookup implements pathway.ResourceSource.
func (Docs) Lookup(ctx context.Context, skill string, limit int) ([]pathway.Resource, error) {
	engine.IncrDocsRequests()

	params := url.Values{}
	params.Set("query", skill)
	u := context7BaseURL + "/v2/libs/search?" + params.Encode()

	headers := map[string]string{}
	if engine.Cfg.Context7APIKey != "" {
		headers["Authorization"] = "Bearer " + engine.Cfg.Context7APIKey
	}

	var resp c7SearchResponse
	if err := engine.GetJSON(ctx, "context7", u, headers, &resp); err != nil {
		return nil, fmt.Errorf("context7 search: %w", err)
	}

	var out []pathway.Resource
	for _, lib := range resp.Results {
		if lib.ID == "" || lib.State != "finalized" {
			continue
		}
		title := lib.Title + " documentation"
		if desc := engine.CleanHTML(lib.Description); desc != "" {
			title = lib.Title + " documentation: " + engine.TruncateAtWord(desc, 100)
		}
		out = append(out, pathway.Resource{
			Title:     title,
			URL:       "https://context7.com" + lib.ID,
			Provider:  "Context7",
			Type:      pathway.TypeDocumentation,
			PriceType: pathway.PriceFree,
			Rating:    docRating(lib),
			Skill:     skill,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// docRating prefers the index's own benchmark score, falling back to
// snippet volume for unbenchmarked libraries.
func docRating(lib c7Library) float64 {
	if lib.BenchmarkScore > 0 {
		return math.Min(5, lib.BenchmarkScore/20)
	}
	if lib.TotalSnippets <= 0 {
		return 0
	}
	return math.Min(5, math.Log10(float64(lib.TotalSnippets)))
}
