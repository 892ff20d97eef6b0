package sources

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
)

const githubAPIBase = "https://api.github.com"

// GitHub finds well-starred repositories to learn a skill from.
type GitHub struct{}

// Name implements pathway.ResourceSource.
func (GitHub) Name() string { return "github" }

type ghSearchResponse struct {
	Items []struct {
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		HTMLURL     string `json:"html_url"`
		Stars       int    `json:"stargazers_count"`
		Archived    bool   `json:"archived"`
	} `json:"items"`
}

// Lookup searches GitHub repositories matching the skill, most starred
// first. Unauthenticated works but is heavily rate limited; set
// GITHUB_TOKEN for real use.
func (GitHub) Lookup(ctx context.Context, skill string, limit int) ([]pathway.Resource, error) {
	engine.IncrGithubRequests()

	params := url.Values{}
	params.Set("q", skill+" in:name,description,topics")
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", fmt.Sprintf("%d", limit))

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if engine.Cfg.GithubToken != "" {
		headers["Authorization"] = "Bearer " + engine.Cfg.GithubToken
	}

	var resp ghSearchResponse
	u := githubAPIBase + "/search/repositories?" + params.Encode()
	if err := engine.GetJSON(ctx, "github", u, headers, &resp); err != nil {
		return nil, fmt.Errorf("github search: %w", err)
	}

	var out []pathway.Resource
	for _, item := range resp.Items {
		if item.Archived || item.HTMLURL == "" {
			continue
		}
		title := item.FullName
		if item.Description != "" {
			title = item.FullName + ": " + engine.TruncateAtWord(item.Description, 120)
		}
		out = append(out, pathway.Resource{
			Title:     title,
			URL:       item.HTMLURL,
			Provider:  "GitHub",
			Type:      pathway.TypeRepository,
			PriceType: pathway.PriceFree,
			Rating:    starsRating(item.Stars),
			Skill:     skill,
		})
	}
	return out, nil
}

// starsRating maps a star count to a 0-5 scale: 1 star ~ 0, 100k+ ~ 5.
func starsRating(stars int) float64 {
	if stars <= 0 {
		return 0
	}
	return math.Min(5, math.Log10(float64(stars)))
}
