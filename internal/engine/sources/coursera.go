package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
)

const defaultCourseraBase = "https://api.coursera.org/api"

// Coursera finds structured courses for a skill via the public catalog.
type Coursera struct{}

// Name implements pathway.ResourceSource.
func (Coursera) Name() string { return "coursera" }

type courseraCatalogResponse struct {
	Elements []struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
		Name string `json:"name"`
	} `json:"elements"`
}

// Lookup searches the course catalog for the skill. The catalog has no
// public rating field, so earlier search positions rank higher.
func (Coursera) Lookup(ctx context.Context, skill string, limit int) ([]pathway.Resource, error) {
	engine.IncrCourseraRequests()

	base := engine.Cfg.CourseraAPIBase
	if base == "" {
		base = defaultCourseraBase
	}
	params := url.Values{}
	params.Set("q", "search")
	params.Set("query", skill)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp courseraCatalogResponse
	u := strings.TrimRight(base, "/") + "/courses.v1?" + params.Encode()
	if err := engine.GetJSON(ctx, "coursera", u, nil, &resp); err != nil {
		return nil, fmt.Errorf("coursera catalog: %w", err)
	}

	var out []pathway.Resource
	for i, el := range resp.Elements {
		if el.Slug == "" || el.Name == "" {
			continue
		}
		out = append(out, pathway.Resource{
			Title:     el.Name,
			URL:       "https://www.coursera.org/learn/" + el.Slug,
			Provider:  "Coursera",
			Type:      pathway.TypeCourse,
			PriceType: pathway.PriceMixed,
			Rating:    positionRating(i),
			Skill:     skill,
		})
	}
	return out, nil
}

// positionRating converts a search position to a descending 0-5 score,
// preserving relevance order through the rating sort.
func positionRating(i int) float64 {
	r := 4.5 - 0.3*float64(i)
	if r < 0 {
		return 0
	}
	return r
}
