package pathway

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/anatolykoptev/go_pathway/internal/engine"
)

// ResourceSource is one external catalog the binder can consult.
// Lookup failures are absorbed by the binder; a source that cannot
// serve a skill returns an empty slice.
type ResourceSource interface {
	Name() string
	Lookup(ctx context.Context, skill string, limit int) ([]Resource, error)
}

// Binder maps skills to ranked learning resources with a deterministic
// fallback set, so callers never see an empty recommendation list.
type Binder struct {
	sources []ResourceSource
}

// NewBinder creates a Binder over the given sources. A nil or empty
// source list is valid; the binder then serves fallbacks only.
func NewBinder(sources ...ResourceSource) *Binder {
	return &Binder{sources: sources}
}

// skillSynonyms is the second-pass lookup table: when the literal skill
// yields nothing, retry with broader related terms.
var skillSynonyms = map[string][]string{
	"python":           {"programming", "coding", "software development"},
	"javascript":       {"web development", "programming"},
	"go":               {"golang", "backend development"},
	"kubernetes":       {"devops", "container orchestration"},
	"docker":           {"devops", "containers"},
	"machine learning": {"data science", "ai"},
	"leadership":       {"management", "team lead"},
	"communication":    {"soft skills", "public speaking"},
	"sql":              {"databases", "data analysis"},
	"react":            {"frontend development", "javascript"},
}

// ResourcesFor returns up to max resources for skill, ordered by rating
// descending with an even share per resource type. Never returns an
// empty slice for a non-blank skill. Raw lookup results are cached per
// skill; selection against max runs on every call.
func (b *Binder) ResourcesFor(ctx context.Context, skill string, max int) []Resource {
	skill = engine.CanonicalSkillKey(skill)
	if skill == "" {
		return nil
	}
	if max <= 0 {
		max = 3
	}

	cacheKey := engine.CacheKey("resources", skill)
	if cached, ok := engine.CacheLoadJSON[[]Resource](ctx, cacheKey); ok && len(cached) > 0 {
		return selectBalanced(cached, max)
	}

	found := b.lookupAll(ctx, skill)
	if len(found) == 0 {
		for _, syn := range skillSynonyms[skill] {
			if found = b.lookupAll(ctx, syn); len(found) > 0 {
				for i := range found {
					found[i].Skill = skill
				}
				break
			}
		}
	}
	if len(found) == 0 {
		found = fallbackResources(skill)
	}

	engine.CacheStoreJSON(ctx, cacheKey, found)
	return selectBalanced(found, max)
}

// lookupAll fans out to every source concurrently and joins the results.
// A failing source contributes nothing and is logged, never propagated.
func (b *Binder) lookupAll(ctx context.Context, skill string) []Resource {
	if len(b.sources) == 0 {
		return nil
	}
	type result struct {
		name string
		res  []Resource
		err  error
	}
	perSource := engine.Cfg.MaxResourcesPerSource
	if perSource <= 0 {
		perSource = 5
	}
	ch := make(chan result, len(b.sources))
	var wg sync.WaitGroup
	for _, src := range b.sources {
		wg.Add(1)
		go func(src ResourceSource) {
			defer wg.Done()
			res, err := src.Lookup(ctx, skill, perSource)
			ch <- result{name: src.Name(), res: res, err: err}
		}(src)
	}
	wg.Wait()
	close(ch)

	var out []Resource
	for r := range ch {
		if r.err != nil {
			slog.Warn("resource lookup failed", slog.String("source", r.name), slog.String("error", r.err.Error()))
			continue
		}
		out = append(out, r.res...)
	}
	for i := range out {
		if out[i].Skill == "" {
			out[i].Skill = skill
		}
	}
	return out
}

// selectBalanced picks up to max resources and returns them ordered by
// rating descending (stable, missing rating sorts as 0). Each resource
// type present gets an even integer share of the selection, drawn from
// that type's highest-rated entries; positions the even split leaves
// open go to the best-rated leftovers regardless of type.
func selectBalanced(in []Resource, max int) []Resource {
	sorted := make([]Resource, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	if len(sorted) <= max {
		return sorted
	}

	byType := make(map[ResourceType][]Resource)
	var typeOrder []ResourceType
	for _, r := range sorted {
		if _, ok := byType[r.Type]; !ok {
			typeOrder = append(typeOrder, r.Type)
		}
		byType[r.Type] = append(byType[r.Type], r)
	}

	share := max / len(typeOrder)
	picked := make([]Resource, 0, max)
	var rest []Resource
	for _, t := range typeOrder {
		bucket := byType[t]
		n := min(share, len(bucket))
		picked = append(picked, bucket[:n]...)
		rest = append(rest, bucket[n:]...)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Rating > rest[j].Rating
	})
	if need := max - len(picked); need > 0 {
		picked = append(picked, rest[:min(need, len(rest))]...)
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Rating > picked[j].Rating
	})
	return picked
}

// fallbackResources builds the three deterministic search-link
// placeholders guaranteeing a non-empty recommendation list.
func fallbackResources(skill string) []Resource {
	q := url.QueryEscape(skill)
	return []Resource{
		{
			Title:     "Courses on " + titleCase(skill),
			URL:       "https://www.coursera.org/search?query=" + q,
			Provider:  "Coursera",
			Type:      TypeCourse,
			PriceType: PriceMixed,
			Skill:     skill,
		},
		{
			Title:     titleCase(skill) + " video tutorials",
			URL:       "https://www.youtube.com/results?search_query=" + q + "+tutorial",
			Provider:  "YouTube",
			Type:      TypeVideo,
			PriceType: PriceFree,
			Skill:     skill,
		},
		{
			Title:     titleCase(skill) + " documentation and guides",
			URL:       "https://duckduckgo.com/?q=" + q + "+documentation",
			Provider:  "Web search",
			Type:      TypeDocumentation,
			PriceType: PriceFree,
			Skill:     skill,
		},
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
