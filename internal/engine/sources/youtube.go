package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
)

const ytDataAPIBase = "https://www.googleapis.com/youtube/v3"

// ytInitialDataMarker precedes the embedded results JSON on the search page.
const ytInitialDataMarker = "var ytInitialData = "

// YouTube finds tutorial videos for a skill. Uses the Data API when a
// key is configured, otherwise parses the public search page.
type YouTube struct{}

// Name implements pathway.ResourceSource.
func (YouTube) Name() string { return "youtube" }

// Lookup implements pathway.ResourceSource.
func (YouTube) Lookup(ctx context.Context, skill string, limit int) ([]pathway.Resource, error) {
	engine.IncrYouTubeRequests()
	query := skill + " tutorial"

	if engine.Cfg.YouTubeAPIKey != "" {
		res, err := dataAPISearch(ctx, query, skill, limit)
		if err == nil {
			return res, nil
		}
		// Key exhausted or rejected: the scrape path still works.
	}
	return scrapeSearch(ctx, query, skill, limit)
}

type ytDataSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

func dataAPISearch(ctx context.Context, query, skill string, limit int) ([]pathway.Resource, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("key", engine.Cfg.YouTubeAPIKey)

	var resp ytDataSearchResp
	u := ytDataAPIBase + "/search?" + params.Encode()
	if err := engine.GetJSON(ctx, "youtube", u, nil, &resp); err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}

	var out []pathway.Resource
	for i, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		out = append(out, videoResource(item.ID.VideoID, item.Snippet.Title, item.Snippet.ChannelTitle, skill, i))
	}
	return out, nil
}

// scrapeSearch parses video entries out of the ytInitialData blob
// embedded in the search results page.
func scrapeSearch(ctx context.Context, query, skill string, limit int) ([]pathway.Resource, error) {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	body, err := engine.GetBody(ctx, "youtube", searchURL, map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}

	idx := strings.Index(string(body), ytInitialDataMarker)
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialData not found in search response")
	}
	data := extractJSONObject(body[idx+len(ytInitialDataMarker):])
	if data == nil {
		return nil, fmt.Errorf("malformed ytInitialData JSON")
	}

	var out []pathway.Resource
	for i, v := range videosFromInitialData(data, limit) {
		out = append(out, videoResource(v.id, v.title, v.channel, skill, i))
	}
	return out, nil
}

func videoResource(id, title, channel, skill string, position int) pathway.Resource {
	provider := "YouTube"
	if channel != "" {
		provider = "YouTube / " + channel
	}
	return pathway.Resource{
		Title:     title,
		URL:       "https://www.youtube.com/watch?v=" + id,
		Provider:  provider,
		Type:      pathway.TypeVideo,
		PriceType: pathway.PriceFree,
		Rating:    positionRating(position),
		Skill:     skill,
	}
}

// extractJSONObject returns the complete JSON object starting at
// b[0] == '{' by tracking brace depth outside string literals.
func extractJSONObject(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i, c := range b {
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
	}
	return nil
}

type ytVideo struct {
	id      string
	title   string
	channel string
}

// initialData mirrors only the parts of ytInitialData the parser needs.
type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer struct {
									VideoID string `json:"videoId"`
									Title   struct {
										Runs []struct {
											Text string `json:"text"`
										} `json:"runs"`
									} `json:"title"`
									OwnerText struct {
										Runs []struct {
											Text string `json:"text"`
										} `json:"runs"`
									} `json:"ownerText"`
								} `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

func videosFromInitialData(data []byte, limit int) []ytVideo {
	var parsed initialData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil
	}

	var out []ytVideo
	sections := parsed.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			vr := item.VideoRenderer
			if vr.VideoID == "" || len(vr.Title.Runs) == 0 {
				continue
			}
			v := ytVideo{id: vr.VideoID, title: vr.Title.Runs[0].Text}
			if len(vr.OwnerText.Runs) > 0 {
				v.channel = vr.OwnerText.Runs[0].Text
			}
			out = append(out, v)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}
