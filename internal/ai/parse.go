package ai

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"voice-of-kalki/internal/model"
)

// cleanJSONResponse strips Markdown code fences some models wrap around
// JSON output.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// decodeNewsItems parses the raw model output as an article array. An empty
// response decodes as an empty list.
func decodeNewsItems(raw string) ([]model.NewsItem, error) {
	raw = cleanJSONResponse(raw)
	if raw == "" {
		return []model.NewsItem{}, nil
	}
	var items []model.NewsItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding article array: %w", err)
	}
	return items, nil
}

// dedupeByID drops later duplicates. The content service is asked for unique
// IDs but never trusted to deliver them.
func dedupeByID(items []model.NewsItem) []model.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]model.NewsItem, 0, len(items))
	for _, it := range items {
		if it.ID != "" {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}

// fillPlaceholderImages guarantees every item renders with an image. The
// placeholder is seeded by the article ID so the same story keeps the same
// image across a session; items without an ID get an index+time seed.
func fillPlaceholderImages(items []model.NewsItem, now time.Time) {
	for i := range items {
		if strings.TrimSpace(items[i].ImageURL) != "" {
			continue
		}
		seed := items[i].ID
		if seed == "" {
			seed = fmt.Sprintf("%d-%d", i+1, now.Unix())
		}
		items[i].ImageURL = placeholderImageURL(seed)
	}
}

func placeholderImageURL(seed string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(seed) + "/1000/600"
}
